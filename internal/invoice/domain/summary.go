package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/smallbiznis/clinicbill/internal/money"
)

const summaryMonthLayout = "2006-01"

// SummaryRequest narrows the documents counted in a Summary. From is inclusive, To exclusive,
// both compared against the invoice date.
type SummaryRequest struct {
	Status string
	From   *time.Time
	To     *time.Time
}

// SummaryRow aggregates the documents of one status issued in one month.
type SummaryRow struct {
	Month         string      `json:"month"`
	Status        Status      `json:"status"`
	DocumentCount int64       `json:"document_count"`
	TotalAmount   money.Money `json:"total_amount"`
	TotalPaid     money.Money `json:"total_paid"`
	Outstanding   money.Money `json:"outstanding"`
}

// SummaryTotals are the headline figures. Invoiced, paid and outstanding only count
// issued invoices (Finalized and Paid); drafts, quotations and voids carry no receivable.
type SummaryTotals struct {
	DocumentCount  int64       `json:"document_count"`
	QuotationCount int64       `json:"quotation_count"`
	TotalInvoiced  money.Money `json:"total_invoiced"`
	TotalPaid      money.Money `json:"total_paid"`
	Outstanding    money.Money `json:"outstanding"`
}

type Summary struct {
	Rows   []SummaryRow  `json:"rows"`
	Totals SummaryTotals `json:"totals"`
}

func isReceivable(status Status) bool {
	return status == StatusFinalized || status == StatusPaid
}

// Summarize groups snapshots by invoice month and status. Rows come newest month first,
// statuses in lifecycle order. Every figure is derived from the snapshot; nothing is read
// from stored totals.
func Summarize(snaps []Snapshot) (Summary, error) {
	type key struct {
		month  string
		status Status
	}

	rows := make(map[key]*SummaryRow)
	var totals SummaryTotals
	for _, snap := range snaps {
		k := key{month: snap.InvoiceDate.UTC().Format(summaryMonthLayout), status: snap.Status}
		row, ok := rows[k]
		if !ok {
			row = &SummaryRow{Month: k.month, Status: k.status}
			rows[k] = row
		}

		var err error
		row.DocumentCount++
		if row.TotalAmount, err = row.TotalAmount.CheckedAdd(snap.Total); err != nil {
			return Summary{}, fmt.Errorf("summary %s %s: %w", k.month, k.status, err)
		}

		totals.DocumentCount++
		if snap.Status == StatusQuotation {
			totals.QuotationCount++
		}
		if !isReceivable(snap.Status) {
			continue
		}

		// Change handed back over the counter is not revenue, so paid is capped at the total.
		paid := snap.Total.Sub(snap.BalanceDue)
		if row.TotalPaid, err = row.TotalPaid.CheckedAdd(paid); err != nil {
			return Summary{}, fmt.Errorf("summary %s %s: %w", k.month, k.status, err)
		}
		if row.Outstanding, err = row.Outstanding.CheckedAdd(snap.BalanceDue); err != nil {
			return Summary{}, fmt.Errorf("summary %s %s: %w", k.month, k.status, err)
		}
		if totals.TotalInvoiced, err = totals.TotalInvoiced.CheckedAdd(snap.Total); err != nil {
			return Summary{}, fmt.Errorf("summary totals: %w", err)
		}
		if totals.TotalPaid, err = totals.TotalPaid.CheckedAdd(paid); err != nil {
			return Summary{}, fmt.Errorf("summary totals: %w", err)
		}
		if totals.Outstanding, err = totals.Outstanding.CheckedAdd(snap.BalanceDue); err != nil {
			return Summary{}, fmt.Errorf("summary totals: %w", err)
		}
	}

	out := make([]SummaryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return statusRank(out[i].Status) < statusRank(out[j].Status)
	})

	return Summary{Rows: out, Totals: totals}, nil
}

// InWindow reports whether snap's invoice date falls inside the request's date window.
func (r SummaryRequest) InWindow(snap Snapshot) bool {
	if r.From != nil && snap.InvoiceDate.Before(*r.From) {
		return false
	}
	if r.To != nil && !snap.InvoiceDate.Before(*r.To) {
		return false
	}
	return true
}

func statusRank(s Status) int {
	for i, known := range statuses {
		if known == s {
			return i
		}
	}
	return len(statuses)
}
