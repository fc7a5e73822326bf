package domain

import (
	"time"

	"github.com/smallbiznis/clinicbill/internal/money"
)

// Snapshot is the read-only projection handed to renderers. The screen view and the
// PDF exporter both consume it, so neither recomputes totals or change on its own.
type Snapshot struct {
	ID             string         `json:"id"`
	Status         Status         `json:"status"`
	IsQuotation    bool           `json:"is_quotation"`
	InvoiceNumber  string         `json:"invoice_number"`
	Items          []SnapshotItem `json:"items"`
	Subtotal       money.Money    `json:"subtotal"`
	Total          money.Money    `json:"total"`
	PaymentMethod  PaymentMethod  `json:"payment_method"`
	AmountPaid     *money.Money   `json:"amount_paid"`
	ChangeDue      money.Money    `json:"change_due"`
	BalanceDue     money.Money    `json:"balance_due"`
	BillTo         BillTo         `json:"bill_to"`
	Notes          string         `json:"notes,omitempty"`
	InvoiceDate    time.Time      `json:"invoice_date"`
	DueDate        *time.Time     `json:"due_date,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	FinalizedAt    *time.Time     `json:"finalized_at,omitempty"`
	PaidAt         *time.Time     `json:"paid_at,omitempty"`
	VoidedAt       *time.Time     `json:"voided_at,omitempty"`
	VoidReason     string         `json:"void_reason,omitempty"`
	DuplicatedFrom string         `json:"duplicated_from,omitempty"`
}

// SnapshotItem is one rendered line.
type SnapshotItem struct {
	Description string      `json:"description"`
	Quantity    int64       `json:"quantity"`
	UnitPrice   money.Money `json:"unit_price"`
	Amount      money.Money `json:"amount"`
}

// HasPayment reports whether a positive tender is on record.
func (s Snapshot) HasPayment() bool {
	return s.AmountPaid != nil && s.AmountPaid.IsPositive()
}

// Snapshot projects the document without mutating it.
func (d *Document) Snapshot() Snapshot {
	items := d.items.Items()
	views := make([]SnapshotItem, 0, len(items))
	for _, item := range items {
		views = append(views, SnapshotItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount(),
		})
	}

	total := d.Total()
	rec := Reconcile(total, d.amountPaid, d.paymentMethod)

	snap := Snapshot{
		ID:            d.id.String(),
		Status:        d.status,
		IsQuotation:   d.status == StatusQuotation,
		InvoiceNumber: d.invoiceNumber,
		Items:         views,
		Subtotal:      d.items.Subtotal(),
		Total:         total,
		PaymentMethod: d.paymentMethod,
		AmountPaid:    rec.AmountPaid,
		ChangeDue:     rec.ChangeDue,
		BalanceDue:    rec.BalanceDue,
		BillTo:        d.billTo,
		Notes:         d.notes,
		InvoiceDate:   d.invoiceDate,
		DueDate:       copyTime(d.dueDate),
		CreatedAt:     d.createdAt,
		FinalizedAt:   copyTime(d.finalizedAt),
		PaidAt:        copyTime(d.paidAt),
		VoidedAt:      copyTime(d.voidedAt),
		VoidReason:    d.voidReason,
	}
	if d.duplicatedFrom != nil {
		snap.DuplicatedFrom = d.duplicatedFrom.String()
	}
	return snap
}
