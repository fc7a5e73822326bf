package domain

import (
	"math"
	"testing"
	"time"

	"github.com/smallbiznis/clinicbill/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summarySnap(status Status, day time.Time, totalMinor, balanceMinor int64) Snapshot {
	return Snapshot{
		Status:      status,
		IsQuotation: status == StatusQuotation,
		InvoiceDate: day,
		Total:       money.FromMinor(totalMinor),
		BalanceDue:  money.FromMinor(balanceMinor),
	}
}

func TestSummarize_GroupsByMonthAndStatus(t *testing.T) {
	oct := time.Date(2025, 10, 14, 8, 0, 0, 0, time.UTC)
	nov := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)

	summary, err := Summarize([]Snapshot{
		summarySnap(StatusPaid, nov, 27500, 0),
		summarySnap(StatusFinalized, nov, 10000, 10000),
		summarySnap(StatusFinalized, nov, 5000, 2000),
		summarySnap(StatusQuotation, nov, 8000, 8000),
		summarySnap(StatusVoid, nov, 3000, 3000),
		summarySnap(StatusPaid, oct, 12000, 0),
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows, 5)
	assert.Equal(t, SummaryRow{
		Month: "2025-11", Status: StatusQuotation, DocumentCount: 1,
		TotalAmount: 8000,
	}, summary.Rows[0])
	assert.Equal(t, SummaryRow{
		Month: "2025-11", Status: StatusFinalized, DocumentCount: 2,
		TotalAmount: 15000, TotalPaid: 3000, Outstanding: 12000,
	}, summary.Rows[1])
	assert.Equal(t, StatusPaid, summary.Rows[2].Status)
	assert.Equal(t, money.FromMinor(27500), summary.Rows[2].TotalPaid)
	assert.Equal(t, SummaryRow{
		Month: "2025-11", Status: StatusVoid, DocumentCount: 1,
		TotalAmount: 3000,
	}, summary.Rows[3])
	assert.Equal(t, "2025-10", summary.Rows[4].Month)

	assert.Equal(t, SummaryTotals{
		DocumentCount:  6,
		QuotationCount: 1,
		TotalInvoiced:  money.FromMinor(54500),
		TotalPaid:      money.FromMinor(42500),
		Outstanding:    money.FromMinor(12000),
	}, summary.Totals)
}

func TestSummarize_Empty(t *testing.T) {
	summary, err := Summarize(nil)
	require.NoError(t, err)
	assert.Empty(t, summary.Rows)
	assert.Equal(t, SummaryTotals{}, summary.Totals)
}

func TestSummarize_OverflowIsRejected(t *testing.T) {
	_, err := Summarize([]Snapshot{
		summarySnap(StatusPaid, testNow, math.MaxInt64, 0),
		summarySnap(StatusPaid, testNow, 1, 0),
	})
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestSummaryRequest_InWindow(t *testing.T) {
	from := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	req := SummaryRequest{From: &from, To: &to}

	assert.True(t, req.InWindow(summarySnap(StatusPaid, from, 1, 0)))
	assert.True(t, req.InWindow(summarySnap(StatusPaid, testNow, 1, 0)))
	assert.False(t, req.InWindow(summarySnap(StatusPaid, to, 1, 0)))
	assert.False(t, req.InWindow(summarySnap(StatusPaid, from.Add(-time.Second), 1, 0)))
	assert.True(t, SummaryRequest{}.InWindow(summarySnap(StatusPaid, to, 1, 0)))
}
