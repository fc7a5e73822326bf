package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicbill/internal/money"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)

func newTestDocument(t *testing.T, intent Status, items ...LineItem) *Document {
	t.Helper()
	doc, err := NewDocument(snowflake.ID(1001), intent, testNow)
	require.NoError(t, err)
	for _, item := range items {
		require.NoError(t, doc.AddItem(item))
	}
	return doc
}

func item(desc string, qty int64, unitMinor int64) LineItem {
	return LineItem{Description: desc, Quantity: qty, UnitPrice: money.FromMinor(unitMinor)}
}

func rands(minor int64) *money.Money {
	m := money.FromMinor(minor)
	return &m
}

type sequenceNumbers struct {
	next  int
	calls int
}

func (s *sequenceNumbers) NextInvoiceNumber() (string, error) {
	s.calls++
	s.next++
	return fmt.Sprintf("INV-20251103-%03d", s.next), nil
}
