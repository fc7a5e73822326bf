package domain

import (
	"encoding/json"
	"testing"

	"github.com/smallbiznis/clinicbill/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_IsByteIdenticalWhenUnmutated(t *testing.T) {
	doc := newTestDocument(t, StatusDraft,
		item("Consultation", 2, 10000),
		item("X-ray", 1, 5000),
	)
	require.NoError(t, doc.SetPayment(rands(30000), PaymentMethodCash))

	first, err := json.Marshal(doc.Snapshot())
	require.NoError(t, err)
	second, err := json.Marshal(doc.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSnapshot_Fields(t *testing.T) {
	doc := newTestDocument(t, StatusQuotation,
		item("Consultation", 2, 10000),
		item("X-ray", 1, 5000),
		item("Fluoride", 1, 2500),
	)
	require.NoError(t, doc.SetPayment(rands(30000), PaymentMethodCash))

	snap := doc.Snapshot()
	assert.True(t, snap.IsQuotation)
	assert.Equal(t, StatusQuotation, snap.Status)
	assert.Equal(t, money.FromMinor(27500), snap.Subtotal)
	assert.Equal(t, money.FromMinor(27500), snap.Total)
	assert.Equal(t, money.FromMinor(2500), snap.ChangeDue)
	assert.Equal(t, money.Zero, snap.BalanceDue)
	assert.True(t, snap.HasPayment())
	require.Len(t, snap.Items, 3)
	assert.Equal(t, money.FromMinor(20000), snap.Items[0].Amount)
	assert.Equal(t, "1001", snap.ID)
}

func TestSnapshot_DoesNotShareState(t *testing.T) {
	doc := newTestDocument(t, StatusDraft, item("Consultation", 1, 50000))
	require.NoError(t, doc.SetPayment(rands(50000), PaymentMethodCard))

	snap := doc.Snapshot()
	snap.Items[0].Description = "tampered"
	*snap.AmountPaid = 1

	again := doc.Snapshot()
	assert.Equal(t, "Consultation", again.Items[0].Description)
	assert.Equal(t, money.FromMinor(50000), *again.AmountPaid)
}

func TestSnapshot_NoPayment(t *testing.T) {
	doc := newTestDocument(t, StatusDraft, item("Consultation", 1, 50000))
	snap := doc.Snapshot()
	assert.Nil(t, snap.AmountPaid)
	assert.False(t, snap.HasPayment())
	assert.Equal(t, money.FromMinor(50000), snap.BalanceDue)
	assert.False(t, snap.IsQuotation)
}
