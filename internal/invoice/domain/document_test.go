package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicbill/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_ThreeItemTotal(t *testing.T) {
	doc := newTestDocument(t, StatusDraft,
		item("Consultation", 2, 10000),
		item("X-ray", 1, 5000),
		item("Fluoride", 1, 2500),
	)
	assert.Equal(t, money.FromMinor(27500), doc.Subtotal())
	assert.Equal(t, money.FromMinor(27500), doc.Total())
}

func TestDocument_LineItemsLockedAfterFinalize(t *testing.T) {
	doc := newTestDocument(t, StatusDraft, item("Consultation", 1, 50000))
	require.NoError(t, doc.Transition(StatusFinalized, TransitionOptions{Numbers: &sequenceNumbers{}}))

	assert.ErrorIs(t, doc.AddItem(item("Extra", 1, 100)), ErrLifecycleViolation)
	assert.ErrorIs(t, doc.UpdateItem(0, item("Changed", 1, 100)), ErrLifecycleViolation)
	assert.ErrorIs(t, doc.RemoveItem(0), ErrLifecycleViolation)
	assert.Equal(t, money.FromMinor(50000), doc.Total())
}

func TestDocument_QuotationItemsAreEditable(t *testing.T) {
	doc := newTestDocument(t, StatusQuotation, item("Crown", 1, 450000))
	require.NoError(t, doc.UpdateItem(0, item("Crown (porcelain)", 1, 520000)))
	require.NoError(t, doc.AddItem(item("Temporary crown", 1, 60000)))
	assert.Equal(t, money.FromMinor(580000), doc.Total())
}

func TestDocument_SetPayment(t *testing.T) {
	doc := newTestDocument(t, StatusDraft, item("Consultation", 1, 50000))

	assert.ErrorIs(t, doc.SetPayment(rands(-1), PaymentMethodCash), ErrInvalidAmount)
	assert.ErrorIs(t, doc.SetPayment(rands(100), PaymentMethod("Bitcoin")), ErrValidation)

	require.NoError(t, doc.SetPayment(rands(60000), PaymentMethodCash))
	assert.Equal(t, money.FromMinor(10000), doc.ChangeDue())

	require.NoError(t, doc.SetPayment(rands(60000), PaymentMethodCard))
	assert.Equal(t, money.Zero, doc.ChangeDue())

	require.NoError(t, doc.SetPayment(nil, PaymentMethodNone))
	assert.Nil(t, doc.AmountPaid())
}

func TestDocument_ChangeDueFollowsTotal(t *testing.T) {
	doc := newTestDocument(t, StatusDraft, item("Consultation", 1, 50000))
	require.NoError(t, doc.SetPayment(rands(60000), PaymentMethodCash))
	assert.Equal(t, money.FromMinor(10000), doc.ChangeDue())

	require.NoError(t, doc.AddItem(item("X-ray", 1, 5000)))
	assert.Equal(t, money.FromMinor(5000), doc.ChangeDue())
}

func TestDocument_PaymentLockedWhenTerminal(t *testing.T) {
	doc := newTestDocument(t, StatusDraft, item("Consultation", 1, 50000))
	require.NoError(t, doc.Transition(StatusVoid, TransitionOptions{}))
	assert.ErrorIs(t, doc.SetPayment(rands(100), PaymentMethodCash), ErrLifecycleViolation)
	assert.ErrorIs(t, doc.SetDetails(BillTo{Name: "x"}, "", nil), ErrLifecycleViolation)
}

func TestDuplicateAsQuotation_FromFinalizedInvoice(t *testing.T) {
	src := newTestDocument(t, StatusDraft,
		item("Consultation", 2, 10000),
		item("X-ray", 1, 5000),
	)
	require.NoError(t, src.SetDetails(BillTo{Name: "Thabo M."}, "Follow-up in 6 months", nil))
	require.NoError(t, src.Transition(StatusFinalized, TransitionOptions{Numbers: &sequenceNumbers{}}))
	require.NoError(t, src.SetPayment(rands(30000), PaymentMethodCash))

	dup, err := DuplicateAsQuotation(src, snowflake.ID(2002), testNow)
	require.NoError(t, err)

	assert.Equal(t, StatusQuotation, dup.Status())
	assert.Equal(t, snowflake.ID(2002), dup.ID())
	assert.Equal(t, src.LineItems(), dup.LineItems())
	assert.Nil(t, dup.AmountPaid())
	assert.Equal(t, PaymentMethodNone, dup.PaymentMethod())
	assert.Empty(t, dup.InvoiceNumber())
	assert.Equal(t, "Thabo M.", dup.BillTo().Name)
	require.NotNil(t, dup.DuplicatedFrom())
	assert.Equal(t, src.ID(), *dup.DuplicatedFrom())

	require.NoError(t, dup.AddItem(item("Extra", 1, 100)))
	assert.Len(t, src.LineItems(), 2)
}

func TestRestore_RoundTrip(t *testing.T) {
	doc := newTestDocument(t, StatusDraft, item("Consultation", 1, 50000))
	require.NoError(t, doc.SetPayment(rands(50000), PaymentMethodEFT))
	require.NoError(t, doc.Transition(StatusFinalized, TransitionOptions{Numbers: &sequenceNumbers{}, At: testNow}))

	restored, err := Restore(doc.State())
	require.NoError(t, err)
	assert.Equal(t, doc.State(), restored.State())
	assert.Equal(t, doc.Snapshot(), restored.Snapshot())
}

func TestRestore_RejectsInvalidState(t *testing.T) {
	_, err := Restore(State{ID: 1, Status: "Proforma"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Restore(State{ID: 1, Status: StatusDraft, PaymentMethod: "Cheque"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Restore(State{ID: 1, Status: StatusDraft, AmountPaid: rands(-5)})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	paidAt := testNow
	_, err = Restore(State{ID: 1, Status: StatusQuotation, PaidAt: &paidAt})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Restore(State{ID: 1, Status: StatusDraft, Items: []LineItem{item("Bad", 0, 1)}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("medical aid")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodMedicalAid, m)

	m, err = ParsePaymentMethod("")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodNone, m)

	_, err = ParsePaymentMethod("Voucher")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("quotation")
	require.NoError(t, err)
	assert.Equal(t, StatusQuotation, s)

	_, err = ParseStatus("ProformaOffline")
	assert.ErrorIs(t, err, ErrValidation)
}
