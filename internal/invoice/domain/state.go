package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicbill/internal/money"
)

// State is the stored shape of a document. Derived amounts are deliberately absent.
type State struct {
	ID             snowflake.ID
	Status         Status
	Items          []LineItem
	AmountPaid     *money.Money
	PaymentMethod  PaymentMethod
	InvoiceNumber  string
	BillTo         BillTo
	Notes          string
	InvoiceDate    time.Time
	DueDate        *time.Time
	CreatedAt      time.Time
	FinalizedAt    *time.Time
	PaidAt         *time.Time
	VoidedAt       *time.Time
	VoidReason     string
	DuplicatedFrom *snowflake.ID
}

// State exports the document for persistence.
func (d *Document) State() State {
	return State{
		ID:             d.id,
		Status:         d.status,
		Items:          d.items.Items(),
		AmountPaid:     copyMoney(d.amountPaid),
		PaymentMethod:  d.paymentMethod,
		InvoiceNumber:  d.invoiceNumber,
		BillTo:         d.billTo,
		Notes:          d.notes,
		InvoiceDate:    d.invoiceDate,
		DueDate:        copyTime(d.dueDate),
		CreatedAt:      d.createdAt,
		FinalizedAt:    copyTime(d.finalizedAt),
		PaidAt:         copyTime(d.paidAt),
		VoidedAt:       copyTime(d.voidedAt),
		VoidReason:     d.voidReason,
		DuplicatedFrom: copyID(d.duplicatedFrom),
	}
}

// Restore rebuilds a document loaded by the persistence layer, validating every field.
func Restore(s State) (*Document, error) {
	if s.ID == 0 {
		return nil, validationf("document id is required")
	}
	if !s.Status.Valid() {
		return nil, validationf("unknown status %q", s.Status)
	}
	if !s.PaymentMethod.Valid() {
		return nil, validationf("unknown payment method %q", s.PaymentMethod)
	}
	if s.AmountPaid != nil && s.AmountPaid.IsNegative() {
		return nil, fmt.Errorf("%w: stored amount paid %s is negative", ErrInvalidAmount, s.AmountPaid)
	}
	if s.Status == StatusQuotation && s.PaidAt != nil {
		return nil, validationf("a quotation cannot carry a payment date")
	}
	items, err := NewLineItemSet(s.Items...)
	if err != nil {
		return nil, err
	}

	invoiceDate := s.InvoiceDate.UTC()
	if invoiceDate.IsZero() {
		invoiceDate = s.CreatedAt.UTC()
	}
	return &Document{
		id:             s.ID,
		status:         s.Status,
		items:          items,
		amountPaid:     copyMoney(s.AmountPaid),
		paymentMethod:  s.PaymentMethod,
		invoiceNumber:  s.InvoiceNumber,
		billTo:         s.BillTo,
		notes:          s.Notes,
		invoiceDate:    invoiceDate,
		dueDate:        copyTime(s.DueDate),
		createdAt:      s.CreatedAt.UTC(),
		finalizedAt:    copyTime(s.FinalizedAt),
		paidAt:         copyTime(s.PaidAt),
		voidedAt:       copyTime(s.VoidedAt),
		voidReason:     s.VoidReason,
		duplicatedFrom: copyID(s.DuplicatedFrom),
	}, nil
}
