package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/clinicbill/internal/money"
)

// Document is an invoice or quotation. Status only changes through Transition,
// and totals are always derived from the line items.
type Document struct {
	id             snowflake.ID
	status         Status
	items          LineItemSet
	amountPaid     *money.Money
	paymentMethod  PaymentMethod
	invoiceNumber  string
	billTo         BillTo
	notes          string
	invoiceDate    time.Time
	dueDate        *time.Time
	createdAt      time.Time
	finalizedAt    *time.Time
	paidAt         *time.Time
	voidedAt       *time.Time
	voidReason     string
	duplicatedFrom *snowflake.ID
}

// NewDocument starts a document in one of the two initial states.
func NewDocument(id snowflake.ID, intent Status, createdAt time.Time) (*Document, error) {
	if id == 0 {
		return nil, validationf("document id is required")
	}
	if intent != StatusDraft && intent != StatusQuotation {
		return nil, validationf("documents start as %s or %s, not %q", StatusDraft, StatusQuotation, intent)
	}
	createdAt = createdAt.UTC()
	return &Document{
		id:          id,
		status:      intent,
		createdAt:   createdAt,
		invoiceDate: createdAt,
	}, nil
}

// DuplicateAsQuotation builds a new quotation carrying a copy of src's line items.
// Payment fields and the invoice number are not carried over.
func DuplicateAsQuotation(src *Document, id snowflake.ID, createdAt time.Time) (*Document, error) {
	if src == nil {
		return nil, validationf("source document is required")
	}
	doc, err := NewDocument(id, StatusQuotation, createdAt)
	if err != nil {
		return nil, err
	}
	doc.items = src.items.clone()
	doc.billTo = src.billTo
	doc.notes = src.notes
	from := src.id
	doc.duplicatedFrom = &from
	return doc, nil
}

func (d *Document) ID() snowflake.ID { return d.id }
func (d *Document) Status() Status { return d.status }
func (d *Document) InvoiceNumber() string { return d.invoiceNumber }
func (d *Document) PaymentMethod() PaymentMethod { return d.paymentMethod }
func (d *Document) BillTo() BillTo { return d.billTo }
func (d *Document) Notes() string { return d.notes }
func (d *Document) CreatedAt() time.Time { return d.createdAt }
func (d *Document) LineItems() []LineItem { return d.items.Items() }
func (d *Document) IsQuotation() bool { return d.status == StatusQuotation }
func (d *Document) DuplicatedFrom() *snowflake.ID { return copyID(d.duplicatedFrom) }
func (d *Document) AmountPaid() *money.Money { return copyMoney(d.amountPaid) }
func (d *Document) Subtotal() money.Money { return d.items.Subtotal() }
func (d *Document) Reconciliation() Reconciliation { return Reconcile(d.Total(), d.amountPaid, d.paymentMethod) }
func (d *Document) ChangeDue() money.Money { return d.Reconciliation().ChangeDue }

// Total is the subtotal; the practice bills without a tax component.
func (d *Document) Total() money.Money {
	return d.items.Total(decimal.Zero)
}

func (d *Document) AddItem(item LineItem) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	return d.items.Add(item)
}

func (d *Document) UpdateItem(index int, item LineItem) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	return d.items.Update(index, item)
}

func (d *Document) RemoveItem(index int) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	return d.items.Remove(index)
}

func (d *Document) ensureEditable() error {
	if !d.status.Editable() {
		return fmt.Errorf("%w: line items are read-only in status %s", ErrLifecycleViolation, d.status)
	}
	return nil
}

// SetPayment records the tendered amount and method. A nil amount clears the payment.
// Change due is never set here; it is derived on read.
func (d *Document) SetPayment(amountPaid *money.Money, method PaymentMethod) error {
	if d.status.Terminal() {
		return fmt.Errorf("%w: payment is read-only in status %s", ErrLifecycleViolation, d.status)
	}
	if !method.Valid() {
		return validationf("unknown payment method %q", method)
	}
	if amountPaid != nil && amountPaid.IsNegative() {
		return fmt.Errorf("%w: amount paid %s is negative", ErrInvalidAmount, amountPaid)
	}
	d.amountPaid = copyMoney(amountPaid)
	d.paymentMethod = method
	return nil
}

// SetDetails updates the informational fields shown on the document.
func (d *Document) SetDetails(billTo BillTo, notes string, dueDate *time.Time) error {
	if d.status.Terminal() {
		return fmt.Errorf("%w: details are read-only in status %s", ErrLifecycleViolation, d.status)
	}
	d.billTo = BillTo{
		Name:  strings.TrimSpace(billTo.Name),
		Email: strings.TrimSpace(billTo.Email),
		Phone: strings.TrimSpace(billTo.Phone),
	}
	d.notes = strings.TrimSpace(notes)
	d.dueDate = copyTime(dueDate)
	return nil
}

func copyMoney(m *money.Money) *money.Money {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func copyID(id *snowflake.ID) *snowflake.ID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
