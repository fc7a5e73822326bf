package domain

import (
	"fmt"
	"strings"
	"time"
)

// NumberSource hands out invoice numbers when a document is first finalized.
type NumberSource interface {
	NextInvoiceNumber() (string, error)
}

// NumberFunc adapts a function to NumberSource.
type NumberFunc func() (string, error)

func (f NumberFunc) NextInvoiceNumber() (string, error) { return f() }

// TransitionOptions carries the inputs a transition's side effects may need.
type TransitionOptions struct {
	Numbers NumberSource
	At      time.Time
	Reason  string
}

type transitionRule struct {
	guard  func(d *Document) error
	effect func(d *Document, opts TransitionOptions) error
}

// transitions is the complete lifecycle; any pair not listed is illegal.
var transitions = map[Status]map[Status]transitionRule{
	StatusDraft: {
		StatusFinalized: {guard: requireLineItems, effect: assignInvoiceNumber},
		StatusVoid:      {},
	},
	StatusQuotation: {
		StatusFinalized: {effect: assignInvoiceNumber},
		StatusVoid:      {},
	},
	StatusFinalized: {
		StatusPaid: {guard: requirePayment},
		StatusVoid: {},
	},
}

// CanTransition reports whether the table defines from -> to.
func CanTransition(from, to Status) bool {
	_, ok := transitions[from][to]
	return ok
}

// AllowedTransitions lists the statuses reachable from s in a stable order.
func AllowedTransitions(s Status) []Status {
	out := make([]Status, 0, 2)
	for _, to := range statuses {
		if CanTransition(s, to) {
			out = append(out, to)
		}
	}
	return out
}

// Transition moves the document to a new status, running the guard and side effect
// defined for the pair. On failure the document is left unchanged.
func (d *Document) Transition(to Status, opts TransitionOptions) error {
	rule, ok := transitions[d.status][to]
	if !ok {
		return &TransitionError{From: d.status, To: to}
	}
	if rule.guard != nil {
		if err := rule.guard(d); err != nil {
			return err
		}
	}
	if rule.effect != nil {
		if err := rule.effect(d, opts); err != nil {
			return err
		}
	}

	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	d.status = to
	switch to {
	case StatusFinalized:
		d.finalizedAt = &at
	case StatusPaid:
		d.paidAt = &at
	case StatusVoid:
		d.voidedAt = &at
		d.voidReason = strings.TrimSpace(opts.Reason)
	}
	return nil
}

func requireLineItems(d *Document) error {
	if d.items.Len() == 0 {
		return validationf("cannot finalize a document without line items")
	}
	return nil
}

// requirePayment guards Paid. Change due needs no write: it is reconciled from
// the total and the tendered amount on every read.
func requirePayment(d *Document) error {
	if d.amountPaid == nil || !d.amountPaid.IsPositive() {
		return validationf("amount paid must be recorded before marking paid")
	}
	return nil
}

func assignInvoiceNumber(d *Document, opts TransitionOptions) error {
	if d.invoiceNumber != "" {
		return nil
	}
	if opts.Numbers == nil {
		return validationf("an invoice number source is required to finalize")
	}
	number, err := opts.Numbers.NextInvoiceNumber()
	if err != nil {
		return fmt.Errorf("assign invoice number: %w", err)
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return validationf("invoice number source returned an empty number")
	}
	d.invoiceNumber = number
	return nil
}
