// Package domain holds the invoice and quotation lifecycle rules.
package domain

import (
	"strings"
)

// Status is the lifecycle state of a document. Invoice and quotation are statuses, not types.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusQuotation Status = "Quotation"
	StatusFinalized Status = "Finalized"
	StatusPaid      Status = "Paid"
	StatusVoid      Status = "Void"
)

var statuses = []Status{StatusDraft, StatusQuotation, StatusFinalized, StatusPaid, StatusVoid}

func (s Status) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Editable reports whether line items may change in this status.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusQuotation
}

// Terminal reports whether no transition leaves this status.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusVoid
}

// ParseStatus maps a boundary string onto the closed status set.
func ParseStatus(value string) (Status, error) {
	trimmed := strings.TrimSpace(value)
	for _, known := range statuses {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", validationf("unknown status %q", value)
}

// PaymentMethod is the tender used to pay a document. The empty value means none recorded.
type PaymentMethod string

const (
	PaymentMethodNone       PaymentMethod = ""
	PaymentMethodCash       PaymentMethod = "Cash"
	PaymentMethodCard       PaymentMethod = "Card"
	PaymentMethodEFT        PaymentMethod = "EFT"
	PaymentMethodMedicalAid PaymentMethod = "Medical Aid"
	// PaymentMethodSplit is an opaque label; no per-tender allocation is modelled.
	PaymentMethodSplit PaymentMethod = "Split"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodEFT,
	PaymentMethodMedicalAid,
	PaymentMethodSplit,
}

func (m PaymentMethod) Valid() bool {
	if m == PaymentMethodNone {
		return true
	}
	for _, known := range paymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// ParsePaymentMethod rejects unrecognised tender labels instead of defaulting them.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return PaymentMethodNone, nil
	}
	for _, known := range paymentMethods {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", validationf("unknown payment method %q", value)
}

// BillTo identifies the patient or account holder the document is addressed to.
type BillTo struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
