package domain

import (
	"errors"
	"fmt"

	"github.com/smallbiznis/clinicbill/internal/money"
)

var (
	ErrValidation         = errors.New("validation_error")
	ErrIndexOutOfRange    = errors.New("index_out_of_range")
	ErrLifecycleViolation = errors.New("lifecycle_violation")
	ErrIllegalTransition  = errors.New("illegal_transition")
	ErrInvalidAmount      = money.ErrInvalidAmount

	ErrNotFound              = errors.New("document_not_found")
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvoiceNumberConflict = errors.New("invoice_number_conflict")
)

// TransitionError reports a status change that is not in the transition table.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal_transition: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
