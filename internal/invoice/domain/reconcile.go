package domain

import "github.com/smallbiznis/clinicbill/internal/money"

// Reconciliation is the derived payment position of a document.
type Reconciliation struct {
	AmountPaid *money.Money
	ChangeDue  money.Money
	BalanceDue money.Money
}

// Reconcile derives change due and outstanding balance from a total and a tendered amount.
// It has no side effects; screen and export paths both call it instead of trusting stored values.
func Reconcile(total money.Money, amountPaid *money.Money, method PaymentMethod) Reconciliation {
	if amountPaid == nil || !amountPaid.IsPositive() {
		return Reconciliation{BalanceDue: money.Max(total, money.Zero)}
	}

	paid := *amountPaid
	out := Reconciliation{
		AmountPaid: &paid,
		BalanceDue: money.Max(total.Sub(paid), money.Zero),
	}
	// Only cash tender produces change.
	if method == PaymentMethodCash {
		out.ChangeDue = money.Max(paid.Sub(total), money.Zero)
	}
	return out
}
