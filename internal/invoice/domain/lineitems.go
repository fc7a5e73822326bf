package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/clinicbill/internal/money"
)

// LineItem is a single billable entry.
type LineItem struct {
	Description string      `json:"description"`
	Quantity    int64       `json:"quantity"`
	UnitPrice   money.Money `json:"unit_price"`
}

// Amount is quantity times unit price.
func (i LineItem) Amount() money.Money {
	return i.UnitPrice.Mul(i.Quantity)
}

func (i LineItem) validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return validationf("line item description is required")
	}
	if i.Quantity <= 0 {
		return validationf("line item quantity must be positive, got %d", i.Quantity)
	}
	if i.UnitPrice.IsNegative() {
		return validationf("line item unit price must not be negative, got %s", i.UnitPrice)
	}
	if _, err := i.UnitPrice.CheckedMul(i.Quantity); err != nil {
		return validationf("line item amount is too large: %d x %s", i.Quantity, i.UnitPrice)
	}
	return nil
}

// LineItemSet keeps billable items in insertion order.
type LineItemSet struct {
	items []LineItem
}

// NewLineItemSet validates and copies items into a new set.
func NewLineItemSet(items ...LineItem) (LineItemSet, error) {
	var set LineItemSet
	for _, item := range items {
		if err := set.Add(item); err != nil {
			return LineItemSet{}, err
		}
	}
	return set, nil
}

func (s *LineItemSet) Add(item LineItem) error {
	item.Description = strings.TrimSpace(item.Description)
	if err := item.validate(); err != nil {
		return err
	}
	if _, err := s.Subtotal().CheckedAdd(item.Amount()); err != nil {
		return validationf("subtotal is too large to add %q", item.Description)
	}
	s.items = append(s.items, item)
	return nil
}

func (s *LineItemSet) Remove(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items = append(s.items[:index:index], s.items[index+1:]...)
	return nil
}

func (s *LineItemSet) Update(index int, item LineItem) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	item.Description = strings.TrimSpace(item.Description)
	if err := item.validate(); err != nil {
		return err
	}
	rest := s.Subtotal().Sub(s.items[index].Amount())
	if _, err := rest.CheckedAdd(item.Amount()); err != nil {
		return validationf("subtotal is too large to update item %d", index)
	}
	s.items[index] = item
	return nil
}

func (s *LineItemSet) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: index %d, %d items", ErrIndexOutOfRange, index, len(s.items))
	}
	return nil
}

// Items returns a copy of the items in insertion order.
func (s LineItemSet) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s LineItemSet) Len() int { return len(s.items) }

// Subtotal sums quantity * unit price over all items. Add and Update keep the sum within int64.
func (s LineItemSet) Subtotal() money.Money {
	total := money.Zero
	for _, item := range s.items {
		total = total.Add(item.Amount())
	}
	return total
}

// Total applies taxRate to the subtotal, rounding half-up to the nearest minor unit.
func (s LineItemSet) Total(taxRate decimal.Decimal) money.Money {
	return s.Subtotal().ApplyRate(taxRate)
}

func (s LineItemSet) clone() LineItemSet {
	return LineItemSet{items: s.Items()}
}
