package repository

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/internal/money"
)

func toRecords(doc *domain.Document, now time.Time) (DocumentRecord, []DocumentItemRecord) {
	state := doc.State()

	rec := DocumentRecord{
		ID:            int64(state.ID),
		Status:        string(state.Status),
		PaymentMethod: string(state.PaymentMethod),
		BillTo:        datatypes.NewJSONType(state.BillTo),
		Notes:         state.Notes,
		InvoiceDate:   state.InvoiceDate,
		DueDate:       state.DueDate,
		FinalizedAt:   state.FinalizedAt,
		PaidAt:        state.PaidAt,
		VoidedAt:      state.VoidedAt,
		VoidReason:    state.VoidReason,
		CreatedAt:     state.CreatedAt,
		UpdatedAt:     now,
	}
	if state.AmountPaid != nil {
		minor := state.AmountPaid.Minor()
		rec.AmountPaid = &minor
	}
	if number := strings.TrimSpace(state.InvoiceNumber); number != "" {
		rec.InvoiceNumber = &number
	}
	if state.DuplicatedFrom != nil {
		src := int64(*state.DuplicatedFrom)
		rec.DuplicatedFrom = &src
	}

	items := make([]DocumentItemRecord, 0, len(state.Items))
	for i, item := range state.Items {
		items = append(items, DocumentItemRecord{
			DocumentID:  rec.ID,
			Position:    i,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Minor(),
		})
	}
	return rec, items
}

func fromRecords(rec DocumentRecord, items []DocumentItemRecord) (*domain.Document, error) {
	state := domain.State{
		ID:            snowflake.ID(rec.ID),
		Status:        domain.Status(rec.Status),
		PaymentMethod: domain.PaymentMethod(rec.PaymentMethod),
		BillTo:        rec.BillTo.Data(),
		Notes:         rec.Notes,
		InvoiceDate:   rec.InvoiceDate,
		DueDate:       rec.DueDate,
		CreatedAt:     rec.CreatedAt,
		FinalizedAt:   rec.FinalizedAt,
		PaidAt:        rec.PaidAt,
		VoidedAt:      rec.VoidedAt,
		VoidReason:    rec.VoidReason,
	}
	if rec.AmountPaid != nil {
		paid := money.FromMinor(*rec.AmountPaid)
		state.AmountPaid = &paid
	}
	if rec.InvoiceNumber != nil {
		state.InvoiceNumber = *rec.InvoiceNumber
	}
	if rec.DuplicatedFrom != nil {
		src := snowflake.ID(*rec.DuplicatedFrom)
		state.DuplicatedFrom = &src
	}

	state.Items = make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		state.Items = append(state.Items, domain.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   money.FromMinor(item.UnitPrice),
		})
	}
	return domain.Restore(state)
}
