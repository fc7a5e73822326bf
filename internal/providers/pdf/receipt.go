package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/smallbiznis/clinicbill/internal/invoice/render"
)

// ErrNoPayment is returned when a receipt is requested for a document without a recorded tender.
var ErrNoPayment = errors.New("receipt_requires_payment")

func (p *MarotoProvider) GenerateReceipt(ctx context.Context, view render.View) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pay := view.Payment
	if pay == nil {
		return nil, ErrNoPayment
	}

	m := newDocument()
	addHeader(m, view, "Receipt")

	m.AddRow(16,
		col.New(6).Add(
			text.New(view.Title+" number: "+view.Number, props.Text{Top: 0}),
			text.New("Date paid: "+view.PaidDate, props.Text{Top: 4}),
			text.New("Payment method: "+pay.Method, props.Text{Top: 8}),
		),
		col.New(6),
	)

	addParties(m, view)

	m.AddRow(15,
		text.NewCol(12, pay.AmountPaid+" paid on "+view.PaidDate, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	addItems(m, view)
	addTotals(m, view)
	addTotalRow(m, "Amount received", pay.AmountPaid, false)
	if pay.ShowChange {
		addTotalRow(m, "Change returned", pay.ChangeDue, true)
	}
	addFooter(m, view)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
