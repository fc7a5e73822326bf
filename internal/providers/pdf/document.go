package pdf

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/smallbiznis/clinicbill/internal/invoice/render"
)

var watermarkColor = &props.Color{Red: 215, Green: 219, Blue: 228}

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) GenerateDocument(ctx context.Context, view render.View) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := newDocument()

	if view.Watermark != "" {
		m.AddRow(18,
			text.NewCol(12, view.Watermark, props.Text{
				Size:  36,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: watermarkColor,
			}),
		)
	}

	addHeader(m, view, view.Title)

	m.AddRow(20,
		col.New(6).Add(
			text.New(view.Title+" number: "+view.Number, props.Text{Top: 0}),
			text.New("Date of issue: "+view.InvoiceDate, props.Text{Top: 4}),
			text.New("Date due: "+view.DueDate, props.Text{Top: 8}),
			text.New("Status: "+view.Status, props.Text{Top: 12}),
		),
		col.New(6),
	)

	addParties(m, view)

	if view.IsVoid {
		reason := "VOID"
		if strings.TrimSpace(view.VoidReason) != "" {
			reason += ": " + view.VoidReason
		}
		m.AddRow(10, text.NewCol(12, reason, props.Text{Size: 11, Style: fontstyle.Bold}))
	}

	m.AddRow(15,
		text.NewCol(12, view.Total, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	addItems(m, view)
	addTotals(m, view)

	if pay := view.Payment; pay != nil {
		m.AddRow(10, text.NewCol(12, "Payment", props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}))
		addTotalRow(m, "Amount received ("+pay.Method+")", pay.AmountPaid, false)
		if pay.ShowChange {
			addTotalRow(m, "Change returned", pay.ChangeDue, false)
		}
		if pay.ShowBalance {
			addTotalRow(m, "Balance due", pay.BalanceDue, true)
		}
	}

	addFooter(m, view)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	return maroto.New(cfg)
}

func addHeader(m core.Maroto, view render.View, title string) {
	if view.Practice.LogoPath != "" {
		m.AddRow(30,
			image.NewFromFileCol(3, view.Practice.LogoPath, props.Rect{
				Center:  false,
				Percent: 80,
			}),
			col.New(9),
		)
	}

	m.AddRow(10,
		text.NewCol(6, title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(6, view.Practice.Name, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
	if view.Practice.Tagline != "" {
		m.AddRow(6, col.New(6), text.NewCol(6, view.Practice.Tagline, props.Text{Size: 9, Align: align.Right}))
	}
}

func addParties(m core.Maroto, view render.View) {
	m.AddRow(30,
		col.New(6).Add(
			text.New(view.Practice.Name, props.Text{Style: fontstyle.Bold}),
			text.New(view.Practice.Address, props.Text{Top: 5}),
			text.New(view.Practice.Email, props.Text{Top: 10}),
			text.New(view.Practice.Phone, props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(view.BillTo.Name, props.Text{Top: 5}),
			text.New(view.BillTo.Email, props.Text{Top: 10}),
			text.New(view.BillTo.Phone, props.Text{Top: 15}),
		),
	)
}

func addItems(m core.Maroto, view render.View) {
	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range view.Items {
		m.AddRow(10,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func addTotals(m core.Maroto, view render.View) {
	addTotalRow(m, "Subtotal", view.Subtotal, false)
	addTotalRow(m, "Total", view.Total, true)
}

func addTotalRow(m core.Maroto, label, value string, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRow(8,
		col.New(6),
		text.NewCol(4, label, props.Text{Size: 9, Style: style}),
		text.NewCol(2, value, props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}

func addFooter(m core.Maroto, view render.View) {
	if strings.TrimSpace(view.Notes) != "" {
		m.AddRow(8, text.NewCol(12, "Notes", props.Text{Style: fontstyle.Bold, Size: 9, Top: 6}))
		m.AddRow(12, text.NewCol(12, view.Notes, props.Text{Size: 9}))
	}
	if strings.TrimSpace(view.Practice.FooterNotes) != "" {
		m.AddRow(12, text.NewCol(12, view.Practice.FooterNotes, props.Text{Size: 8, Top: 6}))
	}
}
