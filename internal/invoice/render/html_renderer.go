package render

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
)

const documentHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}} {{.Number}}</title>
  <style>
    :root {
      --primary: {{.Practice.PrimaryColor}};
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
    }
    .document-card {
      position: relative;
      overflow: hidden;
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
    }
    .watermark {
      position: absolute;
      top: 40%;
      left: 0;
      right: 0;
      text-align: center;
      font-size: 96px;
      font-weight: 800;
      color: rgba(26,31,54,0.06);
      transform: rotate(-30deg);
      pointer-events: none;
    }
    .header { display: flex; justify-content: space-between; margin-bottom: 40px; }
    .header-left h1 { margin: 0; font-size: 24px; font-weight: 700; color: var(--primary); }
    .header-right { text-align: right; font-weight: 600; color: #8792a2; font-size: 16px; }
    .tagline { font-size: 12px; font-weight: 400; }
    .meta-grid { display: flex; justify-content: space-between; margin-bottom: 40px; }
    .col { flex: 1; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value { font-size: 14px; line-height: 1.5; color: #1a1f36; }
    .amount-large { font-size: 32px; font-weight: 700; margin-bottom: 40px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
    }
    td { padding: 16px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; vertical-align: top; }
    .td-right { text-align: right; }
    .totals { display: flex; flex-direction: column; align-items: flex-end; }
    .total-row { display: flex; justify-content: space-between; width: 280px; padding: 6px 0; font-size: 14px; }
    .total-label { color: #697386; }
    .total-value { text-align: right; font-weight: 500; }
    .total-final { border-top: 1px solid #e3e8ee; margin-top: 10px; padding-top: 10px; font-weight: 700; font-size: 16px; }
    .payment { margin-top: 30px; padding: 16px; background: #f7f9fc; border-radius: 4px; }
    .void { color: #cd3d64; font-weight: 600; margin-bottom: 20px; }
    .footer { margin-top: 60px; font-size: 12px; color: #8792a2; border-top: 1px solid #e3e8ee; padding-top: 20px; }
  </style>
</head>
<body>
  <div class="document-card">
    {{if .Watermark}}<div class="watermark">{{.Watermark}}</div>{{end}}
    <div class="header">
      <div class="header-left">
        <h1>{{.Title}}</h1>
        <div class="label" style="margin-top: 12px;">{{.Title}} number</div>
        <div class="value">{{.Number}}</div>
      </div>
      <div class="header-right">
        {{.Practice.Name}}
        {{if .Practice.Tagline}}<div class="tagline">{{.Practice.Tagline}}</div>{{end}}
        {{if .Practice.Email}}<div class="tagline">{{.Practice.Email}}</div>{{end}}
        {{if .Practice.Phone}}<div class="tagline">{{.Practice.Phone}}</div>{{end}}
      </div>
    </div>

    {{if .IsVoid}}<div class="void">VOID{{if .VoidReason}}: {{.VoidReason}}{{end}}</div>{{end}}

    <div class="meta-grid">
      <div class="col">
        <div class="label">Bill to</div>
        <div class="value">
          <strong>{{.BillTo.Name}}</strong><br>
          {{if .BillTo.Email}}{{.BillTo.Email}}<br>{{end}}
          {{if .BillTo.Phone}}{{.BillTo.Phone}}{{end}}
        </div>
      </div>
      <div class="col" style="flex: 0 0 200px;">
        <div class="label">Date issued</div>
        <div class="value">{{.InvoiceDate}}</div>
        <div class="label" style="margin-top: 16px;">Date due</div>
        <div class="value">{{.DueDate}}</div>
      </div>
    </div>

    <div class="amount-large">{{.Total}}</div>

    <table>
      <thead>
        <tr>
          <th style="width: 50%;">Description</th>
          <th class="td-right">Qty</th>
          <th class="td-right">Unit Price</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td class="td-right">{{.Quantity}}</td>
          <td class="td-right">{{.UnitPrice}}</td>
          <td class="td-right" style="font-weight: 500;">{{.Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row">
        <span class="total-label">Subtotal</span>
        <span class="total-value">{{.Subtotal}}</span>
      </div>
      <div class="total-row total-final">
        <span class="total-label" style="color: #1a1f36;">Total</span>
        <span class="total-value">{{.Total}}</span>
      </div>
    </div>

    {{with .Payment}}
    <div class="payment">
      <div class="label">Payment</div>
      <div class="total-row">
        <span class="total-label">Amount received ({{.Method}})</span>
        <span class="total-value">{{.AmountPaid}}</span>
      </div>
      {{if .ShowChange}}
      <div class="total-row">
        <span class="total-label">Change returned</span>
        <span class="total-value">{{.ChangeDue}}</span>
      </div>
      {{end}}
      {{if .ShowBalance}}
      <div class="total-row">
        <span class="total-label">Balance due</span>
        <span class="total-value">{{.BalanceDue}}</span>
      </div>
      {{end}}
    </div>
    {{end}}

    {{if .Notes}}
    <div class="footer">
      <div class="label">Notes</div>
      {{.Notes}}
    </div>
    {{end}}
    {{if .Practice.FooterNotes}}
    <div class="footer">{{.Practice.FooterNotes}}</div>
    {{end}}
  </div>
</body>
</html>
`

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("document").Parse(documentHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	view := BuildView(input)
	view.Practice.PrimaryColor = sanitizeColor(view.Practice.PrimaryColor)

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return "#111827"
}
