package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/internal/money"
)

const (
	titleInvoice   = "Invoice"
	titleQuotation = "Quotation"
	draftNumber    = "DRAFT"
	displayDate    = "02 Jan 2006"
)

// View is the fully formatted document shared by the screen and PDF renderers.
// Every label that depends on IsQuotation is decided here, once.
type View struct {
	Title       string
	Number      string
	Status      string
	Watermark   string
	Practice    PracticeView
	BillTo      domain.BillTo
	InvoiceDate string
	DueDate     string
	Items       []ItemView
	Subtotal    string
	Total       string
	Payment     *PaymentView
	Notes       string
	PaidDate    string
	VoidReason  string
	IsVoid      bool
}

type ItemView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

type PaymentView struct {
	Method      string
	AmountPaid  string
	ShowChange  bool
	ChangeDue   string
	ShowBalance bool
	BalanceDue  string
}

// DocumentTitle is "Quotation" for quotations and "Invoice" for everything else.
func DocumentTitle(s domain.Snapshot) string {
	if s.IsQuotation {
		return titleQuotation
	}
	return titleInvoice
}

// BuildView formats a snapshot with the given locale.
func BuildView(input RenderInput) View {
	s := input.Document
	locale := input.Locale
	if locale.Symbol == "" && locale.DecimalSeparator == "" {
		locale = money.DefaultLocale
	}

	number := strings.TrimSpace(s.InvoiceNumber)
	if number == "" {
		number = draftNumber
	}

	v := View{
		Title:       DocumentTitle(s),
		Number:      number,
		Status:      string(s.Status),
		Practice:    input.Practice,
		BillTo:      s.BillTo,
		InvoiceDate: formatDate(&s.InvoiceDate),
		DueDate:     formatDate(s.DueDate),
		Subtotal:    locale.Format(s.Subtotal),
		Total:       locale.Format(s.Total),
		Notes:       s.Notes,
		PaidDate:    formatDate(s.PaidAt),
		VoidReason:  s.VoidReason,
		IsVoid:      s.Status == domain.StatusVoid,
	}
	if s.IsQuotation {
		v.Watermark = strings.ToUpper(titleQuotation)
	}
	if strings.TrimSpace(v.Practice.Name) == "" {
		v.Practice.Name = v.Title
	}

	v.Items = make([]ItemView, 0, len(s.Items))
	for _, item := range s.Items {
		v.Items = append(v.Items, ItemView{
			Description: item.Description,
			Quantity:    strconv.FormatInt(item.Quantity, 10),
			UnitPrice:   locale.Format(item.UnitPrice),
			Amount:      locale.Format(item.Amount),
		})
	}

	if s.HasPayment() {
		method := string(s.PaymentMethod)
		if method == "" {
			method = "N/A"
		}
		v.Payment = &PaymentView{
			Method:      method,
			AmountPaid:  locale.Format(*s.AmountPaid),
			ShowChange:  s.ChangeDue.IsPositive(),
			ChangeDue:   locale.Format(s.ChangeDue),
			ShowBalance: s.BalanceDue.IsPositive(),
			BalanceDue:  locale.Format(s.BalanceDue),
		}
	}
	return v
}

func formatDate(value *time.Time) string {
	if value == nil || value.IsZero() {
		return "-"
	}
	return value.UTC().Format(displayDate)
}
