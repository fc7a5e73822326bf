package render

import (
	"fmt"
	"strings"
)

// ShareMessage builds the plain-text summary sent to patients over messaging apps.
func ShareMessage(input RenderInput) string {
	v := BuildView(input)
	practice := strings.TrimSpace(input.Practice.Name)

	var b strings.Builder
	if practice != "" {
		fmt.Fprintf(&b, "Hi! Here is your %s from %s.\n\n", strings.ToLower(v.Title), practice)
	} else {
		fmt.Fprintf(&b, "Hi! Here is your %s.\n\n", strings.ToLower(v.Title))
	}
	fmt.Fprintf(&b, "%s #: %s\n", v.Title, v.Number)
	fmt.Fprintf(&b, "Date: %s\n", v.InvoiceDate)
	fmt.Fprintf(&b, "Total: %s\n", v.Total)
	if v.Payment != nil && v.Payment.ShowBalance {
		fmt.Fprintf(&b, "Balance due: %s\n", v.Payment.BalanceDue)
	}
	b.WriteString("\nThank you for choosing us!")
	return b.String()
}
