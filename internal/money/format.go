package money

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Locale controls how amounts are presented to people.
type Locale struct {
	Symbol           string
	SymbolSpace      bool
	GroupSeparator   string
	DecimalSeparator string
}

// DefaultLocale renders South African rand, e.g. "R 1,234.50".
var DefaultLocale = Locale{
	Symbol:           "R",
	SymbolSpace:      true,
	GroupSeparator:   ",",
	DecimalSeparator: ".",
}

// Format renders m with the locale's symbol prefix, thousands grouping and two decimals.
func (l Locale) Format(m Money) string {
	l = l.withDefaults()

	minor := int64(m)
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	major := minor / MinorPerMajor
	cents := minor % MinorPerMajor

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(l.Symbol)
	if l.SymbolSpace && l.Symbol != "" {
		b.WriteByte(' ')
	}
	b.WriteString(l.groupMajor(major))
	b.WriteString(l.DecimalSeparator)
	fmt.Fprintf(&b, "%02d", cents)
	return b.String()
}

// groupMajor inserts thousands separators using a humanize pattern such as "#,###.".
// The trailing decimal directive forces zero precision.
func (l Locale) groupMajor(major int64) string {
	if l.GroupSeparator == "" {
		return fmt.Sprintf("%d", major)
	}
	// humanize rejects group and decimal directives that are the same rune.
	decimalDirective := "."
	if l.GroupSeparator == "." {
		decimalDirective = ","
	}
	pattern := "#" + l.GroupSeparator + "###" + decimalDirective
	return humanize.FormatInteger(pattern, int(major))
}

func (l Locale) withDefaults() Locale {
	if l.DecimalSeparator == "" {
		l.DecimalSeparator = DefaultLocale.DecimalSeparator
	}
	if len([]rune(l.GroupSeparator)) > 1 {
		l.GroupSeparator = string([]rune(l.GroupSeparator)[0])
	}
	return l
}
