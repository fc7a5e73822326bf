package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

// DefaultInvoiceNumberTemplate yields numbers such as INV-20251103-001.
const DefaultInvoiceNumberTemplate = "INV-{YYYY}{MM}{DD}-{SEQ3}"

// FormatInvoiceNumber formats a human-readable invoice number
// based on a template, issue time, and a per-period sequence.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func FormatInvoiceNumber(
	template string,
	issuedAt time.Time,
	seq int64,
) (string, error) {

	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}

	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := template

	// Date tokens
	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))

	// Simple sequence
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	// Padded sequence
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice format: %s", out)
	}

	return out, nil
}

// SequenceKey returns the counter bucket a template numbers within. Templates carrying
// a day token restart every day, month templates every month, and so on.
func SequenceKey(template string, issuedAt time.Time) string {
	switch {
	case strings.Contains(template, "{DD}"):
		return issuedAt.Format("20060102")
	case strings.Contains(template, "{MM}"):
		return issuedAt.Format("200601")
	case strings.Contains(template, "{YYYY}"), strings.Contains(template, "{YY}"):
		return issuedAt.Format("2006")
	default:
		return "all"
	}
}

// ValidateTemplate checks that a template renders and carries a sequence token.
func ValidateTemplate(template string) error {
	if !strings.Contains(template, "{SEQ") {
		return fmt.Errorf("invoice number template %q has no sequence token", template)
	}
	_, err := FormatInvoiceNumber(template, time.Unix(0, 0).UTC(), 1)
	return err
}
