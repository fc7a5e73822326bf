package render

import (
	"github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/internal/money"
)

// Renderer produces the on-screen representation of a document.
type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}

// PracticeView is the branding printed on every document.
type PracticeView struct {
	Name         string
	Tagline      string
	Email        string
	Phone        string
	Address      string
	FooterNotes  string
	PrimaryColor string
	LogoPath     string
}

type RenderInput struct {
	Practice PracticeView
	Document domain.Snapshot
	Locale   money.Locale
}
