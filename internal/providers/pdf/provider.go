package pdf

import (
	"context"
	"io"

	"github.com/smallbiznis/clinicbill/internal/invoice/render"
)

// Provider exports formatted documents as PDF.
type Provider interface {
	GenerateDocument(ctx context.Context, view render.View) (io.Reader, error)
	GenerateReceipt(ctx context.Context, view render.View) (io.Reader, error)
}
