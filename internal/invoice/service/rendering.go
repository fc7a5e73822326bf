package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	invoicedomain "github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/internal/invoice/render"
	"github.com/smallbiznis/clinicbill/internal/observability/logger"
)

const contentTypePDF = "application/pdf"

var errRendererNotConfigured = errors.New("renderer_not_configured")

func (s *Service) RenderHTML(ctx context.Context, id string) (string, error) {
	if s.renderer == nil {
		return "", errRendererNotConfigured
	}
	input, err := s.renderInput(ctx, id)
	if err != nil {
		return "", err
	}

	start := time.Now()
	html, err := s.renderer.RenderHTML(input)
	s.metrics.ObserveRender("html", time.Since(start))
	if err != nil {
		return "", err
	}
	return html, nil
}

func (s *Service) RenderPDF(ctx context.Context, id string) (invoicedomain.RenderedFile, error) {
	if s.pdf == nil {
		return invoicedomain.RenderedFile{}, errRendererNotConfigured
	}
	input, err := s.renderInput(ctx, id)
	if err != nil {
		return invoicedomain.RenderedFile{}, err
	}

	view := render.BuildView(input)
	start := time.Now()
	out, err := s.pdf.GenerateDocument(ctx, view)
	s.metrics.ObserveRender("pdf", time.Since(start))
	if err != nil {
		return invoicedomain.RenderedFile{}, err
	}

	body, err := readRendered(out)
	if err != nil {
		return invoicedomain.RenderedFile{}, err
	}
	logger.WithContext(ctx, s.log).Debug("document exported",
		zap.String("document_id", input.Document.ID),
		zap.Int("bytes", len(body)),
	)
	return invoicedomain.RenderedFile{
		Filename:    documentFilename(input.Document),
		ContentType: contentTypePDF,
		Body:        body,
	}, nil
}

// RenderReceipt exports proof of payment. Only paid documents have receipts.
func (s *Service) RenderReceipt(ctx context.Context, id string) (invoicedomain.RenderedFile, error) {
	if s.pdf == nil {
		return invoicedomain.RenderedFile{}, errRendererNotConfigured
	}
	input, err := s.renderInput(ctx, id)
	if err != nil {
		return invoicedomain.RenderedFile{}, err
	}
	if input.Document.Status != invoicedomain.StatusPaid {
		return invoicedomain.RenderedFile{}, fmt.Errorf("%w: receipts are issued for paid documents, document is %s",
			invoicedomain.ErrLifecycleViolation, input.Document.Status)
	}

	start := time.Now()
	out, err := s.pdf.GenerateReceipt(ctx, render.BuildView(input))
	s.metrics.ObserveRender("receipt", time.Since(start))
	if err != nil {
		return invoicedomain.RenderedFile{}, err
	}

	body, err := readRendered(out)
	if err != nil {
		return invoicedomain.RenderedFile{}, err
	}
	return invoicedomain.RenderedFile{
		Filename:    "receipt-" + documentFilename(input.Document),
		ContentType: contentTypePDF,
		Body:        body,
	}, nil
}

func (s *Service) ShareMessage(ctx context.Context, id string) (string, error) {
	input, err := s.renderInput(ctx, id)
	if err != nil {
		return "", err
	}
	return render.ShareMessage(input), nil
}

func (s *Service) renderInput(ctx context.Context, id string) (render.RenderInput, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return render.RenderInput{}, err
	}

	practice := s.practice.Get()
	return render.RenderInput{
		Practice: render.PracticeView{
			Name:         practice.Name,
			Tagline:      practice.Tagline,
			Email:        practice.Email,
			Phone:        practice.Phone,
			Address:      practice.Address,
			FooterNotes:  practice.FooterNotes,
			PrimaryColor: practice.PrimaryColor,
			LogoPath:     practice.LogoPath,
		},
		Document: doc.Snapshot(),
		Locale:   s.locale,
	}, nil
}

func readRendered(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errRendererNotConfigured
	}
	return io.ReadAll(r)
}

func documentFilename(snap invoicedomain.Snapshot) string {
	if number := strings.TrimSpace(snap.InvoiceNumber); number != "" {
		return number + ".pdf"
	}
	prefix := "invoice"
	if snap.IsQuotation {
		prefix = "quotation"
	}
	return prefix + "-" + snap.ID + ".pdf"
}
