package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/clinicbill/internal/clock"
	"github.com/smallbiznis/clinicbill/internal/config"
	invoicedomain "github.com/smallbiznis/clinicbill/internal/invoice/domain"
	invoiceformat "github.com/smallbiznis/clinicbill/internal/invoice/format"
	"github.com/smallbiznis/clinicbill/internal/invoice/render"
	"github.com/smallbiznis/clinicbill/internal/money"
	"github.com/smallbiznis/clinicbill/internal/observability/logger"
	"github.com/smallbiznis/clinicbill/internal/observability/metrics"
	"github.com/smallbiznis/clinicbill/internal/providers/pdf"
	"github.com/smallbiznis/clinicbill/pkg/db"
	"github.com/smallbiznis/clinicbill/pkg/db/pagination"
)

const defaultPageSize = 50

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     invoicedomain.Repository
	Clock    clock.Clock
	Config   config.Config
	Practice *config.PracticeConfigHolder
	Renderer render.Renderer
	PDF      pdf.Provider
	Metrics  *metrics.DocumentMetrics `optional:"true"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID          *snowflake.Node
	repo           invoicedomain.Repository
	clock          clock.Clock
	locale         money.Locale
	numberTemplate string
	practice       *config.PracticeConfigHolder
	renderer       render.Renderer
	pdf            pdf.Provider
	metrics        *metrics.DocumentMetrics
}

func NewService(p ServiceParam) (invoicedomain.Service, error) {
	template := strings.TrimSpace(p.Config.InvoiceNumberTemplate)
	if template == "" {
		template = invoiceformat.DefaultInvoiceNumberTemplate
	}
	if err := invoiceformat.ValidateTemplate(template); err != nil {
		return nil, err
	}

	practice := p.Practice
	if practice == nil {
		practice = config.NewStaticPracticeConfigHolder(p.Config.Practice)
	}

	return &Service{
		db:             p.DB,
		log:            p.Log.Named("invoice.service"),
		genID:          p.GenID,
		repo:           p.Repo,
		clock:          p.Clock,
		locale:         p.Config.Currency,
		numberTemplate: template,
		practice:       practice,
		renderer:       p.Renderer,
		pdf:            p.PDF,
		metrics:        p.Metrics,
	}, nil
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateDocumentRequest) (invoicedomain.Snapshot, error) {
	intent := invoicedomain.StatusDraft
	if req.Quotation {
		intent = invoicedomain.StatusQuotation
	}

	doc, err := invoicedomain.NewDocument(s.genID.Generate(), intent, s.clock.Now())
	if err != nil {
		return invoicedomain.Snapshot{}, err
	}
	if err := doc.SetDetails(req.BillTo, req.Notes, req.DueDate); err != nil {
		return invoicedomain.Snapshot{}, err
	}
	for i, input := range req.Items {
		item, err := toLineItem(input)
		if err != nil {
			return invoicedomain.Snapshot{}, fmt.Errorf("item %d: %w", i, err)
		}
		if err := doc.AddItem(item); err != nil {
			return invoicedomain.Snapshot{}, fmt.Errorf("item %d: %w", i, err)
		}
	}

	if err := s.repo.Insert(ctx, s.db, doc); err != nil {
		return invoicedomain.Snapshot{}, err
	}

	s.metrics.IncDocumentCreated(intent)
	logger.WithContext(ctx, s.log).Info("document created",
		zap.String("document_id", doc.ID().String()),
		zap.String("status", string(intent)),
		zap.Int("items", len(req.Items)),
	)
	return doc.Snapshot(), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Snapshot, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return invoicedomain.Snapshot{}, err
	}
	return doc.Snapshot(), nil
}

// Snapshot is the render projection consumed by the screen and PDF exporters.
func (s *Service) Snapshot(ctx context.Context, id string) (invoicedomain.Snapshot, error) {
	return s.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListDocumentRequest) (invoicedomain.ListDocumentResponse, error) {
	var filter invoicedomain.ListDocumentFilter
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, err := invoicedomain.ParseStatus(raw)
		if err != nil {
			return invoicedomain.ListDocumentResponse{}, err
		}
		filter.Status = status
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: strings.TrimSpace(req.PageToken),
		PageSize:  int(pageSize),
	})
	if err != nil {
		return invoicedomain.ListDocumentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(doc *invoicedomain.Document) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        doc.ID().String(),
			CreatedAt: doc.CreatedAt().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	docs := make([]invoicedomain.Snapshot, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		docs = append(docs, item.Snapshot())
	}

	return invoicedomain.ListDocumentResponse{PageInfo: *pageInfo, Documents: docs}, nil
}

func (s *Service) AddItem(ctx context.Context, id string, input invoicedomain.LineItemInput) (invoicedomain.Snapshot, error) {
	return s.mutate(ctx, "add_item", id, func(_ *gorm.DB, doc *invoicedomain.Document) error {
		item, err := toLineItem(input)
		if err != nil {
			return err
		}
		return doc.AddItem(item)
	})
}

func (s *Service) UpdateItem(ctx context.Context, id string, index int, input invoicedomain.LineItemInput) (invoicedomain.Snapshot, error) {
	return s.mutate(ctx, "update_item", id, func(_ *gorm.DB, doc *invoicedomain.Document) error {
		item, err := toLineItem(input)
		if err != nil {
			return err
		}
		return doc.UpdateItem(index, item)
	})
}

func (s *Service) RemoveItem(ctx context.Context, id string, index int) (invoicedomain.Snapshot, error) {
	return s.mutate(ctx, "remove_item", id, func(_ *gorm.DB, doc *invoicedomain.Document) error {
		return doc.RemoveItem(index)
	})
}

func (s *Service) UpdateDetails(ctx context.Context, id string, req invoicedomain.UpdateDetailsRequest) (invoicedomain.Snapshot, error) {
	return s.mutate(ctx, "update_details", id, func(_ *gorm.DB, doc *invoicedomain.Document) error {
		return doc.SetDetails(req.BillTo, req.Notes, req.DueDate)
	})
}

func (s *Service) RecordPayment(ctx context.Context, id string, req invoicedomain.RecordPaymentRequest) (invoicedomain.Snapshot, error) {
	var amount *money.Money
	if raw := strings.TrimSpace(req.AmountPaid); raw != "" {
		parsed, err := money.ParseNonNegative(raw)
		if err != nil {
			if errors.Is(err, money.ErrParse) {
				err = fmt.Errorf("%w: amount paid: %w", invoicedomain.ErrValidation, err)
			}
			s.metrics.IncRejection("record_payment", err)
			return invoicedomain.Snapshot{}, err
		}
		amount = &parsed
	}
	method, err := invoicedomain.ParsePaymentMethod(req.Method)
	if err != nil {
		s.metrics.IncRejection("record_payment", err)
		return invoicedomain.Snapshot{}, err
	}

	return s.mutate(ctx, "record_payment", id, func(_ *gorm.DB, doc *invoicedomain.Document) error {
		return doc.SetPayment(amount, method)
	})
}

func (s *Service) Finalize(ctx context.Context, id string) (invoicedomain.Snapshot, error) {
	return s.transition(ctx, "finalize", id, invoicedomain.StatusFinalized, "", nil)
}

// ConvertToInvoice finalizes a quotation. Drafts must use Finalize.
func (s *Service) ConvertToInvoice(ctx context.Context, id string) (invoicedomain.Snapshot, error) {
	return s.transition(ctx, "convert", id, invoicedomain.StatusFinalized, "", func(doc *invoicedomain.Document) error {
		if !doc.IsQuotation() {
			return fmt.Errorf("%w: only quotations can be converted, document is %s", invoicedomain.ErrLifecycleViolation, doc.Status())
		}
		return nil
	})
}

func (s *Service) MarkPaid(ctx context.Context, id string) (invoicedomain.Snapshot, error) {
	return s.transition(ctx, "mark_paid", id, invoicedomain.StatusPaid, "", nil)
}

func (s *Service) Void(ctx context.Context, id string, reason string) (invoicedomain.Snapshot, error) {
	return s.transition(ctx, "void", id, invoicedomain.StatusVoid, reason, nil)
}

func (s *Service) DuplicateAsQuotation(ctx context.Context, id string) (invoicedomain.Snapshot, error) {
	srcID, err := parseID(id)
	if err != nil {
		return invoicedomain.Snapshot{}, err
	}

	var dup *invoicedomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := s.repo.FindByID(ctx, tx, srcID)
		if err != nil {
			return err
		}
		if src == nil {
			return invoicedomain.ErrNotFound
		}
		dup, err = invoicedomain.DuplicateAsQuotation(src, s.genID.Generate(), s.clock.Now())
		if err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, dup)
	})
	if err != nil {
		s.metrics.IncRejection("duplicate", err)
		return invoicedomain.Snapshot{}, err
	}

	s.metrics.IncDocumentCreated(invoicedomain.StatusQuotation)
	logger.WithContext(ctx, s.log).Info("document duplicated as quotation",
		zap.String("document_id", dup.ID().String()),
		zap.String("duplicated_from", srcID.String()),
	)
	return dup.Snapshot(), nil
}

func (s *Service) transition(
	ctx context.Context,
	operation, id string,
	to invoicedomain.Status,
	reason string,
	precondition func(doc *invoicedomain.Document) error,
) (invoicedomain.Snapshot, error) {
	var from invoicedomain.Status
	snap, err := s.mutate(ctx, operation, id, func(tx *gorm.DB, doc *invoicedomain.Document) error {
		if precondition != nil {
			if err := precondition(doc); err != nil {
				return err
			}
		}
		from = doc.Status()
		return doc.Transition(to, invoicedomain.TransitionOptions{
			Numbers: s.numberSource(ctx, tx),
			At:      s.clock.Now(),
			Reason:  reason,
		})
	})
	if err != nil {
		return invoicedomain.Snapshot{}, err
	}

	s.metrics.IncTransition(from, to)
	logger.WithContext(ctx, s.log).Info("document transitioned",
		zap.String("document_id", snap.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("invoice_number", snap.InvoiceNumber),
	)
	return snap, nil
}

// mutate loads the document, applies fn and persists the result in one transaction.
func (s *Service) mutate(
	ctx context.Context,
	operation, rawID string,
	fn func(tx *gorm.DB, doc *invoicedomain.Document) error,
) (invoicedomain.Snapshot, error) {
	id, err := parseID(rawID)
	if err != nil {
		return invoicedomain.Snapshot{}, err
	}

	var snap invoicedomain.Snapshot
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return invoicedomain.ErrNotFound
		}
		if err := fn(tx, doc); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, doc); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return fmt.Errorf("%w: %s", invoicedomain.ErrInvoiceNumberConflict, doc.InvoiceNumber())
			}
			return err
		}
		snap = doc.Snapshot()
		return nil
	})
	if err != nil {
		s.metrics.IncRejection(operation, err)
		logger.WithDocument(logger.WithContext(ctx, s.log), rawID).Debug("document operation rejected",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return invoicedomain.Snapshot{}, err
	}
	return snap, nil
}

// numberSource allocates invoice numbers inside the caller's transaction.
func (s *Service) numberSource(ctx context.Context, tx *gorm.DB) invoicedomain.NumberSource {
	return invoicedomain.NumberFunc(func() (string, error) {
		issuedAt := s.clock.Now()
		seq, err := s.repo.NextSequence(ctx, tx, invoiceformat.SequenceKey(s.numberTemplate, issuedAt))
		if err != nil {
			return "", err
		}
		return invoiceformat.FormatInvoiceNumber(s.numberTemplate, issuedAt, seq)
	})
}

func (s *Service) load(ctx context.Context, rawID string) (*invoicedomain.Document, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return doc, nil
}

func toLineItem(input invoicedomain.LineItemInput) (invoicedomain.LineItem, error) {
	price, err := money.ParseNonNegative(input.UnitPrice)
	if err != nil {
		return invoicedomain.LineItem{}, fmt.Errorf("%w: unit price: %w", invoicedomain.ErrValidation, err)
	}
	return invoicedomain.LineItem{
		Description: input.Description,
		Quantity:    input.Quantity,
		UnitPrice:   price,
	}, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, invoicedomain.ErrInvalidID
	}
	return id, nil
}
