package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	invoicedomain "github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/internal/observability/logger"
	"github.com/smallbiznis/clinicbill/pkg/db/pagination"
)

const summaryBatchSize = 200

// Summary aggregates every matching document, walking the repository in cursor-sized batches.
func (s *Service) Summary(ctx context.Context, req invoicedomain.SummaryRequest) (invoicedomain.Summary, error) {
	var filter invoicedomain.ListDocumentFilter
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, err := invoicedomain.ParseStatus(raw)
		if err != nil {
			return invoicedomain.Summary{}, err
		}
		filter.Status = status
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return invoicedomain.Summary{}, fmt.Errorf("%w: from must be before to", invoicedomain.ErrValidation)
	}

	var (
		snaps []invoicedomain.Snapshot
		token string
	)
	for {
		docs, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
			PageToken: token,
			PageSize:  summaryBatchSize,
		})
		if err != nil {
			return invoicedomain.Summary{}, err
		}

		page := docs
		if len(page) > summaryBatchSize {
			page = page[:summaryBatchSize]
		}
		for _, doc := range page {
			snap := doc.Snapshot()
			if req.InWindow(snap) {
				snaps = append(snaps, snap)
			}
		}
		if len(docs) <= summaryBatchSize {
			break
		}

		last := page[len(page)-1]
		token, err = pagination.EncodeCursor(pagination.Cursor{
			ID:        last.ID().String(),
			CreatedAt: last.CreatedAt().Format(time.RFC3339Nano),
		})
		if err != nil {
			return invoicedomain.Summary{}, err
		}
	}

	summary, err := invoicedomain.Summarize(snaps)
	if err != nil {
		return invoicedomain.Summary{}, err
	}

	logger.WithContext(ctx, s.log).Debug("summary built",
		zap.Int("documents", len(snaps)),
		zap.Int("rows", len(summary.Rows)),
	)
	return summary, nil
}
