package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, doc *domain.Document) error {
	rec, items := toRecords(doc, time.Now().UTC())
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, doc *domain.Document) error {
	rec, items := toRecords(doc, time.Now().UTC())
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DocumentRecord{}).
			Where("id = ?", rec.ID).
			Select("*").
			Omit("id", "created_at").
			Updates(&rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("document_id = ?", rec.ID).Delete(&DocumentItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Document, error) {
	var rec DocumentRecord
	err := db.WithContext(ctx).
		Where("id = ?", int64(id)).
		Limit(1).
		Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == 0 {
		return nil, nil
	}

	items, err := r.loadItems(ctx, db, []int64{rec.ID})
	if err != nil {
		return nil, err
	}
	return fromRecords(rec, items[rec.ID])
}

// List returns up to page.PageSize+1 documents, newest first, so callers can detect a further page.
func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListDocumentFilter, page pagination.Pagination) ([]*domain.Document, error) {
	stmt := db.WithContext(ctx).Model(&DocumentRecord{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", string(filter.Status))
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid page token", domain.ErrValidation)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid page token", domain.ErrValidation)
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid page token", domain.ErrValidation)
		}
		stmt = stmt.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt.UTC(), createdAt.UTC(), id)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}

	var recs []DocumentRecord
	if err := stmt.Order("created_at desc, id desc").Find(&recs).Error; err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	items, err := r.loadItems(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	docs := make([]*domain.Document, 0, len(recs))
	for _, rec := range recs {
		doc, err := fromRecords(rec, items[rec.ID])
		if err != nil {
			return nil, fmt.Errorf("load document %d: %w", rec.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *repo) NextSequence(ctx context.Context, db *gorm.DB, key string) (int64, error) {
	var next int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sequence_key"}},
			DoUpdates: clause.Assignments(map[string]any{"seq": gorm.Expr("invoice_sequences.seq + 1")}),
		}).Create(&InvoiceSequenceRecord{SequenceKey: key, Seq: 1}).Error
		if err != nil {
			return err
		}

		var rec InvoiceSequenceRecord
		if err := tx.Where("sequence_key = ?", key).Take(&rec).Error; err != nil {
			return err
		}
		next = rec.Seq
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *repo) loadItems(ctx context.Context, db *gorm.DB, ids []int64) (map[int64][]DocumentItemRecord, error) {
	var rows []DocumentItemRecord
	err := db.WithContext(ctx).
		Where("document_id IN ?", ids).
		Order("document_id, position").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]DocumentItemRecord, len(ids))
	for _, row := range rows {
		out[row.DocumentID] = append(out[row.DocumentID], row)
	}
	return out, nil
}
