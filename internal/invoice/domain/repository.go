package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, doc *Document) error
	Update(ctx context.Context, db *gorm.DB, doc *Document) error
	// FindByID returns nil, nil when no document has the id.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Document, error)
	List(ctx context.Context, db *gorm.DB, filter ListDocumentFilter, page pagination.Pagination) ([]*Document, error)
	// NextSequence allocates the next invoice sequence number for key, starting at 1.
	NextSequence(ctx context.Context, db *gorm.DB, key string) (int64, error)
}
