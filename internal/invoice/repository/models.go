package repository

import (
	"time"

	"gorm.io/datatypes"

	"github.com/smallbiznis/clinicbill/internal/invoice/domain"
)

// DocumentRecord is the documents row. Totals and change due are derived on load and never stored.
type DocumentRecord struct {
	ID             int64                             `gorm:"primaryKey;autoIncrement:false"`
	Status         string                            `gorm:"size:16;not null;index"`
	AmountPaid     *int64                            `gorm:"column:amount_paid"`
	PaymentMethod  string                            `gorm:"size:32;not null;default:''"`
	InvoiceNumber  *string                           `gorm:"size:64;uniqueIndex"`
	BillTo         datatypes.JSONType[domain.BillTo] `gorm:"column:bill_to"`
	Notes          string                            `gorm:"type:text"`
	InvoiceDate    time.Time                         `gorm:"not null"`
	DueDate        *time.Time
	FinalizedAt    *time.Time
	PaidAt         *time.Time
	VoidedAt       *time.Time
	VoidReason     string `gorm:"type:text"`
	DuplicatedFrom *int64 `gorm:"index"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time
}

func (DocumentRecord) TableName() string { return "documents" }

// DocumentItemRecord keeps line item order through Position.
type DocumentItemRecord struct {
	ID          uint   `gorm:"primaryKey"`
	DocumentID  int64  `gorm:"not null;uniqueIndex:idx_document_items_position,priority:1"`
	Position    int    `gorm:"not null;uniqueIndex:idx_document_items_position,priority:2"`
	Description string `gorm:"type:text;not null"`
	Quantity    int64  `gorm:"not null"`
	UnitPrice   int64  `gorm:"not null"`
}

func (DocumentItemRecord) TableName() string { return "document_items" }

// InvoiceSequenceRecord holds the last allocated invoice sequence per key.
type InvoiceSequenceRecord struct {
	SequenceKey string `gorm:"primaryKey;size:32"`
	Seq         int64  `gorm:"not null"`
}

func (InvoiceSequenceRecord) TableName() string { return "invoice_sequences" }

// Models lists every record the repository persists, in migration order.
func Models() []any {
	return []any{&DocumentRecord{}, &DocumentItemRecord{}, &InvoiceSequenceRecord{}}
}
