package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/clinicbill/pkg/db/pagination"
)

type LineItemInput struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type CreateDocumentRequest struct {
	Quotation bool            `json:"quotation"`
	BillTo    BillTo          `json:"bill_to"`
	Notes     string          `json:"notes"`
	DueDate   *time.Time      `json:"due_date"`
	Items     []LineItemInput `json:"items"`
}

type UpdateDetailsRequest struct {
	BillTo  BillTo     `json:"bill_to"`
	Notes   string     `json:"notes"`
	DueDate *time.Time `json:"due_date"`
}

// RecordPaymentRequest clears the payment when AmountPaid is empty.
type RecordPaymentRequest struct {
	AmountPaid string `json:"amount_paid"`
	Method     string `json:"payment_method"`
}

type ListDocumentRequest struct {
	Status    string
	PageToken string
	PageSize  int32
}

type ListDocumentFilter struct {
	Status Status
}

type ListDocumentResponse struct {
	pagination.PageInfo
	Documents []Snapshot `json:"documents"`
}

// RenderedFile is an exported document ready to stream to a client.
type RenderedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type Service interface {
	Create(ctx context.Context, req CreateDocumentRequest) (Snapshot, error)
	GetByID(ctx context.Context, id string) (Snapshot, error)
	Snapshot(ctx context.Context, id string) (Snapshot, error)
	List(ctx context.Context, req ListDocumentRequest) (ListDocumentResponse, error)

	AddItem(ctx context.Context, id string, item LineItemInput) (Snapshot, error)
	UpdateItem(ctx context.Context, id string, index int, item LineItemInput) (Snapshot, error)
	RemoveItem(ctx context.Context, id string, index int) (Snapshot, error)
	UpdateDetails(ctx context.Context, id string, req UpdateDetailsRequest) (Snapshot, error)
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (Snapshot, error)

	Finalize(ctx context.Context, id string) (Snapshot, error)
	ConvertToInvoice(ctx context.Context, id string) (Snapshot, error)
	MarkPaid(ctx context.Context, id string) (Snapshot, error)
	Void(ctx context.Context, id string, reason string) (Snapshot, error)
	DuplicateAsQuotation(ctx context.Context, id string) (Snapshot, error)

	RenderHTML(ctx context.Context, id string) (string, error)
	RenderPDF(ctx context.Context, id string) (RenderedFile, error)
	RenderReceipt(ctx context.Context, id string) (RenderedFile, error)
	ShareMessage(ctx context.Context, id string) (string, error)

	Summary(ctx context.Context, req SummaryRequest) (Summary, error)
}
