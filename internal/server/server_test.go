package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/clinicbill/internal/clock"
	"github.com/smallbiznis/clinicbill/internal/config"
	invoicedomain "github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/internal/invoice/render"
	"github.com/smallbiznis/clinicbill/internal/invoice/repository"
	"github.com/smallbiznis/clinicbill/internal/invoice/service"
	"github.com/smallbiznis/clinicbill/internal/money"
	"github.com/smallbiznis/clinicbill/internal/observability"
	"github.com/smallbiznis/clinicbill/internal/observability/metrics"
	"github.com/smallbiznis/clinicbill/internal/providers/pdf"
)

type documentEnvelope struct {
	Data invoicedomain.Snapshot `json:"data"`
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repository.Models()...))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{Environment: "test", Currency: money.DefaultLocale}
	svc, err := service.NewService(service.ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.Provide(),
		Clock:    clock.NewFakeClock(time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)),
		Config:   cfg,
		Practice: config.NewStaticPracticeConfigHolder(config.PracticeConfig{Name: "Sunrise Vet Clinic"}),
		Renderer: render.NewRenderer(),
		PDF:      pdf.New(),
		Metrics:  metrics.New(prometheus.NewRegistry(), metrics.Config{Environment: "test"}),
	})
	require.NoError(t, err)

	engine := NewEngine(observability.Config{Environment: "test"}, zap.NewNop())
	NewServer(ServerParams{Gin: engine, Cfg: cfg, InvoiceSvc: svc})
	return engine
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeDocument(t *testing.T, rec *httptest.ResponseRecorder) invoicedomain.Snapshot {
	t.Helper()
	var env documentEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func createDocument(t *testing.T, r http.Handler, quotation bool) invoicedomain.Snapshot {
	t.Helper()
	rec := doRequest(t, r, http.MethodPost, "/api/documents", invoicedomain.CreateDocumentRequest{
		Quotation: quotation,
		BillTo:    invoicedomain.BillTo{Name: "Jane Patient"},
		Items: []invoicedomain.LineItemInput{
			{Description: "Consultation", Quantity: 1, UnitPrice: "500.00"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeDocument(t, rec)
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)

	rec := doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDocumentLifecycleOverHTTP(t *testing.T) {
	r := newTestServer(t)
	doc := createDocument(t, r, false)
	assert.Equal(t, invoicedomain.StatusDraft, doc.Status)
	assert.Equal(t, money.FromMinor(50000), doc.Total)

	rec := doRequest(t, r, http.MethodPost, "/api/documents/"+doc.ID+"/items", invoicedomain.LineItemInput{
		Description: "Bandage", Quantity: 2, UnitPrice: "25",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, money.FromMinor(55000), decodeDocument(t, rec).Total)

	rec = doRequest(t, r, http.MethodDelete, "/api/documents/"+doc.ID+"/items/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeDocument(t, rec).Items, 1)

	rec = doRequest(t, r, http.MethodPost, "/api/documents/"+doc.ID+"/finalize", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	finalized := decodeDocument(t, rec)
	assert.Equal(t, invoicedomain.StatusFinalized, finalized.Status)
	assert.Equal(t, "INV-20251103-001", finalized.InvoiceNumber)

	rec = doRequest(t, r, http.MethodPut, "/api/documents/"+doc.ID+"/payment", invoicedomain.RecordPaymentRequest{
		AmountPaid: "600", Method: "Cash",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, money.FromMinor(10000), decodeDocument(t, rec).ChangeDue)

	rec = doRequest(t, r, http.MethodPost, "/api/documents/"+doc.ID+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, invoicedomain.StatusPaid, decodeDocument(t, rec).Status)

	rec = doRequest(t, r, http.MethodGet, "/api/documents/"+doc.ID+"/receipt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "receipt-INV-20251103-001.pdf")

	rec = doRequest(t, r, http.MethodPost, "/api/documents/"+doc.ID+"/items", invoicedomain.LineItemInput{
		Description: "Late", Quantity: 1, UnitPrice: "1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "lifecycle_violation", decodeError(t, rec).Type)

	rec = doRequest(t, r, http.MethodPost, "/api/documents/"+doc.ID+"/void", voidDocumentRequest{Reason: "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "illegal_transition", decodeError(t, rec).Type)
}

func TestQuotationOverHTTP(t *testing.T) {
	r := newTestServer(t)
	quote := createDocument(t, r, true)
	assert.True(t, quote.IsQuotation)

	rec := doRequest(t, r, http.MethodGet, "/api/documents/"+quote.ID+"/view", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "QUOTATION")

	rec = doRequest(t, r, http.MethodGet, "/api/documents/"+quote.ID+"/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quotation #: DRAFT")

	rec = doRequest(t, r, http.MethodGet, "/api/documents/"+quote.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = doRequest(t, r, http.MethodGet, "/api/documents/"+quote.ID+"/receipt", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/documents/"+quote.ID+"/convert", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	converted := decodeDocument(t, rec)
	assert.False(t, converted.IsQuotation)
	assert.Equal(t, invoicedomain.StatusFinalized, converted.Status)

	rec = doRequest(t, r, http.MethodPost, "/api/documents/"+quote.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dup := decodeDocument(t, rec)
	assert.Equal(t, invoicedomain.StatusQuotation, dup.Status)
	assert.Equal(t, quote.ID, dup.DuplicatedFrom)
}

func TestVoidWithoutBody(t *testing.T) {
	r := newTestServer(t)
	doc := createDocument(t, r, false)

	rec := doRequest(t, r, http.MethodPost, "/api/documents/"+doc.ID+"/void", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, invoicedomain.StatusVoid, decodeDocument(t, rec).Status)
}

func TestVoidWithChunkedEmptyBody(t *testing.T) {
	r := newTestServer(t)
	doc := createDocument(t, r, false)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/"+doc.ID+"/void", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	voided := decodeDocument(t, rec)
	assert.Equal(t, invoicedomain.StatusVoid, voided.Status)
	assert.Empty(t, voided.VoidReason)
}

func TestVoidWithMalformedBody(t *testing.T) {
	r := newTestServer(t)
	doc := createDocument(t, r, false)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/"+doc.ID+"/void", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Type)
}

func TestReportSummaryOverHTTP(t *testing.T) {
	r := newTestServer(t)
	paid := createDocument(t, r, false)
	createDocument(t, r, true)

	rec := doRequest(t, r, http.MethodPost, "/api/documents/"+paid.ID+"/finalize", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doRequest(t, r, http.MethodPut, "/api/documents/"+paid.ID+"/payment", invoicedomain.RecordPaymentRequest{
		AmountPaid: "600", Method: "Cash",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doRequest(t, r, http.MethodPost, "/api/documents/"+paid.ID+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, r, http.MethodGet, "/api/reports/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data invoicedomain.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Rows, 2)
	assert.Equal(t, "2025-11", resp.Data.Rows[0].Month)
	assert.Equal(t, invoicedomain.StatusQuotation, resp.Data.Rows[0].Status)
	assert.Equal(t, invoicedomain.StatusPaid, resp.Data.Rows[1].Status)
	assert.Equal(t, invoicedomain.SummaryTotals{
		DocumentCount:  2,
		QuotationCount: 1,
		TotalInvoiced:  money.FromMinor(50000),
		TotalPaid:      money.FromMinor(50000),
	}, resp.Data.Totals)

	rec = doRequest(t, r, http.MethodGet, "/api/reports/summary?from=2025-12-01", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Rows)

	for _, query := range []string{"from=yesterday", "to=2025-13-40", "status=archived", "from=2025-12-01&to=2025-11-01"} {
		rec = doRequest(t, r, http.MethodGet, "/api/reports/summary?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Equal(t, "validation_error", decodeError(t, rec).Type, query)
	}
}

func TestListDocumentsOverHTTP(t *testing.T) {
	r := newTestServer(t)
	createDocument(t, r, false)
	createDocument(t, r, true)

	rec := doRequest(t, r, http.MethodGet, "/api/documents?status=quotation", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data     []invoicedomain.Snapshot `json:"data"`
		PageInfo struct {
			HasMore bool `json:"has_more"`
		} `json:"page_info"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, invoicedomain.StatusQuotation, resp.Data[0].Status)
	assert.False(t, resp.PageInfo.HasMore)

	rec = doRequest(t, r, http.MethodGet, "/api/documents?page_size=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/documents?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	r := newTestServer(t)
	doc := createDocument(t, r, false)

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		status   int
		errorTyp string
	}{
		{"invalid id", http.MethodGet, "/api/documents/abc", nil, http.StatusBadRequest, "validation_error"},
		{"missing document", http.MethodGet, "/api/documents/42", nil, http.StatusNotFound, "not_found"},
		{"unknown route", http.MethodGet, "/api/nothing", nil, http.StatusNotFound, "not_found"},
		{"bad index", http.MethodDelete, "/api/documents/" + doc.ID + "/items/x", nil, http.StatusBadRequest, "validation_error"},
		{"index out of range", http.MethodDelete, "/api/documents/" + doc.ID + "/items/9", nil, http.StatusBadRequest, "validation_error"},
		{"negative payment", http.MethodPut, "/api/documents/" + doc.ID + "/payment", invoicedomain.RecordPaymentRequest{AmountPaid: "-5", Method: "Cash"}, http.StatusBadRequest, "validation_error"},
		{"unknown method", http.MethodPut, "/api/documents/" + doc.ID + "/payment", invoicedomain.RecordPaymentRequest{AmountPaid: "5", Method: "Barter"}, http.StatusBadRequest, "validation_error"},
		{"tender beyond range", http.MethodPut, "/api/documents/" + doc.ID + "/payment", invoicedomain.RecordPaymentRequest{AmountPaid: "184467440737095516.17", Method: "Cash"}, http.StatusBadRequest, "validation_error"},
		{"line amount beyond range", http.MethodPost, "/api/documents/" + doc.ID + "/items", invoicedomain.LineItemInput{Description: "Implant batch", Quantity: 1 << 40, UnitPrice: "10737418.24"}, http.StatusBadRequest, "validation_error"},
		{"pay without payment", http.MethodPost, "/api/documents/" + doc.ID + "/pay", nil, http.StatusConflict, "illegal_transition"},
		{"convert draft", http.MethodPost, "/api/documents/" + doc.ID + "/convert", nil, http.StatusConflict, "lifecycle_violation"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, r, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.errorTyp, decodeError(t, rec).Type)
		})
	}
}

func TestCreateDocument_MalformedBody(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_request", payload.Errors[0].Code)
}
