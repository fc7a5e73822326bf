package metrics

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smallbiznis/clinicbill/internal/invoice/domain"
)

// Config supplies the constant labels attached to every series.
type Config struct {
	ServiceName string
	Environment string
}

const (
	RejectionIllegalTransition = "illegal_transition"
	RejectionValidation        = "validation"
	RejectionLifecycle         = "lifecycle"
	RejectionInvalidAmount     = "invalid_amount"
	RejectionUnknown           = "unknown"
)

// DocumentMetrics captures document lifecycle and rendering signals.
type DocumentMetrics struct {
	documentsCreated *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
}

// New registers the document instruments with registerer.
func New(registerer prometheus.Registerer, cfg Config) *DocumentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "clinicbill"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	documentsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "clinicbill_documents_created_total",
		Help:        "Documents created by initial status.",
		ConstLabels: constLabels,
	}, []string{"status"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "clinicbill_document_transitions_total",
		Help:        "Applied document status transitions.",
		ConstLabels: constLabels,
	}, []string{"from", "to"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "clinicbill_document_rejections_total",
		Help:        "Rejected document operations by reason.",
		ConstLabels: constLabels,
	}, []string{"operation", "reason"})
	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "clinicbill_document_render_duration_seconds",
		Help:        "Time spent rendering documents by output format.",
		ConstLabels: constLabels,
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"format"})

	registerer.MustRegister(documentsCreated, transitions, rejections, renderDuration)

	return &DocumentMetrics{
		documentsCreated: documentsCreated,
		transitions:      transitions,
		rejections:       rejections,
		renderDuration:   renderDuration,
	}
}

// NewDefault registers with the process-wide registry served on /metrics.
func NewDefault(cfg Config) *DocumentMetrics {
	return New(prometheus.DefaultRegisterer, cfg)
}

func (m *DocumentMetrics) IncDocumentCreated(status domain.Status) {
	if m == nil {
		return
	}
	m.documentsCreated.WithLabelValues(string(status)).Inc()
}

func (m *DocumentMetrics) IncTransition(from, to domain.Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// IncRejection counts a domain error returned by operation. Non-domain errors are ignored.
func (m *DocumentMetrics) IncRejection(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	reason := ClassifyRejection(err)
	if reason == RejectionUnknown {
		return
	}
	m.rejections.WithLabelValues(operation, reason).Inc()
}

func (m *DocumentMetrics) ObserveRender(format string, duration time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// ClassifyRejection maps domain errors to low-cardinality reasons.
func ClassifyRejection(err error) string {
	switch {
	case err == nil:
		return RejectionUnknown
	case errors.Is(err, domain.ErrIllegalTransition):
		return RejectionIllegalTransition
	case errors.Is(err, domain.ErrLifecycleViolation):
		return RejectionLifecycle
	case errors.Is(err, domain.ErrInvalidAmount):
		return RejectionInvalidAmount
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrIndexOutOfRange):
		return RejectionValidation
	default:
		return RejectionUnknown
	}
}
