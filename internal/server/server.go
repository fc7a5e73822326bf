package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/clinicbill/internal/config"
	invoicedomain "github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/internal/observability"
	obsmiddleware "github.com/smallbiznis/clinicbill/internal/observability/logger"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Logger:          log,
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(obsCfg, log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	invoiceSvc invoicedomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	InvoiceSvc invoicedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		invoiceSvc: p.InvoiceSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Documents --------
	api.GET("/documents", s.ListDocuments)
	api.POST("/documents", s.CreateDocument)
	api.GET("/documents/:id", s.GetDocumentByID)
	api.PATCH("/documents/:id", s.UpdateDocumentDetails)

	// -------- Line items --------
	api.POST("/documents/:id/items", s.AddDocumentItem)
	api.PUT("/documents/:id/items/:index", s.UpdateDocumentItem)
	api.DELETE("/documents/:id/items/:index", s.RemoveDocumentItem)

	// -------- Payment --------
	api.PUT("/documents/:id/payment", s.RecordDocumentPayment)

	// -------- Lifecycle --------
	api.POST("/documents/:id/finalize", s.FinalizeDocument)
	api.POST("/documents/:id/convert", s.ConvertDocument)
	api.POST("/documents/:id/pay", s.MarkDocumentPaid)
	api.POST("/documents/:id/void", s.VoidDocument)
	api.POST("/documents/:id/duplicate", s.DuplicateDocument)

	// -------- Rendering --------
	api.GET("/documents/:id/snapshot", s.GetDocumentSnapshot)
	api.GET("/documents/:id/view", s.ViewDocument)
	api.GET("/documents/:id/pdf", s.DownloadDocumentPDF)
	api.GET("/documents/:id/receipt", s.DownloadDocumentReceipt)
	api.GET("/documents/:id/share", s.GetDocumentShareMessage)

	// -------- Reports --------
	api.GET("/reports/summary", s.GetReportSummary)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
