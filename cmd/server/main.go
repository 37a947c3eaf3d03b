package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/oreka/backend/internal/config"
	"github.com/oreka/backend/internal/extract"
	"github.com/oreka/backend/internal/repository"
	"github.com/oreka/backend/internal/repository/memory"
	"github.com/oreka/backend/internal/repository/mongodb"
	"github.com/oreka/backend/internal/repository/sheets"
	"github.com/oreka/backend/internal/scheduler"
	"github.com/oreka/backend/internal/server/handlers"
	"github.com/oreka/backend/internal/server/router"
	ingestsvc "github.com/oreka/backend/internal/service/ingest"
	reportingsvc "github.com/oreka/backend/internal/service/reporting"
	"github.com/oreka/backend/pkg/clients/webhook"
	"github.com/oreka/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var (
		store     repository.Store
		snapshots repository.SnapshotSink
	)
	switch cfg.Store.Backend {
	case config.StoreBackendMongo:
		mongoStore, err := mongodb.NewStore(context.Background(), cfg.Store.MongoURI, cfg.Store.MongoDBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store, snapshots = mongoStore, mongoStore
		baseLogger.Info("using mongodb store", zap.String("db", cfg.Store.MongoDBName))
	default:
		memStore := memory.NewStore()
		store, snapshots = memStore, memStore
		baseLogger.Info("using in-memory store")
	}

	var notifier webhook.Client
	if cfg.Notify.WebhookURL != "" {
		notifier = webhook.NewClient(cfg.Notify)
		baseLogger.Info("upload webhook notifications enabled")
	}

	var audit ingestsvc.AuditExporter
	if cfg.SheetsEnabled() {
		exporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Error("sheets audit export disabled", zap.Error(err))
		} else {
			audit = exporter
			baseLogger.Info("sheets audit export enabled")
		}
	}

	csvExtractor := extract.NewCSVExtractor(logger.Named(baseLogger, "extract.csv"))
	pdfExtractor := extract.NewPDFExtractor(logger.Named(baseLogger, "extract.pdf"))

	ingestSvc := ingestsvc.NewService(store, csvExtractor, pdfExtractor, notifier, audit, logger.Named(baseLogger, "svc.ingest"))
	reportingSvc := reportingsvc.NewService(store, logger.Named(baseLogger, "svc.reporting"))

	uploadHandler := handlers.NewUploadHandler(ingestSvc, logger.Named(baseLogger, "handlers.upload"))
	dashboardHandler := handlers.NewDashboardHandler(reportingSvc, logger.Named(baseLogger, "handlers.dashboard"))
	engine := router.New(uploadHandler, dashboardHandler, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, snapshots, logger.Named(baseLogger, "scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
