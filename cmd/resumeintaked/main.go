package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/resume-intake/internal/archive"
	"github.com/joseph-ayodele/resume-intake/internal/common"
	"github.com/joseph-ayodele/resume-intake/internal/extract"
	"github.com/joseph-ayodele/resume-intake/internal/intake"
	"github.com/joseph-ayodele/resume-intake/internal/llm"
	"github.com/joseph-ayodele/resume-intake/internal/llm/gemini"
	"github.com/joseph-ayodele/resume-intake/internal/ocr"
	"github.com/joseph-ayodele/resume-intake/internal/rowstore"
	"github.com/joseph-ayodele/resume-intake/internal/server"
	"github.com/joseph-ayodele/resume-intake/internal/twilio"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(slogger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Generative model client + field recovery engine
	gem, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, slogger)
	if err != nil {
		log.Fatalf("creating gemini client: %v", err)
	}
	recoverer := llm.NewEngine(gem, cfg.LLM.Timeout, slogger)

	// Text extraction engine
	extractor := extract.NewOCRAdapter(ocr.NewExtractor(ocr.Config{}, slogger), slogger)

	// Row store: hosted spreadsheet when configured, local workbook otherwise
	var store rowstore.RowStore
	if cfg.RowStore.SpreadsheetID != "" {
		store, err = rowstore.NewSheetsStore(ctx,
			cfg.RowStore.SpreadsheetID,
			cfg.RowStore.SheetName,
			cfg.RowStore.CredentialsPath,
			slogger,
		)
		if err != nil {
			log.Fatalf("creating sheets row store: %v", err)
		}
		log.Infow("row store ready", "backend", "sheets", "spreadsheet_id", cfg.RowStore.SpreadsheetID)
	} else {
		store = rowstore.NewXLSXStore(cfg.RowStore.XLSXPath, cfg.RowStore.SheetName, slogger)
		log.Infow("row store ready", "backend", "xlsx", "path", cfg.RowStore.XLSXPath)
	}
	// Header setup is best-effort: a reachable store at startup is not a
	// hard requirement, appends carry their own error handling.
	if err := store.EnsureHeader(ctx); err != nil {
		log.Warnf("ensuring header row: %v", err)
	}

	// Optional intake journal
	var journal *archive.Journal
	if cfg.Archive.DBPath != "" {
		journal, err = archive.Open(cfg.Archive.DBPath, slogger)
		if err != nil {
			log.Fatalf("opening intake journal: %v", err)
		}
		defer journal.Close()
	}

	downloader := twilio.NewDownloader(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Downloads.Dir,
		cfg.Twilio.DownloadTimeout,
		slogger,
	)

	svc := intake.NewService(slogger, intake.Config{
		RequirePersist: cfg.RequirePersist,
		KeepDownloads:  cfg.Downloads.KeepDownloads,
	}, extractor, recoverer, store, downloader, journal)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(svc, slogger).Handler(),
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
}
