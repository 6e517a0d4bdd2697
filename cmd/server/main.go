package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/audit"
	"github.com/invoicehub/invoice-audit/internal/config"
	"github.com/invoicehub/invoice-audit/internal/document"
	httpiface "github.com/invoicehub/invoice-audit/internal/interfaces/http"
	"github.com/invoicehub/invoice-audit/internal/report"
	"github.com/invoicehub/invoice-audit/internal/repository"
	"github.com/invoicehub/invoice-audit/internal/storage"
	"github.com/invoicehub/invoice-audit/pkg/database"
	"github.com/invoicehub/invoice-audit/pkg/utils"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Invoice Audit Service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		logger.Fatal("Failed to create upload directory", zap.Error(err))
	}

	ruleRepo := repository.NewRuleRepository(db.DB, logger)
	policyRepo := repository.NewPolicyRepository(db.DB, logger)
	documentRepo := repository.NewDocumentRepository(db.DB, logger)

	if err := ruleRepo.Seed(audit.DefaultCategoryRules()); err != nil {
		logger.Fatal("Failed to seed category rules", zap.Error(err))
	}
	if err := policyRepo.Seed(audit.DefaultFieldPolicies()); err != nil {
		logger.Fatal("Failed to seed field policies", zap.Error(err))
	}

	engine := audit.NewEngine(audit.DefaultEngineConfig(), logger)

	processor := document.NewProcessor(document.ProcessorConfig{
		APIKey:      cfg.Model.APIKey,
		BaseURL:     cfg.Model.BaseURL,
		TextModel:   cfg.Model.TextModel,
		VisionModel: cfg.Model.VisionModel,
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
	}, logger)

	handlers := httpiface.NewHandlers(
		engine,
		processor,
		ruleRepo,
		policyRepo,
		documentRepo,
		storage.NewLocalUploadStore(cfg.Upload.Dir, logger),
		report.NewExporter(logger),
		httpiface.UploadConfig{
			MaxFileSize:       cfg.Upload.MaxFileSize,
			AllowedExtensions: cfg.Upload.AllowedExtensions,
			SecretKey:         cfg.Upload.SecretKey,
		},
		logger,
	)

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	// Cancel the server context on SIGINT/SIGTERM for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
