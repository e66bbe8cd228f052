package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/datacustodian/governance-autopilot/pkg/classifier"
	"github.com/datacustodian/governance-autopilot/pkg/config"
	"github.com/datacustodian/governance-autopilot/pkg/llm"
	"github.com/datacustodian/governance-autopilot/pkg/repositories"
	"github.com/datacustodian/governance-autopilot/pkg/services"
	"github.com/datacustodian/governance-autopilot/pkg/sqlident"
	"github.com/datacustodian/governance-autopilot/pkg/warehouse"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <schema.table>\n", os.Args[0])
		os.Exit(2)
	}
	tableName := os.Args[1]

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.String("warehouse", cfg.Warehouse.Type),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model))

	if rendered, err := cfg.Redacted(); err == nil {
		logger.Debug("Effective configuration", zap.String("config", rendered))
	}

	if err := run(context.Background(), cfg, logger, tableName); err != nil {
		logger.Error("Governance run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, tableName string) error {
	session, err := warehouse.Connect(ctx, &cfg.Warehouse, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	client, err := llm.NewFromConfig(&llm.Config{
		Provider: cfg.AI.Provider,
		Endpoint: cfg.AI.Endpoint,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
	}, logger)
	if err != nil {
		return err
	}

	svc := services.NewProtectService(
		session,
		classifier.New(client, logger),
		repositories.NewAuditRepository(session, cfg.Governance.LogTable),
		sqlident.NewSecurityAuditor(logger),
		services.ProtectConfig{
			TagName:    cfg.Governance.TagName,
			PolicyName: cfg.Governance.PolicyName,
			SampleRows: cfg.Governance.SampleRows,
		},
		logger,
	)

	return svc.Protect(ctx, tableName)
}

// newLogger builds a production JSON logger, or a human-readable
// development logger when running locally.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
