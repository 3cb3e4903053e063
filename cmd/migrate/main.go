package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dealerdesk/backend/internal/infrastructure/config"
	"github.com/dealerdesk/backend/internal/infrastructure/logger"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Running schema migration",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	err = db.DB.AutoMigrate(
		&models.CarModel{},
		&models.CustomerModel{},
		&models.ContractModel{},
		&models.ContractLineModel{},
		&models.AccountingSettingsModel{},
		&models.VatMappingModel{},
		&models.AccountMappingModel{},
		&models.AccountingLinkModel{},
		&models.SyncJobModel{},
		&models.SyncLogModel{},
	)
	if err != nil {
		log.Fatal("Schema migration failed", zap.Error(err))
	}

	log.Info("Schema migration completed")
}
