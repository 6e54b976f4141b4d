package main

import (
	"context"
	"log"
	"net/http"

	"github.com/optimald/medequiptech/internal/config"
	"github.com/optimald/medequiptech/internal/db"
	"github.com/optimald/medequiptech/internal/handlers"
	"github.com/optimald/medequiptech/internal/lifecycle"
	"github.com/optimald/medequiptech/internal/notify"
	"github.com/optimald/medequiptech/internal/repository"
	"github.com/optimald/medequiptech/internal/router"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("cannot create logger:", err)
	}
	defer logger.Sync()

	runDBMigration(logger, cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(context.Background(), cfg)
	if err != nil {
		logger.Fatal("error initializing database", zap.Error(err))
	}
	defer dbPool.Close()

	store := repository.NewPostgresStore(dbPool)

	dispatcher := notify.NewDispatcher(notify.LogMailer{Logger: logger}, logger, cfg.NotifyBuffer)
	defer dispatcher.Close()

	service := lifecycle.NewService(store, dispatcher, logger)

	jobHandler := handlers.NewJobHandler(service, logger, cfg.RequestTimeout)
	bidHandler := handlers.NewBidHandler(service, logger, cfg.RequestTimeout)

	routes := router.InitRoutes(jobHandler, bidHandler)

	logger.Info("server is listening", zap.String("address", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = lvl
	return zapCfg.Build()
}

func runDBMigration(logger *zap.Logger, migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		logger.Fatal("cannot create a new migrate instance", zap.Error(err))
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Fatal("failed to run migrate up", zap.Error(err))
	}
	logger.Info("db migrated successfully")
}
