package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gemforge/cad-converter/internal/config"
	"github.com/gemforge/cad-converter/internal/store"
	"github.com/gemforge/cad-converter/pkg/log"
	"github.com/gemforge/cad-converter/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if cfg.Service.MigrationFolder != "" {
			if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder); err != nil {
				zap.S().Fatalw("running goose migrations", "error", err)
			}
			zap.S().Info("Db migrated")
			return nil
		}

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		zap.S().Info("Db migrated")
		return nil
	},
}
