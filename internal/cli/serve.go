package cli

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gpa-calculator/api/swagger"
	"github.com/noah-isme/gpa-calculator/internal/handler"
	"github.com/noah-isme/gpa-calculator/internal/repository"
	"github.com/noah-isme/gpa-calculator/internal/service"
	"github.com/noah-isme/gpa-calculator/pkg/cache"
	"github.com/noah-isme/gpa-calculator/pkg/config"
	"github.com/noah-isme/gpa-calculator/pkg/export"
	"github.com/noah-isme/gpa-calculator/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logr, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logr.Sync() //nolint:errcheck

			repo, closeRepo, err := newSessionRepository(cfg, logr)
			if err != nil {
				return err
			}
			defer closeRepo()

			metrics := service.NewMetricsService()
			sessions := service.NewSessionService(repo, service.SessionConfig{
				TTL:        cfg.Sessions.TTL,
				MaxCourses: cfg.Sessions.MaxCourses,
			}, validator.New(), logr, metrics)
			exports := service.NewExportService(sessions, export.NewCSVExporter(), export.NewPDFExporter(), logr)

			r := handler.NewRouter(handler.RouterDeps{
				Config:   cfg,
				Logger:   logr,
				Sessions: sessions,
				Exports:  exports,
				Metrics:  metrics,
			})

			addr := fmt.Sprintf(":%d", cfg.Port)
			logr.Sugar().Infow("server starting",
				"addr", addr,
				"env", cfg.Env,
				"session_store", cfg.Sessions.Store,
				"html_form", cfg.Form.Enabled,
				"exports", cfg.Exports.Enabled,
			)
			return r.Run(addr)
		},
	}
}

func newSessionRepository(cfg *config.Config, logr *zap.Logger) (service.SessionRepository, func(), error) {
	if cfg.Sessions.Store != config.StoreRedis {
		return repository.NewMemorySessionRepository(), func() {}, nil
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis session store: %w", err)
	}
	repo := repository.NewRedisSessionRepository(client, logr)
	return repo, func() { _ = repo.Close() }, nil
}
