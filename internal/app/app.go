// Package app wires configuration into the long-lived simulator services.
package app

import (
	"context"

	"github.com/Herodot91/gov-simulator/internal/catalog"
	"github.com/Herodot91/gov-simulator/internal/config"
	"github.com/Herodot91/gov-simulator/internal/debrief"
	"github.com/Herodot91/gov-simulator/internal/engine"
	"github.com/Herodot91/gov-simulator/internal/logger"
	"github.com/Herodot91/gov-simulator/internal/report"
	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Engine   *engine.Engine
	Exporter *report.Exporter
	// Briefer is nil when no Gemini API key is configured.
	Briefer *debrief.Briefer
}

// New builds the services described by cfg. Quiet is passed to the logger
// so terminal output is discarded while the TUI owns the screen.
func New(ctx context.Context, cfg *config.Config, quiet bool) (*App, error) {
	lc := cfg.Logger()
	lc.Quiet = quiet
	log, err := logger.New(lc)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.Debug("catalog loaded", zap.Int("scenarios", cat.Len()), zap.String("path", cfg.CatalogPath))

	a := &App{
		Config:   cfg,
		Log:      log,
		Engine:   engine.NewEngine(cat, log.Named("engine")),
		Exporter: report.NewExporter(cfg.ExportDir),
	}

	if cfg.GeminiAPIKey != "" {
		b, err := debrief.NewBriefer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log.Named("debrief"))
		if err != nil {
			log.Warn("press briefing disabled", zap.Error(err))
		} else {
			a.Briefer = b
		}
	}
	return a, nil
}

func (a *App) Close() {
	if a.Briefer != nil {
		a.Briefer.Close()
	}
	_ = a.Log.Sync()
}
