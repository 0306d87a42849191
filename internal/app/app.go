// Package app holds process-wide state for the voice reception service.
package app

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-voice-reception-service/internal/config"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config
}

// New constructs a new Application from the provided configuration.
// All shared components are built from here; nothing is created at
// import time.
func New(cfg *config.Config) *Application {
	a := &Application{
		Cfg: cfg,
	}
	a.setupLogger()

	a.Logger.Info().Msg("AI voice reception service application created")
	return a
}

// setupLogger configures zerolog for the service.
func (a *Application) setupLogger() {
	logLevel := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(a.Cfg.Observability.LogLevel)); err == nil {
		logLevel = parsed
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	if a.Cfg.Observability.LogFormat == "console" {
		a.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Str("service", "ai-voice-reception-service").
			Logger()
	} else {
		a.Logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("service", "ai-voice-reception-service").
			Logger()
	}

	a.Logger.Info().
		Str("logLevel", logLevel.String()).
		Msg("Logger setup completed")
}

// Start performs any startup work required before serving traffic.
func (a *Application) Start() error {
	a.StartupTime = time.Now().UTC()
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("AI voice reception service starting")
	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	a.Logger.Info().Msg("AI voice reception service shutting down")
}

// SessionLogger returns a logger carrying per-call context.
func (a *Application) SessionLogger(callSid, from, clinicID string) zerolog.Logger {
	return a.Logger.With().
		Str("callSid", callSid).
		Str("from", from).
		Str("clinicId", clinicID).
		Logger()
}
