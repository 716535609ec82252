package app

import (
	"context"
	"fmt"
	"os"

	"tlpswitch/internal/config"
	"tlpswitch/internal/reconciler"
	"tlpswitch/pkg/logging"
)

// Application wires configuration, logging and the reconciliation engine
// together and runs them.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: load configuration, initialize logging, build services
//  2. Execution phase: run the daemon or a one-shot operation
//
// Example usage:
//
//	cfg := app.NewConfig(false, "", "")
//	cfg.Watch = true
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication creates and initializes a new application instance.
//
//  1. Initializes logging (debug when cfg.Debug is set)
//  2. Loads the config file unless cfg.TLPSwitchConfig is already set
//  3. Applies command-line overrides and reconfigures logging from the file
//  4. Builds the engine services
func NewApplication(cfg *Config) (*Application, error) {
	if cfg.LogOutput == nil {
		cfg.LogOutput = os.Stderr
	}

	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, cfg.LogOutput)

	if cfg.TLPSwitchConfig == nil {
		loaded, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg.TLPSwitchConfig = &loaded
	}

	if cfg.ProfileDir != "" {
		cfg.TLPSwitchConfig.Profiles.Dir = cfg.ProfileDir
	}

	if !cfg.Debug {
		if parsed, err := logging.ParseLevel(cfg.TLPSwitchConfig.Log.Level); err == nil {
			level = parsed
		}
	}
	logging.Init(level, logging.Format(cfg.TLPSwitchConfig.Log.Format), cfg.LogOutput)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services returns the initialized engine components.
func (a *Application) Services() *Services {
	return a.services
}

// Settings returns the effective configuration.
func (a *Application) Settings() config.TLPSwitchConfig {
	return *a.config.TLPSwitchConfig
}

// Controller returns the reconciliation controller.
func (a *Application) Controller() *reconciler.Controller {
	return a.services.Controller
}

// Run executes the application as a long-running daemon.
//
// Handles graceful shutdown via context cancellation and system signals.
// The method blocks until the application is terminated.
func (a *Application) Run(ctx context.Context) error {
	return runDaemon(ctx, a.services)
}

// Snapshot starts the controller, waits for the first completed pass and
// returns the resulting state. The controller keeps running until Close.
func (a *Application) Snapshot(ctx context.Context) (reconciler.State, error) {
	return waitForIdle(ctx, a.services.Controller)
}

// Close stops the controller.
func (a *Application) Close() {
	a.services.Controller.Stop()
}
