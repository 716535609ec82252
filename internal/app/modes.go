package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/zoobzio/capitan"

	"tlpswitch/internal/reconciler"
	"tlpswitch/pkg/logging"
)

var hookOnce sync.Once

// registerHooks logs apply outcomes from the controller signals.
func registerHooks() {
	hookOnce.Do(func() {
		capitan.Hook(reconciler.ApplySucceeded, func(_ context.Context, e *capitan.Event) {
			id, _ := reconciler.KeyProfileID.From(e)
			took, _ := reconciler.KeyDuration.From(e)
			logging.Info("Daemon", "Profile %s is now the live configuration (%v)", id, took)
		})
		capitan.Hook(reconciler.ApplyFailed, func(_ context.Context, e *capitan.Event) {
			id, _ := reconciler.KeyProfileID.From(e)
			msg, _ := reconciler.KeyError.From(e)
			logging.Warn("Daemon", "Profile %s was not applied: %s", id, msg)
		})
	})
}

// runDaemon runs the controller until interrupted.
//
// Behavior:
//   - Starts the controller with the directory watcher
//   - Logs every published state
//   - Reports readiness to systemd when started as a notify service
//   - Blocks waiting for interrupt signals (SIGINT, SIGTERM) or ctx
//   - Stops the controller on shutdown
func runDaemon(ctx context.Context, services *Services) error {
	registerHooks()

	ctrl := services.Controller
	unsubscribe := ctrl.Subscribe(logState)
	defer unsubscribe()

	if err := ctrl.Start(ctx); err != nil {
		logging.Error("Daemon", err, "Failed to start controller")
		return err
	}

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Warn("Daemon", "Failed to notify systemd: %v", err)
	} else if sent {
		logging.Debug("Daemon", "Notified systemd of readiness")
	}

	logging.Info("Daemon", "Watching %s. Press Ctrl+C to exit.", services.Store.Dir())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	logging.Info("Daemon", "Shutting down")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	ctrl.Stop()

	summary := ctrl.Metrics().Summary()
	logging.Debug("Daemon", "Ran %d passes, %d applies (%d failed)",
		summary.Passes, summary.ApplyAttempts, summary.ApplyFailures)
	return nil
}

func logState(s reconciler.State) {
	if s.Phase != reconciler.PhaseIdle {
		logging.Debug("Daemon", "Generation %d: %s", s.Generation, s.Phase)
		return
	}

	active := s.ActiveProfileID
	if active == "" {
		active = "none"
	}
	if s.LastError != "" {
		logging.Warn("Daemon", "Generation %d: %d profiles, active %s, %s: %s",
			s.Generation, len(s.Profiles), active, s.LastError, s.LastErrorDetail)
		return
	}
	logging.Info("Daemon", "Generation %d: %d profiles, active %s", s.Generation, len(s.Profiles), active)
}

// waitForIdle starts ctrl if needed and returns the first state published
// by a completed pass.
func waitForIdle(ctx context.Context, ctrl *reconciler.Controller) (reconciler.State, error) {
	states := make(chan reconciler.State, 1)
	unsubscribe := ctrl.Subscribe(func(s reconciler.State) {
		if s.Phase != reconciler.PhaseIdle {
			return
		}
		select {
		case states <- s:
		default:
		}
	})
	defer unsubscribe()

	if err := ctrl.Start(ctx); err != nil {
		if current := ctrl.Current(); current.Phase == reconciler.PhaseIdle && current.Generation > 0 {
			return current, nil
		}
		if errors.Is(err, reconciler.ErrStopped) {
			return reconciler.State{}, err
		}
		if err := ctrl.Refresh(); err != nil {
			return reconciler.State{}, err
		}
	}

	select {
	case s := <-states:
		return s, nil
	case <-ctx.Done():
		return reconciler.State{}, ctx.Err()
	}
}
