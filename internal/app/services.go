package app

import (
	"tlpswitch/internal/applier"
	"tlpswitch/internal/profile"
	"tlpswitch/internal/reconciler"
	"tlpswitch/internal/watcher"
	"tlpswitch/pkg/logging"
)

// Services holds the components of the reconciliation engine.
//
// Field descriptions:
//   - Store: discovers profiles in the profile directory
//   - Resolver: matches profiles against the live configuration
//   - Watcher: debounced directory change notifications (nil for one-shot use)
//   - Applier: the privileged copy-and-reload
//   - Controller: the state machine tying them together
type Services struct {
	Store      *profile.Store
	Resolver   *profile.Resolver
	Watcher    *watcher.DirectoryWatcher
	Applier    *applier.Applier
	Controller *reconciler.Controller
}

// InitializeServices creates the engine components from cfg.TLPSwitchConfig.
// The controller is created but not started.
func InitializeServices(cfg *Config) (*Services, error) {
	tc := cfg.TLPSwitchConfig

	store := profile.NewStore(tc.Profiles.Dir, tc.Profiles.Locale)
	resolver := profile.NewResolver(tc.Profiles.LiveConfigPath)
	apl := applier.New(applier.Config{
		ElevateCommand: tc.Apply.ElevateCommand,
		ReloadCommand:  tc.Apply.ReloadCommand,
		LiveConfigPath: tc.Profiles.LiveConfigPath,
	})

	services := &Services{
		Store:    store,
		Resolver: resolver,
		Applier:  apl,
	}

	// A nil *DirectoryWatcher must not end up inside the interface.
	var source reconciler.ChangeSource
	if cfg.Watch {
		services.Watcher = watcher.New(tc.Profiles.Dir, tc.Profiles.Debounce)
		source = services.Watcher
	}

	services.Controller = reconciler.NewController(store, resolver, apl, source, reconciler.Config{
		PostApplyDelay: tc.Apply.SettleDelay,
	})

	logging.Debug("Services", "Profiles in %s, live config %s, watch=%v",
		store.Dir(), resolver.LiveConfigPath(), cfg.Watch)
	return services, nil
}
