package profile

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"tlpswitch/pkg/logging"
)

const resolverSubsystem = "ActiveProfileResolver"

// defaultReadConcurrency bounds the number of profile files read at once.
const defaultReadConcurrency = 4

// Resolution is the outcome of matching a profile set against the live config.
type Resolution struct {
	// ActiveID is the id of the matching profile, empty when none matches.
	ActiveID string

	// LiveConfigErr is set when the live config could not be read. This is a
	// legitimate "unmanaged" state, not a failure.
	LiveConfigErr error

	// Skipped lists ids of profiles that could not be read during the pass.
	Skipped []string
}

// Found reports whether a profile matched.
func (r Resolution) Found() bool {
	return r.ActiveID != ""
}

// Resolver determines which profile, if any, matches the live configuration.
type Resolver struct {
	liveConfigPath string
	concurrency    int
	readFile       func(string) ([]byte, error)
}

// NewResolver creates a resolver that compares profiles against liveConfigPath.
func NewResolver(liveConfigPath string) *Resolver {
	return &Resolver{
		liveConfigPath: liveConfigPath,
		concurrency:    defaultReadConcurrency,
		readFile:       os.ReadFile,
	}
}

// LiveConfigPath returns the path of the live configuration file.
func (r *Resolver) LiveConfigPath() string {
	return r.liveConfigPath
}

// Resolve returns the first profile in set whose content is Equivalent to the
// live configuration. Profile files are read concurrently but the first match
// in set order always wins. Unreadable profiles are skipped.
func (r *Resolver) Resolve(ctx context.Context, set Set) Resolution {
	if len(set) == 0 {
		return Resolution{}
	}

	live, err := r.readFile(r.liveConfigPath)
	if err != nil {
		logging.Debug(resolverSubsystem, "Live config %s unreadable, no active profile: %v", r.liveConfigPath, err)
		return Resolution{LiveConfigErr: &Error{Kind: KindLiveConfigUnreadable, Path: r.liveConfigPath, Err: err}}
	}
	want := Normalize(string(live))

	contents := make([]*string, len(set))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, d := range set {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			data, err := r.readFile(d.SourcePath)
			if err != nil {
				logging.Debug(resolverSubsystem, "Skipping profile %s: %v", d.ID, err)
				return nil
			}
			normalized := Normalize(string(data))
			contents[i] = &normalized
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.Debug(resolverSubsystem, "Resolution cancelled: %v", err)
		return Resolution{}
	}

	var res Resolution
	for i, d := range set {
		if contents[i] == nil {
			res.Skipped = append(res.Skipped, d.ID)
			continue
		}
		if *contents[i] == want {
			res.ActiveID = d.ID
			break
		}
	}

	if res.Found() {
		logging.Debug(resolverSubsystem, "Active profile is %s", res.ActiveID)
	} else {
		logging.Debug(resolverSubsystem, "No profile matches %s", r.liveConfigPath)
	}
	return res
}
