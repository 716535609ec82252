package profile

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tlpswitch/pkg/logging"
)

const storeSubsystem = "ProfileStore"

// Store discovers profile files in a directory.
type Store struct {
	dir string
	tag language.Tag

	// collate.Collator is not safe for concurrent use.
	mu       sync.Mutex
	collator *collate.Collator
}

// NewStore creates a store for dir. Names are ordered using the collation
// rules of locale (a BCP 47 tag); an empty or invalid tag falls back to the
// root locale.
func NewStore(dir, locale string) *Store {
	tag := language.Und
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		} else {
			logging.Warn(storeSubsystem, "Invalid locale %q, using root collation: %v", locale, err)
		}
	}

	return &Store{
		dir:      dir,
		tag:      tag,
		collator: collate.New(tag),
	}
}

// Dir returns the directory the store scans.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the profile directory if it does not exist.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &Error{Kind: KindDirectoryUnavailable, Path: s.dir, Err: err}
	}
	return nil
}

// List returns the profiles currently in the directory.
//
// The directory is created if missing. On any failure List returns an empty
// set together with a *Error of kind KindDirectoryUnavailable; the error is
// informational and the empty set is a usable result.
func (s *Store) List(ctx context.Context) (Set, error) {
	if err := ctx.Err(); err != nil {
		return Set{}, err
	}

	if err := s.EnsureDir(); err != nil {
		logging.Warn(storeSubsystem, "Profile directory unavailable: %v", err)
		return Set{}, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logging.Warn(storeSubsystem, "Failed to read profile directory %s: %v", s.dir, err)
		return Set{}, &Error{Kind: KindDirectoryUnavailable, Path: s.dir, Err: err}
	}

	set := make(Set, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, Extension) || !s.isRegular(entry) {
			continue
		}
		id := strings.TrimSuffix(name, Extension)
		if id == "" {
			continue
		}
		set = append(set, Descriptor{
			ID:          id,
			DisplayName: id,
			SourcePath:  filepath.Join(s.dir, name),
		})
	}

	s.sort(set)

	logging.Debug(storeSubsystem, "Found %d profiles in %s", len(set), s.dir)
	return set, nil
}

// isRegular reports whether entry is a regular file, following symlinks.
func (s *Store) isRegular(entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(s.dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// sort orders set by display name under the store's collation. Names that
// collate equal are ordered bytewise so the result is deterministic.
func (s *Store) sort(set Set) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(set, func(i, j int) bool {
		if c := s.collator.CompareString(set[i].DisplayName, set[j].DisplayName); c != 0 {
			return c < 0
		}
		return set[i].DisplayName < set[j].DisplayName
	})
}
