// Package file implements the repository interfaces on top of JSON
// documents in a single data directory: wardrobe.json, collections.json and
// profile.json. One writer is assumed; the application service serializes
// access.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/internal/domain"
)

const (
	wardrobeFile    = "wardrobe.json"
	collectionsFile = "collections.json"
	profileFile     = "profile.json"
)

// Options controls load behavior. With Strict false a corrupt backing file
// is logged and treated as empty; with Strict true it is returned as a
// storage failure so the caller can refuse to start.
type Options struct {
	Strict bool
	Logger *logrus.Logger
}

// Store owns the data directory shared by the three repositories.
type Store struct {
	dir  string
	opts Options
}

func NewStore(dir string, opts Options) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty data directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", domain.ErrStorageFailure, err)
	}
	return &Store{dir: dir, opts: opts}, nil
}

func (s *Store) Wardrobe() *WardrobeRepository {
	return &WardrobeRepository{store: s, path: filepath.Join(s.dir, wardrobeFile)}
}

func (s *Store) Collections() *CollectionRepository {
	return &CollectionRepository{store: s, path: filepath.Join(s.dir, collectionsFile)}
}

func (s *Store) Profile() *ProfileRepository {
	return &ProfileRepository{store: s, path: filepath.Join(s.dir, profileFile)}
}

// readJSON loads path into dest. Returns false when no usable document was
// loaded: the file is missing, or it is malformed and strict mode is off.
// json.Unmarshal fills dest as far as it gets before failing, so on a false
// return the caller must discard dest and use its empty value.
func (s *Store) readJSON(path string, dest any) (bool, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", domain.ErrStorageFailure, filepath.Base(path), err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		if s.opts.Strict {
			return false, fmt.Errorf("%w: decode %s: %v", domain.ErrStorageFailure, filepath.Base(path), err)
		}
		if s.opts.Logger != nil {
			s.opts.Logger.WithError(err).WithField("file", filepath.Base(path)).
				Error("corrupt backing file, falling back to empty state")
		}
		return false, nil
	}
	return true, nil
}

// writeJSON re-serializes the whole value and atomically replaces path via
// a temp file and rename, so a torn write never clobbers the last good
// snapshot.
func (s *Store) writeJSON(path string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrStorageFailure, filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", domain.ErrStorageFailure, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageFailure, filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", domain.ErrStorageFailure, filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStorageFailure, filepath.Base(path), err)
	}
	return nil
}
