// Package persist stores track save states as numbered JSON files
// (track_state_<n>.json) in a flat directory. Listing, reading, writing, and
// deleting by path are the only operations; malformed documents propagate
// their decode error since no recovery is attempted.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	filePrefix = "track_state_"
	fileExt    = ".json"
)

// Store persists lists of track save states to a named backing location.
type Store interface {
	// List returns the paths of every persisted save file, sorted by name.
	//
	// Returns:
	//   - []string: the save file paths
	List() []string

	// Read loads the save-state list from the file at path. A vanished file
	// returns an error wrapping os.ErrNotExist so callers can skip silently;
	// malformed JSON propagates the decode error.
	//
	// Parameters:
	//   - path: the save file path
	//
	// Returns:
	//   - []common.TrackSaveState: the decoded snapshots
	//   - error: read or decode error
	Read(path string) ([]common.TrackSaveState, error)

	// Write serializes states to the file at path, replacing any previous
	// content.
	//
	// Parameters:
	//   - path: the save file path
	//   - states: the snapshots to persist
	//
	// Returns:
	//   - error: encode or write error
	Write(path string, states []common.TrackSaveState) error

	// Delete removes the file at path from storage. Deleting a vanished file
	// is not an error.
	//
	// Parameters:
	//   - path: the save file path
	//
	// Returns:
	//   - error: removal error
	Delete(path string) error

	// NextPath returns the first unused track_state_<n>.json path in the
	// store's directory.
	//
	// Returns:
	//   - string: the next free save file path
	NextPath() string

	// Watch invokes onChange whenever the store's directory content changes,
	// until the store is closed. Only one watcher is supported.
	//
	// Parameters:
	//   - onChange: callback fired on any create/remove/rename in the directory
	//
	// Returns:
	//   - error: watcher setup error
	Watch(onChange func()) error

	// Close stops the watcher, if any.
	Close()
}

// fileStore is the single implementation of Store.
type fileStore struct {
	mu *sync.Mutex

	dir string
	log zerolog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Compile-time interface compliance check
var _ Store = &fileStore{}

// NewFileStore creates a store over the given directory, creating it if
// missing.
//
// Parameters:
//   - dir: the backing directory
//   - options: functional options to configure the store
//
// Returns:
//   - Store: the newly created store
//   - error: error if the directory cannot be created
func NewFileStore(dir string, options ...FileStoreOption) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persist: creating store directory %s: %w", dir, err)
	}

	s := &fileStore{
		mu:  &sync.Mutex{},
		dir: dir,
		log: zerolog.Nop(),
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

func (s *fileStore) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warn().Err(err).Str("dir", s.dir).Msg("listing save directory failed")
		return nil
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExt) {
			paths = append(paths, filepath.Join(s.dir, name))
		}
	}
	sort.Strings(paths)
	return paths
}

func (s *fileStore) Read(path string) ([]common.TrackSaveState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persist: reading %s: %w", path, err)
	}

	var states []common.TrackSaveState
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("persist: decoding %s: %w", path, err)
	}
	return states, nil
}

func (s *fileStore) Write(path string, states []common.TrackSaveState) error {
	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encoding save states: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persist: writing %s: %w", path, err)
	}
	s.log.Info().Str("path", path).Int("tracks", len(states)).Msg("save states written")
	return nil
}

func (s *fileStore) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("persist: deleting %s: %w", path, err)
	}
	s.log.Info().Str("path", path).Msg("save file deleted")
	return nil
}

func (s *fileStore) NextPath() string {
	existing := make(map[string]struct{})
	for _, p := range s.List() {
		existing[filepath.Base(p)] = struct{}{}
	}
	for n := 0; ; n++ {
		name := fmt.Sprintf("%s%d%s", filePrefix, n, fileExt)
		if _, ok := existing[name]; !ok {
			return filepath.Join(s.dir, name)
		}
	}
}

func (s *fileStore) Watch(onChange func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		return fmt.Errorf("persist: store already has a watcher")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("persist: creating watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("persist: watching %s: %w", s.dir, err)
	}

	s.watcher = w
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case <-s.done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Write) {
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn().Err(err).Msg("save directory watcher error")
			}
		}
	}()
	return nil
}

func (s *fileStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		return
	}
	close(s.done)
	s.watcher.Close()
	s.watcher = nil
}
