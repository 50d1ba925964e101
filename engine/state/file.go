package state

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
)

// newSlotLabel names the synthetic "new file" slot at the top of the browser.
const newSlotLabel = "<new>"

// fileState browses the persisted save files plus the synthetic new-file
// slot. The dominant hand cycles and saves/loads, the recessive hand deletes.
// The store's change watcher marks the listing dirty so external edits to the
// save directory show up without rescanning every tick.
type fileState struct {
	deps Deps

	listing []string
	// selected indexes the browser: 0 is the synthetic slot, 1..len(listing)
	// are the files.
	selected int
	dirty    atomic.Bool
	feedback string
}

// Compile-time interface compliance check
var _ State = &fileState{}

// NewFileState creates the save-file browsing state. When a store is
// configured, its change watcher is attached here for the life of the
// session.
//
// Parameters:
//   - deps: the shared collaborators
//
// Returns:
//   - State: the newly created state
func NewFileState(deps Deps) State {
	s := &fileState{deps: deps, feedback: common.StateKindFile.String()}
	if deps.Store != nil {
		if err := deps.Store.Watch(func() { s.dirty.Store(true) }); err != nil {
			deps.Log.Warn().Err(err).Msg("save directory watcher unavailable")
		}
	}
	return s
}

func (s *fileState) Kind() common.StateKind {
	return common.StateKindFile
}

func (s *fileState) Enter() {
	s.refreshListing()
	s.selected = 0
}

func (s *fileState) Tick(frame input.Frame, reg rig.Registry) common.StateKind {
	if requested := s.deps.menuRequest(common.StateKindFile, frame.Recessive); requested != common.StateKindFile {
		s.selected = 0
		return requested
	}
	if s.deps.Store == nil {
		return common.StateKindFile
	}

	if s.dirty.Swap(false) {
		s.refreshListing()
	}

	entries := len(s.listing) + 1
	if step := verticalCycle(frame.Dominant); step != 0 {
		s.selected = common.WrapIndex(s.selected, step, entries)
	}

	switch {
	case frame.Dominant.PrimaryPressed:
		s.save(reg)
	case frame.Dominant.SecondaryPressed && s.selected > 0:
		s.load(reg)
	case frame.Recessive.SecondaryPressed && s.selected > 0:
		s.delete()
	}

	s.feedback = fmt.Sprintf("%s · %s", common.StateKindFile, s.selectedLabel())
	return common.StateKindFile
}

func (s *fileState) Feedback() string {
	return s.feedback
}

// save persists every current pair: to a fresh file when the synthetic slot
// is selected, otherwise overwriting the selected file.
func (s *fileState) save(reg rig.Registry) {
	path := ""
	if s.selected == 0 {
		path = s.deps.Store.NextPath()
	} else {
		path = s.listing[s.selected-1]
	}
	if err := s.deps.Store.Write(path, reg.SaveStates()); err != nil {
		s.deps.Log.Error().Err(err).Str("path", path).Msg("saving track pairs failed")
		return
	}
	s.refreshListing()
}

// load replaces the registry's content with the selected file. A file that
// vanished since listing is skipped silently; malformed content is fatal
// since no recovery is attempted.
func (s *fileState) load(reg rig.Registry) {
	path := s.listing[s.selected-1]
	states, err := s.deps.Store.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		s.deps.Log.Info().Str("path", path).Msg("selected save file vanished; skipping load")
		s.refreshListing()
		return
	}
	if err != nil {
		s.deps.Log.Fatal().Err(err).Str("path", path).Msg("corrupt save file")
	}

	reg.Clear()
	if err := reg.LoadSaveStates(states, s.deps.Cfg.TrackOptions()...); err != nil {
		s.deps.Log.Fatal().Err(err).Str("path", path).Msg("corrupt save file")
	}
	reg.RefreshAll()
	s.deps.Log.Info().Str("path", path).Int("pairs", reg.Len()).Msg("track pairs loaded")
}

// delete removes the selected file from storage and the listing, reverting
// the selection to the synthetic slot.
func (s *fileState) delete() {
	path := s.listing[s.selected-1]
	if err := s.deps.Store.Delete(path); err != nil {
		s.deps.Log.Error().Err(err).Str("path", path).Msg("deleting save file failed")
		return
	}
	s.listing = append(s.listing[:s.selected-1], s.listing[s.selected:]...)
	s.selected = 0
}

func (s *fileState) refreshListing() {
	if s.deps.Store == nil {
		return
	}
	s.listing = s.deps.Store.List()
	if s.selected > len(s.listing) {
		s.selected = 0
	}
}

func (s *fileState) selectedLabel() string {
	if s.selected == 0 {
		return newSlotLabel
	}
	return s.listing[s.selected-1]
}
