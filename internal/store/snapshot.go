package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/peterkuimelis/cardsmith/internal/log"
)

// Snapshot is the full interchange representation of the store: the only
// wire/file format the core owns. Field shapes match the entity types.
type Snapshot struct {
	Cards  []Card           `json:"cards"`
	Sets   []CardSet        `json:"sets"`
	Themes []JumpstartTheme `json:"themes"`
}

// Snapshot exports the current aggregate.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Cards:  s.Cards(),
		Sets:   s.Sets(),
		Themes: s.Themes(),
	}
}

// Import wholesale-replaces the store's contents with the snapshot.
// The "none" set is never taken from imported data: it is regenerated
// fresh and any incoming set with that id is dropped, so even an
// untrusted payload can't displace it. Missing themes default to empty.
//
// The payload is deliberately not integrity-checked: membership ids that
// reference nothing stay dangling (and render as nothing) until a delete
// cascade touches them.
func (s *Store) Import(snap Snapshot) {
	cards := snap.Cards
	if cards == nil {
		cards = []Card{}
	}
	themes := snap.Themes
	if themes == nil {
		themes = []JumpstartTheme{}
	}
	sets := []CardSet{noneSet()}
	for _, set := range snap.Sets {
		if set.ID == NoneSetID {
			continue
		}
		sets = append(sets, set)
	}

	s.cards = cards
	s.sets = sets
	s.themes = themes
	s.logger.Log(log.NewImportEvent(len(cards), len(sets), len(themes)))
}

// ParseSnapshot decodes a snapshot payload. This is the all-or-nothing
// stage: a malformed payload returns an error and the caller's store is
// untouched; once parsed, Import always succeeds.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot JSON: %w", err)
	}
	return snap, nil
}

// ReadSnapshotFile loads a snapshot from disk.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	return ParseSnapshot(data)
}

// WriteSnapshotFile persists a snapshot to disk, pretty-printed so the
// file diffs cleanly under version control.
func WriteSnapshotFile(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
