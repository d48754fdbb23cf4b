package store

import (
	"testing"
	"time"

	"github.com/peterkuimelis/cardsmith/internal/log"
)

// frozenClock always returns the same instant, to exercise the
// timestamp tie-break. tickingClock advances 1s per call.
type frozenClock struct{ at time.Time }

func (c *frozenClock) Now() time.Time { return c.at }

type tickingClock struct{ at time.Time }

func (c *tickingClock) Now() time.Time {
	c.at = c.at.Add(time.Second)
	return c.at
}

// newTestStore builds a store with a deterministic clock and an
// inspectable logger.
func newTestStore(t *testing.T) (*Store, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	clock := &tickingClock{at: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return New(Config{Logger: logger, Now: clock.Now}), logger
}

func commonCard(name string) CardInput {
	return CardInput{Name: name, Type: "Creature", Rarity: RarityCommon, SuperType: SuperTypeNone}
}

// checkIntegrity asserts the store's referential invariants: every
// membership id resolves to a card, every theme's set exists, no
// membership list holds duplicates, and the "none" set exists exactly
// once.
func checkIntegrity(t *testing.T, s *Store) {
	t.Helper()

	exists := make(map[string]bool)
	for _, c := range s.Cards() {
		exists[c.ID] = true
	}

	checkIDs := func(owner string, ids []string) {
		seen := make(map[string]bool)
		for _, id := range ids {
			if !exists[id] {
				t.Errorf("%s: dangling card reference %s", owner, id)
			}
			if seen[id] {
				t.Errorf("%s: duplicate card reference %s", owner, id)
			}
			seen[id] = true
		}
	}

	setExists := make(map[string]bool)
	noneCount := 0
	for _, set := range s.Sets() {
		setExists[set.ID] = true
		if set.ID == NoneSetID {
			noneCount++
		}
		checkIDs("set "+set.ID, set.CardIDs)
	}
	if noneCount != 1 {
		t.Errorf("expected exactly one %q set, found %d", NoneSetID, noneCount)
	}

	for _, theme := range s.Themes() {
		if !setExists[theme.SetID] {
			t.Errorf("theme %s: orphaned setId %s", theme.ID, theme.SetID)
		}
		checkIDs("theme "+theme.ID, theme.CardIDs)
	}
}
