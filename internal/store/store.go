package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/cardsmith/internal/log"
)

// NoneSetID is the id of the distinguished "unassigned" set. It exists in
// every store state, survives Clear and Import, and cannot be deleted.
const NoneSetID = "none"

func noneSet() CardSet {
	return CardSet{
		ID:           NoneSetID,
		Name:         "None",
		Abbreviation: "NONE",
		Note:         "Default set for unassigned cards",
		CardIDs:      []string{},
	}
}

// Config carries the store's injectable collaborators. Zero values are
// fine: a nil Logger gets an in-memory logger, a nil Now uses time.Now.
type Config struct {
	Logger log.EventLogger
	Now    func() time.Time
}

// Store is the single mutable aggregate owning all three collections.
//
// Every mutation either fully applies or is a silent no-op: operations
// referencing unknown ids never fail, so stale ids from a previous render
// pass can't crash a caller. The store is not safe for concurrent use; a
// server wrapping it must hold one critical section around each call,
// since cascades read and write several collections.
type Store struct {
	cards  []Card
	sets   []CardSet
	themes []JumpstartTheme

	logger log.EventLogger
	now    func() time.Time
}

// New creates a store in its initial state: no cards, no themes, and the
// single "none" set.
func New(cfg Config) *Store {
	if cfg.Logger == nil {
		cfg.Logger = log.NewMemoryLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		cards:  []Card{},
		sets:   []CardSet{noneSet()},
		themes: []JumpstartTheme{},
		logger: cfg.Logger,
		now:    cfg.Now,
	}
}

// Logger returns the store's event logger.
func (s *Store) Logger() log.EventLogger {
	return s.logger
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

func newID() string {
	return uuid.NewString()
}

// --- Cards ---

// AddCard creates a card from the input, assigning a fresh id and both
// timestamps, and returns the new id. Never fails.
func (s *Store) AddCard(in CardInput) string {
	id := newID()
	ts := s.nowMillis()
	s.cards = append(s.cards, Card{
		ID:         id,
		Name:       in.Name,
		ManaCost:   in.ManaCost,
		SuperType:  in.SuperType,
		Type:       in.Type,
		SubType:    in.SubType,
		Rarity:     in.Rarity,
		RulesText:  in.RulesText,
		FlavorText: in.FlavorText,
		ArtworkURL: in.ArtworkURL,
		Artist:     in.Artist,
		Power:      in.Power,
		Toughness:  in.Toughness,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	})
	s.logger.Log(log.NewCardAddedEvent(id, in.Name))
	return id
}

// UpdateCard replaces the stored card with the same id. CreatedAt is kept
// from the stored record and UpdatedAt is stamped by the store; any
// caller-supplied timestamps are ignored. Unknown id: silent no-op.
func (s *Store) UpdateCard(card Card) {
	for i := range s.cards {
		if s.cards[i].ID != card.ID {
			continue
		}
		card.CreatedAt = s.cards[i].CreatedAt
		// UpdatedAt must strictly increase even when the clock hasn't
		// advanced a full millisecond between updates.
		ts := s.nowMillis()
		if ts <= s.cards[i].UpdatedAt {
			ts = s.cards[i].UpdatedAt + 1
		}
		card.UpdatedAt = ts
		s.cards[i] = card
		s.logger.Log(log.NewCardUpdatedEvent(card.ID, card.Name))
		return
	}
}

// DeleteCard removes the card and scrubs its id from every set's and
// theme's membership. Unknown id: silent no-op.
func (s *Store) DeleteCard(id string) {
	idx := -1
	for i := range s.cards {
		if s.cards[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	s.cards = append(s.cards[:idx], s.cards[idx+1:]...)
	for i := range s.sets {
		s.sets[i].CardIDs = removeID(s.sets[i].CardIDs, id)
	}
	for i := range s.themes {
		s.themes[i].CardIDs = removeID(s.themes[i].CardIDs, id)
	}
	s.logger.Log(log.NewCardDeletedEvent(id))
}

// CardByID looks a card up by id.
func (s *Store) CardByID(id string) (Card, bool) {
	for i := range s.cards {
		if s.cards[i].ID == id {
			return s.cards[i], true
		}
	}
	return Card{}, false
}

// Cards returns all cards in insertion order.
func (s *Store) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// --- Sets ---

// AddSet creates a set with a fresh id and empty membership, returning
// the new id.
func (s *Store) AddSet(in SetInput) string {
	id := newID()
	s.sets = append(s.sets, CardSet{
		ID:           id,
		Name:         in.Name,
		Abbreviation: in.Abbreviation,
		Note:         in.Note,
		CardIDs:      []string{},
	})
	s.logger.Log(log.NewSetAddedEvent(id, in.Name))
	return id
}

// UpdateSet replaces the stored set with the same id. Membership is taken
// from the supplied record, deduplicated to keep set semantics. Unknown
// id: silent no-op.
func (s *Store) UpdateSet(set CardSet) {
	for i := range s.sets {
		if s.sets[i].ID != set.ID {
			continue
		}
		set.CardIDs = dedupIDs(set.CardIDs)
		s.sets[i] = set
		s.logger.Log(log.NewSetUpdatedEvent(set.ID, set.Name))
		return
	}
}

// DeleteSet removes the set and every theme owned by it. The "none" set
// is never deleted; asking is a silent no-op, as is an unknown id.
func (s *Store) DeleteSet(id string) {
	if id == NoneSetID {
		return
	}
	idx := -1
	for i := range s.sets {
		if s.sets[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	s.sets = append(s.sets[:idx], s.sets[idx+1:]...)
	kept := s.themes[:0]
	removed := 0
	for _, t := range s.themes {
		if t.SetID == id {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.themes = kept
	s.logger.Log(log.NewSetDeletedEvent(id, removed))
}

// AddCardToSet adds cardID to the set's membership. Adding a card that is
// already a member changes nothing. The card's existence is deliberately
// not checked (tolerant ingestion; cascades restore integrity later).
// Unknown set id: silent no-op.
func (s *Store) AddCardToSet(setID, cardID string) {
	for i := range s.sets {
		if s.sets[i].ID != setID {
			continue
		}
		if s.sets[i].Contains(cardID) {
			return
		}
		s.sets[i].CardIDs = append(s.sets[i].CardIDs, cardID)
		s.logger.Log(log.NewCardAddedToSetEvent(setID, cardID))
		return
	}
}

// RemoveCardFromSet removes cardID from the set's membership. Removing an
// absent id, or naming an unknown set, changes nothing.
func (s *Store) RemoveCardFromSet(setID, cardID string) {
	for i := range s.sets {
		if s.sets[i].ID != setID {
			continue
		}
		if !s.sets[i].Contains(cardID) {
			return
		}
		s.sets[i].CardIDs = removeID(s.sets[i].CardIDs, cardID)
		s.logger.Log(log.NewCardRemovedFromSetEvent(setID, cardID))
		return
	}
}

// SetByID looks a set up by id. The returned copy shares no membership
// storage with the store.
func (s *Store) SetByID(id string) (CardSet, bool) {
	for i := range s.sets {
		if s.sets[i].ID == id {
			set := s.sets[i]
			set.CardIDs = copyIDs(set.CardIDs)
			return set, true
		}
	}
	return CardSet{}, false
}

// SetByAbbreviation looks a set up by its abbreviation (exact match).
func (s *Store) SetByAbbreviation(abbr string) (CardSet, bool) {
	for i := range s.sets {
		if s.sets[i].Abbreviation == abbr {
			set := s.sets[i]
			set.CardIDs = copyIDs(set.CardIDs)
			return set, true
		}
	}
	return CardSet{}, false
}

// Sets returns all sets in insertion order; the "none" set is first in a
// fresh or imported store. Membership slices are copied, so later
// mutations (delete cascades compact in place) can't reach into a caller's
// snapshot.
func (s *Store) Sets() []CardSet {
	out := make([]CardSet, len(s.sets))
	for i := range s.sets {
		out[i] = s.sets[i]
		out[i].CardIDs = copyIDs(s.sets[i].CardIDs)
	}
	return out
}

// SetPool resolves a set's card pool: all existing cards whose id is in
// the set's membership, in card-collection order. Dangling membership ids
// simply don't resolve.
func (s *Store) SetPool(setID string) []Card {
	set, ok := s.SetByID(setID)
	if !ok {
		return nil
	}
	var pool []Card
	for i := range s.cards {
		if set.Contains(s.cards[i].ID) {
			pool = append(pool, s.cards[i])
		}
	}
	return pool
}

// --- Themes ---

// AddTheme creates a theme with a fresh id and empty membership, owned by
// in.SetID, returning the new id. The owning set's existence is not
// validated at creation time.
func (s *Store) AddTheme(in ThemeInput) string {
	id := newID()
	s.themes = append(s.themes, JumpstartTheme{
		ID:      id,
		Name:    in.Name,
		Element: in.Element,
		Note:    in.Note,
		CardIDs: []string{},
		SetID:   in.SetID,
	})
	s.logger.Log(log.NewThemeAddedEvent(id, in.Name))
	return id
}

// UpdateTheme replaces the stored theme with the same id, deduplicating
// membership. Unknown id: silent no-op.
func (s *Store) UpdateTheme(theme JumpstartTheme) {
	for i := range s.themes {
		if s.themes[i].ID != theme.ID {
			continue
		}
		theme.CardIDs = dedupIDs(theme.CardIDs)
		s.themes[i] = theme
		s.logger.Log(log.NewThemeUpdatedEvent(theme.ID, theme.Name))
		return
	}
}

// DeleteTheme removes the theme. Themes own no children, so nothing
// cascades. Unknown id: silent no-op.
func (s *Store) DeleteTheme(id string) {
	for i := range s.themes {
		if s.themes[i].ID != id {
			continue
		}
		s.themes = append(s.themes[:i], s.themes[i+1:]...)
		s.logger.Log(log.NewThemeDeletedEvent(id))
		return
	}
}

// AddCardToTheme adds cardID to the theme's membership and, if the card
// isn't already in the theme's owning set, to that set as well: a theme's
// cards are always a subset of its set's cards. Unknown theme id: silent
// no-op.
func (s *Store) AddCardToTheme(themeID, cardID string) {
	for i := range s.themes {
		if s.themes[i].ID != themeID {
			continue
		}
		s.AddCardToSet(s.themes[i].SetID, cardID)
		if s.themes[i].Contains(cardID) {
			return
		}
		s.themes[i].CardIDs = append(s.themes[i].CardIDs, cardID)
		s.logger.Log(log.NewCardAddedToThemeEvent(themeID, cardID))
		return
	}
}

// RemoveCardFromTheme removes cardID from the theme only. The card stays
// in the owning set: it may still be used by the set directly even when
// it no longer belongs to a sub-theme.
func (s *Store) RemoveCardFromTheme(themeID, cardID string) {
	for i := range s.themes {
		if s.themes[i].ID != themeID {
			continue
		}
		if !s.themes[i].Contains(cardID) {
			return
		}
		s.themes[i].CardIDs = removeID(s.themes[i].CardIDs, cardID)
		s.logger.Log(log.NewCardRemovedFromThemeEvent(themeID, cardID))
		return
	}
}

// ThemeByID looks a theme up by id. The returned copy shares no
// membership storage with the store.
func (s *Store) ThemeByID(id string) (JumpstartTheme, bool) {
	for i := range s.themes {
		if s.themes[i].ID == id {
			theme := s.themes[i]
			theme.CardIDs = copyIDs(theme.CardIDs)
			return theme, true
		}
	}
	return JumpstartTheme{}, false
}

// ThemesBySetID returns the themes owned by setID in insertion order.
func (s *Store) ThemesBySetID(setID string) []JumpstartTheme {
	var out []JumpstartTheme
	for i := range s.themes {
		if s.themes[i].SetID == setID {
			theme := s.themes[i]
			theme.CardIDs = copyIDs(theme.CardIDs)
			out = append(out, theme)
		}
	}
	return out
}

// Themes returns all themes in insertion order, with copied membership
// slices like Sets.
func (s *Store) Themes() []JumpstartTheme {
	out := make([]JumpstartTheme, len(s.themes))
	for i := range s.themes {
		out[i] = s.themes[i]
		out[i].CardIDs = copyIDs(s.themes[i].CardIDs)
	}
	return out
}

// --- Reset ---

// Clear resets the store to its initial state: empty collections plus the
// single "none" set.
func (s *Store) Clear() {
	s.cards = []Card{}
	s.sets = []CardSet{noneSet()}
	s.themes = []JumpstartTheme{}
	s.logger.Log(log.NewClearEvent())
}

// --- Helpers ---

func copyIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}

func dedupIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
