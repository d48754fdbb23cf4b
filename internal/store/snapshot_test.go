package store

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	cardID := s.AddCard(CardInput{
		Name:      "Storm Drake",
		ManaCost:  "{2}{U}",
		SuperType: SuperTypeNone,
		Type:      "Creature",
		SubType:   "Drake",
		Rarity:    RarityUncommon,
		Power:     "2",
		Toughness: "3",
	})
	setID := s.AddSet(SetInput{Name: "Alpha", Abbreviation: "ALP"})
	s.AddCardToSet(setID, cardID)
	themeID := s.AddTheme(ThemeInput{Name: "Skies", Element: "Air", SetID: setID})
	s.AddCardToTheme(themeID, cardID)

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	snap, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	restored, _ := newTestStore(t)
	restored.Import(snap)

	if !reflect.DeepEqual(s.Snapshot(), restored.Snapshot()) {
		t.Errorf("round trip mismatch:\n  exported: %+v\n  restored: %+v", s.Snapshot(), restored.Snapshot())
	}
	checkIntegrity(t, restored)
}

func TestImportRegeneratesNoneSet(t *testing.T) {
	s, _ := newTestStore(t)

	// A hostile payload tries to replace the none set with a poisoned
	// one and hide a second copy further down.
	s.Import(Snapshot{
		Cards: []Card{},
		Sets: []CardSet{
			{ID: NoneSetID, Name: "Poisoned", Abbreviation: "BAD", CardIDs: []string{"x"}},
			{ID: "alpha", Name: "Alpha", CardIDs: []string{}},
			{ID: NoneSetID, Name: "Also Poisoned", CardIDs: []string{}},
		},
	})

	sets := s.Sets()
	if len(sets) != 2 {
		t.Fatalf("expected 2 sets after import, got %d", len(sets))
	}
	if sets[0].ID != NoneSetID {
		t.Fatalf("none set is not first after import: %q", sets[0].ID)
	}
	if sets[0].Name != "None" || len(sets[0].CardIDs) != 0 {
		t.Errorf("none set was taken from the payload: %+v", sets[0])
	}
	checkIntegrity(t, s)
}

func TestImportWithoutThemesDefaultsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTheme(ThemeInput{Name: "Old", SetID: NoneSetID})

	snap, err := ParseSnapshot([]byte(`{"cards": [], "sets": []}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s.Import(snap)

	if themes := s.Themes(); len(themes) != 0 {
		t.Errorf("expected no themes after import, got %d", len(themes))
	}
}

func TestImportKeepsDanglingReferences(t *testing.T) {
	// Tolerant ingestion: dangling membership survives import and only
	// fails to resolve on read.
	s, _ := newTestStore(t)
	s.Import(Snapshot{
		Sets: []CardSet{{ID: "alpha", Name: "Alpha", CardIDs: []string{"ghost"}}},
	})

	set, ok := s.SetByID("alpha")
	if !ok {
		t.Fatal("imported set missing")
	}
	if !set.Contains("ghost") {
		t.Error("dangling reference was scrubbed on import")
	}
	if pool := s.SetPool("alpha"); len(pool) != 0 {
		t.Errorf("dangling reference resolved to %d cards", len(pool))
	}
}

func TestSnapshotIsolatedFromLaterMutations(t *testing.T) {
	// The delete cascade compacts membership in place; an earlier export
	// must keep its own copy of every membership slice.
	s, _ := newTestStore(t)

	setID := s.AddSet(SetInput{Name: "Alpha"})
	a := s.AddCard(commonCard("Card A"))
	b := s.AddCard(commonCard("Card B"))
	c := s.AddCard(commonCard("Card C"))
	for _, id := range []string{a, b, c} {
		s.AddCardToSet(setID, id)
	}

	snap := s.Snapshot()
	s.DeleteCard(a)

	var exported *CardSet
	for i := range snap.Sets {
		if snap.Sets[i].ID == setID {
			exported = &snap.Sets[i]
		}
	}
	if exported == nil {
		t.Fatal("exported snapshot missing the set")
	}
	want := []string{a, b, c}
	if !reflect.DeepEqual(exported.CardIDs, want) {
		t.Errorf("exported membership mutated by later delete: got %v, want %v", exported.CardIDs, want)
	}

	// Accessor copies must be isolated the same way.
	set, _ := s.SetByID(setID)
	s.DeleteCard(b)
	if !reflect.DeepEqual(set.CardIDs, []string{b, c}) {
		t.Errorf("accessor copy mutated by later delete: got %v", set.CardIDs)
	}
}

func TestParseSnapshotMalformed(t *testing.T) {
	if _, err := ParseSnapshot([]byte(`{"cards": [}`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
	if _, err := ParseSnapshot([]byte(`not json at all`)); err == nil {
		t.Error("expected an error for non-JSON input")
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddCard(commonCard("Storm Drake"))

	path := filepath.Join(t.TempDir(), "cardsmith.json")
	if err := WriteSnapshotFile(path, s.Snapshot()); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(snap.Cards) != 1 || snap.Cards[0].Name != "Storm Drake" {
		t.Errorf("unexpected snapshot contents: %+v", snap)
	}
}
