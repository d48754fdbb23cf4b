package store

import (
	"strings"
	"testing"
)

const seedYAML = `
sets:
  - name: Alpha
    abbreviation: ALP
    note: first print run
    cards:
      - name: Grizzled Veteran
        manaCost: "{1}{W}"
        type: Creature
        subType: Soldier
        power: "2"
        toughness: "2"
      - name: Ancient Spire
        type: Artifact Land
        rarity: uncommon
cards:
  - name: Loose Idea
    type: Sorcery
    rarity: rare
`

func TestApplySeedBuildsMembership(t *testing.T) {
	s, _ := newTestStore(t)

	sf, err := ParseSeedFile([]byte(seedYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cards, sets, err := s.ApplySeed(sf)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cards != 3 || sets != 1 {
		t.Fatalf("expected 3 cards and 1 set, got %d and %d", cards, sets)
	}

	set, ok := s.SetByAbbreviation("ALP")
	if !ok {
		t.Fatal("set ALP not created")
	}
	if set.Note != "first print run" {
		t.Errorf("note not carried over: %q", set.Note)
	}
	pool := s.SetPool(set.ID)
	if len(pool) != 2 {
		t.Fatalf("expected 2 cards in set pool, got %d", len(pool))
	}

	// Defaults: rarity common, superType none.
	veteran := pool[0]
	if veteran.Name != "Grizzled Veteran" {
		t.Fatalf("unexpected first pool card %q", veteran.Name)
	}
	if veteran.Rarity != RarityCommon || veteran.SuperType != SuperTypeNone {
		t.Errorf("defaults not applied: rarity=%q superType=%q", veteran.Rarity, veteran.SuperType)
	}

	// Top-level cards stay unassigned.
	total := len(s.Cards())
	if total != 3 {
		t.Fatalf("expected 3 cards total, got %d", total)
	}
	checkIntegrity(t, s)
}

func TestApplySeedRejectsUnknownRarity(t *testing.T) {
	s, _ := newTestStore(t)

	sf, err := ParseSeedFile([]byte(`
cards:
  - name: Broken Card
    rarity: ultrarare
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, _, err := s.ApplySeed(sf); err == nil {
		t.Fatal("expected an error for unknown rarity")
	} else if !strings.Contains(err.Error(), "ultrarare") {
		t.Errorf("error does not name the bad rarity: %v", err)
	}
}

func TestParseSeedFileMalformed(t *testing.T) {
	if _, err := ParseSeedFile([]byte("sets: [unclosed")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
