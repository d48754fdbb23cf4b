// Package booster simulates play-booster draws from a set's card pool.
package booster

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/peterkuimelis/cardsmith/internal/store"
)

// Slot counts for the fixed play-booster template.
const (
	CommonSlots   = 7
	UncommonSlots = 3
	WildcardSlots = 2

	// MythicChance is the probability the rare slot draws from the
	// mythic subset instead of the rare subset.
	MythicChance = 0.125
)

// DraftedCard is one filled slot: the drawn card and the rarity assigned
// to the slot.
type DraftedCard struct {
	CardID string       `json:"card"`
	Rarity store.Rarity `json:"rarity"`
}

// Generator draws boosters. Rand is the randomness source; leave it nil
// to get a time-seeded one. Tests inject a fixed seed instead.
//
// A Generator is safe for concurrent use: *rand.Rand is not, so draws
// are serialized internally. Set Rand before sharing the Generator.
type Generator struct {
	mu   sync.Mutex
	Rand *rand.Rand
}

func (g *Generator) rng() *rand.Rand {
	if g.Rand == nil {
		g.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g.Rand
}

// Generate draws one booster from the pool. Slots are drawn independently
// and with replacement; a slot whose candidate subset is empty is skipped
// rather than substituted, so a thin pool yields a short booster and an
// empty pool yields none at all. Output preserves slot order: commons,
// uncommons, rare/mythic, land, wildcards.
func (g *Generator) Generate(pool []store.Card) []DraftedCard {
	g.mu.Lock()
	defer g.mu.Unlock()
	rng := g.rng()
	var drafted []DraftedCard

	draw := func(subset []store.Card) (store.Card, bool) {
		if len(subset) == 0 {
			return store.Card{}, false
		}
		return subset[rng.Intn(len(subset))], true
	}

	commons := byRarity(pool, store.RarityCommon)
	for i := 0; i < CommonSlots; i++ {
		if c, ok := draw(commons); ok {
			drafted = append(drafted, DraftedCard{CardID: c.ID, Rarity: store.RarityCommon})
		}
	}

	uncommons := byRarity(pool, store.RarityUncommon)
	for i := 0; i < UncommonSlots; i++ {
		if c, ok := draw(uncommons); ok {
			drafted = append(drafted, DraftedCard{CardID: c.ID, Rarity: store.RarityUncommon})
		}
	}

	// Rare slot: mythic upgrade with fixed probability, no fallback to
	// the other subset when the chosen one is empty.
	slotRarity := store.RarityRare
	if rng.Float64() < MythicChance {
		slotRarity = store.RarityMythic
	}
	if c, ok := draw(byRarity(pool, slotRarity)); ok {
		drafted = append(drafted, DraftedCard{CardID: c.ID, Rarity: slotRarity})
	}

	// Land slot: deterministically the first land-typed card in pool
	// order.
	for _, c := range pool {
		if strings.Contains(strings.ToLower(c.Type), "land") {
			drafted = append(drafted, DraftedCard{CardID: c.ID, Rarity: c.Rarity})
			break
		}
	}

	for i := 0; i < WildcardSlots; i++ {
		if c, ok := draw(pool); ok {
			drafted = append(drafted, DraftedCard{CardID: c.ID, Rarity: c.Rarity})
		}
	}

	return drafted
}

// GenerateForSet resolves the set's pool from the store and draws one
// booster from it. An unknown set id yields an empty draw.
func (g *Generator) GenerateForSet(s *store.Store, setID string) []DraftedCard {
	return g.Generate(s.SetPool(setID))
}

func byRarity(pool []store.Card, r store.Rarity) []store.Card {
	var subset []store.Card
	for _, c := range pool {
		if c.Rarity == r {
			subset = append(subset, c)
		}
	}
	return subset
}
