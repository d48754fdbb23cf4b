// Package store holds the in-memory card, set and theme collections and
// keeps their cross-references intact across every mutation.
package store

// --- Enums ---

// SuperType is a card's supertype line. Stored as its wire string so the
// snapshot format round-trips byte-for-byte.
type SuperType string

const (
	SuperTypeNone           SuperType = "none"
	SuperTypeToken          SuperType = "token"
	SuperTypeLegendary      SuperType = "legendary"
	SuperTypeLegendaryToken SuperType = "legendary token"
)

// Rarity is a card's printed rarity.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
)

// Rarities lists all rarities in ascending order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityMythic}

// Valid reports whether r is one of the four known rarities.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityMythic:
		return true
	}
	return false
}

// --- Entities ---

// Card is a single authored card. Timestamps are Unix milliseconds and are
// assigned by the store, never by callers. A card belongs to no set or
// theme by itself; membership lives on CardSet/JumpstartTheme.
type Card struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ManaCost   string    `json:"manaCost"`
	SuperType  SuperType `json:"superType"`
	Type       string    `json:"type"`
	SubType    string    `json:"subType"`
	Rarity     Rarity    `json:"rarity"`
	RulesText  string    `json:"rulesText"`
	FlavorText string    `json:"flavorText"`
	ArtworkURL string    `json:"artworkUrl"`
	Artist     string    `json:"artist"`
	Power      string    `json:"power,omitempty"`
	Toughness  string    `json:"toughness,omitempty"`
	CreatedAt  int64     `json:"createdAt"`
	UpdatedAt  int64     `json:"updatedAt"`
}

func (c *Card) String() string {
	return c.Name
}

// CardSet groups cards. CardIDs is ordered but duplicate-free; only
// membership is meaningful.
type CardSet struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation"`
	Note         string   `json:"note"`
	CardIDs      []string `json:"cardIds"`
}

// Contains reports whether cardID is a member of the set.
func (s *CardSet) Contains(cardID string) bool {
	for _, id := range s.CardIDs {
		if id == cardID {
			return true
		}
	}
	return false
}

// JumpstartTheme is a sub-grouping inside one owning set. A theme cannot
// outlive its set: deleting the set cascades to its themes.
type JumpstartTheme struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Element string   `json:"element"`
	Note    string   `json:"note"`
	CardIDs []string `json:"cardIds"`
	SetID   string   `json:"setId"`
}

// Contains reports whether cardID is a member of the theme.
func (t *JumpstartTheme) Contains(cardID string) bool {
	for _, id := range t.CardIDs {
		if id == cardID {
			return true
		}
	}
	return false
}

// --- Input shapes ---

// CardInput carries the caller-settable fields of a card. The store
// assigns ID, CreatedAt and UpdatedAt.
type CardInput struct {
	Name       string    `json:"name"`
	ManaCost   string    `json:"manaCost"`
	SuperType  SuperType `json:"superType"`
	Type       string    `json:"type"`
	SubType    string    `json:"subType"`
	Rarity     Rarity    `json:"rarity"`
	RulesText  string    `json:"rulesText"`
	FlavorText string    `json:"flavorText"`
	ArtworkURL string    `json:"artworkUrl"`
	Artist     string    `json:"artist"`
	Power      string    `json:"power,omitempty"`
	Toughness  string    `json:"toughness,omitempty"`
}

// SetInput carries the caller-settable fields of a set. CardIDs always
// starts empty.
type SetInput struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Note         string `json:"note"`
}

// ThemeInput carries the caller-settable fields of a theme. SetID is
// required; CardIDs always starts empty.
type ThemeInput struct {
	Name    string `json:"name"`
	Element string `json:"element"`
	Note    string `json:"note"`
	SetID   string `json:"setId"`
}
