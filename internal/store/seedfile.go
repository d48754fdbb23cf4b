package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the top-level YAML structure for bulk card authoring. Cards
// listed under a set become members of that set; top-level cards stay
// unassigned.
type SeedFile struct {
	Sets  []SeedSet  `yaml:"sets"`
	Cards []SeedCard `yaml:"cards"`
}

// SeedSet declares a set and its cards in the YAML file.
type SeedSet struct {
	Name         string     `yaml:"name"`
	Abbreviation string     `yaml:"abbreviation"`
	Note         string     `yaml:"note"`
	Cards        []SeedCard `yaml:"cards"`
}

// SeedCard declares a single card in the YAML file. Rarity defaults to
// common and superType to none when omitted.
type SeedCard struct {
	Name       string `yaml:"name"`
	ManaCost   string `yaml:"manaCost"`
	SuperType  string `yaml:"superType"`
	Type       string `yaml:"type"`
	SubType    string `yaml:"subType"`
	Rarity     string `yaml:"rarity"`
	RulesText  string `yaml:"rulesText"`
	FlavorText string `yaml:"flavorText"`
	ArtworkURL string `yaml:"artworkUrl"`
	Artist     string `yaml:"artist"`
	Power      string `yaml:"power"`
	Toughness  string `yaml:"toughness"`
}

func (sc SeedCard) input() (CardInput, error) {
	rarity := Rarity(sc.Rarity)
	if sc.Rarity == "" {
		rarity = RarityCommon
	}
	if !rarity.Valid() {
		return CardInput{}, fmt.Errorf("card %q: unknown rarity %q", sc.Name, sc.Rarity)
	}
	super := SuperType(sc.SuperType)
	if sc.SuperType == "" {
		super = SuperTypeNone
	}
	return CardInput{
		Name:       sc.Name,
		ManaCost:   sc.ManaCost,
		SuperType:  super,
		Type:       sc.Type,
		SubType:    sc.SubType,
		Rarity:     rarity,
		RulesText:  sc.RulesText,
		FlavorText: sc.FlavorText,
		ArtworkURL: sc.ArtworkURL,
		Artist:     sc.Artist,
		Power:      sc.Power,
		Toughness:  sc.Toughness,
	}, nil
}

// ParseSeedFile parses YAML seed data.
func ParseSeedFile(data []byte) (SeedFile, error) {
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed YAML: %w", err)
	}
	return sf, nil
}

// ApplySeed feeds the seed file through the store's add operations, so
// ids, timestamps and membership bookkeeping all follow the normal rules.
// It reports how many cards and sets were created.
func (s *Store) ApplySeed(sf SeedFile) (cards, sets int, err error) {
	for _, seedSet := range sf.Sets {
		setID := s.AddSet(SetInput{
			Name:         seedSet.Name,
			Abbreviation: seedSet.Abbreviation,
			Note:         seedSet.Note,
		})
		sets++
		for _, sc := range seedSet.Cards {
			in, err := sc.input()
			if err != nil {
				return cards, sets, fmt.Errorf("set %q: %w", seedSet.Name, err)
			}
			cardID := s.AddCard(in)
			s.AddCardToSet(setID, cardID)
			cards++
		}
	}
	for _, sc := range sf.Cards {
		in, err := sc.input()
		if err != nil {
			return cards, sets, err
		}
		s.AddCard(in)
		cards++
	}
	return cards, sets, nil
}

// LoadSeedFile reads, parses and applies a YAML seed file.
func LoadSeedFile(path string, s *Store) (cards, sets int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	sf, err := ParseSeedFile(data)
	if err != nil {
		return 0, 0, err
	}
	return s.ApplySeed(sf)
}
