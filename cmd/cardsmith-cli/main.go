package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/peterkuimelis/cardsmith/internal/booster"
	"github.com/peterkuimelis/cardsmith/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "init":
		runInit(os.Args[2:])
	case "load":
		runLoad(os.Args[2:])
	case "booster":
		runBooster(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  cardsmith init [--data FILE]")
	fmt.Println("  cardsmith load --file CARDS.yaml [--data FILE]")
	fmt.Println("  cardsmith booster --set ID|ABBR [--count N] [--data FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init     Create a fresh snapshot file (only the default 'none' set)")
	fmt.Println("  load     Seed the snapshot from a YAML card file")
	fmt.Println("  booster  Draw simulated play boosters from a set's card pool")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadStore reads the snapshot file into a fresh store. A missing file is
// an error for every command except init: the snapshot is the durable
// state the CLI operates on.
func loadStore(path string) *store.Store {
	st := store.New(store.Config{})
	snap, err := store.ReadSnapshotFile(path)
	if err != nil {
		fatal(err)
	}
	st.Import(snap)
	return st
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dataFile := fs.String("data", "cardsmith.json", "path to snapshot file")
	fs.Parse(args)

	st := store.New(store.Config{})
	if err := store.WriteSnapshotFile(*dataFile, st.Snapshot()); err != nil {
		fatal(err)
	}
	fmt.Printf("initialized %s\n", *dataFile)
}

func runLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	seedFile := fs.String("file", "cards.yaml", "path to YAML card file")
	dataFile := fs.String("data", "cardsmith.json", "path to snapshot file")
	fs.Parse(args)

	st := loadStore(*dataFile)
	cards, sets, err := store.LoadSeedFile(*seedFile, st)
	if err != nil {
		fatal(err)
	}
	if err := store.WriteSnapshotFile(*dataFile, st.Snapshot()); err != nil {
		fatal(err)
	}
	fmt.Printf("loaded %d cards and %d sets from %s into %s\n", cards, sets, *seedFile, *dataFile)
}

func runBooster(args []string) {
	fs := flag.NewFlagSet("booster", flag.ExitOnError)
	setRef := fs.String("set", "", "set id or abbreviation to draft from")
	count := fs.Int("count", 1, "number of boosters to draw")
	dataFile := fs.String("data", "cardsmith.json", "path to snapshot file")
	fs.Parse(args)

	if *setRef == "" {
		fatal(fmt.Errorf("--set is required"))
	}

	st := loadStore(*dataFile)
	set, ok := st.SetByID(*setRef)
	if !ok {
		set, ok = st.SetByAbbreviation(*setRef)
	}
	if !ok {
		fatal(fmt.Errorf("no set with id or abbreviation %q", *setRef))
	}

	pool := st.SetPool(set.ID)
	gen := &booster.Generator{}
	for i := 0; i < *count; i++ {
		fmt.Printf("=== Booster %d (%s) ===\n", i+1, set.Name)
		drafted := gen.Generate(pool)
		if len(drafted) == 0 {
			fmt.Println("(empty pool, nothing drafted)")
			continue
		}
		for _, d := range drafted {
			name := d.CardID
			if card, ok := st.CardByID(d.CardID); ok {
				name = card.Name
			}
			fmt.Printf("  %-30s %s\n", name, d.Rarity)
		}
	}
}
