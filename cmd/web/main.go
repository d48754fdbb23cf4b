package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/cardsmith/internal/booster"
	"github.com/peterkuimelis/cardsmith/internal/store"
	"github.com/peterkuimelis/cardsmith/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	dataFile := flag.String("data", "cardsmith.json", "path to snapshot JSON file (loaded on start if present)")
	flag.Parse()

	feed := web.NewFeed()
	st := store.New(store.Config{Logger: feed})

	if snap, err := store.ReadSnapshotFile(*dataFile); err == nil {
		st.Import(snap)
		log.Printf("loaded snapshot from %s (%d cards, %d sets, %d themes)",
			*dataFile, len(snap.Cards), len(snap.Sets), len(snap.Themes))
	} else if !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := web.NewServer(st, &booster.Generator{}, feed)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("cardsmith web UI listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
