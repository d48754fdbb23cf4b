package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	csmcp "github.com/peterkuimelis/cardsmith/internal/mcp"
	"github.com/peterkuimelis/cardsmith/internal/store"
)

func main() {
	dataFile := flag.String("data", "cardsmith.json", "path to snapshot JSON file (loaded on start, saved after each mutation)")
	flag.Parse()

	st := store.New(store.Config{})
	if snap, err := store.ReadSnapshotFile(*dataFile); err == nil {
		st.Import(snap)
	} else if !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	csmcp.SetStore(st)
	csmcp.SetDataFile(*dataFile)

	s := server.NewMCPServer("cardsmith", "1.0.0")
	csmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
