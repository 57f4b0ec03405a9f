package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/dyike/quotebridge/config"
	"github.com/dyike/quotebridge/internal/sector"
)

// Scratch harness: scrape the sector board once and dump it as JSON.
func main() {
	cfg := config.DefaultConfig()
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	rows := sector.NewScraper(cfg).IndustrySectors(context.Background())

	payload, _ := json.MarshalIndent(rows, "", "  ")
	fmt.Println(string(payload))
}
