// Command synth fills the index with LLM-generated PT-BR reviews, one per
// category/sentiment pair. Like ingest, it destructively rebuilds the
// collection and is meant to run while the server is down.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/josevbrito/food-review-agent/internal/bootstrap"
	"github.com/josevbrito/food-review-agent/internal/synth"
)

func main() {
	appendMode := flag.Bool("append", false, "append to the collection instead of rebuilding it")
	flag.Parse()

	ctx := context.Background()

	app, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("close resources failed: %v", err)
		}
	}()

	log.Printf("generating synthetic reviews with %s...", app.Config.LLM.Model)
	generator := synth.NewGenerator(app.LLM)
	records, err := generator.Generate(ctx)
	if err != nil {
		log.Fatalf("synthetic generation failed: %v", err)
	}
	log.Printf("generated %d reviews", len(records))

	var n int
	if *appendMode {
		n, err = app.Store.Insert(ctx, records, synth.Source)
	} else {
		n, err = app.Store.Rebuild(ctx, records, synth.Source)
	}
	if err != nil {
		log.Fatalf("indexing synthetic reviews failed: %v", err)
	}
	log.Printf("done: %d entries in collection %q", n, app.Store.Collection())
}
