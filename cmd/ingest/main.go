// Command ingest is the offline batch pipeline: it cleans a raw review CSV,
// writes the cleaned copy, and rebuilds the vector index collection from it.
// It must not run against a live server: the rebuild is destructive.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/josevbrito/food-review-agent/internal/bootstrap"
	"github.com/josevbrito/food-review-agent/internal/model"
	"github.com/josevbrito/food-review-agent/internal/prep"
)

func main() {
	var (
		rawPath   = flag.String("raw", "data/raw/olist_order_reviews_dataset.csv", "raw review CSV to clean")
		cleanPath = flag.String("clean", "data/processed/reviews_clean.csv", "where to write the cleaned CSV")
		limit     = flag.Int("limit", 1000, "max cleaned rows to index (0 = all)")
		skipClean = flag.Bool("skip-clean", false, "reuse an existing cleaned CSV instead of cleaning")
		query     = flag.String("query", "", "after indexing, run a retrieval smoke test with this text")
	)
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

	var records []model.ReviewRecord
	if *skipClean {
		records, err = prep.ReadClean(*cleanPath)
		if err != nil {
			log.Fatalf("load cleaned csv failed: %v", err)
		}
		log.Printf("loaded %d cleaned reviews from %s", len(records), *cleanPath)
	} else {
		raws, err := prep.ReadRaw(*rawPath)
		if err != nil {
			log.Fatalf("load raw csv failed: %v", err)
		}
		log.Printf("loaded %d raw rows from %s", len(raws), *rawPath)

		var dropped int
		records, dropped = prep.PrepareAll(raws)
		log.Printf("cleaned %d reviews (%d dropped)", len(records), dropped)

		if err := prep.WriteClean(*cleanPath, records); err != nil {
			log.Fatalf("write cleaned csv failed: %v", err)
		}
		log.Printf("saved cleaned data to %s", *cleanPath)
	}

	if *limit > 0 && len(records) > *limit {
		records = records[:*limit]
	}

	log.Printf("embedding and indexing %d reviews into collection %q...", len(records), app.Store.Collection())
	n, err := app.Store.Rebuild(ctx, records, "olist")
	if err != nil {
		log.Fatalf("index rebuild failed: %v", err)
	}
	log.Printf("ingestion complete: %d entries in %s", n, app.Config.Store.Path)

	if *query != "" {
		smokeTest(ctx, app, *query)
	}
}

// smokeTest prints the top hits for a query so an operator can eyeball the
// freshly built index.
func smokeTest(ctx context.Context, app *bootstrap.App, query string) {
	results, err := app.Store.Query(ctx, query, 3)
	if err != nil {
		log.Fatalf("smoke test query failed: %v", err)
	}
	if len(results) == 0 {
		fmt.Printf("no results for %q\n", query)
		return
	}
	fmt.Printf("top %d results for %q:\n", len(results), query)
	for i, r := range results {
		fmt.Printf("--- #%d (rating %d/5, %s)\n%s\n\n", i+1, r.Rating, r.Date, r.Content)
	}
}
