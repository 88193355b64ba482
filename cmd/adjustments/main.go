// cmd/adjustments/main.go
// Loads a handicap adjustment table from YAML into the database.
//
// Usage:
//
//	go run ./cmd/adjustments -file adjustments.yaml [-replace]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/padraicbc/golfapi/config"
	bundb "github.com/padraicbc/golfapi/db"
	"github.com/padraicbc/golfapi/models"
)

func main() {
	path := flag.String("file", "", "YAML adjustment table (required)")
	replace := flag.Bool("replace", false, "delete scores that are not in the file")
	flag.Parse()

	if *path == "" {
		log.Fatal("-file is required")
	}
	f, err := os.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	rows, err := parseTable(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}
	if len(rows) == 0 {
		log.Fatalf("%s has no adjustments", *path)
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer tx.Rollback()

	if *replace {
		if _, err := tx.NewDelete().Model((*models.HandicapAdjustment)(nil)).Where("TRUE").Exec(ctx); err != nil {
			log.Fatal("clear adjustments:", err)
		}
	}
	_, err = tx.NewInsert().Model(&rows).
		On("CONFLICT (stableford_score) DO UPDATE").
		Set("adjustment = EXCLUDED.adjustment").
		Exec(ctx)
	if err != nil {
		log.Fatal("upsert adjustments:", err)
	}
	if err := tx.Commit(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d adjustments saved\n", len(rows))
}
