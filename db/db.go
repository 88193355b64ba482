package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/golfapi/config"
	"github.com/padraicbc/golfapi/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())
	// m2m join tables must be registered before the relation is queried.
	db.RegisterModel((*models.TournamentPlayer)(nil))

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Player)(nil),
		(*models.Course)(nil),
		(*models.Tournament)(nil),
		(*models.TournamentPlayer)(nil),
		(*models.TournamentCourse)(nil),
		(*models.Round)(nil),
		(*models.HoleScore)(nil),
		(*models.HandicapAdjustment)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().WithForeignKeys().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	statements := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'rounds_no_dupes') THEN ALTER TABLE rounds ADD CONSTRAINT rounds_no_dupes UNIQUE (tournament_id, player_id, course_id, round_number); END IF; END $$`,
		`CREATE INDEX IF NOT EXISTS rounds_tournament_round_idx ON rounds (tournament_id, round_number)`,
		`CREATE INDEX IF NOT EXISTS hole_scores_round_idx ON hole_scores (round_id)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
