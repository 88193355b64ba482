// cmd/migrate/main.go
// Imports the legacy MySQL golf database into the local PostgreSQL database.
// The legacy schema must be at the revision that added round.is_finalized.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/golf?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/golfapi/config"
	bundb "github.com/padraicbc/golfapi/db"
	"github.com/padraicbc/golfapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/golf?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// session_replication_role is per connection, so every insert shares one.
	conn, err := pgDB.Conn(ctx)
	if err != nil {
		log.Fatalf("postgres conn: %v", err)
	}
	defer conn.Close()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"players", func() (int, error) { return migratePlayers(ctx, myDB, conn) }},
		{"courses", func() (int, error) { return migrateCourses(ctx, myDB, conn) }},
		{"tournaments", func() (int, error) { return migrateTournaments(ctx, myDB, conn) }},
		{"t_players", func() (int, error) { return migrateTournamentPlayers(ctx, myDB, conn) }},
		{"t_courses", func() (int, error) { return migrateTournamentCourses(ctx, myDB, conn) }},
		{"rounds", func() (int, error) { return migrateRounds(ctx, myDB, conn) }},
		{"hole_scores", func() (int, error) { return migrateHoleScores(ctx, myDB, conn) }},
		{"adjustments", func() (int, error) { return migrateAdjustments(ctx, myDB, conn) }},
	}

	err = withoutFKChecks(ctx, conn, func() error {
		for _, s := range steps {
			n, err := s.fn()
			if err != nil {
				return fmt.Errorf("migrate %s: %w", s.name, err)
			}
			log.Printf("%-15s  %d rows migrated", s.name, n)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	resetSequences(ctx, conn)
	log.Println("migration complete")
}

// withoutFKChecks runs fn with foreign key triggers off on conn so tables can
// load in any order. Checks are switched back on even when fn fails.
func withoutFKChecks(ctx context.Context, conn bun.IConn, fn func() error) error {
	if _, err := conn.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		return fmt.Errorf("disable FK: %w", err)
	}
	err := fn()
	if _, rerr := conn.ExecContext(ctx, "SET session_replication_role = 'origin'"); rerr != nil {
		return errors.Join(err, fmt.Errorf("re-enable FK: %w", rerr))
	}
	return err
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pg bun.IDB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pg.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// copyTable runs query against MySQL and inserts the scanned rows in batches.
func copyTable[T any](ctx context.Context, myDB *sql.DB, pg bun.IDB, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := myDB.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	total := 0
	batch := make([]T, 0, batchSize)
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pg, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := bulkInsert(ctx, pg, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

// --- per-table migrations ---

func migratePlayers(ctx context.Context, myDB *sql.DB, pg bun.IDB) (int, error) {
	return copyTable(ctx, myDB, pg, "SELECT id, name, handicap FROM player",
		func(rows *sql.Rows) (models.Player, error) {
			var p models.Player
			var handicap sql.NullFloat64
			if err := rows.Scan(&p.ID, &p.Name, &handicap); err != nil {
				return p, err
			}
			p.Handicap = nullFloat(handicap)
			return p, nil
		})
}

func migrateCourses(ctx context.Context, myDB *sql.DB, pg bun.IDB) (int, error) {
	return copyTable(ctx, myDB, pg,
		"SELECT id, name, country, slope_rating, hole_pars, hole_stroke_indices FROM course",
		func(rows *sql.Rows) (models.Course, error) {
			var c models.Course
			var country, pars, indices sql.NullString
			var slope sql.NullFloat64
			if err := rows.Scan(&c.ID, &c.Name, &country, &slope, &pars, &indices); err != nil {
				return c, err
			}
			c.Country = nullStr(country)
			c.SlopeRating = nullFloat(slope)

			var err error
			if c.HolePars, err = parseIntList(pars); err != nil {
				return c, fmt.Errorf("course %d hole_pars: %w", c.ID, err)
			}
			if c.StrokeIndices, err = parseIntList(indices); err != nil {
				return c, fmt.Errorf("course %d hole_stroke_indices: %w", c.ID, err)
			}
			return c, nil
		})
}

func migrateTournaments(ctx context.Context, myDB *sql.DB, pg bun.IDB) (int, error) {
	return copyTable(ctx, myDB, pg, "SELECT id, name, date, location FROM tournament",
		func(rows *sql.Rows) (models.Tournament, error) {
			var t models.Tournament
			var date, location sql.NullString
			if err := rows.Scan(&t.ID, &t.Name, &date, &location); err != nil {
				return t, err
			}
			t.Date = nullStr(date)
			t.Location = nullStr(location)
			return t, nil
		})
}

func migrateTournamentPlayers(ctx context.Context, myDB *sql.DB, pg bun.IDB) (int, error) {
	return copyTable(ctx, myDB, pg, "SELECT tournament_id, player_id FROM tournament_players",
		func(rows *sql.Rows) (models.TournamentPlayer, error) {
			var tp models.TournamentPlayer
			err := rows.Scan(&tp.TournamentID, &tp.PlayerID)
			return tp, err
		})
}

func migrateTournamentCourses(ctx context.Context, myDB *sql.DB, pg bun.IDB) (int, error) {
	return copyTable(ctx, myDB, pg, "SELECT tournament_id, course_id, sequence_number FROM tournament_courses",
		func(rows *sql.Rows) (models.TournamentCourse, error) {
			var tc models.TournamentCourse
			err := rows.Scan(&tc.TournamentID, &tc.CourseID, &tc.SequenceNumber)
			return tc, err
		})
}

// Stored round totals are not carried over; they are derived from hole scores.
func migrateRounds(ctx context.Context, myDB *sql.DB, pg bun.IDB) (int, error) {
	const q = `SELECT id, tournament_id, player_id, course_id, round_number, date_played,
		player_handicap_index, player_playing_handicap, is_finalized FROM round`
	return copyTable(ctx, myDB, pg, q,
		func(rows *sql.Rows) (models.Round, error) {
			var r models.Round
			var index sql.NullFloat64
			var playing sql.NullInt64
			var finalized sql.NullBool
			err := rows.Scan(&r.ID, &r.TournamentID, &r.PlayerID, &r.CourseID, &r.RoundNumber,
				&r.DatePlayed, &index, &playing, &finalized)
			if err != nil {
				return r, err
			}
			r.PlayerHandicapIndex = nullFloat(index)
			r.PlayerPlayingHandicap = nullInt(playing)
			r.IsFinalized = finalized.Valid && finalized.Bool
			return r, nil
		})
}

func migrateHoleScores(ctx context.Context, myDB *sql.DB, pg bun.IDB) (int, error) {
	return copyTable(ctx, myDB, pg, "SELECT id, round_id, hole_number, gross_score FROM hole_score",
		func(rows *sql.Rows) (models.HoleScore, error) {
			var hs models.HoleScore
			err := rows.Scan(&hs.ID, &hs.RoundID, &hs.HoleNumber, &hs.GrossScore)
			return hs, err
		})
}

func migrateAdjustments(ctx context.Context, myDB *sql.DB, pg bun.IDB) (int, error) {
	return copyTable(ctx, myDB, pg, "SELECT stableford_score, adjustment FROM handicap_adjustment",
		func(rows *sql.Rows) (models.HandicapAdjustment, error) {
			var ha models.HandicapAdjustment
			err := rows.Scan(&ha.StablefordScore, &ha.Adjustment)
			return ha, err
		})
}

// resetSequences advances each PG sequence to MAX(id) so new inserts don't conflict.
func resetSequences(ctx context.Context, pg bun.IDB) {
	for _, table := range []string{"players", "courses", "tournaments", "rounds", "hole_scores"} {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))",
			table, table,
		)
		if _, err := pg.ExecContext(ctx, q); err != nil {
			log.Printf("reset seq %s: %v", table, err)
		}
	}
	log.Println("sequences reset")
}
