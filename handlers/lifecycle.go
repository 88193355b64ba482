package handlers

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfapi/logger"
	"github.com/padraicbc/golfapi/models"
	"github.com/padraicbc/golfapi/scoring"
)

type endRoundRequest struct {
	RoundNumber *int `json:"round_number"`
}

type reopenAllRequest struct {
	SequenceNumber *int `json:"sequence_number"`
}

// handicapChange is reported for every player whose index moved when a round ended.
type handicapChange struct {
	PlayerID   int     `json:"player_id"`
	Stableford int     `json:"stableford"`
	Previous   float64 `json:"previous"`
	Current    float64 `json:"current"`
}

// EndRound finalizes every round of a tournament with the given round number.
// Each open round must have all 18 holes entered. Players whose round was open
// have the adjustment for their Stableford total applied to their handicap index.
func (h *Handler) EndRound(c echo.Context) error {
	tid, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req endRoundRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	if req.RoundNumber == nil {
		return badRequest("round_number is required")
	}
	number := *req.RoundNumber

	ctx := c.Request().Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return httpError(err)
	}
	defer tx.Rollback()

	var rounds []models.Round
	err = tx.NewSelect().Model(&rounds).
		Relation("HoleScores", orderedScores).
		Relation("Course").
		Where("r.tournament_id = ?", tid).
		Where("r.round_number = ?", number).
		OrderExpr("r.id ASC").
		For("UPDATE OF r").
		Scan(ctx)
	if err != nil {
		return httpError(err)
	}
	if len(rounds) == 0 {
		return echo.NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("no rounds found for tournament %d and round number %d", tid, number))
	}

	players, err := openRoundPlayers(ctx, tx, rounds)
	if err != nil {
		return httpError(err)
	}
	table, err := loadAdjustments(ctx, tx)
	if err != nil {
		return httpError(err)
	}
	changes, err := planEndRound(rounds, players, table)
	if err != nil {
		return err
	}

	for _, ch := range changes {
		_, err := tx.NewUpdate().Model((*models.Player)(nil)).
			Set("handicap = ?", ch.Current).
			Where("id = ?", ch.PlayerID).
			Exec(ctx)
		if err != nil {
			return httpError(err)
		}
	}

	_, err = tx.NewUpdate().Model((*models.Round)(nil)).
		Set("is_finalized = ?", true).
		Where("tournament_id = ?", tid).
		Where("round_number = ?", number).
		Exec(ctx)
	if err != nil {
		return httpError(err)
	}
	if err := tx.Commit(); err != nil {
		return httpError(err)
	}

	for _, ch := range changes {
		zap.L().Info("handicap updated",
			logger.TournamentID(tid),
			logger.PlayerID(ch.PlayerID),
			zap.Int("stableford", ch.Stableford),
			zap.Float64("previous", ch.Previous),
			zap.Float64("current", ch.Current),
		)
	}
	zap.L().Info("round finalized", logger.TournamentID(tid), logger.RoundNumber(number), zap.Int("rounds", len(rounds)))

	if changes == nil {
		changes = []handicapChange{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":          fmt.Sprintf("Round %d finalized and handicaps updated successfully!", number),
		"handicap_changes": changes,
	})
}

// openRoundPlayers locks and returns the players of rounds that are still open, by id.
func openRoundPlayers(ctx context.Context, db bun.IDB, rounds []models.Round) (map[int]*models.Player, error) {
	var ids []int
	for _, r := range rounds {
		if !r.IsFinalized && !slices.Contains(ids, r.PlayerID) {
			ids = append(ids, r.PlayerID)
		}
	}
	out := make(map[int]*models.Player, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var players []models.Player
	err := db.NewSelect().Model(&players).
		Where("p.id IN (?)", bun.In(ids)).
		OrderExpr("p.id ASC").
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range players {
		out[players[i].ID] = &players[i]
	}
	return out, nil
}

// planEndRound works out the handicap changes for finalizing rounds. Every open
// round must be complete or nothing is planned. Rounds already finalized are
// skipped, so ending the same round number twice never adjusts anyone twice.
// Players without a handicap index, or missing from players, are left alone.
func planEndRound(rounds []models.Round, players map[int]*models.Player, table scoring.AdjustmentTable) ([]handicapChange, error) {
	points := make(map[int]int, len(rounds))
	for i := range rounds {
		r := &rounds[i]
		if r.IsFinalized {
			continue
		}
		summary, err := summarizeRound(r)
		if err != nil {
			return nil, httpError(err)
		}
		if err := summary.RequireComplete(); err != nil {
			return nil, badRequest(fmt.Sprintf("scores not submitted for all players in round %d: player %d: %v", r.RoundNumber, r.PlayerID, err))
		}
		points[r.ID] = summary.StablefordTotal
	}

	// a player with two rounds under one number is adjusted from the running value
	current := make(map[int]float64)
	var changes []handicapChange
	for i := range rounds {
		r := &rounds[i]
		sc, err := r.Scorecard()
		if err != nil {
			return nil, httpError(err)
		}
		if sc.Finalize() != nil {
			// already finalized, handicap was adjusted when it first ended
			continue
		}

		p := players[r.PlayerID]
		if p == nil || p.Handicap == nil {
			continue
		}
		prev, ok := current[p.ID]
		if !ok {
			prev = *p.Handicap
		}
		next := table.Apply(prev, points[r.ID])
		current[p.ID] = next
		if next == prev {
			continue
		}
		changes = append(changes, handicapChange{PlayerID: p.ID, Stableford: points[r.ID], Previous: prev, Current: next})
	}
	return changes, nil
}

// ReopenRound unlocks a single finalized round. The player's handicap is left as is.
func (h *Handler) ReopenRound(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	r := &models.Round{ID: id}
	if err := h.db.NewSelect().Model(r).WherePK().Scan(ctx); err != nil {
		return httpError(err)
	}
	sc, err := r.Scorecard()
	if err != nil {
		return httpError(err)
	}
	if err := sc.Reopen(); err != nil {
		return httpError(fmt.Errorf("round %d is not finalized: %w", id, err))
	}

	// Guarded on is_finalized so a concurrent reopen is a no-op.
	res, err := h.db.NewUpdate().Model(r).
		Set("is_finalized = ?", false).
		WherePK().
		Where("is_finalized = ?", true).
		Exec(ctx)
	if err != nil {
		return httpError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return httpError(fmt.Errorf("round %d is not finalized: %w", id, scoring.ErrInvalidTransition))
	}

	zap.L().Info("round reopened", logger.RoundID(id), logger.PlayerID(r.PlayerID))
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Round %d re-opened successfully!", id),
	})
}

// ReopenAll unlocks every finalized round of a tournament sequence and puts each
// player's handicap index back to the value captured when the round started.
func (h *Handler) ReopenAll(c echo.Context) error {
	tid, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reopenAllRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	if req.SequenceNumber == nil {
		return badRequest("sequence_number is required")
	}
	seq := *req.SequenceNumber

	ctx := c.Request().Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return httpError(err)
	}
	defer tx.Rollback()

	var rounds []models.Round
	err = tx.NewSelect().Model(&rounds).
		Where("r.tournament_id = ?", tid).
		Where("r.round_number = ?", seq).
		Where("r.is_finalized = ?", true).
		OrderExpr("r.id ASC").
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return httpError(err)
	}
	if len(rounds) == 0 {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "No finalized rounds found to re-open for this tournament and sequence.",
		})
	}

	ids := make([]int, len(rounds))
	for i, r := range rounds {
		ids[i] = r.ID
	}
	for _, rs := range handicapRestores(rounds) {
		_, err := tx.NewUpdate().Model((*models.Player)(nil)).
			Set("handicap = ?", rs.Handicap).
			Where("id = ?", rs.PlayerID).
			Exec(ctx)
		if err != nil {
			return httpError(err)
		}
		zap.L().Info("handicap restored",
			logger.PlayerID(rs.PlayerID),
			logger.RoundID(rs.RoundID),
			zap.Float64("handicap", rs.Handicap),
		)
	}

	_, err = tx.NewUpdate().Model((*models.Round)(nil)).
		Set("is_finalized = ?", false).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return httpError(err)
	}
	if err := tx.Commit(); err != nil {
		return httpError(err)
	}

	zap.L().Info("rounds reopened", logger.TournamentID(tid), logger.RoundNumber(seq), zap.Int("rounds", len(rounds)))
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("All rounds for tournament %d, sequence %d re-opened successfully!", tid, seq),
	})
}

type handicapRestore struct {
	PlayerID int
	RoundID  int
	Handicap float64
}

// handicapRestores lists the index each player goes back to when rounds are
// reopened: the snapshot of their earliest round. Rounds without a snapshot
// restore nothing.
func handicapRestores(rounds []models.Round) []handicapRestore {
	var out []handicapRestore
	seen := make(map[int]bool, len(rounds))
	for _, r := range rounds {
		if r.PlayerHandicapIndex == nil || seen[r.PlayerID] {
			continue
		}
		seen[r.PlayerID] = true
		out = append(out, handicapRestore{PlayerID: r.PlayerID, RoundID: r.ID, Handicap: *r.PlayerHandicapIndex})
	}
	return out
}
