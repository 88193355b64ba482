package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/golfapi/models"
	"github.com/padraicbc/golfapi/scoring"
)

// xlsxContentType is the MIME type of the spreadsheet export.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) tournamentRounds(ctx context.Context, tid int) ([]models.Round, error) {
	var rounds []models.Round
	err := h.db.NewSelect().Model(&rounds).
		Relation("Player").
		Relation("Course").
		Relation("HoleScores", orderedScores).
		Where("r.tournament_id = ?", tid).
		OrderExpr("r.round_number ASC, r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, httpError(err)
	}
	return rounds, nil
}

// leaderboardEntries summarizes every round. Rounds must come ordered by round
// number so players enter the board in the order they first played.
func leaderboardEntries(rounds []models.Round) ([]scoring.RoundEntry, error) {
	entries := make([]scoring.RoundEntry, 0, len(rounds))
	for i := range rounds {
		r := &rounds[i]
		summary, err := summarizeRound(r)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", r.ID, err)
		}
		e := scoring.RoundEntry{PlayerID: r.PlayerID, RoundNumber: r.RoundNumber, Summary: summary}
		if r.Player != nil {
			e.PlayerName = r.Player.Name
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (h *Handler) leaderboard(c echo.Context) (*models.Tournament, []scoring.Row, error) {
	tid, err := pathID(c, "id")
	if err != nil {
		return nil, nil, err
	}
	ctx := c.Request().Context()
	t := &models.Tournament{ID: tid}
	if err := h.db.NewSelect().Model(t).WherePK().Scan(ctx); err != nil {
		return nil, nil, httpError(err)
	}
	rounds, err := h.tournamentRounds(ctx, tid)
	if err != nil {
		return nil, nil, err
	}
	entries, err := leaderboardEntries(rounds)
	if err != nil {
		return nil, nil, httpError(err)
	}
	return t, scoring.Rank(entries), nil
}

// RoundsSummary lists a tournament's rounds with player and course names and derived totals.
func (h *Handler) RoundsSummary(c echo.Context) error {
	tid, err := pathID(c, "id")
	if err != nil {
		return err
	}
	rounds, err := h.tournamentRounds(c.Request().Context(), tid)
	if err != nil {
		return err
	}
	out := make([]roundView, len(rounds))
	for i := range rounds {
		out[i] = viewRound(&rounds[i])
	}
	return c.JSON(http.StatusOK, out)
}

// Leaderboard ranks the tournament's players by total Stableford points with countback.
func (h *Handler) Leaderboard(c echo.Context) error {
	_, rows, err := h.leaderboard(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// LeaderboardXLSX serves the leaderboard as a spreadsheet download.
func (h *Handler) LeaderboardXLSX(c echo.Context) error {
	t, rows, err := h.leaderboard(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeLeaderboardXLSX(&buf, t.Name, rows); err != nil {
		return httpError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("leaderboard-%d.xlsx", t.ID)))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
