package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfapi/logger"
	"github.com/padraicbc/golfapi/models"
	"github.com/padraicbc/golfapi/scoring"
)

// dateLayout is the format of Round.DatePlayed.
const dateLayout = "2006-01-02"

type createRoundRequest struct {
	TournamentID *int    `json:"tournament_id"`
	PlayerID     *int    `json:"player_id"`
	CourseID     *int    `json:"course_id"`
	RoundNumber  *int    `json:"round_number"`
	DatePlayed   *string `json:"date_played"`
}

type holeScoreInput struct {
	HoleNumber *int `json:"hole_number"`
	GrossScore *int `json:"gross_score"`
}

type holeScoresRequest struct {
	HoleScores []holeScoreInput `json:"hole_scores"`
}

type initiatePlayer struct {
	PlayerID int `json:"player_id"`
}

type initiateRequest struct {
	TournamentID   int              `json:"tournament_id"`
	CourseID       int              `json:"course_id"`
	SequenceNumber *int             `json:"sequence_number"`
	PlayersData    []initiatePlayer `json:"players_data"`
}

// roundView is a round with its derived totals. Summary is nil when the course
// card is not complete enough to score against.
type roundView struct {
	models.Round
	PlayerName string                `json:"player_name,omitempty"`
	CourseName string                `json:"course_name,omitempty"`
	Summary    *scoring.RoundSummary `json:"summary"`
}

// parseHoleScores checks that a body carries exactly one gross score for each of
// the 18 holes and returns them indexed by hole.
func parseHoleScores(in []holeScoreInput) ([scoring.HoleCount]int, error) {
	var gross [scoring.HoleCount]int
	if len(in) != scoring.HoleCount {
		return gross, badRequest(fmt.Sprintf("exactly %d hole scores are required, got %d", scoring.HoleCount, len(in)))
	}

	var seen [scoring.HoleCount]bool
	for i, s := range in {
		if s.HoleNumber == nil || s.GrossScore == nil {
			return gross, badRequest(fmt.Sprintf("invalid score data for entry %d", i+1))
		}
		hole := *s.HoleNumber
		if hole < 1 || hole > scoring.HoleCount {
			return gross, badRequest(fmt.Sprintf("invalid hole number %d", hole))
		}
		if *s.GrossScore < 0 {
			return gross, badRequest(fmt.Sprintf("hole %d gross score must not be negative", hole))
		}
		if seen[hole-1] {
			return gross, badRequest(fmt.Sprintf("hole %d scored twice", hole))
		}
		seen[hole-1] = true
		gross[hole-1] = *s.GrossScore
	}
	return gross, nil
}

// parseIDList parses a comma separated list of positive ids.
func parseIDList(s string) ([]int, error) {
	var ids []int
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id < 1 {
			return nil, badRequest(fmt.Sprintf("invalid id %q", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// summarizeRound derives a round's totals. Course and HoleScores must be loaded.
func summarizeRound(r *models.Round) (scoring.RoundSummary, error) {
	if r.Course == nil {
		return scoring.RoundSummary{}, fmt.Errorf("round %d course not loaded: %w", r.ID, scoring.ErrIncompleteData)
	}
	card, err := r.Course.Card()
	if err != nil {
		return scoring.RoundSummary{}, err
	}
	sc, err := r.Scorecard()
	if err != nil {
		return scoring.RoundSummary{}, err
	}
	return sc.Summary(card)
}

func viewRound(r *models.Round) roundView {
	v := roundView{Round: *r}
	if r.HoleScores == nil {
		v.HoleScores = []models.HoleScore{}
	}
	if r.Player != nil {
		v.PlayerName = r.Player.Name
	}
	if r.Course != nil {
		v.CourseName = r.Course.Name
	}
	if s, err := summarizeRound(r); err == nil {
		v.Summary = &s
	}
	return v
}

func orderedScores(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("hole_number ASC")
}

func (h *Handler) loadRound(ctx context.Context, db bun.IDB, id int, forUpdate bool) (*models.Round, error) {
	r := &models.Round{ID: id}
	q := db.NewSelect().Model(r).WherePK()
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, httpError(err)
	}

	err := db.NewSelect().Model(&r.HoleScores).
		Where("hs.round_id = ?", id).
		OrderExpr("hs.hole_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, httpError(err)
	}
	r.Course = &models.Course{ID: r.CourseID}
	if err := db.NewSelect().Model(r.Course).WherePK().Scan(ctx); err != nil {
		return nil, httpError(err)
	}
	return r, nil
}

// CreateRound inserts a round directly, without a handicap snapshot.
func (h *Handler) CreateRound(c echo.Context) error {
	var req createRoundRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	if req.TournamentID == nil || req.PlayerID == nil || req.CourseID == nil || req.RoundNumber == nil || req.DatePlayed == nil {
		return badRequest("tournament_id, player_id, course_id, round_number and date_played are required")
	}
	if *req.RoundNumber < 1 {
		return badRequest("round_number must be positive")
	}
	if _, err := time.Parse(dateLayout, *req.DatePlayed); err != nil {
		return badRequest("date_played must be YYYY-MM-DD")
	}

	r := &models.Round{
		TournamentID: *req.TournamentID,
		PlayerID:     *req.PlayerID,
		CourseID:     *req.CourseID,
		RoundNumber:  *req.RoundNumber,
		DatePlayed:   *req.DatePlayed,
		HoleScores:   []models.HoleScore{},
	}
	if _, err := h.db.NewInsert().Model(r).Exec(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

// Rounds lists rounds, optionally filtered by tournament_id, player_id,
// course_id, sequence_number and a comma separated player_ids.
func (h *Handler) Rounds(c echo.Context) error {
	var rounds []models.Round
	q := h.db.NewSelect().Model(&rounds).
		Relation("HoleScores", orderedScores).
		Relation("Course").
		OrderExpr("r.round_number ASC, r.id ASC")

	for _, f := range []struct{ param, column string }{
		{"tournament_id", "r.tournament_id"},
		{"player_id", "r.player_id"},
		{"course_id", "r.course_id"},
		{"sequence_number", "r.round_number"},
	} {
		raw := c.QueryParam(f.param)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest("invalid " + f.param)
		}
		q = q.Where(f.column+" = ?", v)
	}
	if raw := c.QueryParam("player_ids"); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			q = q.Where("r.player_id IN (?)", bun.In(ids))
		}
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}

	out := make([]roundView, len(rounds))
	for i := range rounds {
		out[i] = viewRound(&rounds[i])
	}
	return c.JSON(http.StatusOK, out)
}

// RecordScores replaces all 18 hole scores of an open round and returns the
// round with its new totals.
func (h *Handler) RecordScores(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req holeScoresRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	gross, err := parseHoleScores(req.HoleScores)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return httpError(err)
	}
	defer tx.Rollback()

	r, err := h.loadRound(ctx, tx, id, true)
	if err != nil {
		return err
	}
	summary, rows, err := scoreRound(r, gross)
	if err != nil {
		return httpError(err)
	}
	_, err = tx.NewInsert().Model(&rows).
		On("CONFLICT (round_id, hole_number) DO UPDATE").
		Set("gross_score = EXCLUDED.gross_score").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return httpError(err)
	}
	if err := tx.Commit(); err != nil {
		return httpError(err)
	}

	r.HoleScores = rows
	zap.L().Debug("scores recorded",
		logger.RoundID(id),
		logger.PlayerID(r.PlayerID),
		zap.Int("stableford", summary.StablefordTotal),
	)
	return c.JSON(http.StatusOK, roundView{Round: *r, CourseName: r.Course.Name, Summary: &summary})
}

// scoreRound applies a full card of gross scores to a loaded round and returns
// the new totals with the rows to store. A finalized round refuses the scores.
func scoreRound(r *models.Round, gross [scoring.HoleCount]int) (scoring.RoundSummary, []models.HoleScore, error) {
	if r.Course == nil {
		return scoring.RoundSummary{}, nil, fmt.Errorf("round %d course not loaded: %w", r.ID, scoring.ErrIncompleteData)
	}
	card, err := r.Course.Card()
	if err != nil {
		return scoring.RoundSummary{}, nil, err
	}
	sc, err := r.Scorecard()
	if err != nil {
		return scoring.RoundSummary{}, nil, err
	}
	for i, g := range gross {
		if err := sc.SetScore(i+1, g); err != nil {
			return scoring.RoundSummary{}, nil, fmt.Errorf("round %d: %w", r.ID, err)
		}
	}
	summary, err := sc.Summary(card)
	if err != nil {
		return scoring.RoundSummary{}, nil, err
	}

	rows := make([]models.HoleScore, scoring.HoleCount)
	for i, g := range gross {
		rows[i] = models.HoleScore{RoundID: r.ID, HoleNumber: i + 1, GrossScore: g}
	}
	return summary, rows, nil
}

// HoleScores returns the recorded hole scores of a round.
func (h *Handler) HoleScores(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	scores := []models.HoleScore{}
	err = h.db.NewSelect().Model(&scores).
		Where("hs.round_id = ?", id).
		OrderExpr("hs.hole_number ASC").
		Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, scores)
}

// RoundSummary returns the derived totals of one round.
func (h *Handler) RoundSummary(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.loadRound(c.Request().Context(), h.db, id, false)
	if err != nil {
		return err
	}
	summary, err := summarizeRound(r)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// InitiateRound creates one round per listed player for a tournament course,
// snapshotting each player's current handicap index and playing handicap.
// Unknown players are skipped. A player without a handicap index gets no snapshot.
func (h *Handler) InitiateRound(c echo.Context) error {
	var req initiateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	if req.TournamentID < 1 || req.CourseID < 1 || req.SequenceNumber == nil || len(req.PlayersData) == 0 {
		return badRequest("missing tournament_id, course_id, sequence_number, or players_data")
	}
	if *req.SequenceNumber < 1 {
		return badRequest("sequence_number must be positive")
	}

	ctx := c.Request().Context()
	course := &models.Course{ID: req.CourseID}
	if err := h.db.NewSelect().Model(course).WherePK().Scan(ctx); err != nil {
		return notFound("course", req.CourseID)
	}
	if course.SlopeRating == nil {
		return echo.NewHTTPError(http.StatusNotFound, "course slope rating not set")
	}

	ids := make([]int, 0, len(req.PlayersData))
	for _, p := range req.PlayersData {
		if p.PlayerID > 0 {
			ids = append(ids, p.PlayerID)
		}
	}
	var players []models.Player
	if len(ids) > 0 {
		if err := h.db.NewSelect().Model(&players).Where("p.id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
			return httpError(err)
		}
	}
	byID := make(map[int]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	today := time.Now().Format(dateLayout)
	rounds := make([]models.Round, 0, len(ids))
	for _, pid := range ids {
		p, ok := byID[pid]
		if !ok {
			continue
		}
		r, err := snapshotRound(p, course, req.TournamentID, *req.SequenceNumber, today)
		if err != nil {
			return httpError(err)
		}
		rounds = append(rounds, r)
	}

	if len(rounds) > 0 {
		if _, err := h.db.NewInsert().Model(&rounds).Exec(ctx); err != nil {
			return httpError(err)
		}
	}

	zap.L().Info("rounds initiated",
		logger.TournamentID(req.TournamentID),
		logger.CourseID(course.ID),
		logger.RoundNumber(*req.SequenceNumber),
		zap.Int("players", len(rounds)),
	)
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Rounds initiated successfully!",
		"rounds":  rounds,
	})
}

// snapshotRound builds a new open round for a player on a course, freezing the
// player's current handicap index and the playing handicap it gives on that
// course. A player without an index gets no snapshot and plays off zero.
func snapshotRound(p models.Player, course *models.Course, tournamentID, seq int, date string) (models.Round, error) {
	r := models.Round{
		TournamentID: tournamentID,
		PlayerID:     p.ID,
		CourseID:     course.ID,
		RoundNumber:  seq,
		DatePlayed:   date,
		HoleScores:   []models.HoleScore{},
	}
	if p.Handicap == nil {
		return r, nil
	}
	ph, err := scoring.HandicapFor(p.Handicap, course.SlopeRating)
	if err != nil {
		return r, fmt.Errorf("player %d: %w", p.ID, err)
	}
	index := *p.Handicap
	r.PlayerHandicapIndex = &index
	r.PlayerPlayingHandicap = &ph
	return r, nil
}
