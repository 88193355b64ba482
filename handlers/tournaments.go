package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfapi/logger"
	"github.com/padraicbc/golfapi/models"
)

type tournamentRequest struct {
	Name     optional[string] `json:"name"`
	Date     optional[string] `json:"date"`
	Location optional[string] `json:"location"`
}

func (r *tournamentRequest) apply(t *models.Tournament) {
	if r.Name.Set {
		t.Name = strings.TrimSpace(r.Name.Value)
	}
	if r.Date.Set {
		t.Date = r.Date.ptr()
	}
	if r.Location.Set {
		t.Location = r.Location.ptr()
	}
}

type playerIDsRequest struct {
	PlayerIDs []int `json:"player_ids"`
}

type courseSlot struct {
	ID             int `json:"id"`
	SequenceNumber int `json:"sequence_number"`
}

type courseSlotsRequest struct {
	Courses []courseSlot `json:"courses"`
}

// scheduledCourse is a course as it appears in a tournament's schedule.
type scheduledCourse struct {
	models.Course
	SequenceNumber int `json:"sequence_number"`
}

func (h *Handler) loadTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t := &models.Tournament{ID: id}
	err := h.db.NewSelect().Model(t).
		Relation("Players", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("name ASC")
		}).
		WherePK().
		Scan(ctx)
	if err != nil {
		return nil, httpError(err)
	}
	if t.Players == nil {
		t.Players = []models.Player{}
	}
	return t, nil
}

// Tournaments returns all tournaments with their players.
func (h *Handler) Tournaments(c echo.Context) error {
	tournaments := []models.Tournament{}
	err := h.db.NewSelect().Model(&tournaments).
		Relation("Players").
		OrderExpr("t.id ASC").
		Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	for i := range tournaments {
		if tournaments[i].Players == nil {
			tournaments[i].Players = []models.Player{}
		}
	}
	return c.JSON(http.StatusOK, tournaments)
}

// Tournament returns one tournament.
func (h *Handler) Tournament(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.loadTournament(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// CreateTournament inserts a tournament. Name is required.
func (h *Handler) CreateTournament(c echo.Context) error {
	var req tournamentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	t := &models.Tournament{}
	req.apply(t)
	if t.Name == "" {
		return badRequest("tournament name is required")
	}

	if _, err := h.db.NewInsert().Model(t).Exec(c.Request().Context()); err != nil {
		return httpError(err)
	}
	t.Players = []models.Player{}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTournament(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req tournamentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	t, err := h.loadTournament(ctx, id)
	if err != nil {
		return err
	}
	req.apply(t)
	if t.Name == "" {
		return badRequest("tournament name is required")
	}

	if _, err := h.db.NewUpdate().Model(t).Column("name", "date", "location").WherePK().Exec(ctx); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTournament removes a tournament along with its rounds, scores and assignments.
func (h *Handler) DeleteTournament(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return httpError(err)
	}
	defer tx.Rollback()

	rounds := tx.NewSelect().Model((*models.Round)(nil)).Column("id").Where("tournament_id = ?", id)
	if _, err := tx.NewDelete().Model((*models.HoleScore)(nil)).Where("round_id IN (?)", rounds).Exec(ctx); err != nil {
		return httpError(err)
	}
	for _, model := range []any{(*models.Round)(nil), (*models.TournamentPlayer)(nil), (*models.TournamentCourse)(nil)} {
		if _, err := tx.NewDelete().Model(model).Where("tournament_id = ?", id).Exec(ctx); err != nil {
			return httpError(err)
		}
	}
	res, err := tx.NewDelete().Model((*models.Tournament)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return httpError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("tournament", id)
	}
	if err := tx.Commit(); err != nil {
		return httpError(err)
	}

	zap.L().Info("tournament deleted", logger.TournamentID(id))
	return c.NoContent(http.StatusNoContent)
}

// TournamentPlayers lists the players entered in a tournament.
func (h *Handler) TournamentPlayers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.loadTournament(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t.Players)
}

// AddTournamentPlayers enters players into a tournament. Unknown ids and
// players already entered are skipped.
func (h *Handler) AddTournamentPlayers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req playerIDsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.loadTournament(ctx, id); err != nil {
		return err
	}

	if len(req.PlayerIDs) > 0 {
		var known []int
		err := h.db.NewSelect().Model((*models.Player)(nil)).
			Column("id").
			Where("id IN (?)", bun.In(req.PlayerIDs)).
			Scan(ctx, &known)
		if err != nil {
			return httpError(err)
		}

		if len(known) > 0 {
			rows := make([]models.TournamentPlayer, len(known))
			for i, pid := range known {
				rows[i] = models.TournamentPlayer{TournamentID: id, PlayerID: pid}
			}
			if _, err := h.db.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
				return httpError(err)
			}
		}
	}

	t, err := h.loadTournament(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) RemoveTournamentPlayers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req playerIDsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.loadTournament(ctx, id); err != nil {
		return err
	}
	if len(req.PlayerIDs) > 0 {
		_, err := h.db.NewDelete().Model((*models.TournamentPlayer)(nil)).
			Where("tournament_id = ?", id).
			Where("player_id IN (?)", bun.In(req.PlayerIDs)).
			Exec(ctx)
		if err != nil {
			return httpError(err)
		}
	}

	t, err := h.loadTournament(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// TournamentCourses lists a tournament's course schedule in sequence order.
func (h *Handler) TournamentCourses(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.loadTournament(ctx, id); err != nil {
		return err
	}

	var slots []models.TournamentCourse
	err = h.db.NewSelect().Model(&slots).
		Relation("Course").
		Where("tc.tournament_id = ?", id).
		OrderExpr("tc.sequence_number ASC, tc.course_id ASC").
		Scan(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, schedule(slots))
}

func schedule(slots []models.TournamentCourse) []scheduledCourse {
	out := make([]scheduledCourse, 0, len(slots))
	for _, s := range slots {
		if s.Course == nil {
			continue
		}
		out = append(out, scheduledCourse{Course: *s.Course, SequenceNumber: s.SequenceNumber})
	}
	return out
}

// AddTournamentCourses schedules courses. The same course may be scheduled
// for several sequence numbers; repeating an existing slot is a no-op.
func (h *Handler) AddTournamentCourses(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req courseSlotsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	for _, s := range req.Courses {
		if s.ID < 1 || s.SequenceNumber < 1 {
			return badRequest("each course needs a positive id and sequence_number")
		}
	}

	ctx := c.Request().Context()
	if _, err := h.loadTournament(ctx, id); err != nil {
		return err
	}

	if len(req.Courses) > 0 {
		rows := make([]models.TournamentCourse, len(req.Courses))
		for i, s := range req.Courses {
			rows[i] = models.TournamentCourse{TournamentID: id, CourseID: s.ID, SequenceNumber: s.SequenceNumber}
		}
		if _, err := h.db.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
			return httpError(err)
		}
	}

	t, err := h.loadTournament(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) RemoveTournamentCourses(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req courseSlotsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.loadTournament(ctx, id); err != nil {
		return err
	}

	for _, s := range req.Courses {
		_, err := h.db.NewDelete().Model((*models.TournamentCourse)(nil)).
			Where("tournament_id = ?", id).
			Where("course_id = ?", s.ID).
			Where("sequence_number = ?", s.SequenceNumber).
			Exec(ctx)
		if err != nil {
			return httpError(err)
		}
	}

	t, err := h.loadTournament(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}
