package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/golfapi/logger"
	"github.com/padraicbc/golfapi/models"
)

type playerRequest struct {
	Name     optional[string]  `json:"name"`
	Handicap optional[float64] `json:"handicap"`
}

func (r *playerRequest) validate(creating bool) error {
	if creating && (!r.Name.Set || r.Name.Null || strings.TrimSpace(r.Name.Value) == "") {
		return badRequest("name is required")
	}
	if r.Name.Set && (r.Name.Null || strings.TrimSpace(r.Name.Value) == "") {
		return badRequest("name cannot be empty")
	}
	if r.Handicap.Set && !r.Handicap.Null {
		if math.IsNaN(r.Handicap.Value) || r.Handicap.Value < -10 || r.Handicap.Value > 54 {
			return badRequest("handicap must be between -10 and 54")
		}
	}
	return nil
}

func (r *playerRequest) apply(p *models.Player) {
	if r.Name.Set {
		p.Name = strings.TrimSpace(r.Name.Value)
	}
	if r.Handicap.Set {
		p.Handicap = r.Handicap.ptr()
	}
}

// Players returns all players ordered by name.
func (h *Handler) Players(c echo.Context) error {
	players := []models.Player{}
	if err := h.db.NewSelect().Model(&players).OrderExpr("p.name ASC").Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, players)
}

// Player returns a single player.
func (h *Handler) Player(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p := &models.Player{ID: id}
	if err := h.db.NewSelect().Model(p).WherePK().Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

// CreatePlayer inserts a new player.
func (h *Handler) CreatePlayer(c echo.Context) error {
	var req playerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	if err := req.validate(true); err != nil {
		return err
	}

	p := &models.Player{}
	req.apply(p)
	if _, err := h.db.NewInsert().Model(p).Exec(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdatePlayer changes the name and/or handicap index of a player.
// Rounds already initiated keep the handicap they were started with.
func (h *Handler) UpdatePlayer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req playerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	if err := req.validate(false); err != nil {
		return err
	}

	ctx := c.Request().Context()
	p := &models.Player{ID: id}
	if err := h.db.NewSelect().Model(p).WherePK().Scan(ctx); err != nil {
		return httpError(err)
	}
	req.apply(p)
	if _, err := h.db.NewUpdate().Model(p).WherePK().Exec(ctx); err != nil {
		return httpError(err)
	}
	if req.Handicap.Set {
		zap.L().Info("player handicap updated", logger.PlayerID(id), zap.Any("handicap", p.Handicap))
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePlayer removes a player and their tournament entries.
// Players with recorded rounds cannot be deleted.
func (h *Handler) DeletePlayer(c echo.Context) error {
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

	if _, err := tx.NewDelete().Model((*models.TournamentPlayer)(nil)).Where("player_id = ?", id).Exec(ctx); err != nil {
		return httpError(err)
	}
	res, err := tx.NewDelete().Model((*models.Player)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return httpError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("player", id)
	}
	if err := tx.Commit(); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
