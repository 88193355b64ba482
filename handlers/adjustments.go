package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfapi/models"
	"github.com/padraicbc/golfapi/scoring"
)

type adjustmentRequest struct {
	StablefordScore *int     `json:"stableford_score"`
	Adjustment      *float64 `json:"adjustment"`
}

// loadAdjustments reads the whole handicap adjustment table.
func loadAdjustments(ctx context.Context, db bun.IDB) (scoring.AdjustmentTable, error) {
	var rows []models.HandicapAdjustment
	if err := db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("loading handicap adjustments: %w", err)
	}
	return adjustmentTable(rows), nil
}

func adjustmentTable(rows []models.HandicapAdjustment) scoring.AdjustmentTable {
	t := make(scoring.AdjustmentTable, len(rows))
	for _, r := range rows {
		t[r.StablefordScore] = r.Adjustment
	}
	return t
}

func scoreParam(c echo.Context) (int, error) {
	score, err := strconv.Atoi(c.Param("score"))
	if err != nil || score < 0 {
		return 0, badRequest("invalid score param")
	}
	return score, nil
}

// Adjustments lists the table ordered by Stableford score.
func (h *Handler) Adjustments(c echo.Context) error {
	rows := []models.HandicapAdjustment{}
	if err := h.db.NewSelect().Model(&rows).OrderExpr("ha.stableford_score ASC").Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

// CreateAdjustment adds an entry. A score that already has one is a conflict.
func (h *Handler) CreateAdjustment(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	var req adjustmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}
	if req.StablefordScore == nil || req.Adjustment == nil {
		return badRequest("stableford_score and adjustment are required")
	}
	if *req.StablefordScore < 0 {
		return badRequest("stableford_score must not be negative")
	}

	row := &models.HandicapAdjustment{StablefordScore: *req.StablefordScore, Adjustment: *req.Adjustment}
	if _, err := h.db.NewInsert().Model(row).Exec(c.Request().Context()); err != nil {
		return httpError(err)
	}
	zap.L().Info("handicap adjustment added", zap.Int("stableford", row.StablefordScore), zap.Float64("adjustment", row.Adjustment))
	return c.JSON(http.StatusCreated, row)
}

func (h *Handler) UpdateAdjustment(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	score, err := scoreParam(c)
	if err != nil {
		return err
	}
	var req adjustmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	row := &models.HandicapAdjustment{StablefordScore: score}
	if err := h.db.NewSelect().Model(row).WherePK().Scan(ctx); err != nil {
		return httpError(err)
	}
	if req.Adjustment == nil {
		return c.JSON(http.StatusOK, row)
	}
	row.Adjustment = *req.Adjustment
	if _, err := h.db.NewUpdate().Model(row).WherePK().Exec(ctx); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *Handler) DeleteAdjustment(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	score, err := scoreParam(c)
	if err != nil {
		return err
	}
	res, err := h.db.NewDelete().Model((*models.HandicapAdjustment)(nil)).
		Where("stableford_score = ?", score).
		Exec(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("handicap adjustment for score", score)
	}
	return c.NoContent(http.StatusNoContent)
}
