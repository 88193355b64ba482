package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/golfapi/models"
	"github.com/padraicbc/golfapi/scoring"
)

type courseRequest struct {
	Name          optional[string]  `json:"name"`
	Country       optional[string]  `json:"country"`
	SlopeRating   optional[float64] `json:"slope_rating"`
	HolePars      optional[[]int]   `json:"hole_pars"`
	StrokeIndices optional[[]int]   `json:"hole_stroke_indices"`
}

type courseHole struct {
	HoleNumber  int  `json:"hole_number"`
	Par         *int `json:"par"`
	StrokeIndex *int `json:"strokeIndex"`
}

func (r *courseRequest) apply(c *models.Course) {
	if r.Name.Set {
		c.Name = strings.TrimSpace(r.Name.Value)
	}
	if r.Country.Set {
		c.Country = r.Country.ptr()
	}
	if r.SlopeRating.Set {
		c.SlopeRating = r.SlopeRating.ptr()
	}
	if r.HolePars.Set {
		c.HolePars = nonNil(r.HolePars.Value)
	}
	if r.StrokeIndices.Set {
		c.StrokeIndices = nonNil(r.StrokeIndices.Value)
	}
}

// validateCourse checks the parts of a course that are filled in. A course may be
// saved before its card is complete, but anything entered must be scoreable.
func validateCourse(c *models.Course) error {
	if c.Name == "" {
		return badRequest("course name is required")
	}
	if c.SlopeRating != nil {
		if *c.SlopeRating <= 0 {
			return badRequest("slope_rating must be positive")
		}
	}
	if n := len(c.HolePars); n != 0 && n != scoring.HoleCount {
		return badRequest(fmt.Sprintf("hole_pars must have %d entries, got %d", scoring.HoleCount, n))
	}
	for i, par := range c.HolePars {
		if par < 1 {
			return badRequest(fmt.Sprintf("hole %d par must be positive", i+1))
		}
	}
	if n := len(c.StrokeIndices); n != 0 {
		if n != scoring.HoleCount {
			return badRequest(fmt.Sprintf("hole_stroke_indices must have %d entries, got %d", scoring.HoleCount, n))
		}
		var si [scoring.HoleCount]int
		copy(si[:], c.StrokeIndices)
		if err := scoring.ValidateStrokeIndices(si); err != nil {
			return badRequest(err.Error())
		}
	}
	return nil
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

// Courses returns all courses ordered by name.
func (h *Handler) Courses(c echo.Context) error {
	courses := []models.Course{}
	if err := h.db.NewSelect().Model(&courses).OrderExpr("c.name ASC").Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, courses)
}

// Course returns a single course.
func (h *Handler) Course(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	course := &models.Course{ID: id}
	if err := h.db.NewSelect().Model(course).WherePK().Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, course)
}

// CreateCourse inserts a new course.
func (h *Handler) CreateCourse(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}

	course := &models.Course{HolePars: []int{}, StrokeIndices: []int{}}
	req.apply(course)
	if err := validateCourse(course); err != nil {
		return err
	}

	if _, err := h.db.NewInsert().Model(course).Exec(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, course)
}

// UpdateCourse changes the fields present in the body. Pars and stroke
// indices are locked while any round on the course is finalized.
func (h *Handler) UpdateCourse(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	course := &models.Course{ID: id}
	if err := h.db.NewSelect().Model(course).WherePK().Scan(ctx); err != nil {
		return httpError(err)
	}
	before := *course
	req.apply(course)
	if err := validateCourse(course); err != nil {
		return err
	}

	if cardChanged(&before, course) {
		locked, err := h.db.NewSelect().Model((*models.Round)(nil)).
			Where("course_id = ?", id).
			Where("is_finalized = ?", true).
			Exists(ctx)
		if err != nil {
			return httpError(err)
		}
		if locked {
			return echo.NewHTTPError(http.StatusConflict,
				fmt.Sprintf("course %d has finalized rounds; reopen them before changing pars or stroke indices", id))
		}
	}

	if _, err := h.db.NewUpdate().Model(course).WherePK().Exec(ctx); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, course)
}

// cardChanged reports whether an edit alters what finalized totals are scored
// against. Slope only feeds playing handicaps, which rounds snapshot.
func cardChanged(before, after *models.Course) bool {
	return !slices.Equal(before.HolePars, after.HolePars) ||
		!slices.Equal(before.StrokeIndices, after.StrokeIndices)
}

// DeleteCourse removes a course that is not assigned to any tournament or round.
func (h *Handler) DeleteCourse(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.db.NewDelete().Model((*models.Course)(nil)).Where("id = ?", id).Exec(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("course", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// CourseHoles returns the 18 holes of a course with par and stroke index, null where unset.
func (h *Handler) CourseHoles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	course := &models.Course{ID: id}
	if err := h.db.NewSelect().Model(course).WherePK().Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, courseHoles(course))
}

func courseHoles(course *models.Course) []courseHole {
	holes := make([]courseHole, scoring.HoleCount)
	for i := range holes {
		holes[i].HoleNumber = i + 1
		if i < len(course.HolePars) {
			holes[i].Par = &course.HolePars[i]
		}
		if i < len(course.StrokeIndices) {
			holes[i].StrokeIndex = &course.StrokeIndices[i]
		}
	}
	return holes
}
