package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/padraicbc/golfapi/scoring"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func badRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func notFound(what string, id int) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s %d not found", what, id))
}

// httpError maps domain and storage errors onto HTTP status codes.
func httpError(err error) error {
	var he *echo.HTTPError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &he):
		return he
	case errors.Is(err, scoring.ErrInvalidInput), errors.Is(err, scoring.ErrIncompleteData):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, scoring.ErrRoundFinalized), errors.Is(err, scoring.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case pgUniqueViolation:
			return echo.NewHTTPError(http.StatusConflict, "already exists")
		case pgForeignKeyViolation:
			return echo.NewHTTPError(http.StatusConflict, "still referenced by other records")
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
