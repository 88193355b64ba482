package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/padraicbc/golfapi/config"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db      *bun.DB
	JWTKey  []byte
	isAdmin func(username string) bool
}

// New creates a Handler with the given database connection and configuration.
func New(db *bun.DB, cfg *config.Config) *Handler {
	return &Handler{db: db, JWTKey: cfg.JWTKey(), isAdmin: cfg.IsAdmin}
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, badRequest("invalid " + name + " param")
	}
	return id, nil
}
