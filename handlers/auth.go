package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	mw "github.com/padraicbc/golfapi/middleware"
	"github.com/padraicbc/golfapi/models"
)

// tokenTTL is how long a signin token stays valid.
const tokenTTL = 30 * 24 * time.Hour

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HashPassword validates username/password input and returns a bcrypt hash for storage.
func HashPassword(username, password string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", errors.New("username is required")
	}
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// requireAdmin returns 403 unless the authenticated user is listed in ADMIN_USERS.
func (h *Handler) requireAdmin(c echo.Context) error {
	username, _ := c.Get(mw.UsernameKey).(string)
	if strings.TrimSpace(username) == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !h.isAdmin(username) {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}
	return nil
}

// signToken issues an HS256 token for username.
func signToken(key []byte, username string, now time.Time) (string, error) {
	claims := &mw.Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Signin validates credentials and returns a JWT token valid for 30 days.
func (h *Handler) Signin(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return badRequest(err.Error())
	}
	creds.Username = strings.TrimSpace(creds.Username)

	user := &models.User{}
	err := h.db.NewSelect().Model(user).
		Where("username = ?", creds.Username).
		Scan(c.Request().Context())
	if err != nil {
		return badRequest("incorrect username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		zap.L().Warn("signin rejected", zap.String("username", creds.Username))
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	token, err := signToken(h.JWTKey, creds.Username, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}
