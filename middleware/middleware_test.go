package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key")

func signed(t *testing.T, key []byte, expires time.Time) string {
	t.Helper()
	claims := &Claims{
		Username: "simon",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWT(t *testing.T) {
	e := echo.New()
	e.GET("/api/players", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(UsernameKey).(string))
	}, JWT(testKey))

	tests := []struct {
		name   string
		header string
		want   int
		body   string
	}{
		{name: "bearer token", header: "Bearer " + signed(t, testKey, time.Now().Add(time.Hour)), want: http.StatusOK, body: "simon"},
		{name: "bare token", header: signed(t, testKey, time.Now().Add(time.Hour)), want: http.StatusOK, body: "simon"},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong key", header: signed(t, []byte("other"), time.Now().Add(time.Hour)), want: http.StatusUnauthorized},
		{name: "expired", header: signed(t, testKey, time.Now().Add(-time.Hour)), want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-token", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(e, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	limiter := NewIPRateLimiter(0.001, 2)
	e.POST("/api/signin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimit(limiter))

	fromIP := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/signin", nil)
		req.RemoteAddr = ip + ":4444"
		return serve(e, req).Code
	}

	assert.Equal(t, http.StatusOK, fromIP("10.0.0.1"))
	assert.Equal(t, http.StatusOK, fromIP("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, fromIP("10.0.0.1"))
	assert.Equal(t, http.StatusOK, fromIP("10.0.0.2"), "buckets are per IP")
}

func TestIPRateLimiter_SameBucket(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	assert.Same(t, l.Limiter("a"), l.Limiter("a"))
	assert.NotSame(t, l.Limiter("a"), l.Limiter("b"))
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/rounds/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return echo.NewHTTPError(http.StatusNotFound, "round not found")
		}
		return c.NoContent(http.StatusOK)
	})

	serve(e, httptest.NewRequest(http.MethodGet, "/api/rounds/1", nil))
	serve(e, httptest.NewRequest(http.MethodGet, "/api/rounds/2", nil))
	serve(e, httptest.NewRequest(http.MethodGet, "/api/rounds/0", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/rounds/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/rounds/:id", "404")))
}
