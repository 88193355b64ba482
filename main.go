package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/time/rate"

	"github.com/padraicbc/golfapi/config"
	"github.com/padraicbc/golfapi/db"
	"github.com/padraicbc/golfapi/handlers"
	applog "github.com/padraicbc/golfapi/logger"
	mw "github.com/padraicbc/golfapi/middleware"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	h := handlers.New(bdb, cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		e.Use(mw.NewHTTPMetrics(reg).Middleware())
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// Public
	signinLimiter := mw.NewIPRateLimiter(rate.Limit(cfg.SigninRate), cfg.SigninBurst)
	e.POST("/api/signin", h.Signin, mw.RateLimit(signinLimiter))

	// Protected – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(cfg.JWTKey()))

	api.GET("/players", h.Players)
	api.POST("/players", h.CreatePlayer)
	api.GET("/players/:id", h.Player)
	api.PUT("/players/:id", h.UpdatePlayer)
	api.DELETE("/players/:id", h.DeletePlayer)

	api.GET("/courses", h.Courses)
	api.POST("/courses", h.CreateCourse)
	api.GET("/courses/:id", h.Course)
	api.PUT("/courses/:id", h.UpdateCourse)
	api.DELETE("/courses/:id", h.DeleteCourse)
	api.GET("/courses/:id/holes", h.CourseHoles)

	api.GET("/tournaments", h.Tournaments)
	api.POST("/tournaments", h.CreateTournament)
	api.GET("/tournaments/:id", h.Tournament)
	api.PUT("/tournaments/:id", h.UpdateTournament)
	api.DELETE("/tournaments/:id", h.DeleteTournament)
	api.GET("/tournaments/:id/players", h.TournamentPlayers)
	api.POST("/tournaments/:id/players", h.AddTournamentPlayers)
	api.DELETE("/tournaments/:id/players", h.RemoveTournamentPlayers)
	api.GET("/tournaments/:id/courses", h.TournamentCourses)
	api.POST("/tournaments/:id/courses", h.AddTournamentCourses)
	api.DELETE("/tournaments/:id/courses", h.RemoveTournamentCourses)
	api.GET("/tournaments/:id/rounds_summary", h.RoundsSummary)
	api.POST("/tournaments/:id/rounds/end", h.EndRound)
	api.POST("/tournaments/:id/rounds/reopen_all", h.ReopenAll)
	api.GET("/tournaments/:id/leaderboard", h.Leaderboard)
	api.GET("/tournaments/:id/leaderboard.xlsx", h.LeaderboardXLSX)

	api.GET("/rounds", h.Rounds)
	api.POST("/rounds", h.CreateRound)
	api.POST("/initiate_round", h.InitiateRound)
	api.GET("/rounds/:id/scores", h.HoleScores)
	api.POST("/rounds/:id/scores", h.RecordScores)
	api.GET("/rounds/:id/summary", h.RoundSummary)
	api.POST("/rounds/:id/reopen", h.ReopenRound)

	api.GET("/handicap_adjustments", h.Adjustments)
	api.POST("/handicap_adjustments", h.CreateAdjustment)
	api.PUT("/handicap_adjustments/:score", h.UpdateAdjustment)
	api.DELETE("/handicap_adjustments/:score", h.DeleteAdjustment)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	logger.Info("starting server", zap.Strings("domains", cfg.TLSDomains))
	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
