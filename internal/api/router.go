package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/kmapgame/internal/api/apierr"
	"github.com/mcoot/kmapgame/internal/api/handler"
	"github.com/mcoot/kmapgame/internal/api/response"
	"github.com/mcoot/kmapgame/internal/metrics"
	"github.com/mcoot/kmapgame/internal/middleware"
	"github.com/mcoot/kmapgame/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Controller *game.Controller
	Metrics    *metrics.Metrics
	// Gatherer backs GET /metrics. Nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.Controller)
	dailyHandler := handler.NewDailyHandler(cfg.Controller)
	timeAttackHandler := handler.NewTimeAttackHandler(cfg.Controller)

	// Create middleware
	var observer middleware.RequestObserver
	if cfg.Metrics != nil {
		observer = cfg.Metrics
	}
	loggingMiddleware := middleware.Logging(cfg.Logger, observer)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, panicHandler)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Practice and daily sessions
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/advance", sessionHandler.Advance).Methods(http.MethodPost)
	api.HandleFunc("/answers", sessionHandler.SubmitAnswer).Methods(http.MethodPost)

	// Daily challenge
	api.HandleFunc("/daily", dailyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/daily/leaderboard", dailyHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/daily/finish", dailyHandler.Finish).Methods(http.MethodPost)

	// Time attack
	api.HandleFunc("/time-attack", timeAttackHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/time-attack/check", timeAttackHandler.Check).Methods(http.MethodPost)
	api.HandleFunc("/time-attack/finish", timeAttackHandler.Finish).Methods(http.MethodPost)
	api.HandleFunc("/time-attack/leaderboard", timeAttackHandler.Leaderboard).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return r
}

// panicHandler answers a recovered panic with the JSON error envelope
func panicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
