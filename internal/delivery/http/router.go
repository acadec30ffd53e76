package http

import (
	"context"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"tempus/internal/delivery/http/controllers"
	"tempus/internal/delivery/http/helpers"
	"tempus/internal/delivery/http/middleware"
	"tempus/internal/domain"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Metrics is the metrics surface the router exposes and feeds.
type Metrics interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

// RouterConfig holds everything NewRouter wires into the mux.
type RouterConfig struct {
	Logger             *slog.Logger
	AuthController     *controllers.AuthController
	UserController     *controllers.UserController
	CalendarController *controllers.CalendarController
	EventController    *controllers.EventController
	TokenVerifier      domain.TokenVerifier
	Metrics            Metrics
	Health             HealthCheck
	AllowedOrigins     []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.TokenVerifier, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /api/auth/signup", cfg.AuthController.SignUp)
	mux.HandleFunc("POST /api/auth/login", cfg.AuthController.Login)
	mux.HandleFunc("POST /api/auth/forgot-password", cfg.AuthController.ForgotPassword)
	mux.HandleFunc("POST /api/auth/login/code", cfg.AuthController.LoginWithCode)

	// Users
	mux.HandleFunc("GET /api/users/me", auth(cfg.UserController.GetMe))

	// Calendar
	mux.HandleFunc("GET /api/calendar/meetings", auth(cfg.CalendarController.ListMeetings))
	mux.HandleFunc("POST /api/calendar/meetings", auth(cfg.CalendarController.BookMeeting))
	mux.HandleFunc("DELETE /api/calendar/meetings/{meetingID}", auth(cfg.CalendarController.CancelMeeting))
	mux.HandleFunc("GET /api/calendar/availability", auth(cfg.CalendarController.Availability))
	mux.HandleFunc("GET /api/calendar/meetings.ics", auth(cfg.CalendarController.ExportICS))

	// Events
	mux.HandleFunc("GET /api/events", cfg.EventController.ListEvents)
	mux.HandleFunc("POST /api/events", auth(cfg.EventController.CreateEvent))
	mux.HandleFunc("GET /api/events/{eventID}", cfg.EventController.GetEvent)
	mux.HandleFunc("POST /api/events/join", auth(cfg.EventController.JoinEvent))

	// Ops
	mux.HandleFunc("GET /healthz", healthz(cfg.Health, cfg.Logger))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router in the request pipeline:
// RequestID -> Logging -> Metrics -> CORS -> mux.
func NewHandler(cfg RouterConfig) http.Handler {
	var h http.Handler = NewRouter(cfg)
	h = middleware.CORS(cfg.AllowedOrigins, h)
	if cfg.Metrics != nil {
		h = middleware.Metrics(cfg.Metrics, h)
	}
	h = middleware.LoggingMiddleware(cfg.Logger, h)
	return middleware.RequestID(h)
}

func healthz(check HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "err", err)
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, "unavailable", "service unavailable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
