package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"dayboard/internal/delivery/http/controllers"
	"dayboard/internal/delivery/http/middleware"
	"dayboard/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	calendarController *controllers.CalendarController,
	tokenController *controllers.TokenController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Calendar
	mux.HandleFunc("GET /calendar", auth(calendarController.GetIndex))
	mux.HandleFunc("GET /calendar/grid/{year}/{month}", calendarController.MonthGrid)
	mux.HandleFunc("GET /calendar/{date}", auth(calendarController.QueryDay))
	mux.HandleFunc("POST /calendar/{date}/events", auth(calendarController.AddEvent))
	mux.HandleFunc("DELETE /calendar/{date}/events/{eventID}", auth(calendarController.DeleteEvent))

	// Auth
	mux.HandleFunc("POST /auth/token", tokenController.Mint)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
