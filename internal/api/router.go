package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/blockdrop/internal/api/handler"
	"github.com/mcoot/blockdrop/internal/api/middleware"
	httpmw "github.com/mcoot/blockdrop/internal/middleware"
	"github.com/mcoot/blockdrop/internal/services/auth"
	"github.com/mcoot/blockdrop/internal/services/game"
	"github.com/mcoot/blockdrop/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController game.ControllerInterface
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.HubManager, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)

	// Logging wraps recovery so panics are logged with their 500 status
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(httpmw.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Abandon).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/commands", gameHandler.Command).Methods(http.MethodPost)
	games.HandleFunc("/{id}/tick", gameHandler.Tick).Methods(http.MethodPost)
	games.HandleFunc("/{id}/new", gameHandler.NewGame).Methods(http.MethodPost)
	games.HandleFunc("/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
