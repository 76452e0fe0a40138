package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/serenity-pos/api/internal/catalog"
	"github.com/serenity-pos/api/internal/handler"
	"github.com/serenity-pos/api/internal/session"
	"github.com/serenity-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(store *session.Store, snapshot catalog.Snapshot, degraded bool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, // POS front-of-house dev server
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// WebSocket route: live cart snapshots
	r.Get("/ws/carts/{cid}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, store, w, r)
	})

	r.Route("/api/v1", func(r chi.Router) {
		cartHandler := handler.NewCartHandler(store, snapshot, degraded, hub)
		r.Route("/carts", cartHandler.RegisterRoutes)

		catalogHandler := handler.NewCatalogHandler(snapshot, degraded)
		r.Route("/catalog", catalogHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
