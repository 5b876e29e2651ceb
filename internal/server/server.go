// Package server implements crewcommd, the vessel-local message service.
//
// It is the authoritative store behind the messaging client: a flat
// contact directory and per-pair message history over SQLite. The wire
// contracts mirror what the client in internal/api consumes.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vesselworks/crewcomm/internal/db"
	"github.com/vesselworks/crewcomm/internal/logging"
)

// Server wires the HTTP surface to the repositories.
type Server struct {
	contacts *db.ContactRepository
	messages *db.MessageRepository
	validate *validator.Validate
	log      zerolog.Logger
}

// Options configures the server.
type Options struct {
	// AllowedOrigins restricts CORS for browser clients.
	AllowedOrigins []string
}

// New creates a Server over the given database.
func New(database *db.DB) *Server {
	return &Server{
		contacts: db.NewContactRepository(database),
		messages: db.NewMessageRepository(database),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logging.Component("server"),
	}
}

// Router builds the HTTP router.
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Operator-Id", "X-Operator-Crew-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireOperator)

		r.Get("/contacts", s.handleListContacts)
		r.Put("/contacts/{contactID}", s.handleUpsertContact)

		r.Get("/threads/{contactID}/messages", s.handleThread)

		r.Post("/messages", s.handleSendMessage)
		r.Patch("/messages/{messageID}", s.handleUpdateMessage)
		r.Delete("/messages/{messageID}", s.handleDeleteMessage)
	})

	return r
}
