package svc

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds the dependencies needed to answer glint script service
// requests, grounded on server/api.API's Backend/Secret/UnauthDelay shape.
type Server struct {
	cfg   Config
	store *Service
}

// NewServer builds a Server from cfg, opening its configured Store.
func NewServer(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	return &Server{cfg: cfg, store: &Service{db: store}}, nil
}

// Router builds the chi.Router that answers every glint script service
// endpoint, grounded on server/server.go's route-registration style.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return requireAuth(s.cfg.TokenSecret, s.cfg.UnauthDelay(), next)
		})

		r.Post("/scripts", s.handleCreateScript)
		r.Get("/scripts/{id}", s.handleGetScript)
		r.Post("/scripts/{id}/run", s.handleRunScript)
		r.Get("/scripts/{id}/runs", s.handleListRuns)
	})

	return r
}

// ListenAndServe starts the HTTP server on cfg.BindAddress.
func (s *Server) ListenAndServe() error {
	log.Printf("glintd listening on %s", s.cfg.BindAddress)
	return http.ListenAndServe(s.cfg.BindAddress, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
