package mapserver

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static/*
var staticFiles embed.FS

// Server serves the parking-status GeoJSON feed and its Leaflet map
// page, grounded on internal/api/enrichment.go's chi router and
// internal/review/server.go's go:embed static handler.
type Server struct {
	store       *Store
	host        string
	port        int
	corsOrigins []string
	logger      *slog.Logger
}

// NewServer creates a map server over store. corsOrigins lists the
// allowed browser origins; an empty list allows any origin ("*").
func NewServer(store *Store, host string, port int, corsOrigins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{store: store, host: host, port: port, corsOrigins: corsOrigins, logger: logger}
}

// Router builds the chi router: /parkings plus the embedded static UI.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.corsMiddleware)

	r.Get("/parkings", s.handleParkings)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		s.logger.Error("embed static files", "error", err)
	} else {
		r.Handle("/*", http.FileServer(http.FS(staticFS)))
	}

	return r
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.logger.Info("map server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

// corsMiddleware adds CORS headers for browser access, restricted to
// corsOrigins when non-empty.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.originAllowed(origin) {
			if len(s.corsOrigins) == 0 {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	if len(s.corsOrigins) == 0 {
		return true
	}
	for _, o := range s.corsOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleParkings(w http.ResponseWriter, r *http.Request) {
	fc := BuildFeatureCollection(s.store.Snapshot())
	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		s.logger.Error("encode geojson", "error", err)
	}
}
