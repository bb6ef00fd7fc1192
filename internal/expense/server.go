package expense

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
)

// Server handles HTTP requests for the bill scanner UI and API
type Server struct {
	tracker   *Tracker
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux
func NewServer(tracker *Tracker, basicAuth BasicAuth) *Server {
	return NewServerWithMux(tracker, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(tracker *Tracker, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		tracker:   tracker,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			// Ensure CORS headers are set before error response
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="Bill Scanner"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux
// Routes must be registered from most specific to least specific to avoid conflicts
func (s *Server) registerRoutes() {
	// Static assets
	s.mux.HandleFunc("GET /static/app.css", s.requireAuth(s.handleStaticCSS))
	s.mux.HandleFunc("GET /static/app.js", s.requireAuth(s.handleStaticJS))

	// API endpoints
	s.mux.HandleFunc("POST /api/scan", s.requireAuth(s.handleScan))
	s.mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	s.mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleConfirm))
	s.mux.HandleFunc("GET /api/categories", s.requireAuth(s.handleListCategories))
	s.mux.HandleFunc("GET /api/settings", s.requireAuth(s.handleGetSettings))
	s.mux.HandleFunc("PUT /api/settings", s.requireAuth(s.handleSaveSettings))

	// Static HTML interface (register last as it's the catch-all)
	s.mux.HandleFunc("GET /index.html", s.requireAuth(s.handleIndex))
	s.mux.HandleFunc("GET /", s.requireAuth(s.handleIndex))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	// Wrap the mux with CORS middleware to handle all requests including OPTIONS
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
