package adapthttp

import (
	"context"
	"net/http"

	"njaboot/internal/app"
	"njaboot/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the single sign-on provider. SSO routes answer 404 unless
// Enabled is set.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the driving HTTP adapter that routes requests to the
// authentication service.
type Server struct {
	authSvc       *app.AuthService
	log           *logger.Logger
	oidcConfig    OIDCConfig
	pinger        Pinger
	secureCookies bool

	registry *prometheus.Registry
	metrics  *metrics
}

// Option configures optional server behavior.
type Option func(*Server)

// WithOIDC enables single sign-on.
func WithOIDC(cfg OIDCConfig) Option {
	return func(s *Server) { s.oidcConfig = cfg }
}

// WithPinger makes /api/health report the store's reachability.
func WithPinger(p Pinger) Option {
	return func(s *Server) { s.pinger = p }
}

// WithSecureCookies marks session cookies Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) { s.secureCookies = secure }
}

// New creates a Server wired to the given authentication service. Each
// server owns its metrics registry.
func New(authSvc *app.AuthService, log *logger.Logger, opts ...Option) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		authSvc:  authSvc,
		log:      log,
		registry: reg,
		metrics:  newMetrics(reg),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverer, s.requestID, s.loggingMiddleware, withNoCache)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
			r.Post("/logout", s.handleLogout)
			r.With(s.authMiddleware).Get("/me", s.handleMe)

			r.Get("/config", s.handleConfig)
			r.Get("/sso/login", s.handleSSOLogin)
			r.Get("/sso/callback", s.handleSSOCallback)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.log.Error(r.Context(), "health check failed", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
