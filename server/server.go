// Package server hosts one product origin: the static dashboard shell and
// its wasm boot sequencer, the product catalog, and, on the sign-in origin,
// the sign-in and onboarding API that produces the outbound handoff.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/backend"
	"github.com/berhot/session-handoff/internal/config"
	"github.com/berhot/session-handoff/pending"
	"github.com/berhot/session-handoff/products"
	"github.com/berhot/session-handoff/storage"
)

// Authenticator is the opaque token backend. *backend.Client implements it.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (backend.Result, error)
	VerifyOTP(ctx context.Context, challengeID, code string) (backend.Result, error)
	SignUp(ctx context.Context, req backend.SignUpRequest) (backend.Result, error)
}

var _ Authenticator = (*backend.Client)(nil)

// Deps are the collaborators a Server is built from.
type Deps struct {
	Catalog     *products.Catalog
	Preferences storage.Backend       // Server-side mirror of the product preference record
	Backend     Authenticator         // Required when sign-in is enabled
	Static      fs.FS                 // Dashboard shell and shell.wasm; nil serves nothing
	Registerer  prometheus.Registerer // Defaults to a fresh registry
	Gatherer    prometheus.Gatherer
}

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	catalog     *products.Catalog
	assigner    *products.Assigner
	preferences *products.Preferences
	backend     Authenticator
	flows       *pending.Registry
	static      fs.FS
	metrics     *metrics
	gatherer    prometheus.Gatherer
	logger      zerolog.Logger
}

func New(config config.Config, deps Deps) (*Server, error) {
	if config == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("[Server New] product catalog is required")
	}
	if deps.Preferences == nil {
		return nil, errors.New("[Server New] preference storage is required")
	}
	if config.GetSignInEnabled() && deps.Backend == nil {
		return nil, errors.New("[Server New] backend is required when sign-in is enabled")
	}

	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil {
		registry := prometheus.NewRegistry()
		registerer, gatherer = registry, registry
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
		if g, ok := registerer.(prometheus.Gatherer); ok {
			gatherer = g
		}
	}

	catalog := deps.Catalog.WithBaseURLs(config.GetOriginURLs())
	preferences := products.NewPreferences(deps.Preferences)

	s := &Server{
		env:         config.GetEnv(),
		mux:         http.NewServeMux(),
		config:      config,
		catalog:     catalog,
		assigner:    products.NewAssigner(catalog, preferences),
		preferences: preferences,
		backend:     deps.Backend,
		flows:       pending.NewRegistry(config.GetPendingFlowTTL()),
		static:      deps.Static,
		gatherer:    gatherer,
		logger:      log.With().Str("origin", config.GetOriginID().String()).Logger(),
	}

	m, err := newMetrics(registerer, s.flows)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to register metrics: %w", err)
	}
	s.metrics = m

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Catalog is the catalog with this deployment's base URLs applied.
func (s *Server) Catalog() *products.Catalog {
	return s.catalog
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
