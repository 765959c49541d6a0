package server

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware(RouteHealth)...))
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.RegisterRouteHandler("GET "+RouteProducts, ChainMiddleware(s.ProductsHandler(), s.APIMiddleware(RouteProducts)...))
	s.RegisterRouteHandler("GET "+RouteShellConfig, ChainMiddleware(s.ShellConfigHandler(), s.APIMiddleware(RouteShellConfig)...))
	s.RegisterRouteHandler("GET "+RouteProductPreference, ChainMiddleware(s.GetPreferenceHandler(), s.APIMiddleware(RouteProductPreference)...))
	s.RegisterRouteHandler("PUT "+RouteProductPreference, ChainMiddleware(s.PutPreferenceHandler(), s.APIMiddleware(RouteProductPreference)...))
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware("/api/")...))

	if s.config.GetSignInEnabled() {
		s.RegisterRouteHandler("POST "+RouteAuthSignIn, ChainMiddleware(s.SignInHandler(), s.APIMiddleware(RouteAuthSignIn)...))
		s.RegisterRouteHandler("POST "+RouteAuthVerify, ChainMiddleware(s.VerifyHandler(), s.APIMiddleware(RouteAuthVerify)...))
		s.RegisterRouteHandler("POST "+RouteAuthSignUp, ChainMiddleware(s.SignUpHandler(), s.APIMiddleware(RouteAuthSignUp)...))
		s.RegisterRouteHandler("POST "+RouteOnboardingClassification, ChainMiddleware(s.ClassificationHandler(), s.APIMiddleware(RouteOnboardingClassification)...))
		s.RegisterRouteHandler("POST "+RouteOnboardingComplete, ChainMiddleware(s.CompleteHandler(), s.APIMiddleware(RouteOnboardingComplete)...))
	}

	if s.static != nil {
		s.RegisterRouteHandler("GET /", ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware, s.CompressionMiddleware)...))
	}
}

// serveFileHandler serves the dashboard shell. Unknown paths without an
// extension fall back to index.html so client-side routes survive a reload.
func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if filePath == "" {
			filePath = indexFile
		}

		err := StreamFile(w, r, s.static, filePath)
		if errors.Is(err, fs.ErrNotExist) && path.Ext(filePath) == "" {
			err = StreamFile(w, r, s.static, indexFile)
		}
		if err != nil {
			s.logger.Debug().Err(err).Str("path", filePath).Msg("static file not served")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
