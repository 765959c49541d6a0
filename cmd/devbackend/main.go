// Command devbackend runs the in-memory stand-in for the authentication
// backend. It listens on the port of BACKEND_URL so the app hosts find it
// without extra configuration.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/internal/config"
	"github.com/berhot/session-handoff/internal/devbackend"
	"github.com/berhot/session-handoff/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running dev backend")
	}
	log.Info().Msg("Dev backend stopped")
}

func run() error {
	c, err := config.New()
	if err != nil {
		return err
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())

	figure.NewFigure("dev backend", "cybermedium", true).Print()
	fmt.Println()

	addr, err := listenAddr(c.GetBackendURL())
	if err != nil {
		return err
	}

	seeds := devbackend.DefaultSeedUsers()
	service, _, err := devbackend.NewInMemory(c, seeds)
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		log.Info().Str("email", seed.Email).Bool("otp", seed.EmailOTP).Msg("seeded user")
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           devbackend.NewHandler(service),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Dev backend listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- fmt.Errorf("server.ListenAndServe %w", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errs:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func listenAddr(backendURL string) (string, error) {
	u, err := url.Parse(backendURL)
	if err != nil {
		return "", fmt.Errorf("parse BACKEND_URL: %w", err)
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort("", port), nil
}
