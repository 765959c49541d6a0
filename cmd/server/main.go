package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/backend"
	"github.com/berhot/session-handoff/internal/config"
	"github.com/berhot/session-handoff/internal/logging"
	"github.com/berhot/session-handoff/products"
	"github.com/berhot/session-handoff/server"
	"github.com/berhot/session-handoff/storage"
	"github.com/berhot/session-handoff/storage/memory"
	"github.com/berhot/session-handoff/storage/redisstore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName() + " " + c.GetOriginID().String())

	catalog, err := products.LoadCatalog(c.GetProductCatalogFile())
	if err != nil {
		return err
	}

	preferences, closeStore, err := preferenceStorage(c)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := backend.NewClient(backend.Config{BaseURL: c.GetBackendURL()})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, err := server.New(c, server.Deps{
		Catalog:     catalog,
		Preferences: preferences,
		Backend:     client,
		Static:      server.StaticFilesFS(c.GetStaticDir()),
		Registerer:  registry,
		Gatherer:    registry,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(httpServer) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// preferenceStorage returns Redis when REDIS_ADDR is set, memory otherwise.
func preferenceStorage(c config.Config) (storage.Backend, func(), error) {
	if c.GetRedisAddr() == "" {
		log.Warn().Msg("REDIS_ADDR not set, product preferences are kept in memory")
		return memory.NewMemoryStorage(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: c.GetRedisAddr()})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", c.GetRedisAddr(), err)
	}
	log.Info().Str("addr", c.GetRedisAddr()).Msg("product preferences stored in redis")
	return redisstore.New(client, c.GetRedisPrefix(), c.GetOriginID()), func() { _ = client.Close() }, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
