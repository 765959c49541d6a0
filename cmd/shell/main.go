//go:build js && wasm

// Command shell is the wasm boot shell loaded by every product dashboard.
// It runs the boot sequence before the dashboard mounts and publishes the
// outcome as window.berhotBoot:
//
//	{state, reason, location, session}
//
// The dashboard renders only when state is "rendered". A "berhot:boot"
// event is dispatched on window once the value is set. When the shell
// config cannot be loaded the page is sent to sign-in at landingOrigin,
// which is set at link time:
//
//	go build -ldflags "-X main.landingOrigin=https://berhot.example" ./cmd/shell
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"syscall/js"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/boot"
	"github.com/berhot/session-handoff/browser"
	"github.com/berhot/session-handoff/products"
	"github.com/berhot/session-handoff/sessions"
)

const shellConfigPath = "/api/shell-config"

// Set with -ldflags -X. Empty sends the fallback to this page's own origin.
var (
	landingOrigin = "http://localhost:3000"
	defaultLang   = "en"
)

type shellConfig struct {
	Origin        sessions.OriginID            `json:"origin"`
	LandingOrigin string                       `json:"landingOrigin"`
	Lang          string                       `json:"lang"`
	Origins       map[sessions.OriginID]string `json:"origins"`
}

type published struct {
	State    string                `json:"state"`
	Reason   string                `json:"reason,omitempty"`
	Location string                `json:"location,omitempty"`
	Session  *sessions.AuthSession `json:"session,omitempty"`
}

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: consoleWriter{}, NoColor: true})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	publish(run(ctx))
}

func run(ctx context.Context) published {
	var outcome boot.Outcome

	cfg, err := fetchConfig(ctx)
	if err == nil {
		var seq *boot.Sequencer
		catalog := products.DefaultCatalog().WithBaseURLs(cfg.Origins)
		seq, err = boot.NewSequencer(boot.Config{
			Origin:        cfg.Origin,
			Lang:          cfg.Lang,
			LandingOrigin: cfg.LandingOrigin,
		}, sessions.NewStore(browser.LocalStorage{}), catalog, browser.Navigator{})
		if err == nil {
			outcome = seq.Run(ctx, browser.CurrentURL())
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("boot shell: cannot start, sending to sign-in")
		outcome = boot.SignInFallback(ctx, browser.Navigator{}, landingOrigin, defaultLang, "", browser.CurrentURL())
	}

	return published{
		State:    outcome.State.String(),
		Reason:   string(outcome.Reason),
		Location: outcome.Location,
		Session:  outcome.Session,
	}
}

func fetchConfig(ctx context.Context) (shellConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shellConfigPath, nil)
	if err != nil {
		return shellConfig{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return shellConfig{}, fmt.Errorf("fetch shell config: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return shellConfig{}, fmt.Errorf("fetch shell config: status %d", resp.StatusCode)
	}

	var cfg shellConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return shellConfig{}, fmt.Errorf("decode shell config: %w", err)
	}
	return cfg, nil
}

func publish(p published) {
	data, err := json.Marshal(p)
	if err != nil {
		data = []byte(`{"state":"` + p.State + `"}`)
	}
	window := js.Global()
	window.Set("berhotBoot", js.Global().Get("JSON").Call("parse", string(data)))

	event := js.Global().Get("CustomEvent").New("berhot:boot", map[string]any{
		"detail": window.Get("berhotBoot"),
	})
	window.Call("dispatchEvent", event)
}

// consoleWriter sends log lines to console.log.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", string(p))
	return len(p), nil
}
