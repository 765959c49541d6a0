package boot

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/handoff"
	"github.com/berhot/session-handoff/products"
	"github.com/berhot/session-handoff/sessions"
	"github.com/berhot/session-handoff/signin"
)

// maxSteps bounds a run; the longest path is four transitions.
const maxSteps = 8

// Config describes the app instance the sequencer runs in.
type Config struct {
	Origin        sessions.OriginID // This app's origin
	Port          string            // Reported to the sign-in surface as "port"
	Lang          string            // Language code for localized sign-in paths
	LandingOrigin string            // Base URL of the central sign-in app
}

// Outcome is the terminal result of a run.
type Outcome struct {
	State    State
	Reason   Reason
	Location string                // Where the user was sent when Redirected
	Session  *sessions.AuthSession // The session the dashboard renders with
	Effects  []Effect              // Every effect executed, in order
}

// Sequencer executes the boot state machine against a session store and a
// navigator.
type Sequencer struct {
	config  Config
	store   *sessions.Store
	catalog *products.Catalog
	nav     Navigator
	logger  zerolog.Logger
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithLogger sets the logger for boot decisions.
func WithLogger(logger zerolog.Logger) SequencerOption {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// NewSequencer validates its dependencies and returns a Sequencer.
func NewSequencer(config Config, store *sessions.Store, catalog *products.Catalog, nav Navigator, options ...SequencerOption) (*Sequencer, error) {
	if config.Origin == "" {
		return nil, errors.New("[NewSequencer] origin is required")
	}
	if config.LandingOrigin == "" {
		return nil, errors.New("[NewSequencer] landing origin is required")
	}
	if store == nil {
		return nil, errors.New("[NewSequencer] session store is required")
	}
	if catalog == nil {
		return nil, errors.New("[NewSequencer] product catalog is required")
	}
	if nav == nil {
		return nil, errors.New("[NewSequencer] navigator is required")
	}
	if config.Lang == "" {
		config.Lang = signin.DefaultLang
	}
	if config.Port == "" {
		config.Port = config.Origin.String()
	}

	s := &Sequencer{
		config:  config,
		store:   store,
		catalog: catalog,
		nav:     nav,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Sequencer) env() Env {
	return Env{
		Origin: s.config.Origin,
		Resolvable: func(origin sessions.OriginID) bool {
			p, ok := s.catalog.ByOrigin(origin)
			return ok && p.BaseURL != ""
		},
	}
}

// Run processes one page load of currentURL. It always returns a terminal
// outcome and never panics on bad input or broken storage.
func (s *Sequencer) Run(ctx context.Context, currentURL string) Outcome {
	page, err := url.Parse(currentURL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("boot: current URL does not parse, ignoring fragment")
		page = &url.URL{}
	}
	fragment := page.EscapedFragment()

	env := s.env()
	state := StateInit
	var event Event = NoFragment{}
	if handoff.HasAuth(fragment) {
		event = FragmentFound{Raw: fragment}
	}

	outcome := Outcome{}
	var current *sessions.AuthSession

	for step := 0; step < maxSteps; step++ {
		next, effects, err := Transition(state, event, env)
		if err != nil {
			// Unreachable with the events produced below; fail closed
			s.logger.Error().Err(err).Msg("boot: invalid transition")
			return s.failClosed(ctx, outcome)
		}
		s.logger.Debug().Str("from", state.String()).Str("to", next.String()).Msgf("boot: %T", event)

		for _, effect := range effects {
			s.execute(ctx, page, effect, &outcome)
		}
		outcome.Effects = append(outcome.Effects, effects...)
		state = next

		switch state {
		case StateDecodingFragment:
			if session, ok := handoff.Decode(fragment); ok {
				current = session
				event = FragmentDecoded{Session: *session}
			} else {
				s.logger.Debug().Msg("boot: handoff fragment rejected")
				event = FragmentInvalid{}
			}

		case StateLoadingStored:
			if session, ok := s.store.Load(ctx); ok {
				current = session
				event = StoredLoaded{Session: *session}
			} else {
				event = StoredMissing{}
			}

		case StateRendered:
			outcome.State = StateRendered
			outcome.Session = current
			s.logger.Info().
				Str("origin", s.config.Origin.String()).
				Str("user_id", current.UserID()).
				Msg("boot: rendered")
			return outcome

		case StateRedirected:
			outcome.State = StateRedirected
			s.logger.Info().
				Str("origin", s.config.Origin.String()).
				Str("reason", string(outcome.Reason)).
				Str("user_id", current.UserID()).
				Msg("boot: redirected")
			return outcome
		}
	}

	return s.failClosed(ctx, outcome)
}

func (s *Sequencer) failClosed(ctx context.Context, outcome Outcome) Outcome {
	effect := RedirectToSignIn{Reason: ReasonNoSession}
	s.execute(ctx, nil, effect, &outcome)
	outcome.Effects = append(outcome.Effects, effect)
	outcome.State = StateRedirected
	return outcome
}

func (s *Sequencer) execute(ctx context.Context, page *url.URL, effect Effect, outcome *Outcome) {
	switch e := effect.(type) {
	case StripFragment:
		if page == nil {
			return
		}
		stripped := *page
		stripped.Fragment = ""
		stripped.RawFragment = ""
		if err := s.nav.ReplaceURL(ctx, stripped.String()); err != nil {
			s.logger.Warn().Err(err).Msg("boot: could not strip handoff fragment")
		}

	case Persist:
		s.store.Save(ctx, e.Session)

	case ClearStored:
		s.store.Clear(ctx)

	case RedirectToOrigin:
		location, err := s.originURL(e.Origin, e.Session)
		if err != nil {
			s.logger.Warn().Err(err).Msg("boot: cannot build product URL, sending to sign-in")
			s.execute(ctx, page, RedirectToSignIn{Reason: ReasonUnknownOrigin, Session: &e.Session}, outcome)
			return
		}
		outcome.Reason = ReasonNone
		s.navigate(ctx, location, outcome)

	case RedirectToSignIn:
		params := signin.Params{
			Lang:   s.config.Lang,
			Logout: e.Logout,
			Port:   s.config.Port,
		}
		if e.Session != nil {
			params.PosProduct = e.Session.PosProduct
			params.Email = e.Session.Email()
		}
		outcome.Reason = e.Reason
		s.navigate(ctx, signin.URL(s.config.LandingOrigin, params), outcome)
	}
}

func (s *Sequencer) navigate(ctx context.Context, location string, outcome *Outcome) {
	outcome.Location = location
	if err := s.nav.Assign(ctx, location); err != nil {
		s.logger.Error().Err(err).Str("location", location).Msg("boot: navigation failed")
	}
}

func (s *Sequencer) originURL(origin sessions.OriginID, session sessions.AuthSession) (string, error) {
	product, ok := s.catalog.ByOrigin(origin)
	if !ok || product.BaseURL == "" {
		return "", errors.Errorf("no base URL for origin %q", origin)
	}
	fragment, err := handoff.Fragment(session)
	if err != nil {
		return "", errors.Wrap(err, "encoding handoff fragment")
	}
	return signin.DashboardURL(product.BaseURL, product.DashboardPath, fragment), nil
}
