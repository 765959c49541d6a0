package boot

import (
	"context"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/signin"
)

// SignInFallback ends a page load that cannot run the sequencer at all,
// e.g. when the app's boot configuration could not be fetched. The fragment
// is stripped without being read and the user goes to sign-in, so the load
// still ends Redirected. An empty landingOrigin falls back to the current
// page's own origin; an empty port to the current page's port or host.
func SignInFallback(ctx context.Context, nav Navigator, landingOrigin, lang, port, currentURL string) Outcome {
	outcome := Outcome{State: StateRedirected, Reason: ReasonNoConfig}

	page, err := url.Parse(currentURL)
	if err != nil {
		page = &url.URL{}
	}

	if page.Fragment != "" || page.RawFragment != "" {
		stripped := *page
		stripped.Fragment = ""
		stripped.RawFragment = ""
		if err := nav.ReplaceURL(ctx, stripped.String()); err != nil {
			log.Warn().Err(err).Msg("boot: could not strip fragment")
		}
		outcome.Effects = append(outcome.Effects, StripFragment{})
	}

	if landingOrigin == "" && page.Host != "" {
		landingOrigin = page.Scheme + "://" + page.Host
	}
	if port == "" {
		port = page.Port()
		if port == "" {
			port = page.Hostname()
		}
	}

	effect := RedirectToSignIn{Reason: ReasonNoConfig}
	outcome.Effects = append(outcome.Effects, effect)
	outcome.Location = signin.URL(landingOrigin, signin.Params{Lang: lang, Port: port})
	if err := nav.Assign(ctx, outcome.Location); err != nil {
		log.Error().Err(err).Str("location", outcome.Location).Msg("boot: navigation failed")
	}
	log.Warn().Str("location", outcome.Location).Msg("boot: no configuration, sent to sign-in")
	return outcome
}
