package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/berhot/session-handoff/boot"
	"github.com/berhot/session-handoff/products"
	"github.com/berhot/session-handoff/sessions"
	"github.com/berhot/session-handoff/storage/memory"
)

type bootResult struct {
	State    string                `json:"state"`
	Reason   string                `json:"reason,omitempty"`
	Location string                `json:"location,omitempty"`
	Session  *sessions.AuthSession `json:"session,omitempty"`
	Effects  []string              `json:"effects"`
	Calls    []boot.NavigatorCall  `json:"navigation"`
	Stored   *sessions.AuthSession `json:"storedAfter,omitempty"`
}

func bootCmd() *cobra.Command {
	var (
		origin        string
		pageURL       string
		stored        string
		port          string
		lang          string
		landingOrigin string
		baseURLs      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "boot",
		Short: "Replay a product app's boot sequence against a URL",
		Example: `  berhotctl boot --origin cafe --url 'http://localhost:3002/dashboard#auth=...'
  berhotctl boot --origin retail --url http://localhost:3003/ --stored session.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			if len(baseURLs) > 0 {
				urls := make(map[sessions.OriginID]string, len(baseURLs))
				for id, u := range baseURLs {
					urls[sessions.OriginID(id)] = u
				}
				catalog = catalog.WithBaseURLs(urls)
			}

			store := sessions.NewStore(memory.NewMemoryStorage(), sessions.WithLogger(log.Logger))
			if stored != "" {
				session, err := readSession(cmd.InOrStdin(), stored)
				if err != nil {
					return err
				}
				store.Save(cmd.Context(), *session)
			}

			nav := &boot.RecordingNavigator{}
			seq, err := boot.NewSequencer(boot.Config{
				Origin:        sessions.OriginID(origin),
				Port:          port,
				Lang:          lang,
				LandingOrigin: landingOrigin,
			}, store, catalog, nav, boot.WithLogger(log.Logger))
			if err != nil {
				return err
			}

			outcome := seq.Run(cmd.Context(), pageURL)
			return printJSON(cmd.OutOrStdout(), describe(cmd.Context(), outcome, nav, store))
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "origin ID of the app being booted (e.g. cafe)")
	cmd.Flags().StringVar(&pageURL, "url", "", "page URL the app was loaded with")
	cmd.Flags().StringVar(&stored, "stored", "", "session JSON already in this origin's storage")
	cmd.Flags().StringVar(&port, "port", "", "port reported to sign-in (defaults to the origin)")
	cmd.Flags().StringVar(&lang, "lang", "", "language code for the sign-in path")
	cmd.Flags().StringVar(&landingOrigin, "landing-origin", "http://localhost:3000", "base URL of the sign-in app")
	cmd.Flags().StringToStringVar(&baseURLs, "origin-url", nil, "override an origin's base URL, id=url")
	_ = cmd.MarkFlagRequired("origin")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func describe(ctx context.Context, outcome boot.Outcome, nav *boot.RecordingNavigator, store *sessions.Store) bootResult {
	result := bootResult{
		State:    outcome.State.String(),
		Reason:   string(outcome.Reason),
		Location: outcome.Location,
		Session:  outcome.Session,
		Effects:  make([]string, 0, len(outcome.Effects)),
		Calls:    nav.Calls(),
	}
	for _, effect := range outcome.Effects {
		result.Effects = append(result.Effects, effectName(effect))
	}
	if session, ok := store.Load(ctx); ok {
		result.Stored = session
	}
	return result
}

func effectName(effect boot.Effect) string {
	switch e := effect.(type) {
	case boot.StripFragment:
		return "strip_fragment"
	case boot.Persist:
		return "persist"
	case boot.ClearStored:
		return "clear_stored"
	case boot.RedirectToOrigin:
		return "redirect_to_origin:" + e.Origin.String()
	case boot.RedirectToSignIn:
		return "redirect_to_signin:" + string(e.Reason)
	default:
		return fmt.Sprintf("%T", effect)
	}
}

func loadCatalog() (*products.Catalog, error) {
	return products.LoadCatalog(catalogFile)
}
