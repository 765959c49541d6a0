package config

import (
	"strings"
	"time"

	"github.com/berhot/session-handoff/sessions"
)

type HandoffConfig interface {
	GetOriginID() sessions.OriginID
	GetLandingOrigin() string
	GetDefaultLang() string
	GetSignInEnabled() bool
	GetProductCatalogFile() string
	GetOriginURLs() map[sessions.OriginID]string
	GetPendingFlowTTL() time.Duration
}

// Handoff describes this app instance and its place among the product
// origins.
type Handoff struct {
	OriginID           string            `env:"ORIGIN_ID"            envDefault:"landing"`
	LandingOrigin      string            `env:"LANDING_ORIGIN"       envDefault:"http://localhost:3000"`
	DefaultLang        string            `env:"DEFAULT_LANG"         envDefault:"en"`
	SignInEnabled      bool              `env:"SIGNIN_ENABLED"       envDefault:"false"`
	ProductCatalogFile string            `env:"PRODUCT_CATALOG_FILE"`
	OriginURLs         map[string]string `env:"ORIGIN_URLS"          envSeparator:"," envKeyValSeparator:"="`
	PendingFlowTTL     time.Duration     `env:"PENDING_FLOW_TTL"     envDefault:"15m"`
}

var _ HandoffConfig = Handoff{}

func (h Handoff) GetOriginID() sessions.OriginID {
	return sessions.OriginID(strings.TrimSpace(h.OriginID))
}

func (h Handoff) GetLandingOrigin() string {
	return strings.TrimRight(h.LandingOrigin, "/")
}

func (h Handoff) GetDefaultLang() string {
	if h.DefaultLang == "" {
		return "en"
	}
	return h.DefaultLang
}

func (h Handoff) GetSignInEnabled() bool {
	return h.SignInEnabled
}

// GetProductCatalogFile is empty when the embedded catalog is used.
func (h Handoff) GetProductCatalogFile() string {
	return h.ProductCatalogFile
}

// GetOriginURLs overrides the catalog's base URL per origin.
func (h Handoff) GetOriginURLs() map[sessions.OriginID]string {
	urls := make(map[sessions.OriginID]string, len(h.OriginURLs))
	for id, url := range h.OriginURLs {
		id, url = strings.TrimSpace(id), strings.TrimSpace(url)
		if id != "" && url != "" {
			urls[sessions.OriginID(id)] = url
		}
	}
	return urls
}

func (h Handoff) GetPendingFlowTTL() time.Duration {
	return h.PendingFlowTTL
}
