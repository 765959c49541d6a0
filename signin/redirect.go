// Package signin builds the URLs that move a user between the central
// sign-in surface and the product dashboards.
package signin

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/berhot/session-handoff/sessions"
)

// DefaultLang is used when no language code is supplied.
const DefaultLang = "en"

// Params is the context the sign-in surface uses to pre-fill its form and
// explain why the user was sent back.
type Params struct {
	Lang       string               // i18n language code used in the path
	Logout     bool                 // A stale or foreign session was cleared
	Port       string               // Port (or origin ID) of the app that redirected
	PosProduct *sessions.POSProduct // Product context, when known
	Email      string               // Email to pre-fill, when known
}

// URL returns {landingOrigin}/{lang}/signin?logout=..&port=..&posProduct=..&email=..
func URL(landingOrigin string, p Params) string {
	lang := strings.Trim(p.Lang, "/ ")
	if lang == "" {
		lang = DefaultLang
	}

	q := url.Values{}
	q.Set("logout", strconv.FormatBool(p.Logout))
	if p.Port != "" {
		q.Set("port", p.Port)
	}
	if p.PosProduct != nil {
		if data, err := json.Marshal(p.PosProduct); err == nil {
			q.Set("posProduct", string(data))
		}
	}
	if p.Email != "" {
		q.Set("email", p.Email)
	}

	return strings.TrimRight(landingOrigin, "/") + "/" + url.PathEscape(lang) + "/signin?" + q.Encode()
}

// ParseParams reads the query of a sign-in URL back into Params. Malformed
// posProduct values are dropped.
func ParseParams(rawURL string) (Params, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Params{}, err
	}

	q := u.Query()
	p := Params{
		Port:  q.Get("port"),
		Email: q.Get("email"),
	}
	p.Logout, _ = strconv.ParseBool(q.Get("logout"))

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) >= 2 && segments[len(segments)-1] == "signin" {
		p.Lang = segments[len(segments)-2]
	}

	if raw := q.Get("posProduct"); raw != "" {
		var product sessions.POSProduct
		if err := json.Unmarshal([]byte(raw), &product); err == nil && product.Origin != "" {
			p.PosProduct = &product
		}
	}
	return p, nil
}

// DashboardURL joins a product base URL and dashboard path and attaches the
// handoff fragment when one is given.
func DashboardURL(baseURL, dashboardPath, fragment string) string {
	path := "/" + strings.TrimLeft(dashboardPath, "/")
	u := strings.TrimRight(baseURL, "/") + path
	if fragment != "" {
		u += "#" + strings.TrimPrefix(fragment, "#")
	}
	return u
}
