// Package handoff carries an AuthSession from one origin to another inside
// the URL fragment: #auth=<base64(JSON(session))>.
package handoff

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/berhot/session-handoff/sessions"
)

// FragmentKey is the fragment parameter that carries the session.
const FragmentKey = "auth"

// Encode returns base64(JSON(session)) using the padded standard alphabet,
// the same bytes window.btoa produces.
func Encode(session sessions.AuthSession) (string, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// MustEncode is Encode for callers holding a session built from the
// concrete types, which always marshal.
func MustEncode(session sessions.AuthSession) string {
	token, err := Encode(session)
	if err != nil {
		panic(err)
	}
	return token
}

// Fragment returns "auth=<token>" ready to be placed after '#'.
func Fragment(session sessions.AuthSession) (string, error) {
	token, err := Encode(session)
	if err != nil {
		return "", err
	}
	return FragmentKey + "=" + url.QueryEscape(token), nil
}

// HasAuth reports whether the fragment carries an auth parameter at all,
// valid or not.
func HasAuth(fragment string) bool {
	_, ok := lookup(fragment)
	return ok
}

// Decode extracts and validates the session in a URL fragment. The leading
// '#' is optional. Any failure (missing key, bad escaping, bad base64, bad
// JSON, missing user or access token) yields false. It has no side effects.
func Decode(fragment string) (*sessions.AuthSession, bool) {
	raw, ok := lookup(fragment)
	if !ok || raw == "" {
		return nil, false
	}

	// PathUnescape leaves '+' alone, which matters for unescaped btoa output
	token, err := url.PathUnescape(raw)
	if err != nil {
		return nil, false
	}

	data, ok := decodeBase64(token)
	if !ok {
		return nil, false
	}

	var session sessions.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false
	}
	if !session.Usable() {
		return nil, false
	}
	return &session, true
}

// DecodeURL runs Decode on the fragment of a full URL.
func DecodeURL(rawURL string) (*sessions.AuthSession, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	return Decode(u.EscapedFragment())
}

func lookup(fragment string) (string, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	for _, pair := range strings.Split(fragment, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key == FragmentKey {
			return value, true
		}
	}
	return "", false
}

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(token string) ([]byte, bool) {
	token = strings.TrimSpace(token)
	for _, enc := range encodings {
		if data, err := enc.DecodeString(token); err == nil {
			return data, true
		}
	}
	return nil, false
}
