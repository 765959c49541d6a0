package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/handoff"
	"github.com/berhot/session-handoff/sessions"
)

func testSession(origin sessions.OriginID) sessions.AuthSession {
	return sessions.AuthSession{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &sessions.User{ID: "u-1", Email: "owner@berhot.dev", FirstName: "Demo"},
		PosProduct:   &sessions.POSProduct{Name: "Cafe POS", Origin: origin},
	}
}

func writeSession(t *testing.T, session sessions.AuthSession) string {
	t.Helper()
	data, err := json.Marshal(session)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	catalogFile = ""
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncodeDecode(t *testing.T) {
	session := testSession("cafe")
	path := writeSession(t, session)

	out, err := runCmd(t, "", "encode", "--file", path)
	require.NoError(t, err)
	fragment := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(fragment, "#auth="))

	out, err = runCmd(t, "", "decode", "http://localhost:3002/dashboard"+fragment)
	require.NoError(t, err)
	var decoded sessions.AuthSession
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, session, decoded)

	out, err = runCmd(t, "", "decode", fragment)
	require.NoError(t, err)
	assert.Contains(t, out, `"accessToken": "access-1"`)
}

func TestEncode_Stdin(t *testing.T) {
	data, err := json.Marshal(testSession("cafe"))
	require.NoError(t, err)

	out, err := runCmd(t, string(data), "encode")
	require.NoError(t, err)
	decoded, ok := handoff.Decode(strings.TrimSpace(out))
	require.True(t, ok)
	assert.Equal(t, testSession("cafe"), *decoded)
}

func TestEncode_RejectsUnusableSession(t *testing.T) {
	_, err := runCmd(t, `{"accessToken":"a"}`, "encode")
	assert.Error(t, err)

	_, err = runCmd(t, `not json`, "encode")
	assert.Error(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []string{"#auth=%%%", "#auth=bm90LWpzb24=", "http://localhost:3002/dashboard", ""}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := runCmd(t, "", "decode", in)
			assert.Error(t, err)
		})
	}
}

func TestBoot(t *testing.T) {
	cafe := testSession("cafe")
	fragment, err := handoff.Fragment(cafe)
	require.NoError(t, err)
	fragment = "#" + fragment

	tests := []struct {
		name         string
		args         []string
		stored       *sessions.AuthSession
		wantState    string
		wantLocation string
		wantStored   bool
	}{
		{
			name:       "handoff renders",
			args:       []string{"--origin", "cafe", "--url", "http://localhost:3002/dashboard" + fragment},
			wantState:  "rendered",
			wantStored: true,
		},
		{
			name:         "wrong app redirects",
			args:         []string{"--origin", "retail", "--url", "http://localhost:3003/dashboard" + fragment},
			wantState:    "redirected",
			wantLocation: "http://localhost:3002/dashboard" + fragment,
		},
		{
			name:         "no session goes to sign-in",
			args:         []string{"--origin", "cafe", "--url", "http://localhost:3002/dashboard"},
			wantState:    "redirected",
			wantLocation: "http://localhost:3000/en/signin?logout=false&port=cafe",
		},
		{
			name:       "stored session renders",
			args:       []string{"--origin", "cafe", "--url", "http://localhost:3002/dashboard"},
			stored:     &cafe,
			wantState:  "rendered",
			wantStored: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"boot"}, tt.args...)
			if tt.stored != nil {
				args = append(args, "--stored", writeSession(t, *tt.stored))
			}

			out, err := runCmd(t, "", args...)
			require.NoError(t, err)

			var result bootResult
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, tt.wantState, result.State)
			if strings.Contains(tt.wantLocation, "#auth=") {
				got, ok := handoff.DecodeURL(result.Location)
				require.True(t, ok, result.Location)
				assert.Equal(t, cafe, *got)
				assert.True(t, strings.HasPrefix(result.Location, "http://localhost:3002/dashboard#auth="))
			} else {
				assert.Equal(t, tt.wantLocation, result.Location)
			}
			assert.Equal(t, tt.wantStored, result.Stored != nil)
		})
	}
}

func TestBoot_RequiresFlags(t *testing.T) {
	_, err := runCmd(t, "", "boot", "--origin", "cafe")
	assert.Error(t, err)
}

func TestProducts(t *testing.T) {
	out, err := runCmd(t, "", "products")
	require.NoError(t, err)
	assert.Contains(t, out, "cafe")
	assert.Contains(t, out, "http://localhost:3002/dashboard")

	out, err = runCmd(t, "", "products", "assign", "Coffee Shop")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Cafe POS","origin":"cafe"}`, out)

	out, err = runCmd(t, "", "products", "assign", "Submarine Repair")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Restaurant POS","origin":"restaurant"}`, out)
}
