package products_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/products"
	"github.com/berhot/session-handoff/sessions"
)

func TestDefaultCatalog_ForClassification(t *testing.T) {
	catalog := products.DefaultCatalog()

	tests := []struct {
		label      string
		wantKey    string
		wantOrigin sessions.OriginID
	}{
		{label: "Coffee Shop", wantKey: "cafe", wantOrigin: "cafe"},
		{label: "  coffee   SHOP ", wantKey: "cafe", wantOrigin: "cafe"},
		{label: "Grocery", wantKey: "retail", wantOrigin: "retail"},
		{label: "Salon", wantKey: "appointment", wantOrigin: "appointment"},
		{label: "Food Truck", wantKey: "restaurant", wantOrigin: "restaurant"},
		{label: "Submarine Repair", wantKey: "restaurant", wantOrigin: "restaurant"},
		{label: "", wantKey: "restaurant", wantOrigin: "restaurant"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			p := catalog.ForClassification(tt.label)
			assert.Equal(t, tt.wantKey, p.Key)
			assert.Equal(t, tt.wantOrigin, p.Origin)
		})
	}
}

func TestDefaultCatalog_Lookups(t *testing.T) {
	catalog := products.DefaultCatalog()

	cafe, ok := catalog.ByKey("cafe")
	require.True(t, ok)
	assert.Equal(t, "Cafe POS", cafe.Name)
	assert.Equal(t, sessions.POSProduct{Name: "Cafe POS", Origin: "cafe"}, cafe.POSProduct())

	byOrigin, ok := catalog.ByOrigin("cafe")
	require.True(t, ok)
	assert.Equal(t, cafe, byOrigin)

	_, ok = catalog.ByKey("nope")
	assert.False(t, ok)
	_, ok = catalog.ByOrigin("nope")
	assert.False(t, ok)

	assert.Equal(t, "restaurant", catalog.Default().Key)
	assert.Len(t, catalog.Products(), 7)
	assert.Contains(t, catalog.Classifications(), "Coffee Shop")
	assert.Equal(t, "http://localhost:3002", catalog.BaseURLs()["cafe"])
}

func TestCatalog_WithBaseURLs(t *testing.T) {
	catalog := products.DefaultCatalog().WithBaseURLs(map[sessions.OriginID]string{
		"cafe":    "https://cafe.berhot.test/",
		"unknown": "https://x.test",
	})

	cafe, ok := catalog.ByKey("cafe")
	require.True(t, ok)
	assert.Equal(t, "https://cafe.berhot.test", cafe.BaseURL)
	assert.Equal(t, "cafe", catalog.ForClassification("Coffee Shop").Key)
	assert.Equal(t, "https://cafe.berhot.test", catalog.ForClassification("Coffee Shop").BaseURL)
	assert.Equal(t, "restaurant", catalog.Default().Key)

	// the original is untouched
	original, _ := products.DefaultCatalog().ByKey("cafe")
	assert.Equal(t, "http://localhost:3002", original.BaseURL)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "products: [:"},
		{name: "empty", yaml: "products: []"},
		{name: "no default", yaml: "products:\n  - {key: a, name: A, origin: a}\n"},
		{name: "two defaults", yaml: "products:\n  - {key: a, name: A, origin: a, default: true}\n  - {key: b, name: B, origin: b, default: true}\n"},
		{name: "duplicate key", yaml: "products:\n  - {key: a, name: A, origin: a, default: true}\n  - {key: a, name: B, origin: b}\n"},
		{name: "duplicate origin", yaml: "products:\n  - {key: a, name: A, origin: a, default: true}\n  - {key: b, name: B, origin: a}\n"},
		{name: "missing origin", yaml: "products:\n  - {key: a, name: A, default: true}\n"},
		{name: "shared classification", yaml: "products:\n  - {key: a, name: A, origin: a, default: true, classifications: [Shop]}\n  - {key: b, name: B, origin: b, classifications: [shop]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := products.ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := products.LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, "restaurant", c.Default().Key)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - {key: kiosk, name: Kiosk, origin: '4000', default: true}\n"), 0o600))

	c, err = products.LoadCatalog(path)
	require.NoError(t, err)
	kiosk := c.ForClassification("anything")
	assert.Equal(t, "kiosk", kiosk.Key)
	assert.Equal(t, sessions.OriginID("4000"), kiosk.Origin)
	assert.Equal(t, "/", kiosk.DashboardPath)

	_, err = products.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
