package products

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/berhot/session-handoff/sessions"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Product is one deployed POS vertical or back-office app.
type Product struct {
	Key             string            `yaml:"key" json:"key"`
	Name            string            `yaml:"name" json:"name"`
	Origin          sessions.OriginID `yaml:"origin" json:"origin"`
	BaseURL         string            `yaml:"baseUrl" json:"baseUrl"`
	DashboardPath   string            `yaml:"dashboardPath" json:"dashboardPath"`
	Default         bool              `yaml:"default" json:"default,omitempty"`
	Classifications []string          `yaml:"classifications" json:"classifications,omitempty"`
}

// POSProduct is the value committed into a session.
func (p Product) POSProduct() sessions.POSProduct {
	return sessions.POSProduct{Name: p.Name, Origin: p.Origin}
}

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// Catalog is the static classification -> product table plus the origin
// registry used to build cross-app URLs.
type Catalog struct {
	products         []Product
	byKey            map[string]Product
	byOrigin         map[sessions.OriginID]Product
	byClassification map[string]Product
	defaultProduct   Product
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded product catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from path, or returns the embedded one when
// path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading product catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates a YAML catalog. Exactly one product must
// be the default and keys, origins and classifications must be unique.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing product catalog: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("product catalog is empty")
	}

	c := &Catalog{
		byKey:            make(map[string]Product),
		byOrigin:         make(map[sessions.OriginID]Product),
		byClassification: make(map[string]Product),
	}
	defaults := 0
	for _, p := range file.Products {
		if p.Key == "" || p.Name == "" || p.Origin == "" {
			return nil, fmt.Errorf("product %q: key, name and origin are required", p.Key)
		}
		if _, ok := c.byKey[p.Key]; ok {
			return nil, fmt.Errorf("duplicate product key %q", p.Key)
		}
		if _, ok := c.byOrigin[p.Origin]; ok {
			return nil, fmt.Errorf("duplicate product origin %q", p.Origin)
		}
		if p.DashboardPath == "" {
			p.DashboardPath = "/"
		}
		for _, label := range p.Classifications {
			norm := normalize(label)
			if other, ok := c.byClassification[norm]; ok {
				return nil, fmt.Errorf("classification %q mapped to both %q and %q", label, other.Key, p.Key)
			}
			c.byClassification[norm] = p
		}
		if p.Default {
			defaults++
			c.defaultProduct = p
		}
		c.byKey[p.Key] = p
		c.byOrigin[p.Origin] = p
		c.products = append(c.products, p)
	}
	if defaults != 1 {
		return nil, fmt.Errorf("product catalog needs exactly one default product, found %d", defaults)
	}
	return c, nil
}

// WithBaseURLs returns a copy of the catalog whose products use the given
// base URLs, keyed by origin. Unknown origins are ignored.
func (c *Catalog) WithBaseURLs(urls map[sessions.OriginID]string) *Catalog {
	products := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if u, ok := urls[p.Origin]; ok && u != "" {
			p.BaseURL = strings.TrimRight(u, "/")
		}
		products = append(products, p)
	}

	out := &Catalog{
		byKey:            make(map[string]Product, len(products)),
		byOrigin:         make(map[sessions.OriginID]Product, len(products)),
		byClassification: make(map[string]Product),
	}
	for _, p := range products {
		out.byKey[p.Key] = p
		out.byOrigin[p.Origin] = p
		for _, label := range p.Classifications {
			out.byClassification[normalize(label)] = p
		}
		if p.Default {
			out.defaultProduct = p
		}
	}
	out.products = products
	return out
}

// ForClassification maps a business classification label to its product.
// Unknown or empty labels get the default product.
func (c *Catalog) ForClassification(label string) Product {
	if p, ok := c.byClassification[normalize(label)]; ok {
		return p
	}
	return c.defaultProduct
}

// Default returns the fallback product.
func (c *Catalog) Default() Product {
	return c.defaultProduct
}

func (c *Catalog) ByKey(key string) (Product, bool) {
	p, ok := c.byKey[strings.TrimSpace(key)]
	return p, ok
}

func (c *Catalog) ByOrigin(origin sessions.OriginID) (Product, bool) {
	p, ok := c.byOrigin[origin]
	return p, ok
}

// Products returns the products in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Classifications returns every known label, sorted.
func (c *Catalog) Classifications() []string {
	labels := make([]string, 0, len(c.byClassification))
	for _, p := range c.products {
		labels = append(labels, p.Classifications...)
	}
	sort.Strings(labels)
	return labels
}

// BaseURLs returns origin -> base URL for every product that has one.
func (c *Catalog) BaseURLs() map[sessions.OriginID]string {
	urls := make(map[sessions.OriginID]string, len(c.products))
	for _, p := range c.products {
		if p.BaseURL != "" {
			urls[p.Origin] = p.BaseURL
		}
	}
	return urls
}

func normalize(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}
