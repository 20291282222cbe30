// Package openfoodfacts implements the product catalog lookup against the
// Open Food Facts HTTP API.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"homestock/internal/domain/product"
)

// DefaultBaseURL is the public Open Food Facts endpoint.
const DefaultBaseURL = "https://world.openfoodfacts.org"

// Config holds client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   5 * time.Second,
		UserAgent: "homestock/1.0",
	}
}

// Compile-time check.
var _ product.Lookup = (*Client)(nil)

// Client queries the Open Food Facts API. A missing product is a normal
// nil result; only transport and decode problems are errors.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// New creates a catalog client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

// offProduct is the wire shape of a product document.
type offProduct struct {
	Code          string                     `json:"code"`
	ProductName   string                     `json:"product_name"`
	Quantity      string                     `json:"quantity"`
	Brands        string                     `json:"brands"`
	ImageURL      string                     `json:"image_url"`
	ImageThumbURL string                     `json:"image_thumb_url"`
	Nutriments    map[string]json.RawMessage `json:"nutriments"`
}

// ByBarcode returns the catalog product for a barcode, or (nil, nil) when
// the catalog has no match.
func (c *Client) ByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))

	var body struct {
		Status  int        `json:"status"`
		Product offProduct `json:"product"`
	}
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	if body.Status != 1 {
		return nil, nil
	}

	converted := convert(body.Product)
	if converted.Code == "" {
		converted.Code = barcode
	}
	return &converted, nil
}

// Search performs a free-text product search.
func (c *Client) Search(ctx context.Context, term string) ([]product.Product, error) {
	endpoint := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1",
		c.baseURL, url.QueryEscape(term))

	var body struct {
		Products []offProduct `json:"products"`
	}
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}

	results := make([]product.Product, 0, len(body.Products))
	for _, p := range body.Products {
		results = append(results, convert(p))
	}
	return results, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	// The product endpoint answers 404 for unknown barcodes with a JSON
	// body carrying status 0; treat it like any other response.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

// convert maps a wire product to the domain type, keeping only numeric
// nutriment values.
func convert(p offProduct) product.Product {
	converted := product.Product{
		Code:          p.Code,
		Name:          p.ProductName,
		Quantity:      p.Quantity,
		Brands:        p.Brands,
		ImageURL:      p.ImageURL,
		ImageThumbURL: p.ImageThumbURL,
	}

	for key, raw := range p.Nutriments {
		var value decimal.Decimal
		if err := json.Unmarshal(raw, &value); err != nil {
			continue // non-numeric entries (units, labels) are skipped
		}
		if converted.Nutrients == nil {
			converted.Nutrients = make(map[string]decimal.Decimal)
		}
		converted.Nutrients[key] = value
	}
	return converted
}
