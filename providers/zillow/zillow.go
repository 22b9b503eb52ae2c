// Package zillow retrieves property listings for a ZIP code from the Zillow
// search API (via RapidAPI). Premium-market ZIPs surface sparse inventory
// better under descending price, so region classification picks the sort
// order and forces the secondary endpoint.
package zillow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"rental-analyzer/models"
	"rental-analyzer/region"
	"rental-analyzer/utils"
)

const (
	defaultBaseURL = "https://zillow-com1.p.rapidapi.com"
	rapidAPIHost   = "zillow-com1.p.rapidapi.com"

	primaryPath   = "/propertyExtendedSearch"
	secondaryPath = "/search"
)

// ErrMissingAPIKey is returned at construction when no credential is
// configured. This is a fatal configuration error, distinct from the
// recoverable data-availability failures during search.
var ErrMissingAPIKey = errors.New("zillow: API key not configured, set ZILLOW_API_KEY")

// Client queries the Zillow search endpoints.
type Client struct {
	apiKey string
	client *resty.Client
	logger *utils.Logger
}

// New creates a ready-to-use Client. The API key is mandatory.
func New(apiKey string, timeout time.Duration, logger *utils.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetBaseURL(defaultBaseURL)

	return &Client{apiKey: apiKey, client: client, logger: logger}, nil
}

// SetBaseURL redirects the client at a different host. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.client.SetBaseURL(baseURL)
}

// SearchListings returns the merged, deduplicated raw listings for a ZIP
// code. Endpoint failures are logged and degrade that endpoint's
// contribution to empty; the result may be empty but the call never fails
// for upstream unavailability.
func (c *Client) SearchListings(zipCode string) ([]models.RawListing, error) {
	premium := region.IsPremium(zipCode)

	sort := "Price_Low_High"
	if premium {
		sort = "Price_High_Low"
	}

	primary, err := c.search(primaryPath, map[string]string{
		"location":  zipCode,
		"home_type": "All",
		"sort":      sort,
		"page":      "1",
	})
	if err != nil {
		c.logger.Warn("[zillow] Primary search failed for ZIP %s: %v", zipCode, err)
	}

	merged := make([]models.RawListing, 0, len(primary))
	seen := make(map[string]struct{})
	merged = appendDeduped(merged, seen, primary)

	// The secondary endpoint fills in when the primary comes up empty, and
	// always runs for premium ZIPs where single-endpoint coverage is thin.
	if len(primary) == 0 || premium {
		secondary, err := c.search(secondaryPath, map[string]string{
			"location":    zipCode,
			"status_type": "ForSale",
			"sort":        sort,
			"page":        "1",
		})
		if err != nil {
			c.logger.Warn("[zillow] Secondary search failed for ZIP %s: %v", zipCode, err)
		}
		merged = appendDeduped(merged, seen, secondary)
	}

	c.logger.Debug("[zillow] ZIP %s: %d listings after merge", zipCode, len(merged))
	return merged, nil
}

// search performs one endpoint query and decodes its listing array.
func (c *Client) search(path string, query map[string]string) ([]models.RawListing, error) {
	resp, err := c.client.R().
		SetHeader("X-RapidAPI-Key", c.apiKey).
		SetHeader("X-RapidAPI-Host", rapidAPIHost).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("zillow: request %s: %w", path, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("zillow: %s returned HTTP %d", path, resp.StatusCode())
	}

	var payload struct {
		Props   []models.RawListing `json:"props"`
		Results []models.RawListing `json:"results"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("zillow: parse %s response: %w", path, err)
	}

	if len(payload.Props) > 0 {
		return payload.Props, nil
	}
	return payload.Results, nil
}

// appendDeduped merges listings into dst, dropping duplicates by their
// street-address-like field. Listings without any address-like field cannot
// be deduplicated and are kept unconditionally.
func appendDeduped(dst []models.RawListing, seen map[string]struct{}, listings []models.RawListing) []models.RawListing {
	for _, l := range listings {
		key := addressKey(l)
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		dst = append(dst, l)
	}
	return dst
}

// addressKey extracts a normalized street-address-like key, or "" when the
// listing has none.
func addressKey(l models.RawListing) string {
	for _, field := range []string{"streetAddress", "address"} {
		if v, ok := l[field].(string); ok {
			if addr := strings.ToLower(strings.TrimSpace(v)); addr != "" {
				return addr
			}
		}
	}
	return ""
}
