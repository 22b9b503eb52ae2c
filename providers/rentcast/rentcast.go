// Package rentcast resolves a monthly rent figure for a (ZIP code, bedroom
// count) pair from the RentCast AVM API. Resolution is total: the fallback
// chain (property types, then alternate bedroom counts with an adjustment
// premium, then static regional tables) always produces a positive value,
// no matter how the upstream behaves.
package rentcast

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"rental-analyzer/region"
	"rental-analyzer/utils"
)

const (
	defaultBaseURL = "https://api.rentcast.io/v1"
	rentPath       = "/avm/rent/zip"

	minBedrooms = 1
	maxBedrooms = 5
)

// ErrMissingAPIKey is returned at construction when no credential is
// configured. Upstream unavailability during resolution never surfaces as
// an error.
var ErrMissingAPIKey = errors.New("rentcast: API key not configured, set RENTCAST_API_KEY")

var (
	// Query order per tier. Premium markets are condo-heavy, so upscale
	// categories go first there.
	propertyTypesStandard = []string{"SFH", "MFH", "CONDO"}
	propertyTypesPremium  = []string{"CONDO", "SFH", "MFH"}

	// Alternate bedroom counts in fixed priority order; common counts first.
	altBedroomOrder = []int{2, 3, 4, 1, 5}

	// Static rent tables keyed by bedroom count, used when every upstream
	// attempt fails. The standard table holds national averages (2BR
	// default); the premium table tracks high-value metro rents (3BR
	// default).
	fallbackRentsStandard = map[int]float64{1: 950, 2: 1200, 3: 1500, 4: 1800, 5: 2100}
	fallbackRentsPremium  = map[int]float64{1: 2300, 2: 3100, 3: 4000, 4: 5000, 5: 6200}
)

// Client resolves rent estimates.
type Client struct {
	apiKey string
	client *resty.Client
	logger *utils.Logger

	// Per-bedroom adjustment premiums applied when an alternate bedroom
	// count substitutes for the requested one.
	premiumStandard float64
	premiumPremium  float64
}

// New creates a ready-to-use Client. The API key is mandatory.
func New(apiKey string, timeout time.Duration, bedroomPremiumStandard, bedroomPremiumPremium float64, logger *utils.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetBaseURL(defaultBaseURL)

	return &Client{
		apiKey:          apiKey,
		client:          client,
		logger:          logger,
		premiumStandard: bedroomPremiumStandard,
		premiumPremium:  bedroomPremiumPremium,
	}, nil
}

// SetBaseURL redirects the client at a different host. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.client.SetBaseURL(baseURL)
}

// EstimateRent returns a monthly rent figure for the ZIP/bedroom pair. It
// always returns a positive value; upstream failures only push resolution
// further down the fallback chain.
func (c *Client) EstimateRent(zipCode string, bedrooms int) float64 {
	clamped := clampBedrooms(bedrooms)
	premium := region.IsPremium(zipCode)

	types := propertyTypesStandard
	if premium {
		types = propertyTypesPremium
	}

	// First pass: the exact bedroom count across all property types.
	for _, propType := range types {
		if rent, ok := c.query(zipCode, clamped, propType); ok {
			c.logger.Debug("[rentcast] ZIP %s %dBR %s: $%.0f", zipCode, clamped, propType, rent)
			return rent
		}
	}

	// Second pass: alternate bedroom counts, adjusted by the per-bedroom
	// premium times the signed difference from the requested count.
	perBedroom := c.premiumStandard
	if premium {
		perBedroom = c.premiumPremium
	}
	for _, alt := range altBedroomOrder {
		if alt == clamped {
			continue
		}
		for _, propType := range types {
			rent, ok := c.query(zipCode, alt, propType)
			if !ok {
				continue
			}
			adjusted := rent + float64(clamped-alt)*perBedroom
			if adjusted <= 0 {
				continue
			}
			c.logger.Info("[rentcast] ZIP %s: using %dBR rent $%.0f adjusted to $%.0f for %dBR",
				zipCode, alt, rent, adjusted, clamped)
			return adjusted
		}
	}

	// Last resort: static regional tables.
	rent := fallbackRent(clamped, premium)
	c.logger.Info("[rentcast] ZIP %s %dBR: no upstream data, using %s fallback $%.0f",
		zipCode, clamped, region.Classify(zipCode), rent)
	return rent
}

// query performs one upstream lookup. The bool result distinguishes "found a
// usable rent" from every flavour of not-found: 404, non-2xx, transport and
// parse errors all collapse to false, logged at the appropriate level.
func (c *Client) query(zipCode string, bedrooms int, propType string) (float64, bool) {
	resp, err := c.client.R().
		SetHeader("accept", "application/json").
		SetHeader("X-Api-Key", c.apiKey).
		SetQueryParams(map[string]string{
			"zip":          zipCode,
			"bedrooms":     strconv.Itoa(bedrooms),
			"propertyType": propType,
		}).
		Get(rentPath)
	if err != nil {
		c.logger.Warn("[rentcast] Request failed for %s/%dBR/%s: %v", zipCode, bedrooms, propType, err)
		return 0, false
	}

	// 404 means the combination is absent from their database.
	if resp.StatusCode() == 404 {
		c.logger.Debug("[rentcast] No data for %s/%dBR/%s", zipCode, bedrooms, propType)
		return 0, false
	}
	if resp.StatusCode() != 200 {
		c.logger.Warn("[rentcast] HTTP %d for %s/%dBR/%s", resp.StatusCode(), zipCode, bedrooms, propType)
		return 0, false
	}

	var payload struct {
		Rent float64 `json:"rent"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		c.logger.Warn("[rentcast] Parse error for %s/%dBR/%s: %v", zipCode, bedrooms, propType, err)
		return 0, false
	}
	if payload.Rent <= 0 {
		return 0, false
	}
	return payload.Rent, true
}

func fallbackRent(bedrooms int, premium bool) float64 {
	table, def := fallbackRentsStandard, 2
	if premium {
		table, def = fallbackRentsPremium, 3
	}
	if rent, ok := table[bedrooms]; ok {
		return rent
	}
	return table[def]
}

func clampBedrooms(bedrooms int) int {
	if bedrooms < minBedrooms {
		return minBedrooms
	}
	if bedrooms > maxBedrooms {
		return maxBedrooms
	}
	return bedrooms
}
