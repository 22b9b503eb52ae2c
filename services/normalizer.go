package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"rental-analyzer/models"
	"rental-analyzer/utils"
)

const (
	// priceFloor disqualifies placeholder and junk prices before metrics
	// are computed.
	priceFloor = 10000

	// defaultBedrooms substitutes for listings that do not state a bedroom
	// count.
	defaultBedrooms = 3

	listingHost = "https://www.zillow.com"
)

// currencyRegexp captures the numeric part of a currency-formatted price.
var currencyRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// Typed normalization failures, collected per batch as diagnostics.
var (
	ErrMissingPrice    = errors.New("listing has no usable price")
	ErrPriceBelowFloor = fmt.Errorf("listing price below $%d floor", priceFloor)
)

// Normalizer turns heterogeneous raw provider records into canonical
// Property records. Providers rename fields, nest them, or format prices as
// currency strings; nothing about a RawListing can be trusted.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize validates and canonicalizes one raw listing. The returned error
// is a typed data-quality failure; the listing is discarded and processing
// continues at the caller.
func (n *Normalizer) Normalize(zipCode string, raw models.RawListing) (models.Property, error) {
	price, ok := extractPrice(raw)
	if !ok {
		return models.Property{}, ErrMissingPrice
	}
	if price < priceFloor {
		return models.Property{}, fmt.Errorf("%w: $%.0f", ErrPriceBelowFloor, price)
	}

	bedrooms := extractBedrooms(raw)
	if bedrooms < 1 {
		n.logger.Debug("[normalize] ZIP %s: no bedroom count, defaulting to %d", zipCode, defaultBedrooms)
		bedrooms = defaultBedrooms
	}

	return models.Property{
		Address:      buildAddress(raw, zipCode),
		Price:        price,
		Bedrooms:     bedrooms,
		PropertyType: classifyType(raw),
		Link:         extractLink(raw),
	}, nil
}

// classifyType maps free-form provider type labels onto the canonical
// category set by substring match on the lower-cased text.
func classifyType(raw models.RawListing) string {
	label := strings.ToLower(firstString(raw, "propertyType", "homeType"))
	switch {
	case strings.Contains(label, "single"):
		return models.TypeSingleFamily
	case strings.Contains(label, "multi"):
		return models.TypeMultifamily
	case strings.Contains(label, "condo"):
		return models.TypeCondo
	default:
		return models.TypeResidential
	}
}

// extractPrice pulls a price from the top-level field, a currency-formatted
// string, or the provider's nested homeInfo block.
func extractPrice(raw models.RawListing) (float64, bool) {
	for _, source := range []any{raw["price"], raw["unformattedPrice"], nestedHomeInfo(raw)["price"]} {
		if price, ok := coercePrice(source); ok {
			return price, true
		}
	}
	return 0, false
}

func coercePrice(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if val > 0 {
			return val, true
		}
	case int:
		if val > 0 {
			return float64(val), true
		}
	case string:
		match := currencyRegexp.FindString(val)
		if match == "" {
			return 0, false
		}
		price, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
		if err == nil && price > 0 {
			return price, true
		}
	}
	return 0, false
}

// extractBedrooms returns the listing's bedroom count, or 0 when absent or
// unusable.
func extractBedrooms(raw models.RawListing) int {
	for _, source := range []any{raw["bedrooms"], raw["beds"], nestedHomeInfo(raw)["bedrooms"]} {
		switch val := source.(type) {
		case float64:
			if val >= 1 {
				return int(val)
			}
		case int:
			if val >= 1 {
				return val
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && n >= 1 {
				return n
			}
		}
	}
	return 0
}

// nestedHomeInfo digs out the provider's hdpData.homeInfo block, returning
// an empty map when it is absent or misshapen.
func nestedHomeInfo(raw models.RawListing) map[string]any {
	hdp, ok := raw["hdpData"].(map[string]any)
	if !ok {
		return nil
	}
	info, ok := hdp["homeInfo"].(map[string]any)
	if !ok {
		return nil
	}
	return info
}

func buildAddress(raw models.RawListing, zipCode string) string {
	street := firstString(raw, "streetAddress", "address")
	if street == "" {
		street = "Unknown"
	}
	city := firstString(raw, "city")
	state := firstString(raw, "state")
	return fmt.Sprintf("%s, %s, %s %s", street, city, state, zipCode)
}

func extractLink(raw models.RawListing) string {
	link := firstString(raw, "detailUrl", "url")
	if link == "" {
		return "#"
	}
	if strings.HasPrefix(link, "/") {
		return listingHost + link
	}
	return link
}

func firstString(raw models.RawListing, fields ...string) string {
	for _, field := range fields {
		if v, ok := raw[field].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}
