// Package region classifies postal codes into market tiers. Tiering drives
// rent-source query order, listing sort order, bedroom-adjustment premiums
// and filter-policy leniency, so the prefix table lives here as explicit
// data rather than scattered conditionals.
package region

import "strings"

// Tier is a market classification for a postal code.
type Tier int

const (
	// TierStandard markets are evaluated on yield: both the cash-on-cash and
	// cash-flow thresholds must be met.
	TierStandard Tier = iota
	// TierPremium markets are evaluated on appreciation: inventory is sparse,
	// rents skew high, and acceptance thresholds are relaxed.
	TierPremium
)

func (t Tier) String() string {
	if t == TierPremium {
		return "premium"
	}
	return "standard"
}

// prefixTier maps a ZIP prefix to its tier. Ordered: the first matching
// prefix wins.
type prefixTier struct {
	prefix string
	tier   Tier
}

// premiumPrefixes covers the high-value markets: Manhattan (100-102),
// Los Angeles (900, 902), Miami (331), San Francisco (941), Seattle (981).
var premiumPrefixes = []prefixTier{
	{"100", TierPremium},
	{"101", TierPremium},
	{"102", TierPremium},
	{"900", TierPremium},
	{"902", TierPremium},
	{"331", TierPremium},
	{"941", TierPremium},
	{"981", TierPremium},
}

// Classify returns the market tier for a ZIP code by prefix match.
func Classify(zipCode string) Tier {
	zip := strings.TrimSpace(zipCode)
	for _, pt := range premiumPrefixes {
		if strings.HasPrefix(zip, pt.prefix) {
			return pt.tier
		}
	}
	return TierStandard
}

// IsPremium reports whether the ZIP code belongs to a premium market.
func IsPremium(zipCode string) bool {
	return Classify(zipCode) == TierPremium
}
