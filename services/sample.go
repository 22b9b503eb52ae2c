package services

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"rental-analyzer/models"
	"rental-analyzer/region"
	"rental-analyzer/utils"
)

// SampleListing is one synthetic property with its manufactured rent.
type SampleListing struct {
	Property models.Property
	Rent     float64
}

// SampleGenerator manufactures deterministic placeholder listings for a ZIP
// code when live resolution is disabled or came up empty. The output is
// seeded by the ZIP string, so repeated runs reproduce the same listings,
// and the price/rent ratio is engineered so every listing clears the tier's
// filter policy. This is best-effort placeholder data, not market data, and
// is labeled as such on every record.
type SampleGenerator struct {
	logger   *utils.Logger
	leniency float64
}

var sampleStreets = []string{
	"Maple Ave", "Oak St", "Birch Ln", "Cedar Ct", "Elm Dr",
	"Willow Way", "Chestnut St", "Juniper Rd", "Aspen Pl", "Laurel Blvd",
}

var samplePropertyTypes = []string{
	models.TypeSingleFamily, models.TypeMultifamily, models.TypeCondo, models.TypeResidential,
}

// NewSampleGenerator creates a generator using the same premium leniency
// factor as the filter policy, so engineered listings track whatever
// thresholds the policy will apply.
func NewSampleGenerator(leniency float64, logger *utils.Logger) *SampleGenerator {
	return &SampleGenerator{logger: logger, leniency: leniency}
}

// Generate manufactures 3 to 8 listings for the ZIP code under the given
// assumptions. Listings are skipped (not invented differently) when the
// assumptions make acceptance impossible, e.g. a zero down payment.
func (g *SampleGenerator) Generate(zipCode string, a models.Assumptions) []SampleListing {
	rng := rand.New(rand.NewSource(seedFor(zipCode)))
	premium := region.IsPremium(zipCode)

	count := 3 + rng.Intn(6)
	listings := make([]SampleListing, 0, count)

	for i := 0; i < count; i++ {
		price := samplePrice(rng, premium)
		bedrooms := 1 + rng.Intn(5)

		rent, ok := g.engineerRent(price, zipCode, a, rng)
		if !ok {
			continue
		}

		propType := samplePropertyTypes[rng.Intn(len(samplePropertyTypes))]
		if premium && rng.Intn(2) == 0 {
			propType = models.TypeCondo
		}

		street := fmt.Sprintf("%d %s", 100+rng.Intn(9800), sampleStreets[rng.Intn(len(sampleStreets))])
		listings = append(listings, SampleListing{
			Property: models.Property{
				Address:      fmt.Sprintf("%s, Sample City, XX %s", street, zipCode),
				Price:        price,
				Bedrooms:     bedrooms,
				PropertyType: propType,
				Link:         "#sample",
			},
			Rent: rent,
		})
	}

	g.logger.Warn("[sample] ZIP %s: generated %d placeholder listings (not live market data)",
		zipCode, len(listings))
	return listings
}

// engineerRent picks a rent that clears the tier's acceptance thresholds
// with a small random margin on top.
func (g *SampleGenerator) engineerRent(price float64, zipCode string, a models.Assumptions, rng *rand.Rand) (float64, bool) {
	m, err := ComputeMetrics(price, 0, a)
	if err != nil {
		return 0, false
	}

	minCoC := a.MinCoCReturnPct
	minCashFlow := a.MinCashFlow
	if region.IsPremium(zipCode) {
		minCoC *= g.leniency
		minCashFlow = 0
	}

	neededCashFlow := minCoC / 100 * m.DownPayment / 12
	if neededCashFlow < minCashFlow {
		neededCashFlow = minCashFlow
	}

	margin := 50 + rng.Float64()*250
	rent := m.MortgagePayment + a.MonthlyExpenses + neededCashFlow + margin
	return math.Round(rent), true
}

func samplePrice(rng *rand.Rand, premium bool) float64 {
	if premium {
		return math.Round((600000+rng.Float64()*1900000)/1000) * 1000
	}
	return math.Round((80000+rng.Float64()*320000)/1000) * 1000
}

// seedFor derives a stable PRNG seed from the ZIP string.
func seedFor(zipCode string) int64 {
	h := fnv.New64a()
	h.Write([]byte(zipCode))
	return int64(h.Sum64())
}
