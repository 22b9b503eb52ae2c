package services

import (
	"errors"
	"fmt"

	"rental-analyzer/cache"
	"rental-analyzer/config"
	"rental-analyzer/models"
	"rental-analyzer/region"
	"rental-analyzer/utils"
)

// Batch-level input failures, rejected before any upstream call is made.
var (
	ErrNoZipCodes    = errors.New("analyzer: batch contains no ZIP codes")
	ErrBatchTooLarge = errors.New("analyzer: batch exceeds the maximum ZIP code count")
)

// ListingSource supplies raw listings for a ZIP code. Implemented by the
// zillow client; faked in tests.
type ListingSource interface {
	SearchListings(zipCode string) ([]models.RawListing, error)
}

// RentSource supplies a monthly rent figure for a (ZIP, bedrooms) pair.
// Total by contract: it always returns a positive value.
type RentSource interface {
	EstimateRent(zipCode string, bedrooms int) float64
}

// Analyzer is the aggregation pipeline: per ZIP code it fetches listings
// through the cache, normalizes them, resolves rents through the cache,
// computes metrics and applies the region-aware filter policy. Processing is
// sequential and a batch runs to completion; only input validation and
// missing configuration abort a run.
type Analyzer struct {
	listings   ListingSource
	rents      RentSource
	store      cache.Store
	normalizer *Normalizer
	samples    *SampleGenerator
	logger     *utils.Logger

	maxBatchSize    int
	premiumLeniency float64
	sampleOnly      bool
	sampleFallback  bool
}

// NewAnalyzer wires the pipeline. The cache store is injected so tests can
// substitute an in-memory fake.
func NewAnalyzer(cfg *config.Config, listings ListingSource, rents RentSource, store cache.Store, logger *utils.Logger) *Analyzer {
	return &Analyzer{
		listings:        listings,
		rents:           rents,
		store:           store,
		normalizer:      NewNormalizer(logger),
		samples:         NewSampleGenerator(cfg.PremiumLeniency, logger),
		logger:          logger,
		maxBatchSize:    cfg.MaxBatchSize,
		premiumLeniency: cfg.PremiumLeniency,
		sampleOnly:      cfg.SampleDataOnly,
		sampleFallback:  cfg.SampleFallback,
	}
}

// Analyze runs one batch. Results keep ZIP iteration order, then listing
// order within each ZIP; no cross-ZIP ranking is applied. A report with zero
// results after full processing is a normal outcome, not an error.
func (a *Analyzer) Analyze(req models.BatchRequest) (*models.BatchReport, error) {
	zips := dedupeZips(req.ZipCodes)
	if len(zips) == 0 {
		return nil, ErrNoZipCodes
	}
	if len(zips) > a.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(zips), a.maxBatchSize)
	}

	report := &models.BatchReport{
		Results:     []models.Result{},
		Diagnostics: []models.Diagnostic{},
		ZipCount:    len(zips),
		SampleData:  a.sampleOnly,
	}

	for _, zip := range zips {
		a.processZip(zip, req.Assumptions, report)
	}

	a.logger.Info("[analyzer] Batch done: %d ZIPs, %d results, %d diagnostics",
		report.ZipCount, len(report.Results), len(report.Diagnostics))
	return report, nil
}

func (a *Analyzer) processZip(zipCode string, assumptions models.Assumptions, report *models.BatchReport) {
	a.logger.Debug("[analyzer] Processing ZIP %s (%s market)", zipCode, region.Classify(zipCode))

	if a.sampleOnly {
		a.emitSamples(zipCode, assumptions, report)
		return
	}

	listings := a.fetchListings(zipCode, report)
	if len(listings) == 0 {
		report.Diagnostics = append(report.Diagnostics, models.Diagnostic{
			ZipCode: zipCode, Stage: models.StageListings, Detail: "no listings found",
		})
		if a.sampleFallback {
			a.emitSamples(zipCode, assumptions, report)
		}
		return
	}

	for _, raw := range listings {
		prop, err := a.normalizer.Normalize(zipCode, raw)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, models.Diagnostic{
				ZipCode: zipCode, Stage: models.StageNormalize, Detail: err.Error(),
			})
			continue
		}

		rent := a.resolveRent(zipCode, prop.Bedrooms)

		metrics, err := ComputeMetrics(prop.Price, rent, assumptions)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, models.Diagnostic{
				ZipCode: zipCode, Stage: models.StageMetrics, Detail: err.Error(),
			})
			continue
		}

		if !a.accept(zipCode, metrics, assumptions) {
			continue
		}

		report.Results = append(report.Results, models.Result{
			Address:      prop.Address,
			Price:        prop.Price,
			Bedrooms:     prop.Bedrooms,
			Rent:         rent,
			Mortgage:     metrics.MortgagePayment,
			CashFlow:     metrics.CashFlow,
			CoCReturn:    metrics.CashOnCashReturn,
			PropertyType: prop.PropertyType,
			Link:         prop.Link,
		})
	}
}

// fetchListings returns the cached listings for a ZIP, falling back to the
// live source on a miss. Cache failures never abort the run: a failed read
// is a miss, a failed write is logged and skipped.
func (a *Analyzer) fetchListings(zipCode string, report *models.BatchReport) []models.RawListing {
	key := fmt.Sprintf("listings:%s", zipCode)

	var cached []models.RawListing
	hit, err := a.store.Get(key, &cached)
	if err != nil {
		a.logger.Warn("[analyzer] Cache read failed for %s: %v", key, err)
	}
	if hit {
		a.logger.Debug("[analyzer] Using cached listings for ZIP %s", zipCode)
		return cached
	}

	live, err := a.listings.SearchListings(zipCode)
	if err != nil {
		report.Diagnostics = append(report.Diagnostics, models.Diagnostic{
			ZipCode: zipCode, Stage: models.StageListings, Detail: err.Error(),
		})
		return nil
	}
	if len(live) > 0 {
		if err := a.store.Put(key, live); err != nil {
			a.logger.Warn("[analyzer] Cache write failed for %s: %v", key, err)
		}
	}
	return live
}

// resolveRent returns the cached rent for a (ZIP, bedrooms) pair, invoking
// the rent source on a miss. Rent resolution is total, so a fresh value is
// always cached.
func (a *Analyzer) resolveRent(zipCode string, bedrooms int) float64 {
	key := fmt.Sprintf("rent:%s:%d", zipCode, bedrooms)

	var cached float64
	hit, err := a.store.Get(key, &cached)
	if err != nil {
		a.logger.Warn("[analyzer] Cache read failed for %s: %v", key, err)
	}
	if hit && cached > 0 {
		a.logger.Debug("[analyzer] Using cached rent for ZIP %s/%dBR", zipCode, bedrooms)
		return cached
	}

	rent := a.rents.EstimateRent(zipCode, bedrooms)
	if err := a.store.Put(key, rent); err != nil {
		a.logger.Warn("[analyzer] Cache write failed for %s: %v", key, err)
	}
	return rent
}

// dedupeZips drops repeated ZIP codes, preserving first-seen order.
func dedupeZips(zips []string) []string {
	seen := make(map[string]struct{}, len(zips))
	unique := make([]string, 0, len(zips))
	for _, zip := range zips {
		if _, dup := seen[zip]; dup {
			continue
		}
		seen[zip] = struct{}{}
		unique = append(unique, zip)
	}
	return unique
}

// accept applies the region-aware filter policy. Premium markets are
// evaluated on appreciation rather than yield: the cash-on-cash threshold is
// scaled down by the leniency factor and the cash-flow requirement is
// waived. Standard markets must clear both thresholds.
func (a *Analyzer) accept(zipCode string, m models.Metrics, assumptions models.Assumptions) bool {
	if region.IsPremium(zipCode) {
		return m.CashOnCashReturn >= assumptions.MinCoCReturnPct*a.premiumLeniency
	}
	return m.CashOnCashReturn >= assumptions.MinCoCReturnPct && m.CashFlow >= assumptions.MinCashFlow
}

func (a *Analyzer) emitSamples(zipCode string, assumptions models.Assumptions, report *models.BatchReport) {
	for _, sample := range a.samples.Generate(zipCode, assumptions) {
		metrics, err := ComputeMetrics(sample.Property.Price, sample.Rent, assumptions)
		if err != nil {
			continue
		}
		report.SampleData = true
		report.Results = append(report.Results, models.Result{
			Address:      sample.Property.Address,
			Price:        sample.Property.Price,
			Bedrooms:     sample.Property.Bedrooms,
			Rent:         sample.Rent,
			Mortgage:     metrics.MortgagePayment,
			CashFlow:     metrics.CashFlow,
			CoCReturn:    metrics.CashOnCashReturn,
			PropertyType: sample.Property.PropertyType,
			Link:         sample.Property.Link,
			Sample:       true,
		})
	}
}
