package models

// Assumptions holds the financing parameters supplied once per batch run.
// Immutable for the duration of one analysis.
type Assumptions struct {
	DownPaymentPct  float64 `json:"down_payment"`
	InterestRatePct float64 `json:"interest_rate"`
	LoanTermYears   int     `json:"loan_term"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	MinCoCReturnPct float64 `json:"min_coc_return"`
	MinCashFlow     float64 `json:"min_cash_flow"`
}

// DefaultAssumptions mirrors the defaults offered on the analyze form.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		DownPaymentPct:  20,
		InterestRatePct: 7,
		LoanTermYears:   30,
		MonthlyExpenses: 300,
		MinCoCReturnPct: 8,
		MinCashFlow:     200,
	}
}

// RawListing is an unprocessed provider record. Upstream search endpoints
// return heterogeneous JSON (fields of interest may be absent, renamed, or
// nested), so it is kept as a plain map until normalization.
type RawListing map[string]any

// Property type categories.
const (
	TypeSingleFamily = "Single Family"
	TypeMultifamily  = "Multifamily"
	TypeCondo        = "Condo"
	TypeResidential  = "Residential"
)

// Property is the canonical listing record after normalization.
type Property struct {
	Address      string
	Price        float64
	Bedrooms     int
	PropertyType string
	Link         string
}

// Metrics holds the derived investment figures for one property.
// Computed fresh each run, never cached.
type Metrics struct {
	DownPayment      float64
	LoanAmount       float64
	MortgagePayment  float64
	CashFlow         float64
	AnnualCashFlow   float64
	CashOnCashReturn float64
}

// Result is the externally visible unit: normalized property fields plus
// metrics, read-only once placed in the batch report.
type Result struct {
	Address      string  `json:"address"`
	Price        float64 `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Rent         float64 `json:"rent"`
	Mortgage     float64 `json:"mortgage"`
	CashFlow     float64 `json:"cash_flow"`
	CoCReturn    float64 `json:"coc_return"`
	PropertyType string  `json:"property_type"`
	Link         string  `json:"link"`
	Sample       bool    `json:"sample,omitempty"`
}

// Diagnostic stages.
const (
	StageListings  = "listings"
	StageNormalize = "normalize"
	StageRent      = "rent"
	StageMetrics   = "metrics"
)

// Diagnostic records one recoverable failure encountered during a batch:
// an unreachable endpoint, a discarded listing, a cache write that failed.
// Collected per batch so callers can inspect partial failures.
type Diagnostic struct {
	ZipCode string `json:"zip_code"`
	Stage   string `json:"stage"`
	Detail  string `json:"detail"`
}

// BatchRequest is the input to one aggregation run.
type BatchRequest struct {
	ZipCodes    []string    `json:"zip_codes"`
	Assumptions Assumptions `json:"assumptions"`
}

// BatchReport is the output of one aggregation run. Results are ordered by
// ZIP iteration order, then listing order within each ZIP. An empty Results
// slice after full processing is a normal outcome, not an error.
type BatchReport struct {
	Results     []Result     `json:"results"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	ZipCount    int          `json:"zip_count"`
	SampleData  bool         `json:"sample_data,omitempty"`
}
