package services

import (
	"math"
	"testing"

	"rental-analyzer/models"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestComputeMetricsIdentities(t *testing.T) {
	a := models.Assumptions{
		DownPaymentPct:  25,
		InterestRatePct: 6.5,
		LoanTermYears:   30,
		MonthlyExpenses: 250,
	}

	m, err := ComputeMetrics(200000, 1800, a)
	if err != nil {
		t.Fatalf("ComputeMetrics: %v", err)
	}

	if m.DownPayment != 50000 {
		t.Errorf("DownPayment = %.2f; want 50000", m.DownPayment)
	}
	if m.LoanAmount != 150000 {
		t.Errorf("LoanAmount = %.2f; want 150000", m.LoanAmount)
	}
	if want := 1800 - m.MortgagePayment - 250; !almostEqual(m.CashFlow, want, 1e-9) {
		t.Errorf("CashFlow = %.6f; want rent - mortgage - expenses = %.6f", m.CashFlow, want)
	}
	if want := m.CashFlow * 12; !almostEqual(m.AnnualCashFlow, want, 1e-9) {
		t.Errorf("AnnualCashFlow = %.6f; want %.6f", m.AnnualCashFlow, want)
	}
	if want := m.AnnualCashFlow / m.DownPayment * 100; !almostEqual(m.CashOnCashReturn, want, 1e-9) {
		t.Errorf("CashOnCashReturn = %.6f; want %.6f", m.CashOnCashReturn, want)
	}
}

func TestComputeMetricsZeroInterestExactDivision(t *testing.T) {
	a := models.Assumptions{
		DownPaymentPct:  20,
		InterestRatePct: 0,
		LoanTermYears:   15,
	}

	m, err := ComputeMetrics(180000, 1500, a)
	if err != nil {
		t.Fatalf("ComputeMetrics: %v", err)
	}
	if want := 144000.0 / (15 * 12); m.MortgagePayment != want {
		t.Errorf("zero-rate MortgagePayment = %.6f; want exactly %.6f", m.MortgagePayment, want)
	}
}

func TestComputeMetricsZeroDownPaymentIsExplicitError(t *testing.T) {
	a := models.Assumptions{
		DownPaymentPct:  0,
		InterestRatePct: 7,
		LoanTermYears:   30,
	}

	_, err := ComputeMetrics(200000, 1800, a)
	if err != ErrZeroDownPayment {
		t.Fatalf("expected ErrZeroDownPayment, got %v", err)
	}
}

func TestComputeMetricsRejectsNonPositiveTerm(t *testing.T) {
	a := models.Assumptions{DownPaymentPct: 20, LoanTermYears: 0}
	if _, err := ComputeMetrics(200000, 1800, a); err == nil {
		t.Error("expected an error for a zero loan term")
	}
}

// The million-dollar TriBeCa scenario: a $1M listing renting at $3,500 is
// deeply cash-flow negative under 20% down at 7% over 30 years.
func TestComputeMetricsMillionDollarScenario(t *testing.T) {
	a := models.Assumptions{
		DownPaymentPct:  20,
		InterestRatePct: 7,
		LoanTermYears:   30,
		MonthlyExpenses: 300,
	}

	m, err := ComputeMetrics(1000000, 3500, a)
	if err != nil {
		t.Fatalf("ComputeMetrics: %v", err)
	}
	if !almostEqual(m.MortgagePayment, 5322.42, 0.5) {
		t.Errorf("MortgagePayment = %.2f; want about 5322", m.MortgagePayment)
	}
	if m.CashFlow >= 0 {
		t.Errorf("CashFlow = %.2f; must be negative", m.CashFlow)
	}
	if m.CashOnCashReturn >= 0 {
		t.Errorf("CashOnCashReturn = %.2f; must be negative", m.CashOnCashReturn)
	}
}

func TestComputeMetricsIsDeterministic(t *testing.T) {
	a := models.DefaultAssumptions()
	m1, _ := ComputeMetrics(350000, 2400, a)
	m2, _ := ComputeMetrics(350000, 2400, a)
	if m1 != m2 {
		t.Error("identical inputs must produce identical metrics")
	}
}
