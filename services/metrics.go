package services

import (
	"errors"
	"fmt"
	"math"

	"rental-analyzer/models"
)

// ErrZeroDownPayment reports that cash-on-cash return is undefined: the
// return divides annual cash flow by cash invested, and no cash was
// invested. Callers must see this explicitly rather than a silent NaN.
var ErrZeroDownPayment = errors.New("metrics: down payment is zero, cash-on-cash return is undefined")

// ComputeMetrics derives the investment figures for one property. Pure and
// deterministic: no I/O, no retries, nothing cached.
func ComputeMetrics(price, rent float64, a models.Assumptions) (models.Metrics, error) {
	if a.LoanTermYears <= 0 {
		return models.Metrics{}, fmt.Errorf("metrics: loan term must be at least one year, got %d", a.LoanTermYears)
	}

	downPayment := price * a.DownPaymentPct / 100
	loanAmount := price - downPayment

	// Standard amortization: M = P * r(1+r)^n / ((1+r)^n - 1). A rate of
	// exactly zero degenerates to straight division.
	monthlyRate := a.InterestRatePct / 100 / 12
	numPayments := float64(a.LoanTermYears * 12)

	var mortgagePayment float64
	if monthlyRate == 0 {
		mortgagePayment = loanAmount / numPayments
	} else {
		factor := math.Pow(1+monthlyRate, numPayments)
		mortgagePayment = loanAmount * (monthlyRate * factor) / (factor - 1)
	}

	cashFlow := rent - mortgagePayment - a.MonthlyExpenses
	annualCashFlow := cashFlow * 12

	if downPayment == 0 {
		return models.Metrics{}, ErrZeroDownPayment
	}
	cashOnCashReturn := annualCashFlow / downPayment * 100

	return models.Metrics{
		DownPayment:      downPayment,
		LoanAmount:       loanAmount,
		MortgagePayment:  mortgagePayment,
		CashFlow:         cashFlow,
		AnnualCashFlow:   annualCashFlow,
		CashOnCashReturn: cashOnCashReturn,
	}, nil
}
