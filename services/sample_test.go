package services

import (
	"reflect"
	"testing"

	"rental-analyzer/models"
	"rental-analyzer/utils"
)

func TestSampleGeneratorDeterministic(t *testing.T) {
	g := NewSampleGenerator(0.5, utils.NewLogger())
	a := models.DefaultAssumptions()

	first := g.Generate("44113", a)
	second := g.Generate("44113", a)
	if !reflect.DeepEqual(first, second) {
		t.Error("same ZIP must reproduce the same listings")
	}

	other := g.Generate("62704", a)
	if reflect.DeepEqual(first, other) {
		t.Error("different ZIPs should not share listings")
	}
}

func TestSampleGeneratorCount(t *testing.T) {
	g := NewSampleGenerator(0.5, utils.NewLogger())
	a := models.DefaultAssumptions()

	for _, zip := range []string{"44113", "10013", "62704", "90210", "73301"} {
		n := len(g.Generate(zip, a))
		if n < 3 || n > 8 {
			t.Errorf("ZIP %s: generated %d listings; want 3..8", zip, n)
		}
	}
}

func TestSampleGeneratorListingsClearFilterPolicy(t *testing.T) {
	g := NewSampleGenerator(0.5, utils.NewLogger())
	a := models.DefaultAssumptions()

	tests := []struct {
		zip     string
		premium bool
	}{
		{"44113", false},
		{"10013", true},
	}

	for _, tt := range tests {
		for _, sample := range g.Generate(tt.zip, a) {
			m, err := ComputeMetrics(sample.Property.Price, sample.Rent, a)
			if err != nil {
				t.Fatalf("ZIP %s: %v", tt.zip, err)
			}

			minCoC := a.MinCoCReturnPct
			if tt.premium {
				minCoC *= 0.5
			}
			if m.CashOnCashReturn < minCoC {
				t.Errorf("ZIP %s: engineered listing returns %.2f%%, below %.2f%%",
					tt.zip, m.CashOnCashReturn, minCoC)
			}
			if !tt.premium && m.CashFlow < a.MinCashFlow {
				t.Errorf("ZIP %s: engineered cash flow %.2f below %.2f",
					tt.zip, m.CashFlow, a.MinCashFlow)
			}
			if sample.Property.Price < priceFloor {
				t.Errorf("ZIP %s: sample price %.0f below the normalization floor", tt.zip, sample.Property.Price)
			}
			if sample.Property.Link != "#sample" {
				t.Errorf("ZIP %s: sample listings must be labeled, got link %q", tt.zip, sample.Property.Link)
			}
		}
	}
}

func TestSampleGeneratorSkipsImpossibleAssumptions(t *testing.T) {
	g := NewSampleGenerator(0.5, utils.NewLogger())
	a := models.DefaultAssumptions()
	a.DownPaymentPct = 0 // cash-on-cash undefined, nothing can be engineered

	if listings := g.Generate("44113", a); len(listings) != 0 {
		t.Errorf("expected no listings under a zero down payment, got %d", len(listings))
	}
}
