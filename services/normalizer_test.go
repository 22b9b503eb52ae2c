package services

import (
	"errors"
	"strings"
	"testing"

	"rental-analyzer/models"
	"rental-analyzer/utils"
)

func newTestNormalizer() *Normalizer { return NewNormalizer(utils.NewLogger()) }

func TestNormalizeClassifiesPropertyTypes(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		label string
		want  string
	}{
		{"SINGLE_FAMILY", models.TypeSingleFamily},
		{"Single Family Residence", models.TypeSingleFamily},
		{"MULTI_FAMILY", models.TypeMultifamily},
		{"multifamily", models.TypeMultifamily},
		{"CONDO", models.TypeCondo},
		{"Condominium", models.TypeCondo},
		{"TOWNHOUSE", models.TypeResidential},
		{"", models.TypeResidential},
	}

	for _, tt := range tests {
		raw := models.RawListing{"propertyType": tt.label, "price": 250000.0}
		prop, err := n.Normalize("44113", raw)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", tt.label, err)
		}
		if prop.PropertyType != tt.want {
			t.Errorf("type %q classified as %q; want %q", tt.label, prop.PropertyType, tt.want)
		}
	}
}

func TestNormalizePriceSources(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name string
		raw  models.RawListing
		want float64
	}{
		{"top-level numeric", models.RawListing{"price": 250000.0}, 250000},
		{"currency string", models.RawListing{"price": "$1,250,000"}, 1250000},
		{"unformatted field", models.RawListing{"unformattedPrice": 310000.0}, 310000},
		{"nested homeInfo", models.RawListing{
			"hdpData": map[string]any{"homeInfo": map[string]any{"price": 199000.0}},
		}, 199000},
	}

	for _, tt := range tests {
		prop, err := n.Normalize("44113", tt.raw)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if prop.Price != tt.want {
			t.Errorf("%s: price = %.0f; want %.0f", tt.name, prop.Price, tt.want)
		}
	}
}

func TestNormalizePriceFloorBoundary(t *testing.T) {
	n := newTestNormalizer()

	if _, err := n.Normalize("44113", models.RawListing{"price": 9999.0}); !errors.Is(err, ErrPriceBelowFloor) {
		t.Errorf("price 9999 should be discarded with ErrPriceBelowFloor, got %v", err)
	}
	if _, err := n.Normalize("44113", models.RawListing{"price": 10000.0}); err != nil {
		t.Errorf("price 10000 should be kept, got %v", err)
	}
	if _, err := n.Normalize("44113", models.RawListing{"address": "1 Elm St"}); !errors.Is(err, ErrMissingPrice) {
		t.Errorf("missing price should yield ErrMissingPrice, got %v", err)
	}
}

func TestNormalizeBedroomsDefault(t *testing.T) {
	n := newTestNormalizer()

	prop, err := n.Normalize("44113", models.RawListing{"price": 150000.0})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if prop.Bedrooms != defaultBedrooms {
		t.Errorf("missing bedrooms defaulted to %d; want %d", prop.Bedrooms, defaultBedrooms)
	}

	prop, _ = n.Normalize("44113", models.RawListing{"price": 150000.0, "bedrooms": 4.0})
	if prop.Bedrooms != 4 {
		t.Errorf("bedrooms = %d; want 4", prop.Bedrooms)
	}

	prop, _ = n.Normalize("44113", models.RawListing{"price": 150000.0, "beds": "2"})
	if prop.Bedrooms != 2 {
		t.Errorf("string beds = %d; want 2", prop.Bedrooms)
	}
}

func TestNormalizeAddressAndLink(t *testing.T) {
	n := newTestNormalizer()

	raw := models.RawListing{
		"price":         120000.0,
		"streetAddress": "12 Oak St",
		"city":          "Cleveland",
		"state":         "OH",
		"detailUrl":     "/homedetails/12-oak-st/123_zpid/",
	}
	prop, err := n.Normalize("44113", raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if want := "12 Oak St, Cleveland, OH 44113"; prop.Address != want {
		t.Errorf("Address = %q; want %q", prop.Address, want)
	}
	if !strings.HasPrefix(prop.Link, "https://www.zillow.com/") {
		t.Errorf("relative detailUrl should gain the listing host, got %q", prop.Link)
	}

	prop, _ = n.Normalize("44113", models.RawListing{"price": 120000.0})
	if !strings.HasPrefix(prop.Address, "Unknown,") {
		t.Errorf("missing street should read Unknown, got %q", prop.Address)
	}
	if prop.Link != "#" {
		t.Errorf("missing link should default to #, got %q", prop.Link)
	}
}
