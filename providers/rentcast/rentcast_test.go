package rentcast

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-analyzer/utils"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-key", 5*time.Second, 200, 500, utils.NewLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.SetBaseURL(srv.URL)
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("", time.Second, 200, 500, utils.NewLogger()); err != ErrMissingAPIKey {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestEstimateRentFirstTypeHit(t *testing.T) {
	var queried []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queried = append(queried, r.URL.Query().Get("propertyType"))
		fmt.Fprint(w, `{"rent": 1625}`)
	}))

	rent := c.EstimateRent("44113", 3)
	if rent != 1625 {
		t.Errorf("rent = %.0f; want 1625", rent)
	}
	if len(queried) != 1 || queried[0] != "SFH" {
		t.Errorf("standard ZIP should try SFH first, got %v", queried)
	}
}

func TestEstimateRentPremiumTypeOrder(t *testing.T) {
	var queried []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queried = append(queried, r.URL.Query().Get("propertyType"))
		http.NotFound(w, r) // exhaust every combination
	}))

	c.EstimateRent("10013", 3)
	if len(queried) < 3 {
		t.Fatalf("expected at least one full type pass, got %v", queried)
	}
	want := []string{"CONDO", "SFH", "MFH"}
	for i, propType := range want {
		if queried[i] != propType {
			t.Errorf("premium type order[%d] = %q; want %q", i, queried[i], propType)
		}
	}
}

func TestEstimateRentAlternateBedroomAdjustment(t *testing.T) {
	// Only the 2BR/SFH combination has data; a 4BR request should take the
	// 2BR figure plus 2 x $200.
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("bedrooms") == "2" && r.URL.Query().Get("propertyType") == "SFH" {
			fmt.Fprint(w, `{"rent": 1200}`)
			return
		}
		http.NotFound(w, r)
	}))

	rent := c.EstimateRent("44113", 4)
	if want := 1200 + 2*200.0; rent != want {
		t.Errorf("adjusted rent = %.0f; want %.0f", rent, want)
	}
}

func TestEstimateRentAlternateAdjustmentPremiumZip(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("bedrooms") == "3" {
			fmt.Fprint(w, `{"rent": 4200}`)
			return
		}
		http.NotFound(w, r)
	}))

	// Requested 1BR, resolved via 3BR: 4200 + (1-3) x $500 = 3200.
	rent := c.EstimateRent("10013", 1)
	if want := 4200 - 2*500.0; rent != want {
		t.Errorf("adjusted premium rent = %.0f; want %.0f", rent, want)
	}
}

func TestEstimateRentTotalUnderForcedFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	for bedrooms := 1; bedrooms <= 5; bedrooms++ {
		if rent := c.EstimateRent("62704", bedrooms); rent <= 0 {
			t.Errorf("EstimateRent(62704, %d) = %.0f; must be positive even with upstream down", bedrooms, rent)
		}
	}
}

func TestEstimateRentStaticFallbackTables(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	if rent := c.EstimateRent("62704", 3); rent != 1500 {
		t.Errorf("standard 3BR fallback = %.0f; want 1500", rent)
	}
	if rent := c.EstimateRent("10013", 3); rent != 4000 {
		t.Errorf("premium 3BR fallback = %.0f; want 4000", rent)
	}
	// Out-of-range bedroom counts clamp into the table.
	if rent := c.EstimateRent("62704", 9); rent != 2100 {
		t.Errorf("clamped 9BR fallback = %.0f; want 2100 (5BR entry)", rent)
	}
	if rent := c.EstimateRent("62704", 0); rent != 950 {
		t.Errorf("clamped 0BR fallback = %.0f; want 950 (1BR entry)", rent)
	}
}
