package pkggeo

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleResponse = `{
  "info": {"statuscode": 0, "messages": []},
  "results": [{
    "locations": [{
      "street": "233 Bay State Rd",
      "adminArea5": "Boston",
      "adminArea3": "MA",
      "adminArea1": "US",
      "postalCode": "02215",
      "latLng": {"lat": 42.350846, "lng": -71.103727}
    }]
  }]
}`

func TestMapQuestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" || r.URL.Query().Get("location") != "233 Bay State Rd Boston MA 02215" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	g := NewMapQuest(srv.URL, "k", time.Second)
	res, err := g.Geocode(context.Background(), "233 Bay State Rd Boston MA 02215")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected one result, got %d", len(res))
	}

	got := res[0]
	if got.City != "Boston" || got.StateCode != "MA" || got.Zipcode != "02215" || got.CountryCode != "US" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.FormattedAddress != "233 Bay State Rd, Boston, MA 02215, US" {
		t.Fatalf("unexpected formatted address %q", got.FormattedAddress)
	}
}

func TestMapQuestGeocodeFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("location") {
		case "slow":
			time.Sleep(200 * time.Millisecond)
		case "denied":
			w.WriteHeader(http.StatusForbidden)
		default:
			_, _ = w.Write([]byte(`{"info":{"statuscode":400,"messages":["Illegal argument"]}}`))
		}
	}))
	defer srv.Close()

	g := NewMapQuest(srv.URL, "k", 50*time.Millisecond)
	for _, addr := range []string{"slow", "denied", "bad"} {
		if _, err := g.Geocode(context.Background(), addr); err == nil {
			t.Fatalf("expected error for %q", addr)
		}
	}
}

func TestDistanceMiles(t *testing.T) {
	// Boston to Providence is roughly 41 miles.
	d := DistanceMiles(42.3601, -71.0589, 41.8240, -71.4128)
	if math.Abs(d-41) > 2 {
		t.Fatalf("unexpected distance %.2f", d)
	}
	if DistanceMiles(1, 1, 1, 1) != 0 {
		t.Fatalf("expected zero distance for same point")
	}
}
