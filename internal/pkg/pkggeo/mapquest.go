package pkggeo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMapQuestURL is the MapQuest geocoding endpoint.
const DefaultMapQuestURL = "https://www.mapquestapi.com/geocoding/v1/address"

// MapQuest geocodes addresses through the MapQuest HTTP API.
type MapQuest struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewMapQuest returns a MapQuest geocoder. Every call is bounded by timeout.
func NewMapQuest(baseURL, apiKey string, timeout time.Duration) *MapQuest {
	if baseURL == "" {
		baseURL = DefaultMapQuestURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MapQuest{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			Country    string `json:"adminArea1"`
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode implements Geocoder.
func (m *MapQuest) Geocode(ctx context.Context, address string) ([]Result, error) {
	q := url.Values{}
	q.Set("key", m.apiKey)
	q.Set("location", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocode: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}
	if out.Info.StatusCode != 0 {
		return nil, fmt.Errorf("geocode: provider status %d: %s", out.Info.StatusCode, strings.Join(out.Info.Messages, "; "))
	}

	var results []Result
	for _, r := range out.Results {
		for _, loc := range r.Locations {
			results = append(results, Result{
				Latitude:         loc.LatLng.Lat,
				Longitude:        loc.LatLng.Lng,
				FormattedAddress: formatAddress(loc.Street, loc.City, loc.State, loc.PostalCode, loc.Country),
				Street:           loc.Street,
				City:             loc.City,
				StateCode:        loc.State,
				Zipcode:          loc.PostalCode,
				CountryCode:      loc.Country,
			})
		}
	}
	return results, nil
}

func formatAddress(street, city, state, zip, country string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{street, city, strings.TrimSpace(state + " " + zip), country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
