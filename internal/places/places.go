package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"grocery-planner/internal/config"
)

const placesAPIURL = "https://places.googleapis.com/v1"

// PlacePrediction is one ranked result of a free-text place search.
type PlacePrediction struct {
	PlaceID       string
	Description   string
	MainText      string
	SecondaryText string
}

// GroceryStore is one candidate store from a nearby search.
type GroceryStore struct {
	ID       string
	Name     string
	Address  string
	Lat      float64
	Lng      float64
	Distance string
}

// Client is a Google Places v1 API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Places API client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:  cfg.PlacesAPIKey,
		baseURL: placesAPIURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type placeResult struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

// SearchPlaces resolves a free-text query to ranked place predictions.
func (c *Client) SearchPlaces(ctx context.Context, input string) ([]PlacePrediction, error) {
	body := map[string]interface{}{
		"textQuery":    input + " city",
		"languageCode": "en",
	}

	var resp struct {
		Places []placeResult `json:"places"`
	}
	if err := c.post(ctx, "/places:searchText", body, &resp); err != nil {
		return nil, err
	}

	predictions := make([]PlacePrediction, 0, len(resp.Places))
	for _, p := range resp.Places {
		main := p.DisplayName.Text
		if main == "" {
			main = p.FormattedAddress
		}
		predictions = append(predictions, PlacePrediction{
			PlaceID:       p.ID,
			Description:   p.FormattedAddress,
			MainText:      main,
			SecondaryText: p.FormattedAddress,
		})
	}
	return predictions, nil
}

// GetPlaceDetails resolves a prediction to coordinates.
func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (lat, lng float64, err error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/places/"+placeID, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(httpResp.Body)
		return 0, 0, fmt.Errorf("places api error: status=%d body=%s", httpResp.StatusCode, string(bodyBytes))
	}

	var place placeResult
	if err := json.NewDecoder(httpResp.Body).Decode(&place); err != nil {
		return 0, 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return place.Location.Latitude, place.Location.Longitude, nil
}

// NearbyGroceryStores returns grocery-store candidates around a point,
// filtered to recognizable grocery stores and sorted by distance.
func (c *Client) NearbyGroceryStores(ctx context.Context, lat, lng float64, radiusMeters int) ([]GroceryStore, error) {
	if radiusMeters <= 0 {
		radiusMeters = 5000
	}

	body := map[string]interface{}{
		"locationRestriction": map[string]interface{}{
			"circle": map[string]interface{}{
				"center": map[string]float64{
					"latitude":  lat,
					"longitude": lng,
				},
				"radius": float64(radiusMeters),
			},
		},
		"includedTypes":  []string{"supermarket", "grocery_store"},
		"maxResultCount": 20,
		"languageCode":   "en",
	}

	var resp struct {
		Places []placeResult `json:"places"`
	}
	if err := c.post(ctx, "/places:searchNearby", body, &resp); err != nil {
		return nil, err
	}

	var stores []GroceryStore
	for _, p := range resp.Places {
		name := p.DisplayName.Text
		if name == "" {
			name = p.FormattedAddress
		}
		if !IsGroceryStoreName(name) {
			continue
		}
		stores = append(stores, GroceryStore{
			ID:       p.ID,
			Name:     name,
			Address:  p.FormattedAddress,
			Lat:      p.Location.Latitude,
			Lng:      p.Location.Longitude,
			Distance: FormatDistance(DistanceMiles(lat, lng, p.Location.Latitude, p.Location.Longitude)),
		})
	}

	sort.Slice(stores, func(i, j int) bool {
		return DistanceMiles(lat, lng, stores[i].Lat, stores[i].Lng) <
			DistanceMiles(lat, lng, stores[j].Lat, stores[j].Lng)
	})
	return stores, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("places api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", "*")
}

// majorChains is the allow-list of known grocery chains.
var majorChains = []string{
	"safeway", "kroger", "whole foods", "trader joe", "albertsons",
	"fred meyer", "walmart", "target", "costco", "sam's club", "publix",
	"aldi", "food lion", "giant eagle", "stop & shop", "meijer",
	"harris teeter", "ralph", "vons", "jewel-osco", "wegmans", "sprouts",
	"save mart", "food 4 less", "winco", "market basket", "qfc", "h-e-b",
	"smiths", "piggly wiggly", "ingles",
}

var excludedKeywords = []string{"mini", "convenience", "quick"}

// IsGroceryStoreName reports whether a place name looks like a real grocery
// store: either a known chain, or a generic supermarket/grocery name that is
// not a convenience store.
func IsGroceryStoreName(name string) bool {
	lower := strings.ToLower(name)
	for _, chain := range majorChains {
		if strings.Contains(lower, chain) {
			return true
		}
	}
	generic := strings.Contains(lower, "supermarket") ||
		strings.Contains(lower, "grocery") ||
		strings.Contains(lower, "foods")
	if !generic {
		return false
	}
	for _, kw := range excludedKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
