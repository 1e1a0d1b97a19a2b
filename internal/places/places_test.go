package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"grocery-planner/internal/config"
)

func TestIsGroceryStoreName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Safeway", true},
		{"Trader Joe's", true},
		{"H-E-B Plus", true},
		{"Lucky Supermarket", true},
		{"Sunrise Grocery", true},
		{"World Foods Market", true},
		{"Quick Stop Grocery", false},
		{"Mini Mart Foods", false},
		{"7-Eleven Convenience", false},
		{"Joe's Hardware", false},
		{"Walgreens", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsGroceryStoreName(tc.name); got != tc.want {
				t.Errorf("IsGroceryStoreName(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		miles float64
		want  string
	}{
		{2.347, "2.3 mi"},
		{0.1, "0.1 mi"},
		{0.05, "264 ft"},
		{0, "0 ft"},
	}
	for _, tc := range cases {
		if got := FormatDistance(tc.miles); got != tc.want {
			t.Errorf("FormatDistance(%f) = %q, want %q", tc.miles, got, tc.want)
		}
	}
}

func TestDistanceMiles(t *testing.T) {
	// San Francisco to Oakland, roughly 8.4 miles great-circle.
	got := DistanceMiles(37.7749, -122.4194, 37.8044, -122.2712)
	if got < 8 || got > 9 {
		t.Errorf("Expected roughly 8.4 miles, got %f", got)
	}

	if d := DistanceMiles(37.7749, -122.4194, 37.7749, -122.4194); d != 0 {
		t.Errorf("Expected zero distance for identical points, got %f", d)
	}
}

func TestNearbyGroceryStores_FiltersAndSorts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places:searchNearby" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Error("Expected the API key header")
		}
		w.Write([]byte(`{"places": [
			{"id": "p1", "displayName": {"text": "Safeway"}, "formattedAddress": "2 Far Ave",
			 "location": {"latitude": 37.80, "longitude": -122.41}},
			{"id": "p2", "displayName": {"text": "Quick Mini Grocery"}, "formattedAddress": "3 Corner St",
			 "location": {"latitude": 37.775, "longitude": -122.419}},
			{"id": "p3", "displayName": {"text": "Sunrise Supermarket"}, "formattedAddress": "1 Near St",
			 "location": {"latitude": 37.776, "longitude": -122.419}}
		]}`))
	}))
	defer ts.Close()

	c := NewClient(&config.Config{PlacesAPIKey: "test-key"})
	c.baseURL = ts.URL

	stores, err := c.NearbyGroceryStores(context.Background(), 37.7749, -122.4194, 5000)
	if err != nil {
		t.Fatalf("NearbyGroceryStores failed: %v", err)
	}

	if len(stores) != 2 {
		t.Fatalf("Expected the convenience store to be filtered out, got %d stores", len(stores))
	}
	if stores[0].Name != "Sunrise Supermarket" {
		t.Errorf("Expected the closest store first, got %s", stores[0].Name)
	}
	if stores[1].Name != "Safeway" {
		t.Errorf("Expected Safeway second, got %s", stores[1].Name)
	}
	if stores[0].Distance == "" {
		t.Error("Expected a formatted distance")
	}
}

func TestSearchPlaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places:searchText" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"places": [
			{"id": "city1", "displayName": {"text": "Portland"}, "formattedAddress": "Portland, OR, USA",
			 "location": {"latitude": 45.52, "longitude": -122.67}}
		]}`))
	}))
	defer ts.Close()

	c := NewClient(&config.Config{PlacesAPIKey: "test-key"})
	c.baseURL = ts.URL

	predictions, err := c.SearchPlaces(context.Background(), "portland")
	if err != nil {
		t.Fatalf("SearchPlaces failed: %v", err)
	}
	if len(predictions) != 1 || predictions[0].PlaceID != "city1" {
		t.Errorf("Unexpected predictions: %+v", predictions)
	}
	if predictions[0].MainText != "Portland" {
		t.Errorf("Expected display name as main text, got %s", predictions[0].MainText)
	}
}

func TestGetPlaceDetails_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "denied"}`))
	}))
	defer ts.Close()

	c := NewClient(&config.Config{PlacesAPIKey: "bad-key"})
	c.baseURL = ts.URL

	if _, _, err := c.GetPlaceDetails(context.Background(), "p1"); err == nil {
		t.Error("Expected an error for a non-200 response")
	}
}
