package venues

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/maps"
)

func newMapsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/places:autocomplete", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suggestions":[{"placePrediction":{"placeId":"place_1","text":{"text":"Rosewood Barn, Napa, CA"},"structuredFormat":{"mainText":{"text":"Rosewood Barn"},"secondaryText":{"text":"Napa, CA"}}}}]}`))
	})
	mux.HandleFunc("/v1/places/place_1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"place_1","displayName":{"text":"Rosewood Barn"},"formattedAddress":"123 Vine Rd, Napa, CA 94558, USA","location":{"latitude":38.29,"longitude":-122.28},"addressComponents":[{"longText":"Napa","shortText":"Napa","types":["locality","political"]},{"longText":"California","shortText":"CA","types":["administrative_area_level_1","political"]}]}`))
	})
	mux.HandleFunc("/v1/places/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T) Service {
	t.Helper()
	srv := newMapsServer(t)
	client, err := maps.NewClient("test-key", maps.WithBaseURL(srv.URL+"/v1"), maps.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("maps client: %v", err)
	}
	return NewService(client, nil)
}

func TestAutocompleteMapsSuggestions(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Autocomplete(context.Background(), AutocompleteInput{Input: " rosewood ", Region: "us"})
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	if len(got) != 1 || got[0].PlaceID != "place_1" || got[0].MainText != "Rosewood Barn" {
		t.Fatalf("unexpected suggestions %+v", got)
	}
}

func TestAutocompleteValidatesInput(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Autocomplete(context.Background(), AutocompleteInput{Input: "r"})
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveMapsVenueFields(t *testing.T) {
	svc := newTestService(t)

	venue, err := svc.Resolve(context.Background(), "place_1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := Venue{
		VenueName:    "Rosewood Barn",
		VenueAddress: "123 Vine Rd, Napa, CA 94558, USA",
		VenueCity:    "Napa",
		VenueState:   "CA",
		VenuePlaceID: "place_1",
		VenueLat:     38.29,
		VenueLng:     -122.28,
	}
	if *venue != want {
		t.Fatalf("unexpected venue %+v", venue)
	}
}

func TestResolveNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Resolve(context.Background(), "missing")
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceWithoutClient(t *testing.T) {
	svc := NewService(nil, nil)

	if _, err := svc.Resolve(context.Background(), "place_1"); !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := svc.Autocomplete(context.Background(), AutocompleteInput{Input: "rosewood"}); !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
