package venues

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/maps"
)

const (
	minInputLength = 2
	maxInputLength = 200
)

type placesClient interface {
	Autocomplete(ctx context.Context, req maps.AutocompleteRequest) ([]maps.AutocompleteSuggestion, error)
	ResolvePlace(ctx context.Context, placeID string) (*maps.PlaceDetails, error)
}

// Service looks up wedding venues for the invitation editor.
type Service interface {
	Autocomplete(ctx context.Context, input AutocompleteInput) ([]Suggestion, error)
	Resolve(ctx context.Context, placeID string) (*Venue, error)
}

type service struct {
	places placesClient
	logg   *logger.Logger
}

// NewService returns a venue service. A nil places client yields a service
// that reports the lookup as unavailable.
func NewService(places placesClient, logg *logger.Logger) Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{places: places, logg: logg}
}

type AutocompleteInput struct {
	Input        string
	SessionToken string
	Region       string
	Language     string
}

type Suggestion struct {
	PlaceID       string `json:"placeId"`
	Description   string `json:"description"`
	MainText      string `json:"mainText,omitempty"`
	SecondaryText string `json:"secondaryText,omitempty"`
}

// Venue carries the invitation venue fields resolved from a place.
type Venue struct {
	VenueName    string  `json:"venueName"`
	VenueAddress string  `json:"venueAddress"`
	VenueCity    string  `json:"venueCity"`
	VenueState   string  `json:"venueState"`
	VenuePlaceID string  `json:"venuePlaceId"`
	VenueLat     float64 `json:"venueLat"`
	VenueLng     float64 `json:"venueLng"`
}

func (s *service) Autocomplete(ctx context.Context, input AutocompleteInput) ([]Suggestion, error) {
	if s.places == nil {
		return nil, errNotConfigured()
	}
	query := strings.TrimSpace(input.Input)
	if len(query) < minInputLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "input must be at least 2 characters")
	}
	if len(query) > maxInputLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "input must be at most 200 characters")
	}

	req := maps.AutocompleteRequest{
		Input:        query,
		SessionToken: strings.TrimSpace(input.SessionToken),
		LanguageCode: strings.TrimSpace(input.Language),
	}
	if region := strings.ToUpper(strings.TrimSpace(input.Region)); region != "" {
		req.IncludedRegionCodes = []string{region}
	}

	results, err := s.places.Autocomplete(ctx, req)
	if err != nil {
		s.logg.Error(ctx, "venues.autocomplete_failed", err)
		return nil, err
	}
	out := make([]Suggestion, 0, len(results))
	for _, r := range results {
		out = append(out, Suggestion{
			PlaceID:       r.PlaceID,
			Description:   r.Description,
			MainText:      r.MainText,
			SecondaryText: r.SecondaryText,
		})
	}
	return out, nil
}

func (s *service) Resolve(ctx context.Context, placeID string) (*Venue, error) {
	if s.places == nil {
		return nil, errNotConfigured()
	}
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "placeId is required")
	}
	details, err := s.places.ResolvePlace(ctx, placeID)
	if err != nil {
		if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			s.logg.Error(s.logg.WithField(ctx, "place_id", placeID), "venues.resolve_failed", err)
		}
		return nil, err
	}
	return venueFromPlace(details, placeID), nil
}

func venueFromPlace(details *maps.PlaceDetails, requestedID string) *Venue {
	v := &Venue{
		VenueName:    details.DisplayName,
		VenueAddress: details.FormattedAddress,
		VenuePlaceID: details.PlaceID,
		VenueLat:     details.Location.Latitude,
		VenueLng:     details.Location.Longitude,
	}
	if v.VenuePlaceID == "" {
		v.VenuePlaceID = requestedID
	}
	for _, kind := range []string{"locality", "postal_town", "sublocality", "administrative_area_level_2"} {
		if comp, ok := details.Component(kind); ok && comp.LongName != "" {
			v.VenueCity = comp.LongName
			break
		}
	}
	if comp, ok := details.Component("administrative_area_level_1"); ok {
		v.VenueState = comp.ShortName
		if v.VenueState == "" {
			v.VenueState = comp.LongName
		}
	}
	return v
}

func errNotConfigured() error {
	return pkgerrors.New(pkgerrors.CodeDependency, "venue lookup is not configured")
}
