package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://places.googleapis.com/v1"
	autocompleteFieldMask       = "suggestions.placePrediction.placeId,suggestions.placePrediction.text,suggestions.placePrediction.structuredFormat"
	placeResolveFieldMask       = "id,displayName,formattedAddress,location,addressComponents"
	requestBodyReadLimit  int64 = 1024
)

var errAPIKeyRequired = errors.New("google maps api key is required")

// Client wraps the Google Places API (v1) calls used to look up wedding venues.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Places base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Google Maps client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// AutocompleteRequest describes the payload sent to the Places autocomplete API.
type AutocompleteRequest struct {
	Input               string   `json:"input"`
	SessionToken        string   `json:"sessionToken,omitempty"`
	IncludedRegionCodes []string `json:"includedRegionCodes,omitempty"`
	LanguageCode        string   `json:"languageCode,omitempty"`
}

// AutocompleteSuggestion holds the mapped data returned by the autocomplete API.
type AutocompleteSuggestion struct {
	PlaceID       string `json:"placeId"`
	Description   string `json:"description"`
	MainText      string `json:"mainText,omitempty"`
	SecondaryText string `json:"secondaryText,omitempty"`
}

// PlaceDetails represents the normalized data returned by the place-details API.
type PlaceDetails struct {
	PlaceID           string
	DisplayName       string
	FormattedAddress  string
	Location          LatLng
	AddressComponents []AddressComponent
}

// LatLng is the latitude/longitude pair returned by Google.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// AddressComponent mirrors Google's address component payload.
type AddressComponent struct {
	LongName  string
	ShortName string
	Types     []string
}

// Component returns the first address component carrying the given type.
func (p *PlaceDetails) Component(kind string) (AddressComponent, bool) {
	if p == nil {
		return AddressComponent{}, false
	}
	for _, comp := range p.AddressComponents {
		for _, t := range comp.Types {
			if t == kind {
				return comp, true
			}
		}
	}
	return AddressComponent{}, false
}

// Autocomplete queries suggested places based on partial input.
func (c *Client) Autocomplete(ctx context.Context, req AutocompleteRequest) ([]AutocompleteSuggestion, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	if strings.TrimSpace(req.Input) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "autocomplete input is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal autocomplete request")
	}

	var apiResp struct {
		Suggestions []struct {
			Prediction struct {
				PlaceID string `json:"placeId"`
				Text    struct {
					Text string `json:"text"`
				} `json:"text"`
				StructuredFormat struct {
					MainText struct {
						Text string `json:"text"`
					} `json:"mainText"`
					SecondaryText struct {
						Text string `json:"text"`
					} `json:"secondaryText"`
				} `json:"structuredFormat"`
			} `json:"placePrediction"`
		} `json:"suggestions"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.buildURL("places:autocomplete"), autocompleteFieldMask, payload, &apiResp, "autocomplete"); err != nil {
		return nil, err
	}

	suggestions := make([]AutocompleteSuggestion, 0, len(apiResp.Suggestions))
	for _, s := range apiResp.Suggestions {
		if s.Prediction.PlaceID == "" {
			continue
		}
		suggestions = append(suggestions, AutocompleteSuggestion{
			PlaceID:       s.Prediction.PlaceID,
			Description:   s.Prediction.Text.Text,
			MainText:      s.Prediction.StructuredFormat.MainText.Text,
			SecondaryText: s.Prediction.StructuredFormat.SecondaryText.Text,
		})
	}
	return suggestions, nil
}

// ResolvePlace fetches the canonical place data for the provided place ID.
func (c *Client) ResolvePlace(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	trimmed := strings.TrimSpace(placeID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "place ID is required")
	}

	var apiResp struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string `json:"formattedAddress"`
		Location         struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
		AddressComponents []struct {
			LongName  string   `json:"longText"`
			ShortName string   `json:"shortText"`
			Types     []string `json:"types"`
		} `json:"addressComponents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.buildURL("places/"+url.PathEscape(trimmed)), placeResolveFieldMask, nil, &apiResp, "place resolve"); err != nil {
		return nil, err
	}

	components := make([]AddressComponent, 0, len(apiResp.AddressComponents))
	for _, comp := range apiResp.AddressComponents {
		components = append(components, AddressComponent{
			LongName:  comp.LongName,
			ShortName: comp.ShortName,
			Types:     comp.Types,
		})
	}

	return &PlaceDetails{
		PlaceID:          apiResp.ID,
		DisplayName:      apiResp.DisplayName.Text,
		FormattedAddress: apiResp.FormattedAddress,
		Location: LatLng{
			Latitude:  apiResp.Location.Latitude,
			Longitude: apiResp.Location.Longitude,
		},
		AddressComponents: components,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, target, fieldMask string, body []byte, out any, op string) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+op+" request")
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+op+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "place not found")
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), op+" request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+op+" response")
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}
