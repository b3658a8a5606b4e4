package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/wedsite-backend/api/responses"
	"github.com/angelmondragon/wedsite-backend/internal/venues"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
)

func VenueAutocomplete(svc venues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		suggestions, err := svc.Autocomplete(r.Context(), venues.AutocompleteInput{
			Input:        q.Get("input"),
			SessionToken: q.Get("sessionToken"),
			Region:       q.Get("region"),
			Language:     q.Get("language"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"suggestions": suggestions})
	}
}

func VenueResolve(svc venues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venue, err := svc.Resolve(r.Context(), strings.TrimSpace(chi.URLParam(r, "placeId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, venue)
	}
}
