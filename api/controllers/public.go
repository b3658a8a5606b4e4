package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/wedsite-backend/api/responses"
	"github.com/angelmondragon/wedsite-backend/api/validators"
	"github.com/angelmondragon/wedsite-backend/internal/invitations"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/links"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
)

// PublicInvitation serves the guest view, or the couple's proof view when a
// matching proof token is supplied.
func PublicInvitation(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}
		proof, err := validators.QueryString(r, links.ProofParam, 256)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inv, err := svc.GetPublic(r.Context(), slug, proof)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if inv.Preview {
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("X-Robots-Tag", "noindex")
		}
		responses.WriteSuccess(w, inv)
	}
}
