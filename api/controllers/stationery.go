package controllers

import (
	"net/http"

	"github.com/angelmondragon/wedsite-backend/api/responses"
	"github.com/angelmondragon/wedsite-backend/api/validators"
	"github.com/angelmondragon/wedsite-backend/internal/stationery"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
)

type stationeryDeleteBody struct {
	ObjectKey string `json:"objectKey" validate:"required,max=512"`
}

func StationeryPresign(svc stationery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "stationery uploads are not configured"))
			return
		}
		plannerID, err := plannerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invitationID, err := validators.ParseUUIDParam(r, "invitationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input stationery.PresignInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.PresignUpload(r.Context(), plannerID, invitationID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

func StationeryDelete(svc stationery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "stationery uploads are not configured"))
			return
		}
		plannerID, err := plannerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invitationID, err := validators.ParseUUIDParam(r, "invitationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body stationeryDeleteBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteUpload(r.Context(), plannerID, invitationID, body.ObjectKey); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
