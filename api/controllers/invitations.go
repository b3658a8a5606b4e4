package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/wedsite-backend/api/middleware"
	"github.com/angelmondragon/wedsite-backend/api/responses"
	"github.com/angelmondragon/wedsite-backend/api/validators"
	"github.com/angelmondragon/wedsite-backend/internal/invitations"
	"github.com/angelmondragon/wedsite-backend/internal/notifications"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/pagination"
)

const maxCursorLen = 512

// EmailLogLister lists the outbound email log of one invitation.
type EmailLogLister interface {
	List(ctx context.Context, params notifications.ListParams) (*pagination.Page[notifications.EmailLogEntry], error)
}

func InvitationCreate(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plannerID, err := plannerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input invitations.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		planner := invitations.Planner{ID: plannerID, Email: middleware.PlannerEmailFromContext(r.Context())}
		created, err := svc.Create(r.Context(), planner, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func InvitationList(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plannerID, err := plannerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor, err := validators.QueryString(r, "cursor", maxCursorLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), plannerID, pagination.Params{
			Limit:  limit,
			Cursor: cursor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func InvitationGet(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		inv, err := svc.Get(r.Context(), plannerID, invitationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inv)
	}
}

// InvitationUpdate replaces the editable content and returns the change
// summary between the stored and the submitted content.
func InvitationUpdate(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		var content invitations.Content
		if err := validators.DecodeJSONBody(r, &content); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithInvitationID(ctx, invitationID.String())
		}
		result, err := svc.Update(ctx, plannerID, invitationID, content)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func InvitationQRCode(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		size, err := validators.ParseQueryInt(r, "size", invitations.DefaultQRSize, 128, 2048)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		png, err := svc.QRCode(r.Context(), plannerID, invitationID, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Cache-Control", "private, max-age=300")
		responses.WriteBytes(w, "image/png", png)
	}
}

// InvitationEmailLog lists the emails sent for an invitation the planner owns.
func InvitationEmailLog(svc invitations.Service, emails EmailLogLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor, err := validators.QueryString(r, "cursor", maxCursorLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Authorize(r.Context(), plannerID, invitationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := emails.List(r.Context(), notifications.ListParams{
			InvitationID: invitationID,
			Limit:        limit,
			Cursor:       cursor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
