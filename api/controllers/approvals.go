package controllers

import (
	"net/http"

	"github.com/angelmondragon/wedsite-backend/api/responses"
	"github.com/angelmondragon/wedsite-backend/api/validators"
	"github.com/angelmondragon/wedsite-backend/internal/approvals"
	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
)

type requestApprovalBody struct {
	InvitationID string `json:"invitationId" validate:"required"`
}

type approveBody struct {
	ApprovalToken string `json:"approvalToken" validate:"required,max=128"`
}

type requestEditsBody struct {
	InvitationID  string `json:"invitationId" validate:"required"`
	ApprovalToken string `json:"approvalToken" validate:"max=128"`
	EditComments  string `json:"editComments" validate:"max=5000"`
}

type acknowledgeBody struct {
	EventSlug string `json:"eventSlug" validate:"required,max=80"`
}

type updatesReadyBody struct {
	InvitationID  string           `json:"invitationId" validate:"required"`
	ChangeSummary *changes.Summary `json:"changeSummary"`
}

// ApprovalRequest mints a proof token and emails the couple the proof link.
func ApprovalRequest(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plannerID, err := plannerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body requestApprovalBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invitationID, err := validators.ParseUUID(body.InvitationID, "invitationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RequestApproval(r.Context(), plannerID, invitationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ApprovalApprove(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body approveBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Approve(r.Context(), body.ApprovalToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ApprovalRequestEdits(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body requestEditsBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invitationID, err := validators.ParseUUID(body.InvitationID, "invitationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RequestEdits(r.Context(), approvals.RequestEditsInput{
			InvitationID:  invitationID,
			ApprovalToken: body.ApprovalToken,
			Comments:      body.EditComments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ApprovalAcknowledge(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plannerID, err := plannerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body acknowledgeBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AcknowledgeUpdates(r.Context(), plannerID, body.EventSlug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ApprovalUpdatesReady emails the couple a summary of changes made after
// publication. Without a summary the service diffs against the last snapshot.
func ApprovalUpdatesReady(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plannerID, err := plannerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updatesReadyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invitationID, err := validators.ParseUUID(body.InvitationID, "invitationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SendUpdatesReady(r.Context(), plannerID, invitationID, body.ChangeSummary)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
