package approvals

import (
	"github.com/angelmondragon/wedsite-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
)

// transitions is the only place that decides which events are legal.
var transitions = map[enums.ApprovalStatus]map[enums.WorkflowEvent]enums.ApprovalStatus{
	enums.ApprovalStatusDraft: {
		enums.WorkflowEventRequestApproval:    enums.ApprovalStatusSentForApproval,
		enums.WorkflowEventAcknowledgeUpdates: enums.ApprovalStatusDraft,
	},
	enums.ApprovalStatusSentForApproval: {
		enums.WorkflowEventRequestApproval:    enums.ApprovalStatusSentForApproval,
		enums.WorkflowEventApprove:            enums.ApprovalStatusPublished,
		enums.WorkflowEventRequestEdits:       enums.ApprovalStatusSentForApproval,
		enums.WorkflowEventAcknowledgeUpdates: enums.ApprovalStatusSentForApproval,
		enums.WorkflowEventUpdatesReady:       enums.ApprovalStatusSentForApproval,
	},
	enums.ApprovalStatusPublished: {
		enums.WorkflowEventRequestApproval:    enums.ApprovalStatusSentForApproval,
		enums.WorkflowEventApprove:            enums.ApprovalStatusPublished,
		enums.WorkflowEventRequestEdits:       enums.ApprovalStatusPublished,
		enums.WorkflowEventAcknowledgeUpdates: enums.ApprovalStatusPublished,
		enums.WorkflowEventUpdatesReady:       enums.ApprovalStatusPublished,
	},
}

// Next returns the state an event moves an invitation to, or a state conflict
// error when the event is not allowed from the current state.
func Next(from enums.ApprovalStatus, event enums.WorkflowEvent) (enums.ApprovalStatus, error) {
	if !from.IsValid() {
		from = enums.ApprovalStatusDraft
	}
	if to, ok := transitions[from][event]; ok {
		return to, nil
	}
	return "", pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot %s while invitation is %s", humanEvent(event), from).
		WithDetails(map[string]any{
			"currentStatus": from.String(),
			"event":         event.String(),
		})
}

// IsDuplicate reports events that are legal but change nothing, such as a
// second approval of an already published invitation.
func IsDuplicate(from enums.ApprovalStatus, event enums.WorkflowEvent) bool {
	return from == enums.ApprovalStatusPublished && event == enums.WorkflowEventApprove
}

func humanEvent(event enums.WorkflowEvent) string {
	switch event {
	case enums.WorkflowEventRequestApproval:
		return "request approval"
	case enums.WorkflowEventApprove:
		return "approve"
	case enums.WorkflowEventRequestEdits:
		return "request edits"
	case enums.WorkflowEventAcknowledgeUpdates:
		return "acknowledge updates"
	case enums.WorkflowEventUpdatesReady:
		return "send updates"
	}
	return event.String()
}
