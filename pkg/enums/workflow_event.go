package enums

import "fmt"

// WorkflowEvent names an input to the approval state machine.
type WorkflowEvent string

const (
	WorkflowEventRequestApproval    WorkflowEvent = "request_approval"
	WorkflowEventApprove            WorkflowEvent = "approve"
	WorkflowEventRequestEdits       WorkflowEvent = "request_edits"
	WorkflowEventAcknowledgeUpdates WorkflowEvent = "acknowledge_updates"
	WorkflowEventUpdatesReady       WorkflowEvent = "updates_ready"
)

var validWorkflowEvents = []WorkflowEvent{
	WorkflowEventRequestApproval,
	WorkflowEventApprove,
	WorkflowEventRequestEdits,
	WorkflowEventAcknowledgeUpdates,
	WorkflowEventUpdatesReady,
}

func (e WorkflowEvent) String() string {
	return string(e)
}

func (e WorkflowEvent) IsValid() bool {
	for _, candidate := range validWorkflowEvents {
		if candidate == e {
			return true
		}
	}
	return false
}

func ParseWorkflowEvent(value string) (WorkflowEvent, error) {
	for _, candidate := range validWorkflowEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid workflow event %q", value)
}
