package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxPlannerID    contextKey = "planner_id"
	ctxPlannerEmail contextKey = "planner_email"
)

func PlannerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPlannerID).(string); ok {
		return v
	}
	return ""
}

func PlannerEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPlannerEmail).(string); ok {
		return v
	}
	return ""
}

// PlannerFromContext returns the authenticated planner id parsed as a UUID.
func PlannerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(PlannerIDFromContext(ctx))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithPlanner injects the planner identity into the context.
func WithPlanner(ctx context.Context, plannerID, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxPlannerID, plannerID)
	return context.WithValue(ctx, ctxPlannerEmail, email)
}
