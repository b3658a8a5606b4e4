package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/wedsite-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
)

func plannerFromRequest(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.PlannerFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "planner context missing")
	}
	return id, nil
}
