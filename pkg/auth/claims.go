package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PlannerTokenPayload captures the data available when minting a planner JWT.
type PlannerTokenPayload struct {
	PlannerID uuid.UUID
	Email     string
	JTI       string
}

// PlannerClaims is the typed JWT presented by planners. Tokens are issued by
// the identity provider; this service only verifies them.
type PlannerClaims struct {
	PlannerID uuid.UUID `json:"planner_id"`
	Email     string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
