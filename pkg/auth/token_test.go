package auth

import (
	"testing"
	"time"

	"github.com/angelmondragon/wedsite-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var testJWT = config.JWTConfig{Secret: "test-secret", Issuer: "wedsite-identity"}

func TestMintAndParsePlannerToken(t *testing.T) {
	plannerID := uuid.New()
	token, err := MintPlannerToken(testJWT, time.Now(), time.Hour, PlannerTokenPayload{PlannerID: plannerID, Email: " planner@example.com "})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParsePlannerToken(testJWT, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.PlannerID != plannerID {
		t.Fatalf("expected planner %s got %s", plannerID, claims.PlannerID)
	}
	if claims.Email != "planner@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be generated")
	}
}

func TestParsePlannerTokenRejectsExpired(t *testing.T) {
	token, err := MintPlannerToken(testJWT, time.Now().Add(-2*time.Hour), time.Hour, PlannerTokenPayload{PlannerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParsePlannerToken(testJWT, token); err == nil {
		t.Fatal("expected expired token error")
	}
}

func TestParsePlannerTokenRejectsWrongIssuerAndSecret(t *testing.T) {
	token, err := MintPlannerToken(testJWT, time.Now(), time.Hour, PlannerTokenPayload{PlannerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParsePlannerToken(config.JWTConfig{Secret: "test-secret", Issuer: "someone-else"}, token); err == nil {
		t.Fatal("expected issuer mismatch")
	}
	if _, err := ParsePlannerToken(config.JWTConfig{Secret: "other", Issuer: testJWT.Issuer}, token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestParsePlannerTokenRequiresPlannerClaim(t *testing.T) {
	claims := PlannerClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    testJWT.Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWT.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParsePlannerToken(testJWT, token); err == nil {
		t.Fatal("expected missing planner_id error")
	}
}

func TestMintPlannerTokenValidatesInputs(t *testing.T) {
	if _, err := MintPlannerToken(config.JWTConfig{}, time.Now(), time.Hour, PlannerTokenPayload{PlannerID: uuid.New()}); err == nil {
		t.Fatal("expected missing secret error")
	}
	if _, err := MintPlannerToken(testJWT, time.Now(), 0, PlannerTokenPayload{PlannerID: uuid.New()}); err == nil {
		t.Fatal("expected ttl error")
	}
	if _, err := MintPlannerToken(testJWT, time.Now(), time.Hour, PlannerTokenPayload{}); err == nil {
		t.Fatal("expected planner id error")
	}
}
