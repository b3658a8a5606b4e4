package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", retryable: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error"},
		{code: CodeDependency, status: http.StatusInternalServerError, publicMsg: "downstream service failed", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "editComments is required")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "editComments is required" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "editComments"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("smtp timeout")
	wrapped := Wrap(CodeDependency, cause, "send email")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if Wrap(CodeNotFound, nil, "missing").Unwrap() != nil {
		t.Fatalf("Wrap(nil) should not carry a cause")
	}
}

func TestAsAndIsFollowWrappedChains(t *testing.T) {
	err := fmt.Errorf("service: %w", New(CodeNotFound, "invitation not found"))
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if !Is(err, CodeNotFound) {
		t.Fatalf("expected Is to match not found")
	}
	if Is(err, CodeValidation) {
		t.Fatalf("Is matched the wrong code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpExtractsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "invitations_slug_key", TableName: "invitations"}
	dump := Dump(Wrap(CodeDependency, pgErr, "create invitation"))
	if pg := dump.Postgres; pg == nil || pg.Code != "23505" || pg.Constraint != "invitations_slug_key" || pg.Table != "invitations" {
		t.Fatalf("unexpected pgx dump %+v", dump.Postgres)
	}
	fields := dump.Fields()
	if fields["pg_code"] != "23505" {
		t.Fatalf("expected pg_code field, got %v", fields)
	}
	if _, ok := fields["pg_column"]; ok {
		t.Fatalf("empty postgres values should be omitted, got %v", fields)
	}
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected wrapped chain, got %v", dump.Chain)
	}

	pqErr := &pq.Error{Code: "23503", Constraint: "invitation_edit_requests_invitation_id_fkey"}
	dump = Dump(fmt.Errorf("insert: %w", pqErr))
	if pg := dump.Postgres; pg == nil || pg.Code != "23503" || pg.Constraint != "invitation_edit_requests_invitation_id_fkey" {
		t.Fatalf("unexpected pq dump %+v", dump.Postgres)
	}

	if Dump(stdErrors.New("plain")).Postgres != nil {
		t.Fatalf("expected no postgres fields for a plain error")
	}
	if Dump(nil).TopMessage != "" {
		t.Fatalf("expected empty dump for nil error")
	}
}

func TestPublicForHidesInternalMessages(t *testing.T) {
	pub := PublicFor(stdErrors.New("db password leaked"))
	if pub.Status != http.StatusInternalServerError || pub.Code != CodeInternal || pub.Message != "internal server error" {
		t.Fatalf("unexpected public view %+v", pub)
	}

	pub = PublicFor(New(CodeInternal, "nil pointer in renderer"))
	if pub.Message != "internal server error" {
		t.Fatalf("internal message leaked: %q", pub.Message)
	}
}

func TestPublicForKeepsDomainMessagesAndGatesDetails(t *testing.T) {
	pub := PublicFor(New(CodeStateConflict, "cannot approve while invitation is draft").
		WithDetails(map[string]string{"status": "draft"}))
	if pub.Status != http.StatusUnprocessableEntity || pub.Message != "cannot approve while invitation is draft" {
		t.Fatalf("unexpected public view %+v", pub)
	}
	if pub.Details == nil {
		t.Fatalf("state conflicts expose details")
	}

	pub = PublicFor(New(CodeNotFound, "invalid or expired approval token").WithDetails("secret"))
	if pub.Details != nil {
		t.Fatalf("not found must not expose details, got %v", pub.Details)
	}
	if pub.Message != "invalid or expired approval token" {
		t.Fatalf("unexpected message %q", pub.Message)
	}
}

func TestPublicForUnknownCode(t *testing.T) {
	pub := PublicFor(New("TEAPOT", "short and stout"))
	if pub.Code != CodeInternal || pub.Message != "internal server error" {
		t.Fatalf("unknown codes should render as internal, got %+v", pub)
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeValidation, "size must be between %d and %d", 128, 2048)
	if err.Message() != "size must be between 128 and 2048" {
		t.Fatalf("unexpected message %q", err.Message())
	}
}
