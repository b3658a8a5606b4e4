package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/angelmondragon/wedsite-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInvitationsMigrationContainsWorkflowColumns(t *testing.T) {
	content := readMigration(t, "create_invitations")
	assertContains(t, content, []string{
		"CREATE TYPE approval_status AS ENUM ('draft', 'sent_for_approval', 'published')",
		"CREATE TABLE IF NOT EXISTS invitations",
		"approval_token text",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_approval_token",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_slug",
		"is_published = false OR approval_approved_at IS NOT NULL",
		"updates_acknowledged_by_guests boolean NOT NULL DEFAULT false",
		"stationery_images jsonb NOT NULL DEFAULT '[]'::jsonb",
		"show_dress_code boolean",
		"DROP TABLE IF EXISTS invitations",
	})
}

func TestWorkflowTablesMigration(t *testing.T) {
	content := readMigration(t, "create_invitation_workflow_tables")
	assertContains(t, content, []string{
		"CREATE TABLE IF NOT EXISTS invitation_revisions",
		"CREATE TABLE IF NOT EXISTS invitation_edit_requests",
		"FOREIGN KEY (invitation_id) REFERENCES invitations(id) ON DELETE CASCADE",
		"CHECK (length(btrim(comments)) > 0)",
		"DROP TABLE IF EXISTS invitation_revisions",
	})
}

func TestEmailNotificationsMigration(t *testing.T) {
	content := readMigration(t, "create_email_notifications")
	assertContains(t, content, []string{
		"CREATE TYPE email_status AS ENUM ('sent', 'failed')",
		"CREATE TABLE IF NOT EXISTS email_notifications",
		"provider_message_id text",
		"DROP TYPE IF EXISTS email_kind",
	})
}

func TestEmbeddedMigrationsValidate(t *testing.T) {
	if err := migrate.Validate(migrate.Migrations()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	for _, path := range onDisk {
		embedded, err := fsReadFile(migrate.Migrations(), filepath.Base(path))
		if err != nil {
			t.Fatalf("%s is not embedded: %v", path, err)
		}
		disk, _ := os.ReadFile(path)
		if embedded != string(disk) {
			t.Fatalf("%s differs from embedded copy", path)
		}
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add RSVP Deadline!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_rsvp_deadline.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.Validate(os.DirFS(dir)); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func TestCreateSQLMigrationBumpsCollidingVersion(t *testing.T) {
	dir := t.TempDir()
	future := filepath.Join(dir, "29991231235959_future.sql")
	if err := os.WriteFile(future, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	path, err := migrate.CreateSQLMigration(dir, "next")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "29991231235960_next.sql" {
		t.Fatalf("expected bumped version, got %s", filepath.Base(path))
	}
}

func TestValidateRejectsDuplicateVersions(t *testing.T) {
	body := []byte("-- +goose Up\n-- +goose Down\n")
	fsys := fstest.MapFS{
		"20260101000000_a.sql": {Data: body},
		"20260101000000_b.sql": {Data: body},
	}
	if err := migrate.Validate(fsys); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestValidateRequiresDownSection(t *testing.T) {
	fsys := fstest.MapFS{
		"20260101000000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	if err := migrate.Validate(fsys); err == nil {
		t.Fatal("expected missing down marker error")
	}
}

func TestValidateRejectsBadNames(t *testing.T) {
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	if err := migrate.Validate(fsys); err == nil {
		t.Fatal("expected invalid filename error")
	}
}

func fsReadFile(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	return string(b), err
}
