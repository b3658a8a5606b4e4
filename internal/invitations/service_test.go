package invitations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/angelmondragon/wedsite-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/links"
	"github.com/angelmondragon/wedsite-backend/pkg/pagination"
	"github.com/angelmondragon/wedsite-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn), links.NewBuilder("https://invites.example.com"), nil)
	require.NoError(t, err)
	return svc, conn
}

func sampleContent() Content {
	return Content{
		PartnerOneName:     "Ana",
		PartnerTwoName:     "Ben",
		CoupleContactEmail: "x@example.com",
		EventDate:          "2026-09-12",
		VenueName:          "Rosewood Barn",
		TimelineEvents: types.JSONList[types.TimelineEvent]{
			{Time: "4:00 PM", Label: "Ceremony"},
		},
		ShowCountdown: true,
		ShowRSVP:      true,
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code(), "unexpected error: %v", err)
}

func TestCreateDerivesSlugAndRetriesCollisions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	planner := Planner{ID: uuid.New(), Email: "planner@example.com"}

	first, err := svc.Create(ctx, planner, CreateInput{Content: sampleContent()})
	require.NoError(t, err)
	assert.Equal(t, "ana-and-ben", first.Slug)
	assert.Equal(t, "draft", first.ApprovalStatus)
	assert.Equal(t, "planner@example.com", first.PlannerEmail)
	assert.Equal(t, "https://invites.example.com/invite/ana-and-ben", first.PublicURL)
	assert.True(t, first.ShowCountdown)
	assert.False(t, first.IsPublished)

	second, err := svc.Create(ctx, planner, CreateInput{Content: sampleContent()})
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, IsValidSlug(second.Slug))
	assert.Contains(t, second.Slug, "ana-and-ben-")
}

func TestCreateWithRequestedSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	planner := Planner{ID: uuid.New()}

	created, err := svc.Create(ctx, planner, CreateInput{Slug: "summer-vows", Content: sampleContent()})
	require.NoError(t, err)
	assert.Equal(t, "summer-vows", created.Slug)

	_, err = svc.Create(ctx, planner, CreateInput{Slug: "summer-vows", Content: sampleContent()})
	requireCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.Create(ctx, planner, CreateInput{Slug: "Summer Vows", Content: sampleContent()})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestGetIsPlannerScoped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	planner := Planner{ID: uuid.New()}
	created, err := svc.Create(ctx, planner, CreateInput{Content: sampleContent()})
	require.NoError(t, err)

	got, err := svc.Get(ctx, planner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.TimelineEvents, 1)

	_, err = svc.Get(ctx, uuid.New(), created.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
	require.NoError(t, svc.Authorize(ctx, planner.ID, created.ID))
	requireCode(t, svc.Authorize(ctx, planner.ID, uuid.New()), pkgerrors.CodeNotFound)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	planner := Planner{ID: uuid.New()}
	ids := map[uuid.UUID]bool{}
	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, planner, CreateInput{Content: sampleContent()})
		require.NoError(t, err)
		ids[created.ID] = true
	}
	_, err := svc.Create(ctx, Planner{ID: uuid.New()}, CreateInput{Content: sampleContent()})
	require.NoError(t, err)

	first, err := svc.List(ctx, planner.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)
	assert.False(t, first.Items[0].CreatedAt.Before(first.Items[1].CreatedAt))

	second, err := svc.List(ctx, planner.ID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)

	for _, item := range append(first.Items, second.Items...) {
		assert.True(t, ids[item.ID], "unexpected invitation %s", item.ID)
		delete(ids, item.ID)
	}
	assert.Empty(t, ids)

	_, err = svc.List(ctx, planner.ID, pagination.Params{Cursor: "%%%"})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateReturnsChangeSummaryAndKeepsWorkflow(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	planner := Planner{ID: uuid.New()}
	created, err := svc.Create(ctx, planner, CreateInput{Content: sampleContent()})
	require.NoError(t, err)

	token := "abc"
	status := enums.ApprovalStatusSentForApproval
	require.NoError(t, conn.Model(&models.Invitation{}).Where("id = ?", created.ID).
		Updates(map[string]any{"approval_token": token, "approval_status": string(status)}).Error)

	content := sampleContent()
	content.VenueName = "Lakeside Pavilion"
	content.ShowCountdown = false
	content.TimelineEvents = append(content.TimelineEvents, types.TimelineEvent{Time: "6:00 PM", Label: "Dinner"})

	result, err := svc.Update(ctx, planner.ID, created.ID, content)
	require.NoError(t, err)
	assert.Equal(t, "Lakeside Pavilion", result.Invitation.VenueName)
	assert.False(t, result.Invitation.ShowCountdown)
	assert.Equal(t, "sent_for_approval", result.Invitation.ApprovalStatus)

	require.Len(t, result.ChangeSummary.TextChanges, 1)
	assert.Equal(t, "venue_name", result.ChangeSummary.TextChanges[0].Field)
	require.Len(t, result.ChangeSummary.ToggleChanges, 1)
	assert.Equal(t, "show_countdown", result.ChangeSummary.ToggleChanges[0].Field)
	require.Len(t, result.ChangeSummary.ArrayChanges, 1)
	assert.Equal(t, "6:00 PM Dinner", result.ChangeSummary.ArrayChanges[0].Added[0].Summary)

	var stored models.Invitation
	require.NoError(t, conn.Where("id = ?", created.ID).First(&stored).Error)
	require.NotNil(t, stored.ApprovalToken)
	assert.Equal(t, token, *stored.ApprovalToken)
	assert.False(t, stored.ShowCountdown)

	_, err = svc.Update(ctx, uuid.New(), created.ID, content)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestQRCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	planner := Planner{ID: uuid.New()}
	created, err := svc.Create(ctx, planner, CreateInput{Content: sampleContent()})
	require.NoError(t, err)

	png, err := svc.QRCode(ctx, planner.ID, created.ID, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	_, err = svc.QRCode(ctx, planner.ID, created.ID, 10)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestGetPublicVisibility(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	planner := Planner{ID: uuid.New()}
	created, err := svc.Create(ctx, planner, CreateInput{Content: sampleContent()})
	require.NoError(t, err)

	_, err = svc.GetPublic(ctx, created.Slug, "")
	requireCode(t, err, pkgerrors.CodeNotFound)

	token := "f00d"
	require.NoError(t, conn.Model(&models.Invitation{}).Where("id = ?", created.ID).
		Updates(map[string]any{"approval_token": token, "approval_status": "sent_for_approval"}).Error)

	_, err = svc.GetPublic(ctx, created.Slug, "wrong")
	requireCode(t, err, pkgerrors.CodeNotFound)

	preview, err := svc.GetPublic(ctx, created.Slug, token)
	require.NoError(t, err)
	assert.True(t, preview.Preview)
	assert.False(t, preview.IsPublished)
	assert.Empty(t, preview.CoupleContactEmail)
	assert.Equal(t, "Rosewood Barn", preview.VenueName)
	require.NotNil(t, preview.InvitationID)
	assert.Equal(t, created.ID, *preview.InvitationID)

	require.NoError(t, conn.Model(&models.Invitation{}).Where("id = ?", created.ID).
		Updates(map[string]any{"approval_status": "published", "is_published": true}).Error)
	public, err := svc.GetPublic(ctx, created.Slug, "")
	require.NoError(t, err)
	assert.True(t, public.IsPublished)
	assert.False(t, public.Preview)
	assert.Nil(t, public.InvitationID)

	encoded, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "invitationId")

	_, err = svc.GetPublic(ctx, "missing", "")
	requireCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.GetPublic(ctx, " ", "")
	requireCode(t, err, pkgerrors.CodeValidation)
}
