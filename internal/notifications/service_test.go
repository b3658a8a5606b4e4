package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/wedsite-backend/internal/approvals"
	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/angelmondragon/wedsite-backend/pkg/email"
	"github.com/angelmondragon/wedsite-backend/pkg/enums"
	"github.com/angelmondragon/wedsite-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var _ approvals.Notifier = (*Service)(nil)

type stubSender struct {
	sent []email.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg email.Message) (email.Result, error) {
	if s.err != nil {
		return email.Result{}, s.err
	}
	s.sent = append(s.sent, msg)
	return email.Result{ProviderMessageID: fmt.Sprintf("msg-%d", len(s.sent))}, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

func newTestService(t *testing.T, sender *stubSender) (*Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(ServiceParams{
		Repo:                NewRepository(conn),
		Sender:              sender,
		Metrics:             metrics.NewEmailMetrics(prometheus.NewRegistry()),
		DefaultPlannerEmail: "studio@example.com",
	})
	require.NoError(t, err)
	return svc, conn
}

func testInvitation() *models.Invitation {
	return &models.Invitation{
		ID:                 uuid.New(),
		Slug:               "ana-and-ben",
		PartnerOneName:     "Ana",
		PartnerTwoName:     "Ben",
		CoupleContactEmail: "x@example.com",
		EventDate:          "2026-09-12",
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Sender: &stubSender{}})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(nil)})
	require.Error(t, err)
}

func TestSendApprovalRequestRecordsDelivery(t *testing.T) {
	sender := &stubSender{}
	svc, conn := newTestService(t, sender)
	inv := testInvitation()
	link := "https://invites.example.com/invite/ana-and-ben?proof=abc"

	require.NoError(t, svc.SendApprovalRequest(context.Background(), inv, link))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "x@example.com", msg.To)
	assert.Equal(t, "Ana & Ben", msg.ToName)
	assert.Equal(t, "Your wedding invitation is ready for review", msg.Subject)
	assert.Contains(t, msg.PlainText, link)
	assert.Contains(t, msg.HTML, `href="https://invites.example.com/invite/ana-and-ben?proof=abc"`)

	var logged models.EmailNotification
	require.NoError(t, conn.Where("invitation_id = ?", inv.ID).First(&logged).Error)
	assert.Equal(t, enums.EmailKindApprovalRequest, logged.Kind)
	assert.Equal(t, enums.EmailStatusSent, logged.Status)
	require.NotNil(t, logged.ProviderMessageID)
	assert.Equal(t, "msg-1", *logged.ProviderMessageID)
}

func TestSendFailureIsLoggedAndReturned(t *testing.T) {
	sender := &stubSender{err: errors.New("sendgrid returned status 401")}
	svc, conn := newTestService(t, sender)
	inv := testInvitation()

	err := svc.SendInvitationPublished(context.Background(), inv, "https://invites.example.com/invite/ana-and-ben")
	require.Error(t, err)

	var logged models.EmailNotification
	require.NoError(t, conn.Where("invitation_id = ?", inv.ID).First(&logged).Error)
	assert.Equal(t, enums.EmailStatusFailed, logged.Status)
	require.NotNil(t, logged.Error)
	assert.Contains(t, *logged.Error, "401")
}

func TestSendEditRequestFallsBackToDefaultPlanner(t *testing.T) {
	sender := &stubSender{}
	svc, _ := newTestService(t, sender)
	inv := testInvitation()

	require.NoError(t, svc.SendEditRequest(context.Background(), inv, "Please <b>fix</b> the date", ""))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "studio@example.com", msg.To)
	assert.Equal(t, "Edit request from Ana & Ben", msg.Subject)
	assert.Contains(t, msg.PlainText, "Please <b>fix</b> the date")
	assert.Contains(t, msg.PlainText, inv.ID.String())
	assert.NotContains(t, msg.HTML, "<b>fix</b>")
	assert.NotContains(t, msg.PlainText, "Proof:")

	inv.PlannerEmail = "planner@example.com"
	require.NoError(t, svc.SendEditRequest(context.Background(), inv, "Looks great otherwise", "https://invites.example.com/invite/ana-and-ben?proof=abc"))
	assert.Equal(t, "planner@example.com", sender.sent[1].To)
	assert.Contains(t, sender.sent[1].PlainText, "Proof: https://invites.example.com/invite/ana-and-ben?proof=abc")
}

func TestSendWithoutRecipientFails(t *testing.T) {
	sender := &stubSender{}
	conn := newTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn), Sender: sender})
	require.NoError(t, err)

	inv := testInvitation()
	err = svc.SendEditRequest(context.Background(), inv, "hi", "")
	require.ErrorIs(t, err, errNoRecipient)
	assert.Empty(t, sender.sent)
}

func TestSendUpdatesReadyRendersSummary(t *testing.T) {
	sender := &stubSender{}
	svc, _ := newTestService(t, sender)
	inv := testInvitation()

	summary := changes.Summary{
		TextChanges: []changes.TextChange{{Field: "venue_name", Label: "Venue", OldValue: "Rosewood Barn", NewValue: "Lakeside Pavilion"}},
		ArrayChanges: []changes.ArrayChange{{
			Field:   "timeline_events",
			Label:   "Timeline",
			Added:   []changes.Item{{Summary: "6:00 PM Dinner"}},
			Removed: []changes.Item{{Summary: "5:00 PM Cocktails"}},
		}},
		ToggleChanges: []changes.ToggleChange{{Field: "show_weather", Label: "Weather Forecast", OldValue: false, NewValue: true}},
	}
	require.NoError(t, svc.SendUpdatesReady(context.Background(), inv, summary, "https://invites.example.com/invite/ana-and-ben"))

	require.Len(t, sender.sent, 1)
	text := sender.sent[0].PlainText
	assert.Contains(t, text, `Venue: "Rosewood Barn" -> "Lakeside Pavilion"`)
	assert.Contains(t, text, "+ 6:00 PM Dinner")
	assert.Contains(t, text, "- 5:00 PM Cocktails")
	assert.Contains(t, text, "Weather Forecast: now shown")

	html := sender.sent[0].HTML
	assert.Contains(t, html, "<strong>Venue</strong>")
	assert.Contains(t, html, "Added: 6:00 PM Dinner")
	assert.True(t, strings.Contains(html, "now shown"))
}

func TestSendUpdatesReadyEmptySummary(t *testing.T) {
	sender := &stubSender{}
	svc, _ := newTestService(t, sender)

	require.NoError(t, svc.SendUpdatesReady(context.Background(), testInvitation(), changes.Summary{}, "https://invites.example.com/invite/ana-and-ben"))
	assert.Contains(t, sender.sent[0].PlainText, "A few small touches were made")
}

func TestListPaginatesEmailLog(t *testing.T) {
	sender := &stubSender{}
	svc, _ := newTestService(t, sender)
	inv := testInvitation()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.SendApprovalRequest(ctx, inv, "https://invites.example.com/invite/ana-and-ben?proof=abc"))
	}

	first, err := svc.List(ctx, ListParams{InvitationID: inv.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, ListParams{InvitationID: inv.ID, Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(first.Items, second.Items...) {
		assert.False(t, seen[item.ID], "duplicate entry across pages")
		seen[item.ID] = true
		assert.Equal(t, "approval_request", item.Kind)
	}

	_, err = svc.List(ctx, ListParams{InvitationID: inv.ID, Cursor: "!!"})
	require.Error(t, err)
}
