package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/wedsite-backend/api/controllers"
	"github.com/angelmondragon/wedsite-backend/api/middleware"
	"github.com/angelmondragon/wedsite-backend/internal/approvals"
	"github.com/angelmondragon/wedsite-backend/internal/invitations"
	"github.com/angelmondragon/wedsite-backend/internal/stationery"
	"github.com/angelmondragon/wedsite-backend/internal/venues"
	"github.com/angelmondragon/wedsite-backend/pkg/config"
	"github.com/angelmondragon/wedsite-backend/pkg/db"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/metrics"
	"github.com/angelmondragon/wedsite-backend/pkg/redis"
	"github.com/angelmondragon/wedsite-backend/pkg/storage/gcs"
)

// RedisStore is the redis surface the API needs: idempotency records,
// public rate limiting and readiness.
type RedisStore interface {
	redis.IdempotencyStore
	redis.RateLimiter
	redis.Pinger
}

// NewRouter wires every HTTP route. gcsClient and stationeryService may be nil
// when stationery uploads are not configured.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *metrics.Registry,
	dbP db.Pinger,
	redisStore RedisStore,
	gcsClient gcs.Pinger,
	invitationService invitations.Service,
	approvalService approvals.Service,
	emailLog controllers.EmailLogLister,
	venueService venues.Service,
	stationeryService stationery.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(registry.HTTP),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	readiness := map[string]controllers.Pinger{
		"db":    dbP,
		"redis": redisStore,
	}
	if gcsClient != nil {
		readiness["gcs"] = gcsClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	r.Handle("/metrics", registry.Handler())

	publicPolicy := middleware.PublicRateLimitPolicy(cfg.RateLimit)

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/invitations/{slug}", controllers.PublicInvitation(invitationService, logg))
		r.Route("/approvals", func(r chi.Router) {
			r.Use(middleware.RateLimit(publicPolicy, redisStore, logg))
			r.Post("/approve", controllers.ApprovalApprove(approvalService, logg))
			r.Post("/request-edits", controllers.ApprovalRequestEdits(approvalService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisStore, logg))

		r.Route("/invitations", func(r chi.Router) {
			r.Get("/", controllers.InvitationList(invitationService, logg))
			r.Post("/", controllers.InvitationCreate(invitationService, logg))
			r.Route("/{invitationId}", func(r chi.Router) {
				r.Get("/", controllers.InvitationGet(invitationService, logg))
				r.Put("/", controllers.InvitationUpdate(invitationService, logg))
				r.Get("/qr", controllers.InvitationQRCode(invitationService, logg))
				r.Get("/notifications", controllers.InvitationEmailLog(invitationService, emailLog, logg))
				r.Post("/stationery/presign", controllers.StationeryPresign(stationeryService, logg))
				r.Delete("/stationery", controllers.StationeryDelete(stationeryService, logg))
			})
		})

		r.Route("/approvals", func(r chi.Router) {
			r.Post("/request", controllers.ApprovalRequest(approvalService, logg))
			r.Post("/updates-ready", controllers.ApprovalUpdatesReady(approvalService, logg))
			r.Post("/acknowledge", controllers.ApprovalAcknowledge(approvalService, logg))
		})

		r.Route("/venues", func(r chi.Router) {
			r.Get("/autocomplete", controllers.VenueAutocomplete(venueService, logg))
			r.Get("/places/{placeId}", controllers.VenueResolve(venueService, logg))
		})
	})

	return r
}
