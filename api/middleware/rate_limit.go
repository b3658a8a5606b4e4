package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/wedsite-backend/api/responses"
	"github.com/angelmondragon/wedsite-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/security"
)

// maxRateLimitBody bounds how much of a public request body is buffered to find the token.
const maxRateLimitBody = 64 << 10

type fixedWindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy defines the throttling parameters for a public surface.
type RateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	tokenLimit int
}

// NewRateLimitPolicy builds a policy with the supplied window and limits.
func NewRateLimitPolicy(name string, window time.Duration, ipLimit, tokenLimit int) RateLimitPolicy {
	return RateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		tokenLimit: tokenLimit,
	}
}

// PublicRateLimitPolicy reads the couple-facing limits from config.
func PublicRateLimitPolicy(cfg config.RateLimitConfig) RateLimitPolicy {
	return NewRateLimitPolicy("public", cfg.PublicWindow, cfg.PublicIPLimit, cfg.PublicTokenLimit)
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.tokenLimit > 0)
}

func (p RateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "public"
	}
	return p.name
}

func (p RateLimitPolicy) ipScope(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("%s:ip:%s", p.normalizedName(), ip)
}

func (p RateLimitPolicy) tokenScope(fingerprint string) string {
	if fingerprint == "" {
		return ""
	}
	return fmt.Sprintf("%s:token:%s", p.normalizedName(), fingerprint)
}

// RateLimit enforces per-IP and per-approval-token counters on the public
// endpoints. Tokens are only ever keyed by fingerprint.
func RateLimit(policy RateLimitPolicy, limiter fixedWindowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 {
				if scope := policy.ipScope(ip); scope != "" {
					allowed, count, err := limiter.FixedWindowAllow(ctx, scope, int64(policy.ipLimit), policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, policy, "ip", ip, "", count, policy.ipLimit)
						return
					}
				}
			}

			if policy.tokenLimit > 0 {
				token, err := peekToken(r)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				if token != "" {
					fp := security.Fingerprint(token)
					allowed, count, err := limiter.FixedWindowAllow(ctx, policy.tokenScope(fp), int64(policy.tokenLimit), policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, policy, "token", "", fp, count, policy.tokenLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// peekToken finds the approval token in the proof query parameter or the
// JSON body, restoring the body for the handler.
func peekToken(r *http.Request) (string, error) {
	if proof := strings.TrimSpace(r.URL.Query().Get("proof")); proof != "" {
		return proof, nil
	}
	if r.Body == nil || r.Method == http.MethodGet {
		return "", nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRateLimitBody+1))
	if err != nil {
		return "", err
	}
	if len(body) > maxRateLimitBody {
		return "", fmt.Errorf("request body too large")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		ApprovalToken string `json:"approvalToken"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil
	}
	return strings.TrimSpace(payload.ApprovalToken), nil
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy RateLimitPolicy, scope, ip, tokenFingerprint string, count int64, limit int) {
	if logg != nil {
		fields := map[string]any{
			"scope":          scope,
			"policy":         policy.normalizedName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		}
		if ip != "" {
			fields["ip"] = ip
		}
		if tokenFingerprint != "" {
			fields["token_fingerprint"] = tokenFingerprint
		}
		logg.Warn(logg.WithFields(ctx, fields), "rate_limit.blocked")
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(policy.window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests, try again shortly"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
