package gcs

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/angelmondragon/wedsite-backend/pkg/config"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
)

const (
	storageHost  = "storage.googleapis.com"
	storageAPI   = "https://storage.googleapis.com/storage/v1"
	pingTimeout  = 5 * time.Second
	errBodyLimit = 2048
)

// Client talks to Cloud Storage over its JSON API and signs upload URLs with
// the service account key.
type Client struct {
	httpClient     *http.Client
	defaultBucket  string
	publicBaseURL  string
	tokenSource    *tokenSource
	serviceAccount *serviceAccountInfo
}

type serviceAccountInfo struct {
	clientEmail string
	privateKey  *rsa.PrivateKey
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient loads credentials (inline JSON, a credentials file, or the metadata
// server) and verifies bucket access. URL signing needs a service account key;
// metadata credentials can only authenticate API calls.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	credsJSON := gcp.CredentialsJSON
	if credsJSON == "" && gcp.ApplicationCredentials != "" {
		raw, err := os.ReadFile(gcp.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		credsJSON = string(raw)
	}

	client := &Client{
		httpClient:    httpClient,
		defaultBucket: cfg.BucketName,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}

	if credsJSON != "" {
		sa, tokenURI, err := parseServiceAccount(credsJSON)
		if err != nil {
			return nil, err
		}
		client.serviceAccount = sa
		client.tokenSource = newServiceAccountTokenSource(httpClient, sa, tokenURI)
	} else {
		client.tokenSource = newMetadataTokenSource(httpClient)
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"bucket":   cfg.BucketName,
			"can_sign": client.serviceAccount != nil,
		}), "gcs client initialized")
	}

	return client, nil
}

func (c *Client) DefaultBucket() string {
	if c == nil {
		return ""
	}
	return c.defaultBucket
}

// PublicURL is where an uploaded object is served from once the bucket grants read access.
func (c *Client) PublicURL(bucket, object string) string {
	base := "https://" + storageHost
	if c != nil && c.publicBaseURL != "" {
		base = c.publicBaseURL
	}
	if bucket == "" && c != nil {
		bucket = c.defaultBucket
	}
	return base + canonicalPath(bucket, object)
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if c.defaultBucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/b/%s/o?maxResults=1", storageAPI, url.PathEscape(c.defaultBucket))
	resp, err := c.do(ctx, http.MethodGet, u)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

// DeleteObject removes an object; a missing object is not an error.
func (c *Client) DeleteObject(ctx context.Context, bucket, object string) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" || object == "" {
		return errors.New("bucket and object are required")
	}

	u := fmt.Sprintf("%s/b/%s/o/%s", storageAPI, url.PathEscape(bucket), url.PathEscape(object))
	resp, err := c.do(ctx, http.MethodDelete, u)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return statusError("gcs delete failed", resp)
	}
}

func (c *Client) do(ctx context.Context, method, u string) (*http.Response, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, msg)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
