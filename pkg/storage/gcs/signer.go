package gcs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	signingAlgorithm = "GOOG4-RSA-SHA256"
	maxSignedExpiry  = 7 * 24 * time.Hour
)

// SignedURL returns a V4 signed PUT URL. The uploader must send the same
// Content-Type header that was signed.
func (c *Client) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return "", errors.New("content type is required")
	}
	return c.sign(http.MethodPut, bucket, object, map[string]string{"content-type": contentType}, expires, time.Now())
}

// SignedReadURL returns a V4 signed GET URL.
func (c *Client) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	return c.sign(http.MethodGet, bucket, object, nil, expires, time.Now())
}

func (c *Client) sign(method, bucket, object string, headers map[string]string, expires time.Duration, now time.Time) (string, error) {
	if c == nil || c.serviceAccount == nil || c.serviceAccount.privateKey == nil {
		return "", errors.New("url signing requires service account credentials")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" {
		return "", errors.New("bucket is required")
	}
	if strings.TrimSpace(object) == "" {
		return "", errors.New("object is required")
	}
	if expires <= 0 || expires > maxSignedExpiry {
		return "", fmt.Errorf("expiry must be between 1s and %s", maxSignedExpiry)
	}

	now = now.UTC()
	datestamp := now.Format("20060102")
	timestamp := now.Format("20060102T150405Z")
	credentialScope := datestamp + "/auto/storage/goog4_request"

	signedHeaders := map[string]string{"host": storageHost}
	for k, v := range headers {
		signedHeaders[strings.ToLower(k)] = strings.TrimSpace(v)
	}
	headerNames := make([]string, 0, len(signedHeaders))
	for name := range signedHeaders {
		headerNames = append(headerNames, name)
	}
	sort.Strings(headerNames)

	var canonicalHeaders strings.Builder
	for _, name := range headerNames {
		canonicalHeaders.WriteString(name + ":" + signedHeaders[name] + "\n")
	}
	signedHeaderList := strings.Join(headerNames, ";")

	query := map[string]string{
		"X-Goog-Algorithm":     signingAlgorithm,
		"X-Goog-Credential":    c.serviceAccount.clientEmail + "/" + credentialScope,
		"X-Goog-Date":          timestamp,
		"X-Goog-Expires":       strconv.FormatInt(int64(expires/time.Second), 10),
		"X-Goog-SignedHeaders": signedHeaderList,
	}
	canonicalQuery := encodeQuery(query)
	path := canonicalPath(bucket, object)

	canonicalRequest := strings.Join([]string{
		method,
		path,
		canonicalQuery,
		canonicalHeaders.String(),
		signedHeaderList,
		"UNSIGNED-PAYLOAD",
	}, "\n")

	digest := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		signingAlgorithm,
		timestamp,
		credentialScope,
		hex.EncodeToString(digest[:]),
	}, "\n")

	sig, err := rsaSign(c.serviceAccount.privateKey, []byte(stringToSign))
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}

	return "https://" + storageHost + path + "?" + canonicalQuery + "&X-Goog-Signature=" + hex.EncodeToString(sig), nil
}

func canonicalPath(bucket, object string) string {
	segments := strings.Split(object, "/")
	for i, seg := range segments {
		segments[i] = uriEncode(seg)
	}
	return "/" + uriEncode(bucket) + "/" + strings.Join(segments, "/")
}

func encodeQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, uriEncode(k)+"="+uriEncode(params[k]))
	}
	return strings.Join(parts, "&")
}

// uriEncode percent-encodes everything outside the RFC 3986 unreserved set.
func uriEncode(s string) string {
	const hexDigits = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '_' || ch == '~' {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[ch>>4])
		b.WriteByte(hexDigits[ch&0x0f])
	}
	return b.String()
}
