// Package stationery issues upload URLs for invitation stationery images.
package stationery

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/google/uuid"
)

var allowedMimeTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

type ownershipChecker interface {
	Authorize(ctx context.Context, plannerID, invitationID uuid.UUID) error
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	PublicURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service exposes stationery upload semantics.
type Service interface {
	PresignUpload(ctx context.Context, plannerID, invitationID uuid.UUID, input PresignInput) (*PresignOutput, error)
	DeleteUpload(ctx context.Context, plannerID, invitationID uuid.UUID, objectKey string) error
}

type service struct {
	owners         ownershipChecker
	gcs            gcsClient
	bucket         string
	uploadTTL      time.Duration
	maxUploadBytes int64
	logg           *logger.Logger
	now            func() time.Time
}

// Params groups the stationery service dependencies.
type Params struct {
	Owners         ownershipChecker
	GCS            gcsClient
	Bucket         string
	UploadTTL      time.Duration
	MaxUploadBytes int64
	Logger         *logger.Logger
}

func NewService(params Params) (Service, error) {
	if params.Owners == nil {
		return nil, fmt.Errorf("invitation ownership checker required")
	}
	if params.GCS == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if params.UploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if params.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &service{
		owners:         params.Owners,
		gcs:            params.GCS,
		bucket:         params.Bucket,
		uploadTTL:      params.UploadTTL,
		maxUploadBytes: params.MaxUploadBytes,
		logg:           params.Logger,
		now:            time.Now,
	}, nil
}

// PresignInput is the upload request.
type PresignInput struct {
	FileName  string `json:"fileName" validate:"required,max=200"`
	MimeType  string `json:"mimeType" validate:"required"`
	SizeBytes int64  `json:"sizeBytes" validate:"required,gt=0"`
}

// PresignOutput is returned to the client. The client PUTs the file to
// UploadURL with the same Content-Type, then stores PublicURL in the
// invitation's stationery list.
type PresignOutput struct {
	ObjectKey   string    `json:"objectKey"`
	UploadURL   string    `json:"uploadUrl"`
	PublicURL   string    `json:"publicUrl"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (s *service) PresignUpload(ctx context.Context, plannerID, invitationID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fileName is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sizeBytes must be positive")
	}
	if input.SizeBytes > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("sizeBytes must be at most %d bytes", s.maxUploadBytes))
	}
	mimeType := strings.ToLower(strings.TrimSpace(input.MimeType))
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mimeType must be one of "+strings.Join(allowedMimeTypes, ", "))
	}

	if err := s.owners.Authorize(ctx, plannerID, invitationID); err != nil {
		return nil, err
	}

	key := buildObjectKey(invitationID, uuid.New(), fileName)
	expiresAt := s.now().Add(s.uploadTTL)
	signed, err := s.gcs.SignedURL(s.bucket, key, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url: "+err.Error())
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"invitation_id": invitationID.String(),
		"object_key":    key,
		"size_bytes":    input.SizeBytes,
	}), "stationery.presigned")

	return &PresignOutput{
		ObjectKey:   key,
		UploadURL:   signed,
		PublicURL:   s.gcs.PublicURL(s.bucket, key),
		ContentType: mimeType,
		ExpiresAt:   expiresAt,
	}, nil
}

// DeleteUpload removes an object previously issued for the invitation.
func (s *service) DeleteUpload(ctx context.Context, plannerID, invitationID uuid.UUID, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "objectKey is required")
	}
	if !strings.HasPrefix(objectKey, objectPrefix(invitationID)) || strings.Contains(objectKey, "..") {
		return pkgerrors.New(pkgerrors.CodeNotFound, "stationery object not found")
	}
	if err := s.owners.Authorize(ctx, plannerID, invitationID); err != nil {
		return err
	}
	if err := s.gcs.DeleteObject(ctx, s.bucket, objectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stationery object: "+err.Error())
	}
	s.logg.Info(s.logg.WithField(ctx, "object_key", objectKey), "stationery.deleted")
	return nil
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedMimeTypes {
		if candidate == mimeType {
			return true
		}
	}
	return false
}

func objectPrefix(invitationID uuid.UUID) string {
	return fmt.Sprintf("invitations/%s/stationery/", invitationID)
}

func buildObjectKey(invitationID, objectID uuid.UUID, fileName string) string {
	clean := sanitizeFileName(fileName)
	if clean == "" {
		return objectPrefix(invitationID) + objectID.String()
	}
	return objectPrefix(invitationID) + objectID.String() + "-" + clean
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
