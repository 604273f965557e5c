// Package presign issues media keys and time-limited signed upload URLs.
package presign

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dwellr/internal/models"
	"dwellr/internal/observability"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Issuer hands out upload grants: a fresh storage key plus a PUT-scoped
// presigned URL for it. Issuance is stateless; the key only becomes real
// once a created Post references it.
type Issuer interface {
	IssueUploadGrant(ctx context.Context) (*models.UploadGrant, error)
}

// Config for the S3-compatible issuer.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Expiry    time.Duration
}

// S3Issuer issues presigned PUT URLs against any S3-compatible store.
// Presigning is pure signing: no network round trip, so concurrent calls
// scale without limit and never collide (keys are 128-bit random UUIDs).
type S3Issuer struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	now    func() time.Time
}

func NewS3Issuer(cfg Config) (*S3Issuer, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &S3Issuer{
		client: client,
		bucket: cfg.Bucket,
		expiry: expiry,
		now:    time.Now,
	}, nil
}

// IssueUploadGrant generates a fresh key and signs a PUT-only URL for the
// corresponding .mp4 object, matching the playback convention
// (MEDIA_BASE_URL + key + ".mp4").
func (i *S3Issuer) IssueUploadGrant(ctx context.Context) (*models.UploadGrant, error) {
	key := strings.ReplaceAll(uuid.NewString(), "-", "")

	url, err := i.client.PresignedPutObject(ctx, i.bucket, key+".mp4", i.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload URL: %w", err)
	}

	observability.UploadGrantsIssued.Inc()
	return &models.UploadGrant{
		Key:          key,
		PresignedURL: url.String(),
		ExpiresAt:    models.NewTimestamp(i.now().UTC().Add(i.expiry)),
	}, nil
}

var _ Issuer = (*S3Issuer)(nil)
