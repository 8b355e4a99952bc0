// Package attachments uploads certificate scans to S3-compatible storage
// through presigned URLs.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/dmitrijs2005/worktracker/internal/models"
	"github.com/dmitrijs2005/worktracker/internal/netx"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

var ErrEmptyAttachment = errors.New("attachment is empty")

// Config selects the bucket and credentials.
type Config struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	Bucket    string
	// PublicBaseURL, when set, is joined with the object key to form the
	// returned URL instead of a presigned GET.
	PublicBaseURL string
	// LinkExpiry bounds presigned GET links; SigV4 allows at most 7 days.
	LinkExpiry time.Duration
}

// S3Uploader implements the engine's attachment collaborator.
type S3Uploader struct {
	cfg    Config
	http   *http.Client
	logger logging.Logger
	now    func() time.Time
}

func NewS3Uploader(cfg Config, logger logging.Logger) *S3Uploader {
	if cfg.LinkExpiry <= 0 || cfg.LinkExpiry > 7*24*time.Hour {
		cfg.LinkExpiry = 7 * 24 * time.Hour
	}
	return &S3Uploader{
		cfg:    cfg,
		http:   &http.Client{Timeout: 60 * time.Second},
		logger: logger.With("module", "attachments"),
		now:    time.Now,
	}
}

func (u *S3Uploader) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKey,
			u.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3PresignClient(client), nil
}

// ObjectKey builds the storage key for an employee's attachment:
// certificates/<employee>/<yyyy>/<mm>/<uuid><ext>.
func ObjectKey(employeeID, name string, at time.Time) string {
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("certificates/%s/%d/%02d/%s%s", employeeID, at.Year(), at.Month(), uuid.NewString(), ext)
}

// Upload stores a under a fresh key and returns a URL to read it back.
func (u *S3Uploader) Upload(ctx context.Context, employeeID string, a models.Attachment) (string, error) {
	if len(a.Data) == 0 {
		return "", ErrEmptyAttachment
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(a.Data)
	}

	pc, err := u.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 config: %w", err)
	}

	bucket := u.cfg.Bucket
	key := ObjectKey(employeeID, a.Name, u.now())

	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, u.http, put.URL, contentType, a.Data); err != nil {
		return "", err
	}
	u.logger.Info(ctx, "attachment uploaded", "employee", employeeID, "key", key, "bytes", len(a.Data))

	if u.cfg.PublicBaseURL != "" {
		return url.JoinPath(u.cfg.PublicBaseURL, key)
	}

	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(u.cfg.LinkExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return get.URL, nil
}
