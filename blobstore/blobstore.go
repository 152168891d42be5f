package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"savora/apperr"
	"savora/config"
)

const thumbWidth = 320

// Uploader stores image payloads in a MinIO bucket and hands back public
// URLs. It performs no retries and never deletes on failure; an object
// orphaned by a later abort stays in the bucket.
type Uploader struct {
	client   *minio.Client
	bucket   string
	maxBytes int64
	log      zerolog.Logger
}

func New(cfg config.MinioConfig, maxBytes int64, log zerolog.Logger) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Uploader{client: client, bucket: cfg.Bucket, maxBytes: maxBytes, log: log}, nil
}

// Upload validates the payload, stores it under key and returns the public
// URL. A thumbnail variant is stored alongside when the payload decodes as
// an image; thumbnail failures are logged and ignored.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType, key string) (string, error) {
	if len(data) == 0 {
		return "", apperr.Validationf("empty image payload")
	}
	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		return "", apperr.Validationf("image payload exceeds %d bytes", u.maxBytes)
	}

	if err := u.put(ctx, key, data, contentType); err != nil {
		return "", apperr.Upstreamf("upload %s: %v", key, err)
	}

	if thumb, err := thumbnail(data); err == nil {
		thumbKey := key + "_thumb.jpg"
		if err := u.put(ctx, thumbKey, thumb, "image/jpeg"); err != nil {
			u.log.Warn().Err(err).Str("key", thumbKey).Msg("thumbnail upload failed")
		}
	}

	return u.publicURL(key), nil
}

func (u *Uploader) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (u *Uploader) publicURL(key string) string {
	scheme := "http"
	if strings.HasPrefix(u.client.EndpointURL().String(), "https") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, u.client.EndpointURL().Host, u.bucket, key)
}

func thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	small := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, small, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
