// Package upload stores attachment files in an S3-compatible object store.
package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"casaplan/api/internal/util"
)

// Store accepts a file and returns a URL the workspace can reference.
type Store interface {
	Put(ctx context.Context, req PutRequest) (PutResult, error)
}

type PutRequest struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	// Public uploads land under a shared prefix served without signed URLs.
	Public bool
}

type PutResult struct {
	URL      string
	FileName string
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// BaseURL is the externally visible URL prefix for stored objects.
	BaseURL string
}

// MinioStore implements Store against MinIO or any S3-compatible endpoint.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinioStore(ctx context.Context, cfg Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket: %w", err)
		}
	}

	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (s *MinioStore) Put(ctx context.Context, req PutRequest) (PutResult, error) {
	key := ObjectKey(req.FileName, req.Public, time.Now())

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, req.Body, req.Size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return PutResult{}, fmt.Errorf("put object: %w", err)
	}

	return PutResult{
		URL:      s.baseURL + "/" + key,
		FileName: path.Base(key),
	}, nil
}

// ObjectKey builds a collision-free storage key that keeps the original
// extension and a sanitized stem for debuggability.
func ObjectKey(fileName string, public bool, now time.Time) string {
	ext := strings.ToLower(path.Ext(fileName))
	stem := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	stem = sanitize(stem)
	if stem == "" {
		stem = "file"
	}

	prefix := "uploads"
	if public {
		prefix = "public"
	}
	return fmt.Sprintf("%s/%s/%s-%s%s", prefix, now.UTC().Format("2006/01"), stem, util.NewID(""), ext)
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-.")
}
