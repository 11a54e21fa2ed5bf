package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/arzan03/pdftoolbox/internal/models"
)

// MinioStore keeps blobs in a single MinIO bucket under generated
// object names. Names are unique per Put, so concurrent writers never
// contend for the same key.
type MinioStore struct {
	client *minio.Client
	bucket string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("Created bucket: %s", cfg.Bucket)
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// Put persists the bytes under a freshly generated name and returns it.
// The generated name embeds a timestamp and a UUID, so it never clashes
// with an existing object.
func (s *MinioStore) Put(ctx context.Context, r io.Reader, size int64, contentType, suggestedExt string) (string, error) {
	storedName := generateStoredName(suggestedExt)

	_, err := s.client.PutObject(ctx, s.bucket, storedName, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", models.ErrStorage, storedName, err)
	}
	return storedName, nil
}

// Get returns the blob bytes, or ErrNotFound once the name is reaped.
func (s *MinioStore) Get(ctx context.Context, storedName string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, storedName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", models.ErrStorage, storedName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: blob %s", models.ErrNotFound, storedName)
		}
		return nil, fmt.Errorf("%w: read %s: %v", models.ErrStorage, storedName, err)
	}
	return data, nil
}

// Delete removes the blob. Deleting an absent name is not an error.
func (s *MinioStore) Delete(ctx context.Context, storedName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, storedName, minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("%w: delete %s: %v", models.ErrStorage, storedName, err)
	}
	return nil
}

// Exists reports whether the blob is still present.
func (s *MinioStore) Exists(ctx context.Context, storedName string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, storedName, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat %s: %v", models.ErrStorage, storedName, err)
	}
	return true, nil
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey"
	}
	return false
}

func generateStoredName(ext string) string {
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
