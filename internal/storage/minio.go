// Package storage keeps user-uploaded avatars in a MinIO bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrNotConfigured = errors.New("storage: avatar store not configured")

type AvatarStore struct {
	client *minio.Client
	bucket string
}

// NewAvatarStore connects to MinIO and ensures the bucket exists. An empty
// endpoint yields a disabled store; uploads then fail with ErrNotConfigured.
func NewAvatarStore(endpoint, accessKey, secretKey, bucket string) (*AvatarStore, error) {
	if endpoint == "" {
		return &AvatarStore{}, nil
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &AvatarStore{client: client, bucket: bucket}, nil
}

// Upload stores one avatar file under the user's prefix and returns the
// object name to persist on the user row.
func (s *AvatarStore) Upload(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	objectName := fmt.Sprintf("%s/%s%s", userID, uuid.New().String(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.client.PutObject(ctx, s.bucket, objectName, src, file.Size,
		minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	return objectName, nil
}
