package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Uploader stores inbound voice recordings and returns a URI reference
// for the interaction log.
type Uploader interface {
	UploadAudio(ctx context.Context, localPath, userID string) (string, error)
}

// GCSUploader uploads audio files under input_audio/<user>/<file> in the
// configured bucket.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

func NewGCSUploader(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSUploader, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket}, nil
}

func (u *GCSUploader) UploadAudio(ctx context.Context, localPath, userID string) (string, error) {
	objectName := path.Join("input_audio", userID, filepath.Base(localPath))
	uri := fmt.Sprintf("gs://%s/%s", u.bucket, objectName)

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload %s: %w", objectName, err)
	}
	return uri, nil
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}

// LocalUploader is the local-mode stand-in: it returns the URI the file
// would get without uploading anything.
type LocalUploader struct {
	bucket string
}

func NewLocalUploader(bucket string) *LocalUploader {
	return &LocalUploader{bucket: bucket}
}

func (u *LocalUploader) UploadAudio(ctx context.Context, localPath, userID string) (string, error) {
	objectName := path.Join("input_audio", userID, filepath.Base(localPath))
	return fmt.Sprintf("gs://%s/%s", u.bucket, objectName), nil
}
