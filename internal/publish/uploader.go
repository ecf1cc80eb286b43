// internal/publish/uploader.go
// Package publish copies result artifacts to a Google Cloud Storage bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/mwiater/langbench/internal/config"
)

// ObjectStore opens writers for objects in a bucket.
type ObjectStore interface {
	NewWriter(ctx context.Context, bucket, object, contentType string) io.WriteCloser
	Close() error
}

type gcsStore struct {
	client *storage.Client
}

func (g gcsStore) NewWriter(ctx context.Context, bucket, object, contentType string) io.WriteCloser {
	w := g.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

func (g gcsStore) Close() error { return g.client.Close() }

// Uploader handles uploading result files to one bucket.
type Uploader struct {
	bucket string
	prefix string
	store  ObjectStore
}

// NewUploader creates a storage client from cfg. Application default
// credentials are used unless cfg.CredentialsFile is set.
func NewUploader(ctx context.Context, cfg config.Upload) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("upload bucket is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return NewUploaderWithStore(cfg.Bucket, cfg.Prefix, gcsStore{client: client}), nil
}

// NewUploaderWithStore builds an Uploader over an existing store.
func NewUploaderWithStore(bucket, prefix string, store ObjectStore) *Uploader {
	return &Uploader{bucket: bucket, prefix: prefix, store: store}
}

// Close releases the underlying client.
func (u *Uploader) Close() error {
	return u.store.Close()
}

// ObjectName is the prefix followed by the base name of the file.
func (u *Uploader) ObjectName(filePath string) string {
	return u.prefix + filepath.Base(filePath)
}

// UploadFiles uploads each path in order and returns the object names
// written. It stops at the first failure.
func (u *Uploader) UploadFiles(ctx context.Context, paths []string) ([]string, error) {
	var done []string
	for _, p := range paths {
		start := time.Now()
		name, size, err := u.uploadFile(ctx, p)
		if err != nil {
			return done, fmt.Errorf("upload %s: %w", p, err)
		}
		log.WithFields(log.Fields{
			"bucket":   u.bucket,
			"object":   name,
			"bytes":    size,
			"duration": time.Since(start),
		}).Info("uploaded")
		done = append(done, name)
	}
	return done, nil
}

func (u *Uploader) uploadFile(ctx context.Context, filePath string) (string, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := u.ObjectName(filePath)
	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w := u.store.NewWriter(ctx, u.bucket, name, contentType)
	n, err := io.Copy(w, file)
	if err != nil {
		w.Close()
		return "", 0, fmt.Errorf("write error: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", 0, fmt.Errorf("close error: %w", err)
	}
	return name, n, nil
}
