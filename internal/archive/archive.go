// Package archive keeps a copy of every raw file submitted for import in a
// Cloud Storage bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const uploadTimeout = 2 * time.Minute

// GCSArchiver writes raw uploads to a bucket using Application Default Credentials.
type GCSArchiver struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

func NewGCSArchiver(ctx context.Context, bucket string) (*GCSArchiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSArchiver{client: client, bucket: bucket, now: time.Now}, nil
}

// Archive uploads data and returns its gs:// URI.
func (a *GCSArchiver) Archive(ctx context.Context, ownerID, filename string, data []byte) (string, error) {
	name := ObjectName(ownerID, filename, a.now(), uuid.NewString())

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "text/csv"
	w.Metadata = map[string]string{"owner_id": ownerID}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy upload to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	uri := fmt.Sprintf("gs://%s/%s", a.bucket, name)
	slog.InfoContext(ctx, "Archived import file", "uri", uri, "bytes", len(data))
	return uri, nil
}

func (a *GCSArchiver) Close() error {
	return a.client.Close()
}

// ObjectName lays uploads out as imports/<owner>/<yyyy>/<mm>/<id>-<file>.
func ObjectName(ownerID, filename string, at time.Time, id string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
	if base == "" || base == "." || base == "_" {
		base = "upload.csv"
	}
	at = at.UTC()
	return fmt.Sprintf("imports/%s/%04d/%02d/%s-%s", ownerID, at.Year(), int(at.Month()), id, base)
}
