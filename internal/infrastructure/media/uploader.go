// Package media turns local image files into durable, fetchable references.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scansafe/scansafe/internal/core/ports"
)

const keyPrefix = "scans"

// Uploader stores images in object storage and returns a public URL. A
// failed upload degrades to an inline data: URI built from the local file,
// so the caller always receives a usable reference; the only error case is
// both the upload and the local read failing.
type Uploader struct {
	storage ports.ObjectStorage
}

func NewUploader(storage ports.ObjectStorage) *Uploader {
	return &Uploader{storage: storage}
}

func (u *Uploader) Store(ctx context.Context, localPath string) (string, error) {
	key := objectKey(localPath)

	uploadErr := u.upload(ctx, key, localPath)
	if uploadErr == nil {
		return u.storage.PublicURL(key), nil
	}
	slog.Error("image_upload_failed",
		"key", key,
		"local_path", localPath,
		"error", uploadErr,
	)

	raw, readErr := os.ReadFile(localPath)
	if readErr != nil {
		return "", fmt.Errorf("upload failed (%v) and local read failed: %w", uploadErr, readErr)
	}
	return dataURI(localPath, raw), nil
}

func (u *Uploader) upload(ctx context.Context, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local image: %w", err)
	}
	defer f.Close()

	if err := u.storage.Save(ctx, key, f); err != nil {
		return fmt.Errorf("save to object storage: %w", err)
	}
	return nil
}

// objectKey builds a collision-resistant name: timestamp plus a random
// suffix under the fixed scans/ prefix.
func objectKey(localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = ".jpg"
	}
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s/%d_%s%s", keyPrefix, time.Now().UnixNano(), suffix, ext)
}

func dataURI(localPath string, raw []byte) string {
	mime := "image/jpeg"
	if strings.EqualFold(filepath.Ext(localPath), ".png") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
}
