// Package storage persists processed uploads on local disk or in an S3
// compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManuelReschke/PixelPress/internal/pkg/config"
)

// Upload kinds, used as the first path segment.
const (
	KindCover  = "covers"
	KindAvatar = "avatars"
)

var ErrInvalidRef = errors.New("reference does not belong to this store")

// Store saves files under a fresh unique name and returns the public
// reference. Existing files are never overwritten.
type Store interface {
	Save(ctx context.Context, kind, ext string, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ObjectKey builds "<kind>/YYYY/MM/<uuid><ext>".
func ObjectKey(kind, ext string, now time.Time) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%04d/%02d/%s%s", kind, now.Year(), int(now.Month()), uuid.NewString(), strings.ToLower(ext))
}

func joinURL(base, key string) string {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return strings.TrimRight(base, "/") + "/" + key
	}
	p := path.Join("/", base, key)
	if key == "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// New returns the backend selected by STORAGE_BACKEND, "local" or "s3".
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Upload.Backend {
	case "", "local":
		return NewLocalStore(cfg.Upload.Dir, cfg.Upload.PublicURL), nil
	case "s3":
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Upload.Backend)
	}
}
