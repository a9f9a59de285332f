// Package snapshot stores rendered HTML pages for later review.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/vango-dev/vtree/internal/config"
)

// ErrInvalidKey is returned for keys that are empty or escape the store.
var ErrInvalidKey = errors.New("snapshot: invalid key")

// Snapshot is one rendered page.
type Snapshot struct {
	// Name identifies the page, such as the project or component name.
	Name string

	// Step labels the scenario step that produced the page, if any.
	Step string

	// HTML is the rendered page.
	HTML []byte

	// CreatedAt is the render time.
	CreatedAt time.Time
}

// Key returns the object key of s below prefix:
// prefix/name/20060102T150405Z[-step].html
func (s Snapshot) Key(prefix string) string {
	name := slug(s.Name)
	if name == "" {
		name = "snapshot"
	}
	file := s.CreatedAt.UTC().Format("20060102T150405Z")
	if step := slug(s.Step); step != "" {
		file += "-" + step
	}
	return path.Join(prefix, name, file+".html")
}

// slug keeps letters, digits, dashes and underscores, mapping everything
// else to dashes.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// Store persists snapshots.
type Store interface {
	// Put writes body under key and returns where it was stored.
	Put(ctx context.Context, key string, body []byte) (string, error)
}

// Publish stores s under its key and returns the location.
func Publish(ctx context.Context, store Store, prefix string, s Snapshot) (string, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	key := s.Key(prefix)
	loc, err := store.Put(ctx, key, s.HTML)
	if err != nil {
		return "", fmt.Errorf("snapshot: put %s: %w", key, err)
	}
	return loc, nil
}

// Open returns the store configured in cfg.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Snapshot.Store {
	case config.StoreDir, "":
		return NewDirStore(cfg.SnapshotPath()), nil
	case config.StoreS3:
		client := NewS3Client(S3Options{
			Region:    cfg.Snapshot.Region,
			Endpoint:  cfg.Snapshot.Endpoint,
			PathStyle: cfg.Snapshot.PathStyle,
		})
		return NewS3Store(client, cfg.Snapshot.Bucket), nil
	}
	return nil, fmt.Errorf("snapshot: unknown store %q", cfg.Snapshot.Store)
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
