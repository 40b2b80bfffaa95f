package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/recipebookhq/recipebook-backend/pkg/config"
	"github.com/recipebookhq/recipebook-backend/pkg/logger"
)

// Store persists media files on the local filesystem under a single root
// directory. Callers address files by relative path; the root never leaks
// into stored values.
type Store struct {
	root string
}

// New ensures the media root exists and returns a store bound to it.
func New(ctx context.Context, cfg config.MediaConfig, logg *logger.Logger) (*Store, error) {
	if cfg.UploadDir == "" {
		return nil, errors.New("media upload dir is required")
	}
	root, err := filepath.Abs(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("resolving media root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating media root %q: %w", root, err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "media_root", root), "disk media store initialized")
	}
	return &Store{root: root}, nil
}

// Save writes the reader's contents to relPath under the media root and
// returns the relative path it was stored at.
func (s *Store) Save(ctx context.Context, relPath string, r io.Reader) (string, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating media dir: %w", err)
	}

	// Write to a temp file in the same dir so the rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing media file: %w", err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("placing media file: %w", err)
	}
	return filepath.ToSlash(relPath), nil
}

// Remove deletes the file at relPath. Removing an absent file is not an error.
func (s *Store) Remove(ctx context.Context, relPath string) error {
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing media file: %w", err)
	}
	return nil
}

// Root returns the absolute media root, for mounting a static file server.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) resolve(relPath string) (string, error) {
	if relPath == "" {
		return "", errors.New("media path is required")
	}
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("media path %q escapes the media root", relPath)
	}
	return filepath.Join(s.root, clean), nil
}
