// Package assets loads the logo and signature images used on invoices
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"invoice-pdf/invoice-pdf-backend/pkg/storage"
)

var (
	// ErrImageTooLarge is returned when an image exceeds the size cap
	ErrImageTooLarge = errors.New("image exceeds size limit")
	// ErrNoLocalAssets is returned by FetchLocal when no assets directory is set
	ErrNoLocalAssets = errors.New("local assets directory not configured")
)

const defaultMaxBytes = 5 << 20

// Store reads images from the S3 bucket or the bundled assets directory.
// Without a bucket, remote references resolve to files in the assets
// directory by base name.
type Store struct {
	s3       storage.S3Client
	bucket   string
	localDir string
	maxBytes int64
}

// NewStore creates an image store. s3 may be nil for local-only rendering.
func NewStore(s3 storage.S3Client, bucket, localDir string, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Store{
		s3:       s3,
		bucket:   bucket,
		localDir: localDir,
		maxBytes: maxBytes,
	}
}

// Fetch loads the object stored under ref
func (s *Store) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if s.s3 == nil || s.bucket == "" {
		return s.FetchLocal(path.Base(ref))
	}

	body, err := s.s3.Download(ctx, s.bucket, strings.TrimPrefix(ref, "/"))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return s.readLimited(body, ref)
}

// FetchLocal loads a file from the assets directory. Only the base name of
// name is used, so references cannot escape the directory.
func (s *Store) FetchLocal(name string) ([]byte, error) {
	if s.localDir == "" {
		return nil, ErrNoLocalAssets
	}

	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid asset name %q", name)
	}

	f, err := os.Open(filepath.Join(s.localDir, base))
	if err != nil {
		return nil, fmt.Errorf("failed to open asset %s: %w", base, err)
	}
	defer f.Close()

	return s.readLimited(f, base)
}

func (s *Store) readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", name, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%s: %w", name, ErrImageTooLarge)
	}
	return data, nil
}
