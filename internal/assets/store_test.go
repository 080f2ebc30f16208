package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3Client is a mock implementation of storage.S3Client
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	args := m.Called(ctx, bucket, key, body, contentType)
	return args.Error(0)
}

func (m *MockS3Client) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockS3Client) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockS3Client) GetPresignedURL(ctx context.Context, bucket, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiration)
	return args.String(0), args.Error(1)
}

func TestFetchFromBucket(t *testing.T) {
	s3 := new(MockS3Client)
	s3.On("Download", mock.Anything, "assets-bucket", "shops/abc/logo.png").
		Return(io.NopCloser(bytes.NewReader([]byte("png-bytes"))), nil)

	store := NewStore(s3, "assets-bucket", "", 0)
	data, err := store.Fetch(context.Background(), "/shops/abc/logo.png")

	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	s3.AssertExpectations(t)
}

func TestFetchPropagatesErrors(t *testing.T) {
	s3 := new(MockS3Client)
	s3.On("Download", mock.Anything, "assets-bucket", "logo.JPG").Return(nil, errors.New("access denied"))

	store := NewStore(s3, "assets-bucket", "", 0)
	_, err := store.Fetch(context.Background(), "logo.JPG")

	assert.EqualError(t, err, "access denied")
}

func TestFetchEnforcesSizeLimit(t *testing.T) {
	s3 := new(MockS3Client)
	s3.On("Download", mock.Anything, "assets-bucket", "big.png").
		Return(io.NopCloser(bytes.NewReader(make([]byte, 11))), nil)

	store := NewStore(s3, "assets-bucket", "", 10)
	_, err := store.Fetch(context.Background(), "big.png")

	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestFetchWithoutBucketReadsLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("local"), 0o600))

	store := NewStore(nil, "", dir, 0)
	data, err := store.Fetch(context.Background(), "shops/abc/logo.png")

	require.NoError(t, err)
	assert.Equal(t, []byte("local"), data)
}

func TestFetchLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sign.png"), []byte("signature"), 0o600))
	store := NewStore(nil, "", dir, 0)

	data, err := store.FetchLocal("sign.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("signature"), data)

	// traversal collapses to the base name inside the directory
	data, err = store.FetchLocal("../../sign.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("signature"), data)

	_, err = store.FetchLocal("missing.png")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = store.FetchLocal("..")
	assert.Error(t, err)

	_, err = NewStore(nil, "", "", 0).FetchLocal("sign.png")
	assert.ErrorIs(t, err, ErrNoLocalAssets)
}
