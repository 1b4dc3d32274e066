package storage

import (
	"context"
	"testing"
	"time"

	"github.com/partshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKeyID: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("reports every missing field", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
		assert.Contains(t, err.Error(), "access key is required")
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket:          "partshop-exports",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Endpoint:        "localhost:9000",
			UsePathStyle:    true,
		}, WithLogger(zaptest.NewLogger(t)), WithPresignExpiration(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "partshop-exports", s.Bucket())
		assert.Equal(t, time.Minute, s.presignExpiry)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "minio:9000", want: "https://minio:9000"},
		{in: "http://localhost:9000/", want: "http://localhost:9000"},
		{in: "https://s3.ap-south-1.amazonaws.com", want: "https://s3.ap-south-1.amazonaws.com"},
		{in: "http://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeEndpoint(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestS3ObjectStorage_PresignDownload(t *testing.T) {
	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:          "partshop-exports",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	url, expires, err := s.GenerateDownloadURL(context.Background(), "exports/stock/a.xlsx", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/partshop-exports/exports/stock/a.xlsx")
	assert.Contains(t, url, "X-Amz-Signature")
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expires, 5*time.Second)

	_, _, err = s.GenerateDownloadURL(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestMemoryObjectStorage(t *testing.T) {
	m := NewMemoryObjectStorage()
	ctx := context.Background()

	_, _, err := m.GenerateDownloadURL(ctx, "missing", 0)
	assert.Error(t, err)

	require.NoError(t, m.Upload(ctx, "k.xlsx", []byte("data"), "application/test"))
	data, ct, ok := m.Object("k.xlsx")
	require.True(t, ok)
	assert.Equal(t, "data", string(data))
	assert.Equal(t, "application/test", ct)

	url, _, err := m.GenerateDownloadURL(ctx, "k.xlsx", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "memory://exports/k.xlsx", url)

	assert.Error(t, m.Upload(ctx, "", nil, ""))
}
