package gift

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"promo-admin/internal/model"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockObjectGetter is a mock implementation of ObjectGetter.
type MockObjectGetter struct {
	mock.Mock
}

func (m *MockObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

// mockLoader is a function-backed Loader.
type mockLoader struct {
	loadFunc func(ctx context.Context, path string) ([]model.Gift, error)
}

func (m *mockLoader) Load(ctx context.Context, path string) ([]model.Gift, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, path)
	}
	return nil, errors.New("not implemented")
}

func objectKey(bucket, key string) any {
	return mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return in.Bucket != nil && *in.Bucket == bucket && in.Key != nil && *in.Key == key
	})
}

func TestS3Loader_Load_Success(t *testing.T) {
	client := new(MockObjectGetter)
	body := gzipLines(t, []string{`{"id":7,"name":"Sticker pack","remaining":100}`})
	client.On("GetObject", mock.Anything, objectKey("promo-bucket", "gifts/a.gz")).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil)

	loader := NewS3LoaderWithClient(client, "promo-bucket", zerolog.Nop())
	gifts, err := loader.Load(context.Background(), "gifts/a.gz")

	require.NoError(t, err)
	require.Len(t, gifts, 1)
	assert.Equal(t, int64(7), gifts[0].ID)
	client.AssertExpectations(t)
}

func TestS3Loader_Load_GetObjectFails(t *testing.T) {
	client := new(MockObjectGetter)
	client.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	loader := NewS3LoaderWithClient(client, "promo-bucket", zerolog.Nop())
	gifts, err := loader.Load(context.Background(), "gifts/a.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket=promo-bucket, key=gifts/a.gz")
	assert.Nil(t, gifts)
}

func TestS3Loader_Load_CorruptObject(t *testing.T) {
	client := new(MockObjectGetter)
	client.On("GetObject", mock.Anything, mock.Anything).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("plain")))}, nil)

	loader := NewS3LoaderWithClient(client, "promo-bucket", zerolog.Nop())
	_, err := loader.Load(context.Background(), "gifts/a.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://promo-bucket/gifts/a.gz")
}

func TestFallbackLoader(t *testing.T) {
	s3Gifts := []model.Gift{{ID: 1, Name: "From S3"}}
	localGifts := []model.Gift{{ID: 2, Name: "From disk"}}

	tests := []struct {
		name         string
		s3Loader     Loader
		expected     []model.Gift
		expectError  bool
		fileFails    bool
		expectedPath string
	}{
		{
			name: "S3 succeeds with prefixed key",
			s3Loader: &mockLoader{loadFunc: func(_ context.Context, path string) ([]model.Gift, error) {
				if path != "gifts/catalog.gz" {
					return nil, errors.New("unexpected key " + path)
				}
				return s3Gifts, nil
			}},
			expected: s3Gifts,
		},
		{
			name: "S3 fails, falls back to local",
			s3Loader: &mockLoader{loadFunc: func(context.Context, string) ([]model.Gift, error) {
				return nil, errors.New("no such key")
			}},
			expected: localGifts,
		},
		{
			name:     "No S3 loader",
			s3Loader: nil,
			expected: localGifts,
		},
		{
			name: "Both fail",
			s3Loader: &mockLoader{loadFunc: func(context.Context, string) ([]model.Gift, error) {
				return nil, errors.New("no such key")
			}},
			fileFails:   true,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileLoader := &mockLoader{loadFunc: func(_ context.Context, path string) ([]model.Gift, error) {
				assert.Equal(t, "catalog.gz", path, "local path has no prefix")
				if tt.fileFails {
					return nil, errors.New("file not found")
				}
				return localGifts, nil
			}}

			loader := NewFallbackLoader(tt.s3Loader, fileLoader, "gifts/", zerolog.Nop())
			gifts, err := loader.Load(context.Background(), "catalog.gz")

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, gifts)
		})
	}
}
