package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// apiError implements smithy.APIError.
type apiError struct {
	code string
}

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

type mockS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	err          error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte), contentTypes: make(map[string]string)}
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(in.Key)] = data
	m.contentTypes[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	delete(m.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.objects[aws.ToString(in.Key)]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3RoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	s := NewS3(mock, "bucket", "exports", zap.NewNop())

	w, err := s.Write(ctx, "w1/proje.json")
	writeFile(t, w, err, `{"projectName":"x"}`)

	assert.Contains(t, mock.objects, "exports/w1/proje.json")
	assert.Equal(t, "application/json", mock.contentTypes["exports/w1/proje.json"])

	ok, err := s.Exists(ctx, "w1/proje.json")
	require.NoError(t, err)
	assert.True(t, ok)

	r, err := s.Read(ctx, "w1/proje.json")
	assert.Equal(t, `{"projectName":"x"}`, readFile(t, r, err))

	require.NoError(t, s.Delete(ctx, "w1/proje.json"))
	ok, err = s.Exists(ctx, "w1/proje.json")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Read(ctx, "w1/proje.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestS3WriterRejectsUseAfterClose(t *testing.T) {
	s := NewS3(newMockS3(), "bucket", "", zap.NewNop())
	w, err := s.Write(context.Background(), "a.json")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.ErrorIs(t, w.Close(), os.ErrClosed)
}

func TestS3Errors(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	mock.err = errors.New("access denied")
	s := NewS3(mock, "bucket", "", zap.NewNop())

	_, err := s.Read(ctx, "a.json")
	assert.ErrorIs(t, err, mock.err)
	assert.NotErrorIs(t, err, os.ErrNotExist)

	_, err = s.Exists(ctx, "a.json")
	assert.ErrorIs(t, err, mock.err)

	w, err := s.Write(ctx, "a.json")
	require.NoError(t, err)
	assert.ErrorIs(t, w.Close(), mock.err)
}

func TestBreakerStoreFailsFast(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	mock.err = errors.New("timeout")
	s := NewBreakerStore(NewS3(mock, "bucket", "", zap.NewNop()), "s3", zap.NewNop())

	var last error
	for i := 0; i < 10; i++ {
		_, last = s.Exists(ctx, "a.json")
	}
	assert.True(t, apperrors.IsType(last, apperrors.ErrorTypeUnavailable), "got %v", last)
}

func TestBreakerStoreMissingIsNotAFailure(t *testing.T) {
	ctx := context.Background()
	s := NewBreakerStore(NewS3(newMockS3(), "bucket", "", zap.NewNop()), "s3", zap.NewNop())

	for i := 0; i < 10; i++ {
		_, err := s.Read(ctx, "missing.json")
		assert.ErrorIs(t, err, os.ErrNotExist)
	}

	w, err := s.Write(ctx, "a.json")
	writeFile(t, w, err, "{}")
	ok, err := s.Exists(ctx, "a.json")
	require.NoError(t, err)
	assert.True(t, ok)
}
