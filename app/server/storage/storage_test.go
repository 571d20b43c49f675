package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckKey(t *testing.T) {
	for _, key := range []string{"uploads/recipe/a.png", "a.png"} {
		assert.NoError(t, checkKey(key), key)
	}
	for _, key := range []string{"", "/etc/passwd", "../a.png", "uploads/../../a", "uploads//a", "a\\b", "uploads/."} {
		assert.ErrorIs(t, checkKey(key), ErrInvalidKey, key)
	}
}

func TestLocalStorage(t *testing.T) {
	root := filepath.Join(t.TempDir(), "media")
	s, err := NewLocalStorage(root, "/static/media/")
	require.NoError(t, err)
	ctx := context.Background()

	key := "uploads/recipe/test.png"
	require.NoError(t, s.Save(ctx, key, strings.NewReader("image bytes"), 11, "image/png"))

	content, err := os.ReadFile(filepath.Join(root, "uploads", "recipe", "test.png"))
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(content))

	// 覆盖写入
	require.NoError(t, s.Save(ctx, key, strings.NewReader("new"), 3, "image/png"))
	content, err = os.ReadFile(filepath.Join(root, "uploads", "recipe", "test.png"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	assert.Equal(t, "/static/media/uploads/recipe/test.png", s.URL(key))

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, "uploads", "recipe", "test.png"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Delete(ctx, key))

	assert.ErrorIs(t, s.Save(ctx, "../escape.png", strings.NewReader("x"), 1, ""), ErrInvalidKey)

	// 不留下临时文件
	entries, err := os.ReadDir(filepath.Join(root, "uploads", "recipe"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type fakeObjects struct {
	puts    []*s3.PutObjectInput
	bodies  []string
	deletes []string
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	fake := &fakeObjects{}
	s := &S3Storage{client: fake, bucket: "media", publicURL: "https://cdn.example.com/"}
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "uploads/recipe/a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "media", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "uploads/recipe/a.jpg", aws.ToString(fake.puts[0].Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.puts[0].ContentType))
	assert.EqualValues(t, 4, aws.ToInt64(fake.puts[0].ContentLength))
	assert.Equal(t, "jpeg", fake.bodies[0])

	require.NoError(t, s.Delete(ctx, "uploads/recipe/a.jpg"))
	assert.Equal(t, []string{"uploads/recipe/a.jpg"}, fake.deletes)

	assert.Equal(t, "https://cdn.example.com/uploads/recipe/a.jpg", s.URL("uploads/recipe/a.jpg"))

	fake.err = errors.New("access denied")
	assert.ErrorIs(t, s.Save(ctx, "uploads/recipe/b.jpg", strings.NewReader("x"), 1, ""), fake.err)
	assert.ErrorIs(t, s.Save(ctx, "../b.jpg", strings.NewReader("x"), 1, ""), ErrInvalidKey)
}

func TestNewS3StoragePublicURL(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "none"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "none"))

	s, err := NewS3Storage(context.Background(), S3Options{
		Bucket:    "media",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/media/a.png", s.URL("a.png"))

	s, err = NewS3Storage(context.Background(), S3Options{Bucket: "media", Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/a.png", s.URL("a.png"))
}
