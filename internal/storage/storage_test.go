package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Save(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "avatars")
	l, err := NewLocal(dir, "/avatars")
	require.NoError(t, err)

	url, err := l.Save(context.Background(), "u1_me.png", []byte("first"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/avatars/u1_me.png", url)

	_, err = l.Save(context.Background(), "u1_me.png", []byte("second"), "image/png")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "u1_me.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLocal_SaveStripsDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := NewLocal(dir, "/avatars")
	require.NoError(t, err)

	url, err := l.Save(context.Background(), "../../escape.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/avatars/escape.png", url)
	assert.FileExists(t, filepath.Join(dir, "escape.png"))
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3_Save(t *testing.T) {
	t.Parallel()

	fp := &fakePutter{}
	s := newS3WithClient(fp, "bucket", "http://127.0.0.1:9000/bucket/")

	url, err := s.Save(context.Background(), "u1_me.png", []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/bucket/avatars/u1_me.png", url)
	assert.Equal(t, "bucket", aws.ToString(fp.in.Bucket))
	assert.Equal(t, "avatars/u1_me.png", aws.ToString(fp.in.Key))
	assert.Equal(t, "image/png", aws.ToString(fp.in.ContentType))
	assert.Equal(t, "img", string(fp.body))
}

func TestS3_SaveError(t *testing.T) {
	t.Parallel()

	s := newS3WithClient(&fakePutter{err: errors.New("denied")}, "bucket", "http://x")
	_, err := s.Save(context.Background(), "a.png", []byte("img"), "image/png")
	assert.ErrorContains(t, err, "denied")
}

func TestNewS3(t *testing.T) {
	t.Parallel()

	s, err := NewS3(context.Background(), S3Options{
		Bucket:    "bucket",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "admin",
		SecretKey: "secret",
		PublicURL: "http://127.0.0.1:9000/bucket",
	})
	require.NoError(t, err)
	assert.Equal(t, "bucket", s.bucket)
}
