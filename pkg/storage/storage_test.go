package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	apperrors "hotelbooking/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestR2Storage_Put(t *testing.T) {
	client := &fakeS3{}
	s := newR2Storage(client, "rooms", "https://cdn.example.com/")
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	url, err := s.Put(context.Background(), "suite.jpg", "image/jpeg", []byte("jpeg"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/1700000000123-suite.jpg", url)
	assert.Equal(t, "rooms", aws.ToString(client.input.Bucket))
	assert.Equal(t, "images/1700000000123-suite.jpg", aws.ToString(client.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(client.input.ContentType))
	assert.Equal(t, []byte("jpeg"), client.body)
}

func TestR2Storage_KeyStripsDirectories(t *testing.T) {
	s := newR2Storage(&fakeS3{}, "b", "https://cdn.example.com")
	s.now = func() time.Time { return time.UnixMilli(1) }

	assert.Equal(t, "images/1-evil.png", s.objectKey("../../evil.png"))
	assert.Equal(t, "images/1-photo.png", s.objectKey(`C:\Users\me\photo.png`))
	assert.Equal(t, "images/1-upload", s.objectKey(""))
}

func TestR2Storage_UploadFailure(t *testing.T) {
	s := newR2Storage(&fakeS3{err: errors.New("access denied")}, "b", "https://cdn.example.com")

	_, err := s.Put(context.Background(), "a.jpg", "image/jpeg", []byte("x"))

	assert.ErrorContains(t, err, "access denied")
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Put(context.Background(), "a.jpg", "image/jpeg", nil)

	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnavailable))
}
