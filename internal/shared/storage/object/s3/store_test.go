package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/storage/object"
)

type fakeS3 struct {
	objects map[string][]byte
	lastPut *s3.PutObjectInput
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = body
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestPutOpenDeleteUnderPrefix(t *testing.T) {
	fake := newFakeS3()
	store := &Store{client: fake, bucket: "photos", prefix: normalizePrefix("/resume_photos/")}

	obj, err := store.Put(t.Context(), "user-1", "me.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.EqualValues(t, len(pngHeader), obj.Size)
	assert.True(t, strings.HasPrefix(obj.Key, object.OwnerPrefix("user-1")+"/"))
	assert.Contains(t, fake.objects, "resume_photos/"+obj.Key)
	assert.Equal(t, s3types.ServerSideEncryptionAes256, fake.lastPut.ServerSideEncryption)

	rc, err := store.Open(t.Context(), obj.Key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)

	require.NoError(t, store.Delete(t.Context(), obj.Key))
	_, err = store.Open(t.Context(), obj.Key)
	assert.ErrorIs(t, err, object.ErrNotFound)
}

func TestPutUsesKMSWhenConfigured(t *testing.T) {
	fake := newFakeS3()
	store := &Store{client: fake, bucket: "photos", kmsKeyID: "key-1"}

	_, err := store.Put(t.Context(), "user-1", "me.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, s3types.ServerSideEncryptionAwsKms, fake.lastPut.ServerSideEncryption)
	assert.Equal(t, "key-1", aws.ToString(fake.lastPut.SSEKMSKeyId))
}

func TestPutRejectsTraversal(t *testing.T) {
	store := &Store{client: newFakeS3(), bucket: "photos"}
	_, err := store.Put(t.Context(), "user-1", "../x.png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, object.ErrInvalidName)
}

func TestApplyPrefix(t *testing.T) {
	cases := map[string][3]string{
		"no prefix": {"", "user/photo.png", "user/photo.png"},
		"simple":    {"root", "user/photo.png", "root/user/photo.png"},
		"slashes":   {"/root/", "/user/photo.png", "root/user/photo.png"},
		"nested":    {"root/sub", "user/photo.png", "root/sub/user/photo.png"},
		"empty key": {"root", "", "root"},
	}
	for name, tc := range cases {
		assert.Equal(t, tc[2], applyPrefix(tc[0], tc[1]), name)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(t.Context(), "us-east-1", "", "", "")
	assert.Error(t, err)
}
