package providers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = input
	f.body, _ = io.ReadAll(input.Body)
	return &manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/" + *input.Key}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestS3Store_UploadPublicURL(t *testing.T) {
	up := &fakeUploader{}
	store := newS3Store(up, "media", "https://cdn.example.com/")

	url, err := store.Upload(context.Background(), FolderGeneratedImages, pngHeader, "")
	require.NoError(t, err)

	key := *up.input.Key
	assert.True(t, strings.HasPrefix(key, FolderGeneratedImages+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+key, url)
	assert.Equal(t, "media", *up.input.Bucket)
	assert.Equal(t, "image/png", *up.input.ContentType)
	assert.Equal(t, pngHeader, up.body)
}

func TestS3Store_UploadLocationFallback(t *testing.T) {
	up := &fakeUploader{}
	store := newS3Store(up, "media", "")

	url, err := store.Upload(context.Background(), FolderBackgroundless, pngHeader, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/"+*up.input.Key, url)
}

func TestS3Store_UploadErrors(t *testing.T) {
	store := newS3Store(&fakeUploader{err: errors.New("denied")}, "media", "")

	_, err := store.Upload(context.Background(), "f", pngHeader, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")

	_, err = store.Upload(context.Background(), "f", nil, "")
	assert.Error(t, err)
}
