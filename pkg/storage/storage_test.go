package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	exists      bool
	made        []string
	objects     map[string][]byte
	contentType map[string]string
	putErr      error
	removed     []string
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{
		exists:      true,
		objects:     map[string][]byte{},
		contentType: map[string]string{},
	}
}

func (f *fakeObjectAPI) BucketExists(context.Context, string) (bool, error) {
	return f.exists, nil
}

func (f *fakeObjectAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	f.exists = true
	return nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, _ string, key string, reader io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[key] = data
	f.contentType[key] = opts.ContentType
	return minio.UploadInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeObjectAPI) RemoveObject(_ context.Context, _ string, key string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeObjectAPI) PresignedGetObject(_ context.Context, bucket, key string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse("https://storage.local/" + bucket + "/" + key + "?sig=x")
}

func TestPutDetectsContentType(t *testing.T) {
	api := newFakeObjectAPI()
	client := newClient(api, "works", 1<<20, nil)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	obj, err := client.Put(context.Background(), "works/a/b-logo.png", png)
	require.NoError(t, err)

	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, int64(len(png)), obj.Size)
	assert.Equal(t, "image/png", api.contentType["works/a/b-logo.png"])
	assert.Equal(t, png, api.objects["works/a/b-logo.png"])
}

func TestPutRejectsOversizedFile(t *testing.T) {
	api := newFakeObjectAPI()
	client := newClient(api, "works", 4, nil)

	_, err := client.Put(context.Background(), "works/a/b-big.txt", []byte("too large"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, api.objects)
}

func TestPutWrapsBackendFailure(t *testing.T) {
	api := newFakeObjectAPI()
	api.putErr = errors.New("connection refused")
	client := newClient(api, "works", 0, nil)

	_, err := client.Put(context.Background(), "k", []byte("hello"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestRemoveAndPresign(t *testing.T) {
	api := newFakeObjectAPI()
	client := newClient(api, "works", 0, nil)
	ctx := context.Background()

	_, err := client.Put(ctx, "k", []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, client.Remove(ctx, "k"))
	assert.Equal(t, []string{"k"}, api.removed)

	link, err := client.PresignGet(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://storage.local/works/k"))
}

func TestEnsureBucketCreatesMissingBucket(t *testing.T) {
	api := newFakeObjectAPI()
	api.exists = false
	client := newClient(api, "works", 0, nil)

	require.NoError(t, client.ensureBucket(context.Background(), ""))
	assert.Equal(t, []string{"works"}, api.made)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestWorkFileKey(t *testing.T) {
	workID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fileID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t,
		"works/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222-brief.pdf",
		WorkFileKey(workID, fileID, "../../etc/brief.pdf"),
	)
	assert.Equal(t,
		"works/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222-file",
		WorkFileKey(workID, fileID, "  "),
	)
}
