package mediastore

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"amphomeus/internal/domain"
)

func newTestClient(t *testing.T) (*Client, *fakeS3) {
	t.Helper()

	fake, srv := newFakeS3(t, "journal-media")
	c, err := New(context.Background(), Config{
		Endpoint:      srv.URL,
		Region:        "us-east-1",
		Bucket:        "journal-media",
		AccessKey:     "test",
		SecretKey:     "test",
		PublicBaseURL: "https://cdn.example.com/",
		Folder:        "amphomeus",
		UsePathStyle:  true,
	}, zap.NewNop())
	require.NoError(t, err)

	c.now = func() time.Time { return time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC) }
	return c, fake
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpload_Image(t *testing.T) {
	c, fake := newTestClient(t)
	data := pngBytes(t, 40, 30)

	res, err := c.Upload(context.Background(), File{
		Name: "beach.png",
		Size: int64(len(data)),
		Body: bytes.NewReader(data),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MediaImage, res.MediaType)
	assert.True(t, strings.HasPrefix(res.PublicID, "amphomeus/2024/07/04/"))
	assert.True(t, strings.HasSuffix(res.PublicID, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+res.PublicID, res.URL)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, "beach", res.OriginalFilename)
	assert.Equal(t, int64(len(data)), res.Bytes)
	require.NotNil(t, res.Width)
	require.NotNil(t, res.Height)
	assert.Equal(t, 40, *res.Width)
	assert.Equal(t, 30, *res.Height)
	assert.True(t, fake.has(res.PublicID))
}

func TestUpload_RejectsBeforeNetwork(t *testing.T) {
	c, fake := newTestClient(t)

	_, err := c.Upload(context.Background(), File{
		Name: "huge.mp4",
		Size: 11 << 20,
		Body: bytes.NewReader(nil),
	})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	_, err = c.Upload(context.Background(), File{Name: "empty.png", Size: 0, Body: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, ErrEmptyFile)

	assert.Zero(t, fake.callCount())
}

func TestUpload_UnsupportedType(t *testing.T) {
	c, fake := newTestClient(t)
	data := []byte("just some notes, not a picture")

	_, err := c.Upload(context.Background(), File{Name: "notes.txt", Size: int64(len(data)), Body: bytes.NewReader(data)})
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Zero(t, fake.callCount())
}

func TestUpload_ProviderError(t *testing.T) {
	c, fake := newTestClient(t)
	fake.fail = true
	data := pngBytes(t, 2, 2)

	_, err := c.Upload(context.Background(), File{Name: "a.png", Size: int64(len(data)), Body: bytes.NewReader(data)})
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestDelete(t *testing.T) {
	c, fake := newTestClient(t)
	fake.put("amphomeus/2024/07/04/a.png", []byte("x"), time.Now())

	res, err := c.Delete(context.Background(), "amphomeus/2024/07/04/a.png")
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Result)
	assert.False(t, fake.has("amphomeus/2024/07/04/a.png"))

	res, err = c.Delete(context.Background(), "amphomeus/2024/07/04/a.png")
	require.NoError(t, err)
	assert.Equal(t, "not found", res.Result)

	_, err = c.Delete(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingPublicID)
}

func TestDelete_ProviderError(t *testing.T) {
	c, fake := newTestClient(t)
	fake.fail = true

	_, err := c.Delete(context.Background(), "amphomeus/x.png")
	assert.ErrorIs(t, err, ErrDeleteFailed)
}

func TestList(t *testing.T) {
	c, fake := newTestClient(t)
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fake.put("amphomeus/2024/01/01/a.png", []byte("abc"), old)
	fake.put("other/b.png", []byte("b"), old)

	objs, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "amphomeus/2024/01/01/a.png", objs[0].Key)
	assert.Equal(t, int64(3), objs[0].Size)
	assert.True(t, objs[0].LastModified.Equal(old))
}
