package objectstore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/storage"
	"photoshare/internal/storage/objectstore"
)

// fakeMinio path-style S3 API: бакет и объекты в памяти
type fakeMinio struct {
	mu            sync.Mutex
	bucket        string
	bucketCreated bool
	objects       map[string][]byte
}

func (f *fakeMinio) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != f.bucket {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if key == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.bucketCreated {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			f.bucketCreated = true
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[key] = data
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		data, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Last-Modified", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeMinio) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.objects[key]
	return ok
}

func setupMinioGateway(t *testing.T) (*objectstore.MinioGateway, *fakeMinio) {
	t.Helper()

	fake := &fakeMinio{bucket: "images", objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	g, err := objectstore.NewMinioGateway(context.Background(), objectstore.MinioOptions{
		Endpoint:    strings.TrimPrefix(srv.URL, "http://"),
		AccessKeyID: "minioadmin",
		SecretKey:   "minioadmin",
		Bucket:      "images",
		Region:      "us-east-1",
		Folder:      "astro-photos",
	})
	require.NoError(t, err)

	return g, fake
}

func TestNewMinioGateway_CreatesBucket(t *testing.T) {
	_, fake := setupMinioGateway(t)

	assert.True(t, fake.bucketCreated)
}

func TestMinioGateway_StoreAndRemove(t *testing.T) {
	g, fake := setupMinioGateway(t)
	ctx := context.Background()
	data := pngBytes(t, 5, 7)

	obj, err := g.Store(ctx, data, objectstore.UploadOptions{ContentType: "image/png"})
	require.NoError(t, err)

	assert.True(t, obj.Complete())
	assert.True(t, strings.HasPrefix(obj.PublicID, "astro-photos/"+obj.AssetID))
	assert.True(t, strings.HasSuffix(obj.URL, "/images/"+obj.PublicID))
	assert.Equal(t, "png", obj.Format)
	assert.Equal(t, 5, obj.Width)
	assert.Equal(t, 7, obj.Height)
	assert.True(t, fake.has(obj.PublicID))

	res, err := g.Remove(ctx, obj.PublicID)
	require.NoError(t, err)
	assert.Equal(t, objectstore.ResultOK, res.Result)
	assert.False(t, fake.has(obj.PublicID))
}

func TestMinioGateway_RemoveMissing(t *testing.T) {
	g, _ := setupMinioGateway(t)

	res, err := g.Remove(context.Background(), "astro-photos/missing.png")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	require.NotNil(t, res)
	assert.Equal(t, objectstore.ResultNotFound, res.Result)

	_, err = g.Remove(context.Background(), "")
	assert.ErrorIs(t, err, storage.ErrInvalidObjectKey)
}
