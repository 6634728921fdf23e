package objectstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/storage"
)

// fakeCloudinary отвечает на upload и destroy так же, как Upload API
type fakeCloudinary struct {
	mu        sync.Mutex
	uploads   []map[string]string
	destroyed []string
	upload    map[string]interface{}
	destroy   map[string]interface{}
}

func (f *fakeCloudinary) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]interface{}
	switch {
	case strings.HasSuffix(r.URL.Path, "/demo/auto/upload"):
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.uploads = append(f.uploads, map[string]string{
			"folder":         r.FormValue("folder"),
			"transformation": r.FormValue("transformation"),
			"api_key":        r.FormValue("api_key"),
		})
		body = f.upload
	case strings.HasSuffix(r.URL.Path, "/demo/image/destroy"):
		_ = r.ParseForm()
		f.destroyed = append(f.destroyed, r.FormValue("public_id"))
		body = f.destroy
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func setupCloudinaryGateway(t *testing.T) (*CloudinaryGateway, *fakeCloudinary) {
	t.Helper()

	fake := &fakeCloudinary{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	g, err := NewCloudinaryGateway("demo", "key", "secret", "astro-photos")
	require.NoError(t, err)
	g.cld.Upload.Config.API.UploadPrefix = srv.URL

	return g, fake
}

func TestCloudinaryGateway_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("upload result maps to stored object", func(t *testing.T) {
		g, fake := setupCloudinaryGateway(t)
		fake.upload = map[string]interface{}{
			"asset_id":   "3515c6000a548515f1134043f9785c2f",
			"public_id":  "astro-photos/m42",
			"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/astro-photos/m42.jpg",
			"url":        "http://res.cloudinary.com/demo/image/upload/v1/astro-photos/m42.jpg",
			"format":     "jpg",
			"width":      1920,
			"height":     1080,
			"bytes":      245760,
		}

		obj, err := g.Store(ctx, []byte("jpeg bytes"), UploadOptions{ContentType: "image/jpeg"})
		require.NoError(t, err)

		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/astro-photos/m42.jpg", obj.URL)
		assert.Equal(t, "3515c6000a548515f1134043f9785c2f", obj.AssetID)
		assert.Equal(t, "astro-photos/m42", obj.PublicID)
		assert.Equal(t, "jpg", obj.Format)
		assert.Equal(t, 1920, obj.Width)
		assert.Equal(t, 1080, obj.Height)
		assert.Equal(t, int64(245760), obj.Bytes)

		require.Len(t, fake.uploads, 1)
		assert.Equal(t, "astro-photos", fake.uploads[0]["folder"])
		assert.Equal(t, cloudinaryTransformation, fake.uploads[0]["transformation"])
		assert.Equal(t, "key", fake.uploads[0]["api_key"])
	})

	t.Run("folder override", func(t *testing.T) {
		g, fake := setupCloudinaryGateway(t)
		fake.upload = map[string]interface{}{
			"asset_id":   "a1",
			"public_id":  "other/m31",
			"secure_url": "https://res.cloudinary.com/demo/image/upload/other/m31.png",
		}

		_, err := g.Store(ctx, []byte("png bytes"), UploadOptions{Folder: "other"})
		require.NoError(t, err)
		assert.Equal(t, "other", fake.uploads[0]["folder"])
	})

	t.Run("api error", func(t *testing.T) {
		g, fake := setupCloudinaryGateway(t)
		fake.upload = map[string]interface{}{
			"error": map[string]string{"message": "Invalid image file"},
		}

		obj, err := g.Store(ctx, []byte("broken"), UploadOptions{})
		assert.Nil(t, obj)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid image file")
	})

	t.Run("incomplete result", func(t *testing.T) {
		g, fake := setupCloudinaryGateway(t)
		fake.upload = map[string]interface{}{
			"public_id":  "astro-photos/m42",
			"secure_url": "https://res.cloudinary.com/demo/image/upload/astro-photos/m42.jpg",
		}

		_, err := g.Store(ctx, []byte("jpeg bytes"), UploadOptions{})
		assert.ErrorIs(t, err, storage.ErrIncompleteDescriptor)
	})
}

func TestCloudinaryGateway_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		g, fake := setupCloudinaryGateway(t)
		fake.destroy = map[string]interface{}{"result": "ok"}

		res, err := g.Remove(ctx, "astro-photos/m42")
		require.NoError(t, err)
		assert.Equal(t, ResultOK, res.Result)
		assert.Equal(t, []string{"astro-photos/m42"}, fake.destroyed)
	})

	t.Run("not found keeps result", func(t *testing.T) {
		g, fake := setupCloudinaryGateway(t)
		fake.destroy = map[string]interface{}{"result": "not found"}

		res, err := g.Remove(ctx, "astro-photos/gone")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
		require.NotNil(t, res)
		assert.Equal(t, ResultNotFound, res.Result)
	})

	t.Run("api error", func(t *testing.T) {
		g, fake := setupCloudinaryGateway(t)
		fake.destroy = map[string]interface{}{
			"error": map[string]string{"message": "Invalid Signature"},
		}

		res, err := g.Remove(ctx, "astro-photos/m42")
		assert.Nil(t, res)
		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrObjectNotFound)
	})
}
