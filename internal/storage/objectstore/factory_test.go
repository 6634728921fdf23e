package objectstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/config"
	"photoshare/internal/storage/objectstore"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("local", func(t *testing.T) {
		g, err := objectstore.New(ctx, config.ObjectStoreConfig{
			Driver: config.ObjectStoreLocal,
			Folder: "astro-photos",
			Local:  config.LocalConfig{BaseDir: t.TempDir(), BaseURL: "http://localhost:4000/uploads"},
		})
		require.NoError(t, err)
		assert.IsType(t, &objectstore.LocalGateway{}, g)
	})

	t.Run("cloudinary", func(t *testing.T) {
		g, err := objectstore.New(ctx, config.ObjectStoreConfig{
			Driver: config.ObjectStoreCloudinary,
			Cloudinary: config.CloudinaryConfig{
				CloudName: "demo",
				APIKey:    "key",
				APISecret: "secret",
			},
		})
		require.NoError(t, err)
		assert.IsType(t, &objectstore.CloudinaryGateway{}, g)
	})

	t.Run("unknown driver", func(t *testing.T) {
		g, err := objectstore.New(ctx, config.ObjectStoreConfig{Driver: "ftp"})
		assert.Error(t, err)
		assert.Nil(t, g)
	})
}
