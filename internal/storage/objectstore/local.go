package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"
)

// LocalGateway хранит изображения на локальном диске и отдаёт их через /uploads
type LocalGateway struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:4000/uploads")
	folder  string
}

func NewLocalGateway(baseDir, baseURL, folder string) (*LocalGateway, error) {
	const op = "objectstore.NewLocalGateway"

	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &LocalGateway{
		baseDir: baseDir,
		baseURL: baseURL,
		folder:  folder,
	}, nil
}

func (g *LocalGateway) Store(ctx context.Context, data []byte, opts UploadOptions) (*models.StoredObject, error) {
	const op = "objectstore.LocalGateway.Store"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	folder := opts.Folder
	if folder == "" {
		folder = g.folder
	}

	info := describe(data, opts.ContentType)
	key, assetID := newObjectKey(folder, info.format)

	filePath, err := g.resolve(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("%s: failed to create directories: %w", op, err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create destination file: %w", op, err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, bytes.NewReader(data))
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return nil, fmt.Errorf("%s: failed to copy file: %w", op, copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	}

	return &models.StoredObject{
		URL:      joinURL(g.baseURL, key),
		AssetID:  assetID,
		PublicID: key,
		Format:   info.format,
		Width:    info.width,
		Height:   info.height,
		Bytes:    size,
	}, nil
}

func (g *LocalGateway) Remove(ctx context.Context, publicID string) (*RemoveResult, error) {
	const op = "objectstore.LocalGateway.Remove"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	filePath, err := g.resolve(publicID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &RemoveResult{Result: ResultNotFound}, fmt.Errorf("%s: %s: %w", op, publicID, storage.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RemoveResult{Result: ResultOK}, nil
}

// BaseDir каталог, который раздаётся статикой
func (g *LocalGateway) BaseDir() string {
	return g.baseDir
}

// resolve не даёт ключу выйти за пределы baseDir
func (g *LocalGateway) resolve(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) {
		return "", storage.ErrInvalidObjectKey
	}

	base, err := filepath.Abs(g.baseDir)
	if err != nil {
		return "", err
	}

	full := filepath.Join(base, filepath.FromSlash(key))
	if !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", storage.ErrInvalidObjectKey
	}

	return full, nil
}
