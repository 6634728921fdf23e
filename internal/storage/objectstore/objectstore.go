package objectstore

import (
	"bytes"
	"context"
	"image"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"photoshare/internal/domain/models"
)

// Gateway интерфейс внешнего хранилища изображений.
// Store либо возвращает полное описание объекта, либо ошибку.
type Gateway interface {
	Store(ctx context.Context, data []byte, opts UploadOptions) (*models.StoredObject, error)
	Remove(ctx context.Context, publicID string) (*RemoveResult, error)
}

type UploadOptions struct {
	Folder      string
	ContentType string
	Filename    string
}

type RemoveResult struct {
	Result string `json:"result"`
}

const (
	ResultOK       = "ok"
	ResultNotFound = "not found"
)

type imageInfo struct {
	format string
	width  int
	height int
}

// describe читает заголовок изображения. Если формат не распознан,
// формат берётся из content type, размеры остаются нулевыми.
func describe(data []byte, contentType string) imageInfo {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		format := subtype(contentType)
		if !isPlainExt(format) {
			format = ""
		}
		return imageInfo{format: format}
	}

	return imageInfo{
		format: format,
		width:  cfg.Width,
		height: cfg.Height,
	}
}

func subtype(contentType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if _, sub, ok := strings.Cut(mediaType, "/"); ok {
		return sub
	}
	return ""
}

// newObjectKey строит ключ вида folder/<uuid>.<ext>; uuid служит asset id.
// Расширение берётся только из простого токена, иначе ключ остаётся без него.
func newObjectKey(folder, format string) (key, assetID string) {
	assetID = uuid.NewString()

	name := assetID
	if isPlainExt(format) {
		name += "." + format
	}

	if folder == "" {
		return name, assetID
	}

	key = path.Join(folder, name)
	// ключ обязан остаться внутри folder/<uuid>
	if prefix := path.Join(folder, assetID); !strings.HasPrefix(key, prefix) {
		key = prefix
	}

	return key, assetID
}

const maxExtLen = 10

// isPlainExt пропускает только [a-z0-9+-], без точек и слешей
func isPlainExt(ext string) bool {
	if ext == "" || len(ext) > maxExtLen {
		return false
	}

	for _, r := range ext {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '-':
		default:
			return false
		}
	}

	return true
}

func joinURL(base string, parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			escaped = append(escaped, p)
		}
	}

	return strings.TrimRight(base, "/") + "/" + strings.Join(escaped, "/")
}
