package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"
)

type MinioOptions struct {
	Endpoint      string
	AccessKeyID   string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	Region        string
	PublicBaseURL string
	Folder        string
}

type MinioGateway struct {
	client  *minio.Client
	bucket  string
	baseURL string
	folder  string
}

// NewMinioGateway подключается к MinIO и создаёт бакет, если его нет
func NewMinioGateway(ctx context.Context, opts MinioOptions) (*MinioGateway, error) {
	const op = "objectstore.NewMinioGateway"

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket)
	}

	return &MinioGateway{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: baseURL,
		folder:  opts.Folder,
	}, nil
}

func (g *MinioGateway) Store(ctx context.Context, data []byte, opts UploadOptions) (*models.StoredObject, error) {
	const op = "objectstore.MinioGateway.Store"

	folder := opts.Folder
	if folder == "" {
		folder = g.folder
	}

	info := describe(data, opts.ContentType)
	key, assetID := newObjectKey(folder, info.format)

	uploaded, err := g.client.PutObject(ctx, g.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.StoredObject{
		URL:      joinURL(g.baseURL, key),
		AssetID:  assetID,
		PublicID: key,
		Format:   info.format,
		Width:    info.width,
		Height:   info.height,
		Bytes:    uploaded.Size,
	}, nil
}

func (g *MinioGateway) Remove(ctx context.Context, publicID string) (*RemoveResult, error) {
	const op = "objectstore.MinioGateway.Remove"

	if publicID == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidObjectKey)
	}

	// RemoveObject молча проходит для несуществующих ключей
	if _, err := g.client.StatObject(ctx, g.bucket, publicID, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return &RemoveResult{Result: ResultNotFound}, fmt.Errorf("%s: %s: %w", op, publicID, storage.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := g.client.RemoveObject(ctx, g.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RemoveResult{Result: ResultOK}, nil
}
