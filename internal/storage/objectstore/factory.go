package objectstore

import (
	"context"
	"fmt"

	"photoshare/internal/config"
)

// New создаёт шлюз для драйвера из конфига
func New(ctx context.Context, cfg config.ObjectStoreConfig) (Gateway, error) {
	const op = "objectstore.New"

	var (
		g   Gateway
		err error
	)

	switch cfg.Driver {
	case config.ObjectStoreCloudinary:
		g, err = NewCloudinaryGateway(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Folder)
	case config.ObjectStoreS3:
		g, err = NewS3Gateway(ctx, S3Options{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
			Folder:          cfg.Folder,
		})
	case config.ObjectStoreMinio:
		g, err = NewMinioGateway(ctx, MinioOptions{
			Endpoint:      cfg.Minio.Endpoint,
			AccessKeyID:   cfg.Minio.AccessKeyID,
			SecretKey:     cfg.Minio.SecretKey,
			Bucket:        cfg.Minio.Bucket,
			UseSSL:        cfg.Minio.UseSSL,
			Region:        cfg.Minio.Region,
			PublicBaseURL: cfg.Minio.PublicBaseURL,
			Folder:        cfg.Folder,
		})
	case config.ObjectStoreLocal:
		g, err = NewLocalGateway(cfg.Local.BaseDir, cfg.Local.BaseURL, cfg.Folder)
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}
