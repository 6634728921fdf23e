package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"
)

type S3Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string
	Folder          string
}

// S3Gateway работает с любым S3-совместимым хранилищем (AWS, R2, Yandex Object Storage)
type S3Gateway struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
	folder   string
}

func NewS3Gateway(ctx context.Context, opts S3Options) (*S3Gateway, error) {
	const op = "objectstore.NewS3Gateway"

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return newS3Gateway(client, opts), nil
}

func newS3Gateway(client *s3.Client, opts S3Options) *S3Gateway {
	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		switch {
		case opts.Endpoint != "":
			baseURL = joinURL(opts.Endpoint, opts.Bucket)
		default:
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	return &S3Gateway{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		baseURL:  baseURL,
		folder:   opts.Folder,
	}
}

func (g *S3Gateway) Store(ctx context.Context, data []byte, opts UploadOptions) (*models.StoredObject, error) {
	const op = "objectstore.S3Gateway.Store"

	folder := opts.Folder
	if folder == "" {
		folder = g.folder
	}

	info := describe(data, opts.ContentType)
	key, assetID := newObjectKey(folder, info.format)

	input := &s3.PutObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	if _, err := g.uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.StoredObject{
		URL:      joinURL(g.baseURL, key),
		AssetID:  assetID,
		PublicID: key,
		Format:   info.format,
		Width:    info.width,
		Height:   info.height,
		Bytes:    int64(len(data)),
	}, nil
}

func (g *S3Gateway) Remove(ctx context.Context, publicID string) (*RemoveResult, error) {
	const op = "objectstore.S3Gateway.Remove"

	if publicID == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidObjectKey)
	}

	// DeleteObject не сообщает об отсутствии ключа, поэтому сначала HeadObject
	_, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		if isS3NotFound(err) {
			return &RemoveResult{Result: ResultNotFound}, fmt.Errorf("%s: %s: %w", op, publicID, storage.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RemoveResult{Result: ResultOK}, nil
}

func isS3NotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	return false
}
