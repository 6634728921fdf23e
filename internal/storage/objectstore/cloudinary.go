package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"
)

// автоматический подбор качества и формата на стороне Cloudinary
const cloudinaryTransformation = "q_auto,f_auto"

type CloudinaryGateway struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryGateway(cloudName, apiKey, apiSecret, folder string) (*CloudinaryGateway, error) {
	const op = "objectstore.NewCloudinaryGateway"

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &CloudinaryGateway{
		cld:    cld,
		folder: folder,
	}, nil
}

func (g *CloudinaryGateway) Store(ctx context.Context, data []byte, opts UploadOptions) (*models.StoredObject, error) {
	const op = "objectstore.CloudinaryGateway.Store"

	folder := opts.Folder
	if folder == "" {
		folder = g.folder
	}

	resp, err := g.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:         folder,
		ResourceType:   "image",
		Transformation: cloudinaryTransformation,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("%s: %s", op, resp.Error.Message)
	}

	obj := &models.StoredObject{
		URL:      resp.SecureURL,
		AssetID:  resp.AssetID,
		PublicID: resp.PublicID,
		Format:   resp.Format,
		Width:    int(resp.Width),
		Height:   int(resp.Height),
		Bytes:    int64(resp.Bytes),
	}
	if !obj.Complete() {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrIncompleteDescriptor)
	}

	return obj, nil
}

func (g *CloudinaryGateway) Remove(ctx context.Context, publicID string) (*RemoveResult, error) {
	const op = "objectstore.CloudinaryGateway.Remove"

	resp, err := g.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("%s: %s", op, resp.Error.Message)
	}

	result := &RemoveResult{Result: resp.Result}
	if resp.Result == ResultNotFound {
		return result, fmt.Errorf("%s: %s: %w", op, publicID, storage.ErrObjectNotFound)
	}

	return result, nil
}
