package repository

import (
	"context"

	"photoshare/internal/domain/models"
)

// PhotoRepository хранилище записей о фотографиях
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	FindByID(ctx context.Context, id string) (*models.Photo, error)
	// List возвращает страницу и общее число записей
	List(ctx context.Context, params models.ListParams) ([]models.Photo, int64, error)
	Search(ctx context.Context, query string) ([]models.Photo, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// OrphanRepository журнал рассогласований между хранилищем объектов и базой
type OrphanRepository interface {
	SaveOrphan(ctx context.Context, orphan models.Orphan) error
	ListOrphans(ctx context.Context, limit int64) ([]models.Orphan, error)
}
