package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"photoshare/internal/domain/models"
	"photoshare/internal/lib/logger/sl"
	"photoshare/internal/metrics"
	"photoshare/internal/repository"
	"photoshare/internal/storage"
	"photoshare/internal/storage/objectstore"
	"photoshare/internal/transport/http/dto"
)

var (
	ErrStorageFailed       = errors.New("object storage upload failed")
	ErrPersistFailed       = errors.New("photo record was not saved")
	ErrStorageDeleteFailed = errors.New("object storage delete failed")
	ErrRecordDeleteFailed  = errors.New("photo record was not deleted")
)

type PhotoService struct {
	log     *slog.Logger
	photos  repository.PhotoRepository
	orphans repository.OrphanRepository
	store   objectstore.Gateway
	policy  GatePolicy
	folder  string
}

func NewPhotoService(
	log *slog.Logger,
	photos repository.PhotoRepository,
	orphans repository.OrphanRepository,
	store objectstore.Gateway,
	policy GatePolicy,
	folder string,
) *PhotoService {
	return &PhotoService{
		log:     log,
		photos:  photos,
		orphans: orphans,
		store:   store,
		policy:  policy,
		folder:  folder,
	}
}

// UploadPhoto проверяет файл, кладёт его в хранилище и только потом создаёт запись.
// Каждый шаг выполняется после успеха предыдущего, повторов нет.
func (s *PhotoService) UploadPhoto(ctx context.Context, input dto.PhotoUploadInput) (*models.Photo, error) {
	const op = "photo_service.UploadPhoto"

	log := s.log.With(
		slog.String("op", op),
	)

	// 1. Проверка файла и полей формы
	fileInfo := FileInfo{}
	if input.File != nil && input.File.Data != nil {
		fileInfo = FileInfo{
			Present:     true,
			ContentType: input.File.ContentType,
			Size:        int64(len(input.File.Data)),
		}
	}

	if err := CheckUpload(fileInfo, s.policy); err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		log.Warn("upload rejected", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photo := input.ToDomain()
	if err := photo.ValidateMetadata(); err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		log.Warn("upload rejected", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(
		slog.String("filename", input.File.Filename),
		slog.Int64("size", fileInfo.Size),
	)

	// 2. Загрузка в хранилище
	start := time.Now()
	obj, err := s.store.Store(ctx, input.File.Data, objectstore.UploadOptions{
		Folder:      s.folder,
		ContentType: input.File.ContentType,
		Filename:    input.File.Filename,
	})
	metrics.StorageDuration.WithLabelValues("store").Observe(time.Since(start).Seconds())
	if err == nil && !obj.Complete() {
		err = storage.ErrIncompleteDescriptor
	}
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("storage_failed").Inc()
		log.Error("failed to store image", sl.Err(err))

		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageFailed, err)
	}

	log.Debug("image stored",
		slog.String("public_id", obj.PublicID),
		slog.String("format", obj.Format),
		slog.Int("width", obj.Width),
		slog.Int("height", obj.Height),
	)

	// 3. Сохранение записи
	photo.AttachStorage(*obj)

	created, err := s.photos.Create(ctx, &photo)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("persist_failed").Inc()
		log.Error("failed to save photo record", sl.Err(err))

		// объект в хранилище остаётся, компенсирующего удаления нет
		s.journal(ctx, models.Orphan{
			Kind:     models.OrphanRemoteObject,
			PublicID: obj.PublicID,
			ImageURL: obj.URL,
			Reason:   err.Error(),
		})

		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistFailed, err)
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	log.Info("photo uploaded", slog.String("id", created.ID))

	return created, nil
}

// DeletePhoto удаляет объект из хранилища и только после этого запись.
// Отсутствие объекта в хранилище не считается ошибкой.
func (s *PhotoService) DeletePhoto(ctx context.Context, id string) (*objectstore.RemoveResult, error) {
	const op = "photo_service.DeletePhoto"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	photo, err := s.photos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			metrics.DeletesTotal.WithLabelValues("not_found").Inc()
			log.Info("photo not found")
		} else {
			metrics.DeletesTotal.WithLabelValues("record_failed").Inc()
			log.Error("failed to find photo", sl.Err(err))
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("public_id", photo.PublicID))

	start := time.Now()
	result, err := s.store.Remove(ctx, photo.PublicID)
	metrics.StorageDuration.WithLabelValues("remove").Observe(time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			metrics.DeletesTotal.WithLabelValues("storage_failed").Inc()
			log.Error("failed to remove image from storage", sl.Err(err))

			return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageDeleteFailed, err)
		}

		log.Warn("image already absent in storage")
		if result == nil {
			result = &objectstore.RemoveResult{Result: objectstore.ResultNotFound}
		}
	}

	deleted, err := s.photos.DeleteByID(ctx, id)
	if err != nil {
		metrics.DeletesTotal.WithLabelValues("record_failed").Inc()
		log.Error("failed to delete photo record", sl.Err(err))

		s.journal(ctx, models.Orphan{
			Kind:     models.OrphanLocalRecord,
			PhotoID:  id,
			PublicID: photo.PublicID,
			ImageURL: photo.ImageURL,
			Reason:   err.Error(),
		})

		return nil, fmt.Errorf("%s: %w: %w", op, ErrRecordDeleteFailed, err)
	}
	if !deleted {
		log.Warn("photo record was already deleted")
	}

	metrics.DeletesTotal.WithLabelValues("ok").Inc()
	log.Info("photo deleted", slog.String("result", result.Result))

	return result, nil
}

func (s *PhotoService) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	const op = "photo_service.GetPhoto"

	photo, err := s.photos.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photo, nil
}

func (s *PhotoService) ListPhotos(ctx context.Context, params models.ListParams) ([]models.Photo, models.Pagination, error) {
	const op = "photo_service.ListPhotos"

	params = params.Normalize()

	photos, total, err := s.photos.List(ctx, params)
	if err != nil {
		s.log.Error("failed to list photos", slog.String("op", op), sl.Err(err))
		return nil, models.Pagination{}, fmt.Errorf("%s: %w", op, err)
	}

	return photos, models.NewPagination(params.Page, params.PageSize, total), nil
}

func (s *PhotoService) SearchPhotos(ctx context.Context, query string) ([]models.Photo, error) {
	const op = "photo_service.SearchPhotos"

	photos, err := s.photos.Search(ctx, query)
	if err != nil {
		s.log.Error("failed to search photos", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

const (
	DefaultOrphansLimit int64 = 50
	MaxOrphansLimit     int64 = 500
)

// ListOrphans отдаёт последние записи журнала рассогласований для ручной чистки
func (s *PhotoService) ListOrphans(ctx context.Context, limit int64) ([]models.Orphan, error) {
	const op = "photo_service.ListOrphans"

	if limit <= 0 {
		limit = DefaultOrphansLimit
	}
	if limit > MaxOrphansLimit {
		limit = MaxOrphansLimit
	}

	if s.orphans == nil {
		return []models.Orphan{}, nil
	}

	orphans, err := s.orphans.ListOrphans(ctx, limit)
	if err != nil {
		s.log.Error("failed to read orphans journal", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orphans, nil
}

// journal фиксирует рассогласование: лог, метрика и запись в журнал.
// Ничего не чинит.
func (s *PhotoService) journal(ctx context.Context, orphan models.Orphan) {
	const op = "photo_service.journal"

	orphan.CreatedAt = time.Now().UTC()

	metrics.OrphansTotal.WithLabelValues(string(orphan.Kind)).Inc()

	log := s.log.With(
		slog.String("op", op),
		slog.String("kind", string(orphan.Kind)),
		slog.String("public_id", orphan.PublicID),
		slog.String("photo_id", orphan.PhotoID),
	)
	log.Error("storage and record store are out of sync", slog.String("reason", orphan.Reason))

	if s.orphans == nil {
		return
	}

	// запрос клиента мог быть отменён, запись в журнал всё равно нужна
	if err := s.orphans.SaveOrphan(context.WithoutCancel(ctx), orphan); err != nil {
		log.Error("failed to journal orphan", sl.Err(err))
	}
}
