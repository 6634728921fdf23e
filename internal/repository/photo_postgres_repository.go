package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"
)

const photosTable = "photos"

var photoColumns = []string{
	"id",
	"title",
	"description",
	"image_category",
	"image_type",
	"user_phonenumber",
	"user_name",
	"user_email",
	"user_university",
	"image_url",
	"cloudinary_id",
	"public_id",
	"tags",
	"uploaded_by",
	"created_at",
	"updated_at",
}

// поля сортировки API -> колонки таблицы
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

// экранирование спецсимволов LIKE, чтобы запрос искался как есть
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PhotoPostgresRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPhotoPostgresRepository(db *pgxpool.Pool) *PhotoPostgresRepo {
	return &PhotoPostgresRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PhotoPostgresRepo) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	const op = "repository.PhotoPostgresRepo.Create"

	photo.Normalize()
	if err := photo.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	query, args, err := r.sb.Insert(photosTable).
		Columns(photoColumns...).
		Values(
			id,
			photo.Title,
			photo.Description,
			photo.ImageCategory,
			photo.ImageType,
			photo.UserPhonenumber,
			photo.UserName,
			photo.UserEmail,
			photo.UserUniversity,
			photo.ImageURL,
			photo.CloudinaryID,
			photo.PublicID,
			pq.Array(photo.Tags),
			photo.UploadedBy,
			now,
			now,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created := *photo
	created.ID = id.String()
	created.CreatedAt, created.UpdatedAt = now, now

	return &created, nil
}

func (r *PhotoPostgresRepo) FindByID(ctx context.Context, id string) (*models.Photo, error) {
	const op = "repository.PhotoPostgresRepo.FindByID"

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	query, args, err := r.sb.Select(photoColumns...).
		From(photosTable).
		Where(sq.Eq{"id": uid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	photo, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &photo, nil
}

func (r *PhotoPostgresRepo) List(ctx context.Context, params models.ListParams) ([]models.Photo, int64, error) {
	const op = "repository.PhotoPostgresRepo.List"

	params = params.Normalize()

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From(photosTable).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build count query: %w", op, err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	field, desc := params.SortField()
	column := sortColumns[field]
	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	query, args, err := r.sb.Select(photoColumns...).
		From(photosTable).
		OrderBy(column+" "+dir, "id "+dir).
		Limit(uint64(params.PageSize)).
		Offset(uint64(params.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	photos, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return photos, total, nil
}

func (r *PhotoPostgresRepo) Search(ctx context.Context, query string) ([]models.Photo, error) {
	const op = "repository.PhotoPostgresRepo.Search"

	builder := r.sb.Select(photoColumns...).
		From(photosTable).
		OrderBy("created_at DESC", "id DESC")

	if query != "" {
		pattern := "%" + likeEscaper.Replace(query) + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ?)", pattern),
		})
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	photos, err := r.query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

func (r *PhotoPostgresRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	const op = "repository.PhotoPostgresRepo.DeleteByID"

	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	query, args, err := r.sb.Delete(photosTable).
		Where(sq.Eq{"id": uid}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *PhotoPostgresRepo) query(ctx context.Context, query string, args ...interface{}) ([]models.Photo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	return photos, rows.Err()
}

func scanPhoto(row pgx.Row) (models.Photo, error) {
	var (
		p  models.Photo
		id uuid.UUID
	)

	err := row.Scan(
		&id,
		&p.Title,
		&p.Description,
		&p.ImageCategory,
		&p.ImageType,
		&p.UserPhonenumber,
		&p.UserName,
		&p.UserEmail,
		&p.UserUniversity,
		&p.ImageURL,
		&p.CloudinaryID,
		&p.PublicID,
		&p.Tags,
		&p.UploadedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return models.Photo{}, err
	}

	p.ID = id.String()
	if p.Tags == nil {
		p.Tags = []string{}
	}

	return p, nil
}
