package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"
)

type photoDocument struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	Title           string        `bson:"title"`
	Description     string        `bson:"description"`
	ImageCategory   string        `bson:"imageCatogory"`
	ImageType       string        `bson:"imageType"`
	UserPhonenumber string        `bson:"userPhonenumber"`
	UserName        string        `bson:"userName"`
	UserEmail       string        `bson:"userEmail"`
	UserUniversity  string        `bson:"userUnivercity"`
	ImageURL        string        `bson:"imageUrl"`
	CloudinaryID    string        `bson:"cloudinaryId"`
	PublicID        string        `bson:"publicId"`
	Tags            []string      `bson:"tags"`
	UploadedBy      string        `bson:"uploadedBy"`
	CreatedAt       time.Time     `bson:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt"`
}

func newPhotoDocument(p *models.Photo) photoDocument {
	return photoDocument{
		Title:           p.Title,
		Description:     p.Description,
		ImageCategory:   p.ImageCategory,
		ImageType:       p.ImageType,
		UserPhonenumber: p.UserPhonenumber,
		UserName:        p.UserName,
		UserEmail:       p.UserEmail,
		UserUniversity:  p.UserUniversity,
		ImageURL:        p.ImageURL,
		CloudinaryID:    p.CloudinaryID,
		PublicID:        p.PublicID,
		Tags:            p.Tags,
		UploadedBy:      p.UploadedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (d photoDocument) toModel() models.Photo {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.Photo{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Description:     d.Description,
		ImageCategory:   d.ImageCategory,
		ImageType:       d.ImageType,
		UserPhonenumber: d.UserPhonenumber,
		UserName:        d.UserName,
		UserEmail:       d.UserEmail,
		UserUniversity:  d.UserUniversity,
		ImageURL:        d.ImageURL,
		CloudinaryID:    d.CloudinaryID,
		PublicID:        d.PublicID,
		Tags:            tags,
		UploadedBy:      d.UploadedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type PhotoMongoRepo struct {
	coll *mongo.Collection
}

func NewPhotoMongoRepository(db *mongo.Database, collection string) *PhotoMongoRepo {
	return &PhotoMongoRepo{
		coll: db.Collection(collection),
	}
}

// EnsureIndexes создаёт индексы для сортировки по дате и поиска по тегам
func (r *PhotoMongoRepo) EnsureIndexes(ctx context.Context) error {
	const op = "repository.PhotoMongoRepo.EnsureIndexes"

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PhotoMongoRepo) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	const op = "repository.PhotoMongoRepo.Create"

	photo.Normalize()
	if err := photo.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Mongo хранит время с точностью до миллисекунд
	now := time.Now().UTC().Truncate(time.Millisecond)
	photo.CreatedAt, photo.UpdatedAt = now, now

	res, err := r.coll.InsertOne(ctx, newPhotoDocument(photo))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected inserted id type %T", op, res.InsertedID)
	}

	created := *photo
	created.ID = id.Hex()

	return &created, nil
}

func (r *PhotoMongoRepo) FindByID(ctx context.Context, id string) (*models.Photo, error) {
	const op = "repository.PhotoMongoRepo.FindByID"

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	var doc photoDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photo := doc.toModel()
	return &photo, nil
}

func (r *PhotoMongoRepo) List(ctx context.Context, params models.ListParams) ([]models.Photo, int64, error) {
	const op = "repository.PhotoMongoRepo.List"

	params = params.Normalize()

	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	field, desc := params.SortField()
	dir := 1
	if desc {
		dir = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.PageSize))

	photos, err := r.find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return photos, total, nil
}

func (r *PhotoMongoRepo) Search(ctx context.Context, query string) ([]models.Photo, error) {
	const op = "repository.PhotoMongoRepo.Search"

	filter := bson.D{}
	if query != "" {
		// запрос ищется как литерал, метасимволы regex экранируются
		re := bson.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		filter = bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "tags", Value: re}},
		}}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	photos, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

func (r *PhotoMongoRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	const op = "repository.PhotoMongoRepo.DeleteByID"

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

func (r *PhotoMongoRepo) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]models.Photo, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []photoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	photos := make([]models.Photo, 0, len(docs))
	for _, d := range docs {
		photos = append(photos, d.toModel())
	}

	return photos, nil
}
