package http_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"
	"photoshare/internal/storage/objectstore"
)

// memoryPhotoRepo хранилище записей в памяти для тестов обработчиков
type memoryPhotoRepo struct {
	mu     sync.Mutex
	seq    int
	now    time.Time
	photos map[string]models.Photo
	err    error
}

func newMemoryPhotoRepo() *memoryPhotoRepo {
	return &memoryPhotoRepo{
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		photos: make(map[string]models.Photo),
	}
}

func (r *memoryPhotoRepo) Create(_ context.Context, photo *models.Photo) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	photo.Normalize()
	if err := photo.Validate(); err != nil {
		return nil, err
	}

	r.seq++
	r.now = r.now.Add(time.Second)

	created := *photo
	created.ID = fmt.Sprintf("%024x", r.seq)
	created.CreatedAt, created.UpdatedAt = r.now, r.now
	r.photos[created.ID] = created

	return &created, nil
}

func (r *memoryPhotoRepo) FindByID(_ context.Context, id string) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[id]
	if !ok {
		return nil, storage.ErrPhotoNotFound
	}
	return &p, nil
}

func (r *memoryPhotoRepo) sorted() []models.Photo {
	all := make([]models.Photo, 0, len(r.photos))
	for _, p := range r.photos {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all
}

func (r *memoryPhotoRepo) List(_ context.Context, params models.ListParams) ([]models.Photo, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, 0, r.err
	}

	params = params.Normalize()
	all := r.sorted()

	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PageSize
	if end > len(all) {
		end = len(all)
	}

	return all[start:end], int64(len(all)), nil
}

func (r *memoryPhotoRepo) Search(_ context.Context, query string) ([]models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := strings.ToLower(query)
	found := make([]models.Photo, 0)
	for _, p := range r.sorted() {
		if strings.Contains(strings.ToLower(p.Title), q) {
			found = append(found, p)
			continue
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				found = append(found, p)
				break
			}
		}
	}
	return found, nil
}

func (r *memoryPhotoRepo) DeleteByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.photos[id]; !ok {
		return false, nil
	}
	delete(r.photos, id)
	return true, nil
}

// memoryGateway хранилище объектов в памяти
type memoryGateway struct {
	mu      sync.Mutex
	seq     int
	objects map[string][]byte
	calls   int
	err     error
}

func newMemoryGateway() *memoryGateway {
	return &memoryGateway{objects: make(map[string][]byte)}
}

func (g *memoryGateway) Store(_ context.Context, data []byte, opts objectstore.UploadOptions) (*models.StoredObject, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.err != nil {
		return nil, g.err
	}

	g.seq++
	publicID := fmt.Sprintf("%s/photo-%d", opts.Folder, g.seq)
	g.objects[publicID] = data

	return &models.StoredObject{
		URL:      "https://res.cloudinary.com/demo/image/upload/" + publicID,
		AssetID:  fmt.Sprintf("asset-%d", g.seq),
		PublicID: publicID,
		Format:   "png",
		Bytes:    int64(len(data)),
	}, nil
}

func (g *memoryGateway) Remove(_ context.Context, publicID string) (*objectstore.RemoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.err != nil {
		return nil, g.err
	}

	if _, ok := g.objects[publicID]; !ok {
		return &objectstore.RemoveResult{Result: objectstore.ResultNotFound}, storage.ErrObjectNotFound
	}
	delete(g.objects, publicID)
	return &objectstore.RemoveResult{Result: objectstore.ResultOK}, nil
}

func (g *memoryGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// memoryOrphanRepo журнал рассогласований в памяти, новые первыми
type memoryOrphanRepo struct {
	mu      sync.Mutex
	orphans []models.Orphan
}

func (r *memoryOrphanRepo) SaveOrphan(_ context.Context, orphan models.Orphan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orphans = append([]models.Orphan{orphan}, r.orphans...)
	return nil
}

func (r *memoryOrphanRepo) ListOrphans(_ context.Context, limit int64) ([]models.Orphan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.orphans))
	if limit < n {
		n = limit
	}
	return append([]models.Orphan{}, r.orphans[:n]...), nil
}

var errUpstream = errors.New("upstream unavailable")
