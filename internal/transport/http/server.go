package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"photoshare/internal/domain/models"
	"photoshare/internal/lib/logger/sl"
	services "photoshare/internal/services/photo_service"
	"photoshare/internal/storage"
	"photoshare/internal/storage/objectstore"
	"photoshare/internal/transport/http/dto"
	"photoshare/internal/transport/http/dto/response"

	_ "photoshare/docs"
)

type PhotoService interface {
	UploadPhoto(ctx context.Context, input dto.PhotoUploadInput) (*models.Photo, error)
	DeletePhoto(ctx context.Context, id string) (*objectstore.RemoveResult, error)
	GetPhoto(ctx context.Context, id string) (*models.Photo, error)
	ListPhotos(ctx context.Context, params models.ListParams) ([]models.Photo, models.Pagination, error)
	SearchPhotos(ctx context.Context, query string) ([]models.Photo, error)
	ListOrphans(ctx context.Context, limit int64) ([]models.Orphan, error)
}

type Routers struct {
	log          *slog.Logger
	PhotoService PhotoService
	// exposeErrors разрешает отдавать текст внутренних ошибок (не prod)
	exposeErrors bool
}

func NewRouter(log *slog.Logger, photoService PhotoService, exposeErrors bool) *Routers {
	return &Routers{
		log:          log,
		PhotoService: photoService,
		exposeErrors: exposeErrors,
	}
}

// ExposeErrors сообщает, можно ли показывать клиенту текст внутренних ошибок
func (r *Routers) ExposeErrors() bool {
	return r.exposeErrors
}

// Health godoc
// @Summary Проверка работоспособности
// @Tags system
// @Produce json
// @Success 200 {object} response.Response "Сервер работает"
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Response{
		Success:   true,
		Message:   response.MsgServerRunning,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// UploadPhoto godoc
// @Summary Загрузка фотографии
// @Description Принимает изображение и метаданные, кладёт файл в хранилище и создаёт запись.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Изображение (image/*, до 10MB)"
// @Param title formData string false "Название" default(Untitled)
// @Param description formData string true "Описание"
// @Param imageCatogory formData string true "Категория (mobilephoto, DSLR)"
// @Param imageType formData string true "Модель камеры или телефона"
// @Param userName formData string true "Имя автора"
// @Param userEmail formData string true "Email автора"
// @Param userPhonenumber formData string true "Телефон автора"
// @Param userUnivercity formData string false "Университет"
// @Param tags formData string false "Теги через запятую"
// @Param uploadedBy formData string false "Кто загрузил" default(anonymous)
// @Success 201 {object} response.Response{data=models.Photo} "Фото загружено"
// @Failure 400 {object} response.Response "Нет файла, файл не изображение или не заполнены поля"
// @Failure 500 {object} response.Response "Ошибка хранилища или базы"
// @Router /api/upload [post]
func (r *Routers) UploadPhoto(c echo.Context) error {
	const op = "http.routers.UploadPhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	input, err := r.parsePhotoUploadInput(c)
	if err != nil {
		log.Warn("invalid upload request", sl.Err(err))
		return r.respondError(c, err, response.MsgUploadFailed)
	}

	photo, err := r.PhotoService.UploadPhoto(c.Request().Context(), input)
	if err != nil {
		return r.respondError(c, err, response.MsgUploadFailed)
	}

	return c.JSON(http.StatusCreated, response.Response{
		Success: true,
		Message: response.MsgPhotoUploaded,
		Data:    photo,
	})
}

// ListPhotos godoc
// @Summary Список фотографий
// @Description Постраничный список, по умолчанию новые первыми.
// @Tags photos
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы (до 100)" default(10)
// @Param sort query string false "Поле сортировки, '-' для убывания" Enums(-createdAt, createdAt, -updatedAt, updatedAt, title, -title)
// @Success 200 {object} response.Response{data=[]models.Photo,pagination=models.Pagination} "Страница фотографий"
// @Failure 500 {object} response.Response "Ошибка базы"
// @Router /api/photos [get]
func (r *Routers) ListPhotos(c echo.Context) error {
	params := models.ListParams{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "limit"),
		Sort:     c.QueryParam("sort"),
	}

	photos, pagination, err := r.PhotoService.ListPhotos(c.Request().Context(), params)
	if err != nil {
		return r.respondError(c, err, response.MsgFetchPhotosFailed)
	}

	return c.JSON(http.StatusOK, response.Response{
		Success:    true,
		Data:       photos,
		Pagination: &pagination,
	})
}

// SearchPhotos godoc
// @Summary Поиск фотографий
// @Description Поиск подстроки без учёта регистра в названии или любом теге. Пустой запрос возвращает все фото.
// @Tags photos
// @Produce json
// @Param query query string false "Строка поиска"
// @Success 200 {object} response.Response{data=[]models.Photo} "Найденные фото"
// @Failure 500 {object} response.Response "Ошибка базы"
// @Router /api/photos/search [get]
func (r *Routers) SearchPhotos(c echo.Context) error {
	photos, err := r.PhotoService.SearchPhotos(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return r.respondError(c, err, response.MsgSearchFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(photos))
}

// GetPhoto godoc
// @Summary Фотография по ID
// @Tags photos
// @Produce json
// @Param id path string true "ID фотографии"
// @Success 200 {object} response.Response{data=models.Photo} "Фото"
// @Failure 404 {object} response.Response "Фото не найдено"
// @Failure 500 {object} response.Response "Ошибка базы"
// @Router /api/photos/{id} [get]
func (r *Routers) GetPhoto(c echo.Context) error {
	photo, err := r.PhotoService.GetPhoto(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.respondError(c, err, response.MsgFetchPhotoFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(photo))
}

// DeletePhoto godoc
// @Summary Удаление фотографии
// @Description Сначала удаляет объект из хранилища, затем запись.
// @Tags photos
// @Produce json
// @Param id path string true "ID фотографии"
// @Success 200 {object} response.Response{cloudinaryResult=objectstore.RemoveResult} "Фото удалено"
// @Failure 404 {object} response.Response "Фото не найдено"
// @Failure 500 {object} response.Response "Ошибка хранилища или базы"
// @Router /api/photos/{id} [delete]
func (r *Routers) DeletePhoto(c echo.Context) error {
	result, err := r.PhotoService.DeletePhoto(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.respondError(c, err, response.MsgDeleteFailed)
	}

	return c.JSON(http.StatusOK, response.Response{
		Success:          true,
		Message:          response.MsgPhotoDeleted,
		CloudinaryResult: result,
	})
}

// ListOrphans godoc
// @Summary Журнал рассогласований
// @Description Последние записи о файлах без записи и записях без файла, новые первыми.
// @Tags system
// @Produce json
// @Param limit query int false "Сколько записей вернуть (до 500)" default(50)
// @Success 200 {object} response.Response{data=[]models.Orphan} "Записи журнала"
// @Failure 500 {object} response.Response "Журнал недоступен"
// @Router /debug/orphans [get]
func (r *Routers) ListOrphans(c echo.Context) error {
	orphans, err := r.PhotoService.ListOrphans(c.Request().Context(), int64(queryInt(c, "limit")))
	if err != nil {
		return r.respondError(c, err, response.MsgFetchOrphansFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(orphans))
}

// parsePhotoUploadInput читает multipart-форму. Запрос без формы считается запросом без файла.
func (r *Routers) parsePhotoUploadInput(c echo.Context) (dto.PhotoUploadInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return dto.PhotoUploadInput{}, nil
		}
		var (
			maxErr  *http.MaxBytesError
			httpErr *echo.HTTPError
		)
		if errors.As(err, &maxErr) {
			return dto.PhotoUploadInput{}, echo.ErrStatusRequestEntityTooLarge
		}
		if errors.As(err, &httpErr) {
			return dto.PhotoUploadInput{}, httpErr
		}
		return dto.PhotoUploadInput{}, &services.InputError{Message: "Invalid multipart form"}
	}

	var unknown []string
	for name := range form.File {
		if name != dto.FieldImage {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return dto.PhotoUploadInput{}, &dto.UnknownFieldsError{Fields: unknown}
	}

	var file *dto.UploadedFile
	if headers := form.File[dto.FieldImage]; len(headers) > 0 {
		file, err = readUploadedFile(headers[0])
		if err != nil {
			return dto.PhotoUploadInput{}, err
		}
	}

	return dto.NewPhotoUploadInput(url.Values(form.Value), file)
}

func readUploadedFile(fh *multipart.FileHeader) (*dto.UploadedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	return &dto.UploadedFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Data:        data,
	}, nil
}

// respondError переводит ошибку сервиса в HTTP-ответ
func (r *Routers) respondError(c echo.Context, err error, failMessage string) error {
	var (
		inputErr      *services.InputError
		validationErr *models.PhotoValidationError
		unknownErr    *dto.UnknownFieldsError
		httpErr       *echo.HTTPError
	)

	switch {
	case errors.As(err, &inputErr):
		return c.JSON(http.StatusBadRequest, response.ErrorResponse(inputErr.Message))
	case errors.As(err, &validationErr):
		resp := response.ErrorResponse(validationErr.Error())
		resp.Errors = validationErr.Errors
		return c.JSON(http.StatusBadRequest, resp)
	case errors.As(err, &unknownErr):
		return c.JSON(http.StatusBadRequest, response.ErrorResponse(unknownErr.Error()))
	case errors.Is(err, storage.ErrPhotoNotFound):
		return c.JSON(http.StatusNotFound, response.ErrorResponse(response.MsgPhotoNotFound))
	case errors.As(err, &httpErr):
		// 413 и прочие ошибки echo обрабатывает общий обработчик
		return httpErr
	}

	r.log.Error(failMessage, slog.String("path", c.Path()), sl.Err(err))

	return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails(failMessage, err, r.exposeErrors))
}

func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
