package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	DefaultTitle          = "Untitled"
	DefaultUploadedBy     = "anonymous"
	DefaultUserUniversity = " "
)

// Photo представляет фотографию в системе. JSON-имена совпадают с тем, что ждёт фронтенд
type Photo struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title" validate:"notblank"`
	Description     string    `json:"description" validate:"notblank"`
	ImageCategory   string    `json:"imageCatogory" validate:"notblank"`
	ImageType       string    `json:"imageType" validate:"notblank"`
	UserPhonenumber string    `json:"userPhonenumber" validate:"notblank"`
	UserName        string    `json:"userName" validate:"notblank"`
	UserEmail       string    `json:"userEmail" validate:"notblank"`
	UserUniversity  string    `json:"userUnivercity"`
	ImageURL        string    `json:"imageUrl" validate:"notblank"`
	CloudinaryID    string    `json:"cloudinaryId" validate:"notblank"`
	PublicID        string    `json:"publicId" validate:"notblank"`
	Tags            []string  `json:"tags"`
	UploadedBy      string    `json:"uploadedBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StoredObject описание объекта, сохранённого во внешнем хранилище
type StoredObject struct {
	URL      string `json:"url"`
	AssetID  string `json:"asset_id"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int64  `json:"bytes"`
}

// Complete сообщает, что у описания есть все три идентификатора
func (o StoredObject) Complete() bool {
	return o.URL != "" && o.AssetID != "" && o.PublicID != ""
}

// AttachStorage единственное место, где проставляются imageUrl, cloudinaryId и publicId
func (p *Photo) AttachStorage(obj StoredObject) {
	p.ImageURL = obj.URL
	p.CloudinaryID = obj.AssetID
	p.PublicID = obj.PublicID
}

// ParseTags разбивает строку вида "stars, moon , milkyway" на теги.
// Пустые сегменты отбрасываются, порядок сохраняется.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	if strings.TrimSpace(raw) == "" {
		return tags
	}

	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// Normalize применяет trim к полям, которые хранятся обрезанными
func (p *Photo) Normalize() {
	p.Title = strings.TrimSpace(p.Title)

	tags := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	p.Tags = tags

	if p.UploadedBy == "" {
		p.UploadedBy = DefaultUploadedBy
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate проверяет запись целиком перед сохранением
func (p *Photo) Validate() error {
	return toValidationError(validate.Struct(p))
}

// ValidateMetadata проверяет только поля, пришедшие от клиента (без данных хранилища)
func (p *Photo) ValidateMetadata() error {
	return toValidationError(validate.StructExcept(p, "ImageURL", "CloudinaryID", "PublicID"))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	validationErrors := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, fmt.Sprintf("%s is required", fe.Field()))
	}

	return &PhotoValidationError{Errors: validationErrors}
}

// PhotoValidationError кастомный тип ошибки для валидации
type PhotoValidationError struct {
	Errors []string
}

func (e *PhotoValidationError) Error() string {
	return fmt.Sprintf("photo validation failed: %s", strings.Join(e.Errors, "; "))
}

// IsPhotoValidationError проверяет, является ли ошибка ошибкой валидации
func IsPhotoValidationError(err error) bool {
	var target *PhotoValidationError
	return errors.As(err, &target)
}
