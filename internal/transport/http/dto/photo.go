package dto

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"photoshare/internal/domain/models"
)

// поля формы загрузки, которые понимает сервер; поле файла "image"
const (
	FieldImage           = "image"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldImageCategory   = "imageCatogory"
	FieldImageType       = "imageType"
	FieldUserName        = "userName"
	FieldUserEmail       = "userEmail"
	FieldUserPhonenumber = "userPhonenumber"
	FieldUserUniversity  = "userUnivercity"
	FieldTags            = "tags"
	FieldUploadedBy      = "uploadedBy"
)

var knownFields = map[string]struct{}{
	FieldTitle:           {},
	FieldDescription:     {},
	FieldImageCategory:   {},
	FieldImageType:       {},
	FieldUserName:        {},
	FieldUserEmail:       {},
	FieldUserPhonenumber: {},
	FieldUserUniversity:  {},
	FieldTags:            {},
	FieldUploadedBy:      {},
}

// UploadedFile файл из multipart-запроса, уже прочитанный в память
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

type PhotoUploadInput struct {
	File *UploadedFile `json:"-"`

	Title           string `json:"title" form:"title"`
	Description     string `json:"description" form:"description"`
	ImageCategory   string `json:"imageCatogory" form:"imageCatogory"`
	ImageType       string `json:"imageType" form:"imageType"`
	UserName        string `json:"userName" form:"userName"`
	UserEmail       string `json:"userEmail" form:"userEmail"`
	UserPhonenumber string `json:"userPhonenumber" form:"userPhonenumber"`
	UserUniversity  string `json:"userUnivercity" form:"userUnivercity"`
	Tags            string `json:"tags" form:"tags" example:"stars, moon, milkyway"`
	UploadedBy      string `json:"uploadedBy" form:"uploadedBy"`
}

// UnknownFieldsError форма содержит поля, которых нет в схеме
type UnknownFieldsError struct {
	Fields []string
}

func (e *UnknownFieldsError) Error() string {
	return fmt.Sprintf("unknown form fields: %s", strings.Join(e.Fields, ", "))
}

// NewPhotoUploadInput собирает DTO из текстовых полей формы.
// Для повторяющихся полей берётся первое значение.
func NewPhotoUploadInput(values url.Values, file *UploadedFile) (PhotoUploadInput, error) {
	var unknown []string
	for name := range values {
		if _, ok := knownFields[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return PhotoUploadInput{}, &UnknownFieldsError{Fields: unknown}
	}

	return PhotoUploadInput{
		File:            file,
		Title:           values.Get(FieldTitle),
		Description:     values.Get(FieldDescription),
		ImageCategory:   values.Get(FieldImageCategory),
		ImageType:       values.Get(FieldImageType),
		UserName:        values.Get(FieldUserName),
		UserEmail:       values.Get(FieldUserEmail),
		UserPhonenumber: values.Get(FieldUserPhonenumber),
		UserUniversity:  values.Get(FieldUserUniversity),
		Tags:            values.Get(FieldTags),
		UploadedBy:      values.Get(FieldUploadedBy),
	}, nil
}

// ToDomain преобразует DTO в доменную модель без данных хранилища
func (input *PhotoUploadInput) ToDomain() models.Photo {
	photo := models.Photo{
		Title:           input.Title,
		Description:     input.Description,
		ImageCategory:   input.ImageCategory,
		ImageType:       input.ImageType,
		UserPhonenumber: input.UserPhonenumber,
		UserName:        input.UserName,
		UserEmail:       input.UserEmail,
		UserUniversity:  input.UserUniversity,
		Tags:            models.ParseTags(input.Tags),
		UploadedBy:      input.UploadedBy,
	}

	if strings.TrimSpace(photo.Title) == "" {
		photo.Title = models.DefaultTitle
	}
	if photo.UserUniversity == "" {
		photo.UserUniversity = models.DefaultUserUniversity
	}
	if photo.UploadedBy == "" {
		photo.UploadedBy = models.DefaultUploadedBy
	}

	photo.Normalize()

	return photo
}
