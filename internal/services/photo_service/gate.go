package services

import (
	"fmt"
	"mime"
	"strings"
)

const DefaultMaxUploadSize int64 = 10 << 20

const (
	MsgNoFile        = "No file uploaded"
	MsgNotAnImage    = "Not an image! Please upload only images."
	MsgOnlyImages    = "Only image files are allowed!"
	msgFileTooLarge  = "File too large. Maximum size is %dMB."
	imageMediaPrefix = "image/"
)

// строгий режим пропускает только эти подтипы
var strictImageSubtypes = map[string]struct{}{
	"jpeg": {},
	"jpg":  {},
	"png":  {},
	"gif":  {},
	"webp": {},
	"bmp":  {},
	"tiff": {},
}

// InputError ошибка входных данных, текст уходит клиенту как есть (400)
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// FileInfo то, что гейт знает о загруженном файле
type FileInfo struct {
	Present     bool
	ContentType string
	Size        int64
}

type GatePolicy struct {
	MaxSize int64
	Strict  bool
}

// FileTooLargeMessage текст отказа по размеру для заданного лимита
func FileTooLargeMessage(maxSize int64) string {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return fmt.Sprintf(msgFileTooLarge, maxSize>>20)
}

// CheckUpload проверяет файл до любых внешних вызовов. Чистая функция.
func CheckUpload(file FileInfo, policy GatePolicy) error {
	maxSize := policy.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	if !file.Present {
		return &InputError{Message: MsgNoFile}
	}

	if file.Size > maxSize {
		return &InputError{Message: FileTooLargeMessage(maxSize)}
	}

	// нераспознаваемый тип не считается изображением
	mediaType, _, err := mime.ParseMediaType(strings.ToLower(strings.TrimSpace(file.ContentType)))
	if err != nil {
		return &InputError{Message: MsgNotAnImage}
	}

	if !strings.HasPrefix(mediaType, imageMediaPrefix) {
		return &InputError{Message: MsgNotAnImage}
	}

	if policy.Strict {
		if _, ok := strictImageSubtypes[strings.TrimPrefix(mediaType, imageMediaPrefix)]; !ok {
			return &InputError{Message: MsgOnlyImages}
		}
	}

	return nil
}
