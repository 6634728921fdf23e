package response

import "photoshare/internal/domain/models"

// сообщения, которые ждёт фронтенд
const (
	MsgServerRunning      = "Server is running"
	MsgPhotoUploaded      = "Photo uploaded successfully"
	MsgPhotoDeleted       = "Photo deleted successfully"
	MsgPhotoNotFound      = "Photo not found"
	MsgUploadFailed       = "Error uploading photo"
	MsgFetchPhotosFailed  = "Error fetching photos"
	MsgFetchPhotoFailed   = "Error fetching photo"
	MsgDeleteFailed       = "Error deleting photo"
	MsgSearchFailed       = "Error searching photos"
	MsgFetchOrphansFailed = "Error reading orphans journal"
	MsgSomethingWentWrong = "Something went wrong!"
	MsgRouteNotFound      = "Route not found"
)

// Response общий конверт ответа API
type Response struct {
	Success          bool               `json:"success"`
	Message          string             `json:"message,omitempty"`
	Data             interface{}        `json:"data,omitempty"`
	Error            string             `json:"error,omitempty"`
	Errors           []string           `json:"errors,omitempty"`
	Pagination       *models.Pagination `json:"pagination,omitempty"`
	CloudinaryResult interface{}        `json:"cloudinaryResult,omitempty"`
	Timestamp        string             `json:"timestamp,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func ErrorResponse(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

// ErrorResponseWithDetails добавляет текст внутренней ошибки, если его можно показывать
func ErrorResponseWithDetails(message string, err error, expose bool) Response {
	resp := ErrorResponse(message)
	if expose && err != nil {
		resp.Error = err.Error()
	}

	return resp
}
