// Package docs регистрирует OpenAPI-описание API для /swagger/*.
// Держать в соответствии с аннотациями обработчиков в internal/transport/http.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/photos": {
            "get": {
                "description": "Постраничный список, по умолчанию новые первыми.",
                "produces": ["application/json"],
                "tags": ["photos"],
                "summary": "Список фотографий",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Номер страницы", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Размер страницы (до 100)", "name": "limit", "in": "query"},
                    {"enum": ["-createdAt", "createdAt", "-updatedAt", "updatedAt", "title", "-title"], "type": "string", "description": "Поле сортировки, '-' для убывания", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Страница фотографий", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Ошибка базы", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/photos/search": {
            "get": {
                "description": "Поиск подстроки без учёта регистра в названии или любом теге. Пустой запрос возвращает все фото.",
                "produces": ["application/json"],
                "tags": ["photos"],
                "summary": "Поиск фотографий",
                "parameters": [
                    {"type": "string", "description": "Строка поиска", "name": "query", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Найденные фото", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Ошибка базы", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/photos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["photos"],
                "summary": "Фотография по ID",
                "parameters": [
                    {"type": "string", "description": "ID фотографии", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Фото", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Фото не найдено", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Ошибка базы", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "description": "Сначала удаляет объект из хранилища, затем запись.",
                "produces": ["application/json"],
                "tags": ["photos"],
                "summary": "Удаление фотографии",
                "parameters": [
                    {"type": "string", "description": "ID фотографии", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Фото удалено", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Фото не найдено", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Ошибка хранилища или базы", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/upload": {
            "post": {
                "description": "Принимает изображение и метаданные, кладёт файл в хранилище и создаёт запись.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["photos"],
                "summary": "Загрузка фотографии",
                "parameters": [
                    {"type": "file", "description": "Изображение (image/*, до 10MB)", "name": "image", "in": "formData", "required": true},
                    {"type": "string", "default": "Untitled", "description": "Название", "name": "title", "in": "formData"},
                    {"type": "string", "description": "Описание", "name": "description", "in": "formData", "required": true},
                    {"type": "string", "description": "Категория (mobilephoto, DSLR)", "name": "imageCatogory", "in": "formData", "required": true},
                    {"type": "string", "description": "Модель камеры или телефона", "name": "imageType", "in": "formData", "required": true},
                    {"type": "string", "description": "Имя автора", "name": "userName", "in": "formData", "required": true},
                    {"type": "string", "description": "Email автора", "name": "userEmail", "in": "formData", "required": true},
                    {"type": "string", "description": "Телефон автора", "name": "userPhonenumber", "in": "formData", "required": true},
                    {"type": "string", "description": "Университет", "name": "userUnivercity", "in": "formData"},
                    {"type": "string", "description": "Теги через запятую", "name": "tags", "in": "formData"},
                    {"type": "string", "default": "anonymous", "description": "Кто загрузил", "name": "uploadedBy", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Фото загружено", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Нет файла, файл не изображение или не заполнены поля", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Ошибка хранилища или базы", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/debug/orphans": {
            "get": {
                "description": "Последние записи о файлах без записи и записях без файла, новые первыми.",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Журнал рассогласований",
                "parameters": [
                    {"type": "integer", "default": 50, "description": "Сколько записей вернуть (до 500)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Записи журнала", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Журнал недоступен", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Проверка работоспособности",
                "responses": {
                    "200": {"description": "Сервер работает", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "models.Orphan": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "image_url": {"type": "string"},
                "kind": {"type": "string", "enum": ["remote_object", "local_record"]},
                "photo_id": {"type": "string"},
                "public_id": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "models.Pagination": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "hasNext": {"type": "boolean"},
                "hasPrev": {"type": "boolean"},
                "totalPages": {"type": "integer"},
                "totalPhotos": {"type": "integer"}
            }
        },
        "models.Photo": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "cloudinaryId": {"type": "string"},
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "imageCatogory": {"type": "string"},
                "imageType": {"type": "string"},
                "imageUrl": {"type": "string"},
                "publicId": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"},
                "uploadedBy": {"type": "string"},
                "userEmail": {"type": "string"},
                "userName": {"type": "string"},
                "userPhonenumber": {"type": "string"},
                "userUnivercity": {"type": "string"}
            }
        },
        "objectstore.RemoveResult": {
            "type": "object",
            "properties": {
                "result": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "cloudinaryResult": {"$ref": "#/definitions/objectstore.RemoveResult"},
                "data": {},
                "error": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string"},
                "pagination": {"$ref": "#/definitions/models.Pagination"},
                "success": {"type": "boolean"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:4000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "photoshare API",
	Description:      "Загрузка, просмотр, поиск и удаление фотографий.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
