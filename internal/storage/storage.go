package storage

import (
	"context"
	"errors"
	"io"
)

// FileStorage определяет интерфейс хранилища загруженных изображений.
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	DeleteFile(ctx context.Context, objectKey string) error
	// FileURL возвращает публичный URL, по которому клиент может получить объект.
	FileURL(objectKey string) string
}

// Кастомная ошибка хранилища.
var ErrObjectNotFound = errors.New("объект не найден в хранилище")
