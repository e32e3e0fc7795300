package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Публичный префикс, по которому раздаются файлы локального хранилища.
const localURLPrefix = "/uploads/"

// Убедимся, что LocalStorage удовлетворяет интерфейсу FileStorage.
var _ FileStorage = (*LocalStorage)(nil)

// LocalStorage реализует FileStorage поверх локального каталога.
// Это бэкенд по умолчанию: файлы каталога раздаются сервером по префиксу /uploads.
type LocalStorage struct {
	dir string
}

// NewLocalStorage создает локальное хранилище, при необходимости создавая каталог.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога загрузок '%s': %w", dir, err)
	}
	log.Printf("Локальное хранилище файлов инициализировано в каталоге '%s'", dir)
	return &LocalStorage{dir: dir}, nil
}

// UploadFile записывает файл в каталог хранилища.
// Ключ объекта нормализуется до имени файла, чтобы исключить выход за пределы каталога.
func (s *LocalStorage) UploadFile(
	_ context.Context,
	objectKey string,
	reader io.Reader,
	_ int64,
	_ string,
) error {
	path := filepath.Join(s.dir, filepath.Base(objectKey))

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания файла '%s': %w", path, err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil {
			log.Printf("[LocalStorage] Ошибка закрытия файла '%s': %v", path, closeErr)
		}
	}()

	written, err := io.Copy(dst, reader)
	if err != nil {
		return fmt.Errorf("ошибка записи файла '%s': %w", path, err)
	}

	log.Printf("[LocalStorage] Файл '%s' успешно сохранен, размер: %d", objectKey, written)
	return nil
}

// DeleteFile удаляет файл из каталога хранилища.
// Возвращает ErrObjectNotFound, если файла уже нет.
func (s *LocalStorage) DeleteFile(_ context.Context, objectKey string) error {
	path := filepath.Join(s.dir, filepath.Base(objectKey))

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			log.Printf("[LocalStorage] Файл '%s' не найден при удалении", objectKey)
			return ErrObjectNotFound
		}
		return fmt.Errorf("ошибка удаления файла '%s': %w", path, err)
	}

	log.Printf("[LocalStorage] Файл '%s' удален", objectKey)
	return nil
}

// FileURL возвращает публичный URL файла относительно корня сервера.
func (s *LocalStorage) FileURL(objectKey string) string {
	return localURLPrefix + filepath.Base(objectKey)
}
