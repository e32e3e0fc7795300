package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
)

// jsonFile управляет одним JSON-файлом с массивом записей типа T.
// Все операции выполняются по схеме "прочитать весь файл - изменить - перезаписать весь файл".
// Мьютекс сериализует циклы чтение-изменение-запись внутри процесса, чтобы два
// одновременных запроса не затирали изменения друг друга. Защиты от падения
// процесса посреди записи нет.
type jsonFile[T any] struct {
	path string
	mu   sync.Mutex
}

func newJSONFile[T any](path string) *jsonFile[T] {
	return &jsonFile[T]{path: path}
}

// read читает и парсит файл без захвата мьютекса.
// Отсутствующий, пустой или поврежденный файл трактуется как пустой массив:
// ошибки чтения не поднимаются наверх, только логируются.
func (f *jsonFile[T]) read() []T {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[FileStore] Ошибка чтения файла '%s', возвращаем пустой список: %v", f.path, err)
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[FileStore] Файл '%s' поврежден, возвращаем пустой список: %v", f.path, err)
		return nil
	}
	return items
}

// write сериализует и перезаписывает файл целиком без захвата мьютекса.
// Формат с отступами сохранен от первой версии сервиса, чтобы файлы данных
// оставались читаемыми и совместимыми.
func (f *jsonFile[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации данных для файла '%s': %w", f.path, err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("ошибка записи файла '%s': %w", f.path, err)
	}
	return nil
}

// Load возвращает все записи файла.
func (f *jsonFile[T]) Load() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Update атомарно (в пределах процесса) применяет fn к содержимому файла
// и записывает результат. Ошибка fn прерывает обновление и возвращается как есть.
func (f *jsonFile[T]) Update(fn func(items []T) ([]T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := fn(f.read())
	if err != nil {
		return err
	}
	return f.write(items)
}
