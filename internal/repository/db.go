package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Имена файлов данных в каталоге данных.
const (
	ListingsFile = "listings.json"
	MessagesFile = "messages.json"
	UsersFile    = "users.json"
)

// NewDataDir подготавливает каталог данных: создает его при необходимости
// и инициализирует файлы данных пустыми JSON-массивами.
// Существующие файлы не трогаются.
func NewDataDir(dir string) error {
	log.Printf("Подготовка каталога данных '%s'...", dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ошибка создания каталога данных '%s': %w", dir, err)
	}

	for _, name := range []string{ListingsFile, MessagesFile, UsersFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("ошибка проверки файла данных '%s': %w", path, err)
		}
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return fmt.Errorf("ошибка инициализации файла данных '%s': %w", path, err)
		}
		log.Printf("Файл данных '%s' создан с пустым массивом.", path)
	}

	log.Println("Каталог данных успешно подготовлен.")
	return nil
}
