package repository

import (
	"context"
	"log"

	"github.com/maynagashev/doska/models"
)

// MessageRepository определяет методы для работы с сообщениями в хранилище.
// Сообщения только дописываются; изменение и удаление не предусмотрены.
type MessageRepository interface {
	Append(ctx context.Context, msg *models.Message) error
	GetAll(ctx context.Context) ([]models.Message, error)
}

// Убедимся, что fileMessageRepository удовлетворяет интерфейсу MessageRepository.
var _ MessageRepository = (*fileMessageRepository)(nil)

// fileMessageRepository реализует MessageRepository поверх файла messages.json.
type fileMessageRepository struct {
	file *jsonFile[models.Message]
}

// NewFileMessageRepository создает новый экземпляр файлового репозитория сообщений.
func NewFileMessageRepository(path string) MessageRepository {
	return &fileMessageRepository{file: newJSONFile[models.Message](path)}
}

// Append дописывает сообщение в конец файла.
func (r *fileMessageRepository) Append(_ context.Context, msg *models.Message) error {
	err := r.file.Update(func(messages []models.Message) ([]models.Message, error) {
		return append(messages, *msg), nil
	})
	if err != nil {
		log.Printf("[Repo] Ошибка сохранения сообщения для объявления %d: %v", msg.ListingID, err)
		return err
	}

	log.Printf("[Repo] Сообщение %d для объявления %d сохранено", msg.ID, msg.ListingID)
	return nil
}

// GetAll возвращает все сообщения.
func (r *fileMessageRepository) GetAll(_ context.Context) ([]models.Message, error) {
	return r.file.Load(), nil
}
