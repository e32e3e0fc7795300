package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/maynagashev/doska/internal/repository"
	"github.com/maynagashev/doska/models"
)

// ContactService определяет интерфейс для сервиса сообщений владельцам объявлений.
type ContactService interface {
	Submit(ctx context.Context, listingID int64, req models.ContactRequest) (*models.Message, error)
}

// Убедимся, что contactService удовлетворяет интерфейсу ContactService.
var _ ContactService = (*contactService)(nil)

type contactService struct {
	listingRepo repository.ListingRepository
	messageRepo repository.MessageRepository
}

// NewContactService создает новый экземпляр сервиса сообщений.
func NewContactService(listingRepo repository.ListingRepository, messageRepo repository.MessageRepository) ContactService {
	return &contactService{listingRepo: listingRepo, messageRepo: messageRepo}
}

// Submit сохраняет сообщение для существующего объявления.
// Уведомление владельца (email и т.п.) не отправляется - точка будущей интеграции.
func (s *contactService) Submit(ctx context.Context, listingID int64, req models.ContactRequest) (*models.Message, error) {
	if req.Name == "" || req.Message == "" {
		log.Printf("[ContactService] Отклонено сообщение без имени или текста для объявления %d", listingID)
		return nil, ErrNameAndMessageRequired
	}

	// Проверяем, что объявление существует. Сильнее ссылочная целостность
	// не охраняется: объявление может быть удалено после сохранения сообщения.
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	msg := &models.Message{
		// ID из миллисекунд времени: при одновременных отправках возможна коллизия,
		// уникальность сильнее этой не заявляется.
		ID:        now.UnixMilli(),
		ListingID: listingID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: now,
	}

	if err := s.messageRepo.Append(ctx, msg); err != nil {
		return nil, errors.New("внутренняя ошибка сервера при сохранении сообщения")
	}

	log.Printf("[ContactService] Сообщение %d для объявления %d принято", msg.ID, listingID)
	return msg, nil
}

// Кастомная ошибка сервиса сообщений.
var ErrNameAndMessageRequired = errors.New("требуются имя и текст сообщения")
