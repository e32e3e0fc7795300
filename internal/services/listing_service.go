package services

import (
	"context"
	"errors"
	"log"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/maynagashev/doska/internal/repository"
	"github.com/maynagashev/doska/internal/storage"
	"github.com/maynagashev/doska/models"
)

// ListingService определяет интерфейс для сервиса объявлений.
type ListingService interface {
	// Create создает объявление. Изображения к этому моменту уже загружены
	// обработчиком в хранилище файлов; author - имя аутентифицированного владельца.
	Create(ctx context.Context, input models.CreateListingInput, images []models.ListingImage, author string) (*models.Listing, error)
	List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	Get(ctx context.Context, id int64) (*models.Listing, error)
	// Delete удаляет объявление вместе с файлами его изображений.
	// Удалять может только владелец.
	Delete(ctx context.Context, id int64, username string) error
}

// IsAffirmative сообщает, является ли строковое значение атрибута утвердительным.
// HTML-формы присылают чекбоксы как "on", программные клиенты - как "true";
// любое другое значение считается отрицательным.
func IsAffirmative(value string) bool {
	return value == "on" || value == "true"
}

// CanDelete - политика доступа на удаление объявления:
// удалять может только пользователь, указанный как владелец.
func CanDelete(username string, listing *models.Listing) bool {
	return listing.Author == username
}

// Убедимся, что listingService удовлетворяет интерфейсу ListingService.
var _ ListingService = (*listingService)(nil)

type listingService struct {
	listingRepo repository.ListingRepository
	fileStorage storage.FileStorage
}

// NewListingService создает новый экземпляр сервиса объявлений.
func NewListingService(listingRepo repository.ListingRepository, fileStorage storage.FileStorage) ListingService {
	return &listingService{listingRepo: listingRepo, fileStorage: fileStorage}
}

// Create валидирует и сохраняет новое объявление.
func (s *listingService) Create(
	ctx context.Context,
	input models.CreateListingInput,
	images []models.ListingImage,
	author string,
) (*models.Listing, error) {
	if input.Title == "" || input.Price == "" {
		log.Printf("[ListingService] Отклонено создание объявления без заголовка или цены")
		return nil, ErrTitleAndPriceRequired
	}

	// Нечисловая цена после проверки на наличие трактуется как 0
	// (поведение первой версии сервиса).
	price, err := strconv.ParseFloat(input.Price, 64)
	if err != nil || price < 0 {
		price = 0
	}

	listing := &models.Listing{
		Author:            author,
		Title:             input.Title,
		Description:       input.Description,
		Price:             price,
		RoomsType:         input.RoomsType,
		ShowerInternal:    IsAffirmative(input.ShowerInternal),
		Neighborhood:      input.Neighborhood,
		Water:             IsAffirmative(input.Water),
		Electricity:       IsAffirmative(input.Electricity),
		VentilatedCeiling: IsAffirmative(input.VentilatedCeiling),
		Conditions:        input.Conditions,
		PhonePublic:       IsAffirmative(input.PhonePublic),
		PhoneDisplay:      input.PhoneDisplay,
		Images:            images,
		CreatedAt:         time.Now().UTC(),
	}
	if listing.Images == nil {
		listing.Images = []models.ListingImage{}
	}

	if _, err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, errors.New("внутренняя ошибка сервера при сохранении объявления")
	}

	log.Printf("[ListingService] Объявление %d ('%s') создано пользователем '%s'", listing.ID, listing.Title, author)
	return listing, nil
}

// List возвращает объявления, отфильтрованные по точной цене и/или району.
// Район сравнивается без учета регистра; фильтры комбинируются по И.
func (s *listingService) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	listings, err := s.listingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if filter.Price != nil && l.Price != *filter.Price {
			continue
		}
		if filter.Neighborhood != "" && !strings.EqualFold(l.Neighborhood, filter.Neighborhood) {
			continue
		}
		result = append(result, l)
	}
	return result, nil
}

// Get возвращает объявление по ID.
func (s *listingService) Get(ctx context.Context, id int64) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// Delete удаляет объявление владельца вместе с файлами изображений.
// Удаление файлов best-effort: отсутствующий файл пропускается, прочие ошибки
// логируются и не прерывают удаление записи.
func (s *listingService) Delete(ctx context.Context, id int64, username string) error {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return ErrListingNotFound
		}
		return err
	}

	if !CanDelete(username, listing) {
		log.Printf("[ListingService] Пользователь '%s' попытался удалить чужое объявление %d (владелец '%s')",
			username, id, listing.Author)
		return ErrForbidden
	}

	for _, img := range listing.Images {
		objectKey := path.Base(img.URL)
		if err := s.fileStorage.DeleteFile(ctx, objectKey); err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				continue
			}
			log.Printf("[ListingService] Ошибка удаления изображения '%s' объявления %d: %v", objectKey, id, err)
		}
	}

	if err := s.listingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return ErrListingNotFound
		}
		return err
	}

	log.Printf("[ListingService] Объявление %d удалено пользователем '%s'", id, username)
	return nil
}

// Кастомные ошибки сервиса объявлений.
var (
	ErrTitleAndPriceRequired = errors.New("требуются заголовок и цена")
	ErrListingNotFound       = errors.New("объявление не найдено")
	ErrForbidden             = errors.New("доступ запрещен")
)
