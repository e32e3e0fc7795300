package repository

import (
	"context"
	"errors"
	"log"

	"github.com/maynagashev/doska/models"
)

// ListingRepository определяет методы для работы с объявлениями в хранилище.
type ListingRepository interface {
	GetAll(ctx context.Context) ([]models.Listing, error)
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	// Create присваивает объявлению следующий ID и сохраняет его.
	Create(ctx context.Context, listing *models.Listing) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// Убедимся, что fileListingRepository удовлетворяет интерфейсу ListingRepository.
var _ ListingRepository = (*fileListingRepository)(nil)

// fileListingRepository реализует ListingRepository поверх файла listings.json.
type fileListingRepository struct {
	file *jsonFile[models.Listing]
}

// NewFileListingRepository создает новый экземпляр файлового репозитория объявлений.
func NewFileListingRepository(path string) ListingRepository {
	return &fileListingRepository{file: newJSONFile[models.Listing](path)}
}

// GetAll возвращает все объявления.
// По контракту хранилища отсутствующий или поврежденный файл дает пустой список, не ошибку.
func (r *fileListingRepository) GetAll(_ context.Context) ([]models.Listing, error) {
	return r.file.Load(), nil
}

// GetByID находит объявление по ID.
func (r *fileListingRepository) GetByID(_ context.Context, id int64) (*models.Listing, error) {
	for _, l := range r.file.Load() {
		if l.ID == id {
			return &l, nil
		}
	}
	log.Printf("[Repo] Объявление с ID %d не найдено", id)
	return nil, ErrListingNotFound
}

// Create присваивает объявлению следующий ID (максимальный существующий + 1,
// либо 1 для пустого хранилища) и дописывает его в файл.
// При последовательных записях ID строго монотонно растут.
func (r *fileListingRepository) Create(_ context.Context, listing *models.Listing) (int64, error) {
	err := r.file.Update(func(listings []models.Listing) ([]models.Listing, error) {
		var maxID int64
		for _, l := range listings {
			if l.ID > maxID {
				maxID = l.ID
			}
		}
		listing.ID = maxID + 1
		return append(listings, *listing), nil
	})
	if err != nil {
		log.Printf("[Repo] Ошибка сохранения объявления '%s': %v", listing.Title, err)
		return 0, err
	}

	log.Printf("[Repo] Объявление '%s' успешно создано с ID %d", listing.Title, listing.ID)
	return listing.ID, nil
}

// Delete удаляет объявление по ID.
// Возвращает ErrListingNotFound, если объявления нет; файл в этом случае не перезаписывается.
func (r *fileListingRepository) Delete(_ context.Context, id int64) error {
	err := r.file.Update(func(listings []models.Listing) ([]models.Listing, error) {
		for i, l := range listings {
			if l.ID == id {
				return append(listings[:i], listings[i+1:]...), nil
			}
		}
		return nil, ErrListingNotFound
	})
	if err != nil {
		if !errors.Is(err, ErrListingNotFound) {
			log.Printf("[Repo] Ошибка удаления объявления %d: %v", id, err)
		}
		return err
	}

	log.Printf("[Repo] Объявление %d успешно удалено", id)
	return nil
}

// Кастомная ошибка репозитория объявлений.
var ErrListingNotFound = errors.New("объявление не найдено")
