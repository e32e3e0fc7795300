package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/maynagashev/doska/internal/middleware"
	"github.com/maynagashev/doska/internal/services"
	"github.com/maynagashev/doska/internal/storage"
	"github.com/maynagashev/doska/models"
)

// Ограничения на загрузку изображений (как у первой версии сервиса).
const (
	maxImagesPerListing = 8
	maxImageSizeBytes   = 8 << 20 // 8MB на файл
	maxMultipartMemory  = 32 << 20
)

// ListingHandler обрабатывает HTTP-запросы, связанные с объявлениями.
// Загрузкой файлов изображений в хранилище занимается сам обработчик;
// сервису передаются уже готовые метаданные изображений.
type ListingHandler struct {
	listingService services.ListingService
	fileStorage    storage.FileStorage
}

// NewListingHandler создает новый экземпляр ListingHandler.
func NewListingHandler(ls services.ListingService, fs storage.FileStorage) *ListingHandler {
	return &ListingHandler{listingService: ls, fileStorage: fs}
}

// List обрабатывает GET запрос на список объявлений с необязательными фильтрами
// price (точное совпадение) и neighborhood (без учета регистра).
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter models.ListingFilter

	if priceStr := r.URL.Query().Get("price"); priceStr != "" {
		// Нечисловое значение фильтра игнорируется
		if price, err := strconv.ParseFloat(priceStr, 64); err == nil {
			filter.Price = &price
		}
	}
	filter.Neighborhood = r.URL.Query().Get("neighborhood")

	listings, err := h.listingService.List(r.Context(), filter)
	if err != nil {
		log.Printf("[ListingHandler:List] Внутренняя ошибка при получении списка объявлений: %v", err)
		respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}

	respondJSON(w, http.StatusOK, listings)
}

// Get обрабатывает GET запрос на получение одного объявления по ID.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		// Нечисловой ID трактуется как отсутствующее объявление
		respondError(w, http.StatusNotFound, "Объявление не найдено")
		return
	}

	listing, err := h.listingService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			respondError(w, http.StatusNotFound, "Объявление не найдено")
		} else {
			log.Printf("[ListingHandler:Get] Внутренняя ошибка при получении объявления %d: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		}
		return
	}

	respondJSON(w, http.StatusOK, listing)
}

// Create обрабатывает POST запрос на создание объявления (multipart-форма
// с полями атрибутов и до 8 файлов в поле images).
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		log.Printf("[ListingHandler:Create] Не удалось получить имя пользователя из контекста")
		respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}

	log.Printf("[ListingHandler:Create] Запрос на создание объявления от пользователя '%s'", username)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Printf("[ListingHandler:Create] Ошибка разбора multipart-формы: %v", err)
		respondError(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	var fileHeaders []*multipart.FileHeader
	if r.MultipartForm != nil {
		fileHeaders = r.MultipartForm.File["images"]
	}
	if len(fileHeaders) > maxImagesPerListing {
		respondError(w, http.StatusBadRequest, "Не более 8 изображений на объявление")
		return
	}

	// Загружаем изображения в хранилище до создания записи:
	// запись объявления ссылается на уже сохраненные файлы.
	images := make([]models.ListingImage, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > maxImageSizeBytes {
			respondError(w, http.StatusBadRequest, "Размер изображения не должен превышать 8MB")
			return
		}

		objectKey := uuid.New().String() + filepath.Ext(fh.Filename)

		file, err := fh.Open()
		if err != nil {
			log.Printf("[ListingHandler:Create] Ошибка открытия загруженного файла '%s': %v", fh.Filename, err)
			respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера при загрузке изображения")
			return
		}

		err = h.fileStorage.UploadFile(r.Context(), objectKey, file, fh.Size, fh.Header.Get("Content-Type"))
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("[ListingHandler:Create] Ошибка закрытия загруженного файла '%s': %v", fh.Filename, closeErr)
		}
		if err != nil {
			log.Printf("[ListingHandler:Create] Ошибка сохранения изображения '%s': %v", fh.Filename, err)
			respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера при загрузке изображения")
			return
		}

		images = append(images, models.ListingImage{
			URL:          h.fileStorage.FileURL(objectKey),
			OriginalName: fh.Filename,
		})
	}

	input := models.CreateListingInput{
		Title:             r.FormValue("title"),
		Description:       r.FormValue("description"),
		Price:             r.FormValue("price"),
		RoomsType:         r.FormValue("rooms_type"),
		ShowerInternal:    r.FormValue("shower_internal"),
		Neighborhood:      r.FormValue("neighborhood"),
		Water:             r.FormValue("water"),
		Electricity:       r.FormValue("electricity"),
		VentilatedCeiling: r.FormValue("ventilated_ceiling"),
		Conditions:        r.FormValue("conditions"),
		PhonePublic:       r.FormValue("phone_public"),
		PhoneDisplay:      r.FormValue("phone_display"),
	}

	listing, err := h.listingService.Create(r.Context(), input, images, username)
	if err != nil {
		if errors.Is(err, services.ErrTitleAndPriceRequired) {
			respondError(w, http.StatusBadRequest, "Требуются заголовок и цена")
		} else {
			log.Printf("[ListingHandler:Create] Внутренняя ошибка при создании объявления: %v", err)
			respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		}
		return
	}

	respondJSON(w, http.StatusOK, models.CreateListingResponse{Success: true, Listing: *listing})
	log.Printf("[ListingHandler:Create] Объявление %d успешно создано", listing.ID)
}

// Delete обрабатывает DELETE запрос на удаление объявления владельцем.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		log.Printf("[ListingHandler:Delete] Не удалось получить имя пользователя из контекста")
		respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Объявление не найдено")
		return
	}

	log.Printf("[ListingHandler:Delete] Запрос на удаление объявления %d от пользователя '%s'", id, username)

	if err := h.listingService.Delete(r.Context(), id, username); err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			respondError(w, http.StatusNotFound, "Объявление не найдено")
		case errors.Is(err, services.ErrForbidden):
			respondError(w, http.StatusForbidden, "Удалять объявление может только его владелец")
		default:
			log.Printf("[ListingHandler:Delete] Внутренняя ошибка при удалении объявления %d: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		}
		return
	}

	respondJSON(w, http.StatusOK, models.StatusResponse{Success: true})
	log.Printf("[ListingHandler:Delete] Объявление %d успешно удалено", id)
}
