package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/doska/internal/services"
	"github.com/maynagashev/doska/models"
)

// ContactHandler обрабатывает HTTP-запросы отправки сообщений владельцам объявлений.
type ContactHandler struct {
	contactService services.ContactService
}

// NewContactHandler создает новый экземпляр ContactHandler.
func NewContactHandler(cs services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: cs}
}

// Submit обрабатывает POST запрос на отправку сообщения владельцу объявления.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Объявление не найдено")
		return
	}

	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ContactHandler] Ошибка декодирования запроса сообщения: %v", err)
		respondError(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	log.Printf("[ContactHandler] Сообщение для объявления %d от '%s'", id, req.Name)

	if _, err := h.contactService.Submit(r.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, services.ErrNameAndMessageRequired):
			respondError(w, http.StatusBadRequest, "Требуются имя и текст сообщения")
		case errors.Is(err, services.ErrListingNotFound):
			respondError(w, http.StatusNotFound, "Объявление не найдено")
		default:
			log.Printf("[ContactHandler] Внутренняя ошибка при отправке сообщения для объявления %d: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		}
		return
	}

	respondJSON(w, http.StatusOK, models.ContactResponse{
		Success: true,
		Message: "Сообщение отправлено. Владелец свяжется с вами.",
	})
}
