package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/maynagashev/doska/internal/services"
	"github.com/maynagashev/doska/models"
)

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	service services.AuthService // Зависимость от интерфейса, а не конкретной реализации
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s services.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	// Декодируем JSON из тела запроса
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[AuthHandler] Ошибка декодирования запроса регистрации: %v", err)
		respondError(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	// Валидация входных данных (простая)
	if req.Username == "" || req.Password == "" {
		log.Printf("[AuthHandler] Пустое имя пользователя или пароль при регистрации")
		respondError(w, http.StatusBadRequest, "Имя пользователя и пароль не могут быть пустыми")
		return
	}

	log.Printf("[AuthHandler] Попытка регистрации пользователя: %s", req.Username)

	if err := h.service.Register(req.Username, req.Password); err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			respondError(w, http.StatusBadRequest, services.ErrUsernameTaken.Error())
			return
		}
		log.Printf("[AuthHandler] Внутренняя ошибка при регистрации '%s': %v", req.Username, err)
		respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}

	respondJSON(w, http.StatusOK, models.StatusResponse{Success: true})
	log.Printf("[AuthHandler] Успешная регистрация пользователя: %s", req.Username)
}

// Login обрабатывает запрос на вход пользователя.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	// Декодируем JSON из тела запроса
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[AuthHandler] Ошибка декодирования запроса входа: %v", err)
		respondError(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	// Валидация входных данных (простая)
	if req.Username == "" || req.Password == "" {
		log.Printf("[AuthHandler] Пустое имя пользователя или пароль при входе")
		respondError(w, http.StatusBadRequest, "Имя пользователя и пароль не могут быть пустыми")
		return
	}

	log.Printf("[AuthHandler] Попытка входа пользователя: %s", req.Username)

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(w, http.StatusNotFound, services.ErrUserNotFound.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			respondError(w, http.StatusBadRequest, services.ErrInvalidCredentials.Error())
		default:
			log.Printf("[AuthHandler] Внутренняя ошибка при входе '%s': %v", req.Username, err)
			respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		}
		return
	}

	respondJSON(w, http.StatusOK, models.LoginResponse{Success: true, Token: token})
	log.Printf("[AuthHandler] Успешный вход пользователя: %s", req.Username)
}
