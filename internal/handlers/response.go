package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/maynagashev/doska/models"
)

// respondJSON отправляет ответ с указанным статусом и телом в JSON.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Handlers] Ошибка кодирования JSON-ответа: %v", err)
	}
}

// respondError отправляет ответ с ошибкой в формате {"message": "..."}.
// Все ошибки API отдаются в этом формате.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Message: message})
}
