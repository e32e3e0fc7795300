package models

import "time"

// Message представляет сообщение владельцу объявления.
// ID формируется из текущего времени в миллисекундах; глобальная уникальность
// при одновременных отправках не гарантируется (поведение первой версии сервиса).
type Message struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactRequest представляет тело запроса на отправку сообщения владельцу.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ContactResponse представляет тело ответа при успешной отправке сообщения.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
