package models

import "time"

// ListingImage представляет одно загруженное изображение объявления.
// Ключи JSON сохранены в формате, который пишет в listings.json первая версия сервиса.
type ListingImage struct {
	URL          string `json:"url"`          // Публичный URL изображения (например, /uploads/<имя файла>)
	OriginalName string `json:"originalname"` // Исходное имя файла, присланное клиентом
}

// Listing представляет объявление о жилье.
// Поле Author появилось во второй ревизии (с аутентификацией); для старых
// записей оно пустое и не сериализуется.
type Listing struct {
	ID                int64          `json:"id"`
	Author            string         `json:"author,omitempty"` // Имя пользователя-владельца
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Price             float64        `json:"price"`
	RoomsType         string         `json:"rooms_type"`
	ShowerInternal    bool           `json:"shower_internal"`
	Neighborhood      string         `json:"neighborhood"`
	Water             bool           `json:"water"`
	Electricity       bool           `json:"electricity"`
	VentilatedCeiling bool           `json:"ventilated_ceiling"`
	Conditions        string         `json:"conditions"`
	PhonePublic       bool           `json:"phone_public"`
	PhoneDisplay      string         `json:"phone_display"`
	Images            []ListingImage `json:"images"`
	CreatedAt         time.Time      `json:"created_at"`
}

// CreateListingInput содержит сырые значения полей multipart-формы создания объявления.
// Булевы атрибуты приходят строками ("on"/"true") и нормализуются на уровне сервиса.
type CreateListingInput struct {
	Title             string
	Description       string
	Price             string
	RoomsType         string
	ShowerInternal    string
	Neighborhood      string
	Water             string
	Electricity       string
	VentilatedCeiling string
	Conditions        string
	PhonePublic       string
	PhoneDisplay      string
}

// ListingFilter описывает необязательные фильтры списка объявлений.
// Фильтры комбинируются по И.
type ListingFilter struct {
	Price        *float64 // Точное совпадение цены; nil - фильтр не задан
	Neighborhood string   // Точное совпадение района без учета регистра; "" - фильтр не задан
}

// CreateListingResponse представляет тело ответа при успешном создании объявления.
type CreateListingResponse struct {
	Success bool    `json:"success"`
	Listing Listing `json:"listing"`
}
