package models

// User представляет пользователя системы.
// Тэги `json` используются и для сериализации в файл users.json;
// наружу через API модель не отдается, поэтому хеш пароля сериализуется.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// RegisterRequest представляет тело запроса на регистрацию.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest представляет тело запроса на вход.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse представляет тело ответа при успешном входе.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// StatusResponse представляет простой ответ об успехе операции.
type StatusResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse представляет тело ответа с ошибкой.
type ErrorResponse struct {
	Message string `json:"message"`
}
