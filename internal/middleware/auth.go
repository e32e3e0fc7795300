package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maynagashev/doska/models"
)

// Тип для ключа контекста.
type contextKey string

// Ключ для хранения имени пользователя в контексте.
const UsernameKey contextKey = "username"

// Структура для пользовательских данных в JWT (claims) - должна совпадать с той, что в services.
type jwtClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAuthenticator возвращает middleware, проверяющий JWT токен аутентификации.
// Секрет передается из конфигурации сервера и должен совпадать с секретом,
// которым подписывает токены сервис аутентификации.
func NewAuthenticator(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем заголовок Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Println("[AuthMiddleware] Заголовок Authorization отсутствует")
				respondUnauthorized(w, "Требуется аутентификация")
				return
			}

			// Проверяем формат "Bearer token"
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				log.Printf("[AuthMiddleware] Неверный формат заголовка Authorization: %s", authHeader)
				respondUnauthorized(w, "Неверный формат токена")
				return
			}

			tokenString := headerParts[1]

			// Парсим и валидируем токен
			claims := &jwtClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				// Убеждаемся, что метод подписи - HS256
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
				}
				// Возвращаем секретный ключ
				return []byte(jwtSecret), nil
			})

			if err != nil {
				log.Printf("[AuthMiddleware] Ошибка парсинга/валидации токена: %v", err)
				respondUnauthorized(w, "Невалидный токен")
				return
			}

			// Проверяем валидность токена (включая время жизни)
			if !token.Valid || claims.Username == "" {
				log.Println("[AuthMiddleware] Предоставлен невалидный токен (возможно, истек)")
				respondUnauthorized(w, "Невалидный токен")
				return
			}

			// Добавляем имя пользователя в контекст запроса
			ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)

			log.Printf("[AuthMiddleware] Пользователь '%s' успешно аутентифицирован", claims.Username)

			// Передаем управление следующему обработчику с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsernameFromContext извлекает имя пользователя из контекста запроса.
// Возвращает имя и true, если оно найдено, иначе "" и false.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// respondUnauthorized отправляет JSON-ответ 401 с сообщением об ошибке.
func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse{Message: message}); err != nil {
		log.Printf("[AuthMiddleware] Ошибка кодирования ответа об ошибке: %v", err)
	}
}
