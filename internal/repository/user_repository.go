package repository

import (
	"context"
	"errors"
	"log"

	"github.com/maynagashev/doska/models"
)

// UserRepository определяет методы для работы с данными пользователей в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Убедимся, что fileUserRepository удовлетворяет интерфейсу UserRepository.
var _ UserRepository = (*fileUserRepository)(nil)

// fileUserRepository реализует UserRepository поверх файла users.json.
type fileUserRepository struct {
	file *jsonFile[models.User]
}

// NewFileUserRepository создает новый экземпляр файлового репозитория пользователей.
func NewFileUserRepository(path string) UserRepository {
	return &fileUserRepository{file: newJSONFile[models.User](path)}
}

// CreateUser добавляет нового пользователя.
// Имя пользователя - уникальный ключ, сравнение строгое (с учетом регистра).
func (r *fileUserRepository) CreateUser(_ context.Context, user *models.User) error {
	err := r.file.Update(func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Username == user.Username {
				return nil, ErrUsernameTaken
			}
		}
		return append(users, *user), nil
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			log.Printf("[Repo] Ошибка создания пользователя: имя пользователя '%s' уже занято", user.Username)
		} else {
			log.Printf("[Repo] Непредвиденная ошибка при создании пользователя '%s': %v", user.Username, err)
		}
		return err
	}

	log.Printf("[Repo] Пользователь '%s' успешно создан", user.Username)
	return nil
}

// GetUserByUsername находит пользователя по его имени.
// Возвращает ErrUserNotFound, если пользователя с таким именем нет.
func (r *fileUserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.file.Load() {
		if u.Username == username {
			log.Printf("[Repo] Найден пользователь '%s'", username)
			return &u, nil
		}
	}
	log.Printf("[Repo] Пользователь с именем '%s' не найден", username)
	return nil, ErrUserNotFound
}

// Кастомные ошибки репозитория.
var (
	ErrUserNotFound  = errors.New("пользователь не найден")
	ErrUsernameTaken = errors.New("имя пользователя уже занято")
)
