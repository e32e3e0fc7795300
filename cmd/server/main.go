package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/maynagashev/doska/internal/handlers"
	appmiddleware "github.com/maynagashev/doska/internal/middleware"
	"github.com/maynagashev/doska/internal/repository"
	"github.com/maynagashev/doska/internal/services"
	"github.com/maynagashev/doska/internal/storage"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second // С запасом на загрузку изображений
	defaultIdleTimeout  = 30 * time.Second
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	fileStorage    storage.FileStorage // Используем интерфейс
	authHandler    *handlers.AuthHandler
	listingHandler *handlers.ListingHandler
	contactHandler *handlers.ContactHandler
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	log.Println("Запуск сервера доски объявлений...")

	cfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	// Инициализация зависимостей
	deps, err := setupDependencies(cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}

	// Настройка роутера
	r := setupRouter(cfg, deps)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	// HTTPS включается только когда заданы и сертификат, и ключ
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		log.Printf("Запуск HTTPS-сервера на порту %s...", cfg.Port)
		log.Printf("Используется сертификат: %s", cfg.CertFile)
		log.Printf("Используется ключ: %s", cfg.KeyFile)
		err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
	} else {
		log.Printf("Запуск HTTP-сервера на порту %s...", cfg.Port)
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка запуска сервера: %w", err)
	}
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(cfg *config) (*dependencies, error) {
	deps := &dependencies{}

	// 1. Подготовка каталога данных с файлами-хранилищами
	if err := repository.NewDataDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("ошибка подготовки каталога данных: %w", err)
	}

	// 2. Инициализация хранилища изображений
	var err error
	switch cfg.StorageBackend {
	case storageBackendMinio:
		minioCfg := storage.MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioUser,
			SecretAccessKey: cfg.MinioPassword,
			UseSSL:          false, // Для локальной разработки
			BucketName:      cfg.MinioBucket,
		}
		deps.fileStorage, err = storage.NewMinioClient(minioCfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
		}
	default:
		deps.fileStorage, err = storage.NewLocalStorage(cfg.UploadsDir)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации локального хранилища: %w", err)
		}
	}

	// 3. Создание репозиториев
	userRepo := repository.NewFileUserRepository(filepath.Join(cfg.DataDir, repository.UsersFile))
	listingRepo := repository.NewFileListingRepository(filepath.Join(cfg.DataDir, repository.ListingsFile))
	messageRepo := repository.NewFileMessageRepository(filepath.Join(cfg.DataDir, repository.MessagesFile))

	// 4. Создание сервисов
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	listingService := services.NewListingService(listingRepo, deps.fileStorage)
	contactService := services.NewContactService(listingRepo, messageRepo)

	// 5. Создание обработчиков
	deps.authHandler = handlers.NewAuthHandler(authService)
	deps.listingHandler = handlers.NewListingHandler(listingService, deps.fileStorage)
	deps.contactHandler = handlers.NewContactHandler(contactService)

	return deps, nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(cfg *config, deps *dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Фронтенд может обращаться к API с другого origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	authenticator := appmiddleware.NewAuthenticator(cfg.JWTSecret)

	// --- Маршруты --- //
	r.Route("/api", func(r chi.Router) {
		// Публичные маршруты
		r.Post("/register", deps.authHandler.Register)
		r.Post("/login", deps.authHandler.Login)
		r.Get("/listings", deps.listingHandler.List)
		r.Get("/listings/{id}", deps.listingHandler.Get)
		r.Post("/listings/{id}/contact", deps.contactHandler.Submit)

		// Приватные маршруты (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/listings", deps.listingHandler.Create)
			r.Delete("/listings/{id}", deps.listingHandler.Delete)
		})
	})

	// Загруженные изображения локального бэкенда раздаются по /uploads;
	// у MinIO свой публичный URL, и этот маршрут не используется
	if cfg.StorageBackend == storageBackendLocal {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	// Статика фронтенда из public/; несуществующие пути дают 404 файлового сервера
	r.Handle("/*", http.FileServer(http.Dir(cfg.PublicDir)))

	return r
}
