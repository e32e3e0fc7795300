package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

const (
	// Порт по умолчанию (как у первой версии сервиса).
	defaultServerPort = "3000"

	// Каталоги по умолчанию.
	defaultDataDir    = "./data"
	defaultUploadsDir = "./uploads"
	defaultPublicDir  = "./public"

	// Бэкенд хранилища изображений по умолчанию.
	defaultStorageBackend = storageBackendLocal

	storageBackendLocal = "local"
	storageBackendMinio = "minio"

	// Переменные окружения.
	envServerPort     = "SERVER_PORT"
	envDataDir        = "DATA_DIR"
	envUploadsDir     = "UPLOADS_DIR"
	envPublicDir      = "PUBLIC_DIR"
	envJWTSecret      = "JWT_SECRET" //nolint:gosec // Ложное срабатывание, это имя переменной окружения
	envStorageBackend = "STORAGE_BACKEND"
	envTLSCertFile    = "TLS_CERT_FILE"
	envTLSKeyFile     = "TLS_KEY_FILE"

	// Переменные окружения для MinIO (используются при STORAGE_BACKEND=minio).
	envMinioEndpoint     = "MINIO_ENDPOINT"
	envMinioUser         = "MINIO_USER"
	envMinioPassword     = "MINIO_PASSWORD"
	envMinioBucket       = "MINIO_BUCKET"
	defaultMinioEndpoint = "localhost:9000"
	defaultMinioUser     = "minioadmin"
	defaultMinioPassword = "minioadmin"
	defaultMinioBucket   = "doska-images"
)

// config хранит конфигурацию сервера.
type config struct {
	Port           string
	DataDir        string
	UploadsDir     string
	PublicDir      string
	JWTSecret      string
	StorageBackend string
	MinioEndpoint  string
	MinioUser      string
	MinioPassword  string
	MinioBucket    string
	CertFile       string
	KeyFile        string
}

// parseFlags разбирает флаги и переменные окружения, возвращает config или ошибку.
// Флаги имеют приоритет над переменными окружения.
func parseFlags() (*config, error) {
	cfg := &config{}

	// Определяем флаги
	flag.StringVar(&cfg.Port, "port", "",
		fmt.Sprintf("Порт для запуска сервера (env: %s, default: %s)", envServerPort, defaultServerPort))
	flag.StringVar(&cfg.DataDir, "data-dir", "",
		fmt.Sprintf("Каталог файлов данных (env: %s, default: %s)", envDataDir, defaultDataDir))
	flag.StringVar(&cfg.UploadsDir, "uploads-dir", "",
		fmt.Sprintf("Каталог загруженных изображений (env: %s, default: %s)", envUploadsDir, defaultUploadsDir))
	flag.StringVar(&cfg.PublicDir, "public-dir", "",
		fmt.Sprintf("Каталог статики фронтенда (env: %s, default: %s)", envPublicDir, defaultPublicDir))
	flag.StringVar(&cfg.JWTSecret, "jwt-secret", "",
		fmt.Sprintf("Секрет для подписи JWT токенов (env: %s)", envJWTSecret))
	flag.StringVar(&cfg.StorageBackend, "storage-backend", "",
		fmt.Sprintf("Бэкенд хранилища изображений: local или minio (env: %s, default: %s)",
			envStorageBackend, defaultStorageBackend))
	flag.StringVar(&cfg.CertFile, "cert-file", "",
		fmt.Sprintf("Путь к файлу TLS-сертификата, не обязателен (env: %s)", envTLSCertFile))
	flag.StringVar(&cfg.KeyFile, "key-file", "",
		fmt.Sprintf("Путь к файлу TLS-ключа, не обязателен (env: %s)", envTLSKeyFile))

	// Парсим флаги
	flag.Parse()

	// Применяем переменные окружения и значения по умолчанию, если флаги не заданы
	applyEnv(&cfg.Port, envServerPort, defaultServerPort)
	applyEnv(&cfg.DataDir, envDataDir, defaultDataDir)
	applyEnv(&cfg.UploadsDir, envUploadsDir, defaultUploadsDir)
	applyEnv(&cfg.PublicDir, envPublicDir, defaultPublicDir)
	applyEnv(&cfg.JWTSecret, envJWTSecret, "")
	applyEnv(&cfg.StorageBackend, envStorageBackend, defaultStorageBackend)
	applyEnv(&cfg.CertFile, envTLSCertFile, "")
	applyEnv(&cfg.KeyFile, envTLSKeyFile, "")

	// Параметры MinIO задаются только окружением
	cfg.MinioEndpoint = getEnv(envMinioEndpoint, defaultMinioEndpoint)
	cfg.MinioUser = getEnv(envMinioUser, defaultMinioUser)
	cfg.MinioPassword = getEnv(envMinioPassword, defaultMinioPassword)
	cfg.MinioBucket = getEnv(envMinioBucket, defaultMinioBucket)

	// Проверяем обязательные параметры
	if cfg.JWTSecret == "" {
		return nil, errors.New("не указан секрет для подписи токенов (--jwt-secret или " + envJWTSecret + ")")
	}
	if cfg.StorageBackend != storageBackendLocal && cfg.StorageBackend != storageBackendMinio {
		return nil, fmt.Errorf("неизвестный бэкенд хранилища изображений: %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// applyEnv подставляет в поле значение переменной окружения или значение по умолчанию,
// если флаг не задан.
func applyEnv(field *string, envKey, fallback string) {
	if *field != "" {
		return
	}
	if value, ok := os.LookupEnv(envKey); ok {
		*field = value
		return
	}
	*field = fallback
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
