package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Убедимся, что MinioClient удовлетворяет интерфейсу FileStorage.
var _ FileStorage = (*MinioClient)(nil)

// MinioClient реализует FileStorage для MinIO (или любого S3-совместимого хранилища).
// Альтернатива локальному каталогу для развертываний, где диск сервера не подходит
// для хранения изображений.
type MinioClient struct {
	client     *minio.Client
	bucketName string
	publicURL  string // Базовый URL, по которому бакет доступен клиентам
}

// MinioConfig содержит параметры для подключения к MinIO.
type MinioConfig struct {
	Endpoint        string // Адрес MinIO (например, "localhost:9000")
	AccessKeyID     string // Логин
	SecretAccessKey string // Пароль
	UseSSL          bool   // Использовать SSL (обычно false для локальной разработки)
	BucketName      string // Имя бакета для хранения изображений
	Region          string // Регион (не обязательно для MinIO, но может требоваться)
}

// NewMinioClient создает новый клиент MinIO.
func NewMinioClient(cfg MinioConfig) (*MinioClient, error) {
	log.Printf("Инициализация клиента MinIO для эндпоинта %s...", cfg.Endpoint)

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	// Проверка доступности MinIO
	// Необязательно, но полезно для раннего обнаружения проблем
	_, err = minioClient.ListBuckets(context.Background())
	if err != nil {
		log.Printf("Предупреждение: не удалось проверить соединение с MinIO: %v. Проверьте доступность и креды.", err)
		// Не возвращаем ошибку, чтобы сервер мог запуститься, даже если MinIO временно недоступен
	}

	// Проверка существования бакета и создание при необходимости
	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета '%s': %w", cfg.BucketName, err)
	}
	if !exists {
		log.Printf("Бакет '%s' не найден, попытка создания...", cfg.BucketName)
		err = minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета '%s': %w", cfg.BucketName, err)
		}
		log.Printf("Бакет '%s' успешно создан.", cfg.BucketName)
	} else {
		log.Printf("Бакет '%s' уже существует.", cfg.BucketName)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	log.Printf("Клиент MinIO успешно инициализирован для бакета '%s'.", cfg.BucketName)
	return &MinioClient{
		client:     minioClient,
		bucketName: cfg.BucketName,
		publicURL:  fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName),
	}, nil
}

// UploadFile загружает изображение в MinIO.
func (c *MinioClient) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	log.Printf("[Minio] Загрузка файла '%s' в бакет '%s'...", objectKey, c.bucketName)

	opts := minio.PutObjectOptions{
		ContentType: contentType,
	}

	uploadInfo, err := c.client.PutObject(ctx, c.bucketName, objectKey, reader, size, opts)
	if err != nil {
		log.Printf("[Minio] Ошибка загрузки файла '%s': %v", objectKey, err)
		return fmt.Errorf("ошибка загрузки файла в MinIO: %w", err)
	}

	log.Printf("[Minio] Файл '%s' успешно загружен, размер: %d, ETag: %s", objectKey, uploadInfo.Size, uploadInfo.ETag)
	return nil
}

// DeleteFile удаляет изображение из MinIO.
// Возвращает ErrObjectNotFound, если объекта в бакете нет.
func (c *MinioClient) DeleteFile(ctx context.Context, objectKey string) error {
	log.Printf("[Minio] Удаление файла '%s' из бакета '%s'...", objectKey, c.bucketName)

	// RemoveObject не сообщает об отсутствии объекта, поэтому проверяем явно
	_, err := c.client.StatObject(ctx, c.bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			log.Printf("[Minio] Файл '%s' не найден в бакете '%s'", objectKey, c.bucketName)
			return ErrObjectNotFound
		}
		log.Printf("[Minio] Ошибка проверки файла '%s': %v", objectKey, err)
		return fmt.Errorf("ошибка проверки файла в MinIO: %w", err)
	}

	if err := c.client.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		log.Printf("[Minio] Ошибка удаления файла '%s': %v", objectKey, err)
		return fmt.Errorf("ошибка удаления файла из MinIO: %w", err)
	}

	log.Printf("[Minio] Файл '%s' удален", objectKey)
	return nil
}

// FileURL возвращает публичный URL объекта в бакете.
// Предполагается, что бакет настроен на анонимное чтение.
func (c *MinioClient) FileURL(objectKey string) string {
	return c.publicURL + "/" + objectKey
}
