package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/doska/internal/handlers"
	"github.com/maynagashev/doska/internal/middleware"
	"github.com/maynagashev/doska/internal/services"
	"github.com/maynagashev/doska/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock ListingService --- //

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(
	ctx context.Context,
	input models.CreateListingInput,
	images []models.ListingImage,
	author string,
) (*models.Listing, error) {
	args := m.Called(ctx, input, images, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) Get(ctx context.Context, id int64) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Delete(ctx context.Context, id int64, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

// --- Хранилище-заглушка --- //

type recordingStorage struct {
	mu       sync.Mutex
	uploaded []string
}

func (s *recordingStorage) UploadFile(_ context.Context, objectKey string, _ io.Reader, _ int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded = append(s.uploaded, objectKey)
	return nil
}

func (s *recordingStorage) DeleteFile(_ context.Context, _ string) error { return nil }

func (s *recordingStorage) FileURL(objectKey string) string { return "/uploads/" + objectKey }

// Вспомогательный middleware, кладущий имя пользователя в контекст вместо аутентификатора.
func withUsername(username string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setupListingRouter(h *handlers.ListingHandler, username string) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/listings", h.List)
	r.Get("/api/listings/{id}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(withUsername(username))
		r.Post("/api/listings", h.Create)
		r.Delete("/api/listings/{id}", h.Delete)
	})
	return r
}

// Вспомогательная функция для сборки multipart-формы создания объявления.
func buildMultipartBody(t *testing.T, fields map[string]string, imageNames []string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range imageNames {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestListingHandler_List(t *testing.T) {
	price := float64(100)

	tests := []struct {
		name           string
		query          string
		expectedFilter models.ListingFilter
	}{
		{
			name:           "Без фильтров",
			query:          "",
			expectedFilter: models.ListingFilter{},
		},
		{
			name:           "Фильтр по цене",
			query:          "?price=100",
			expectedFilter: models.ListingFilter{Price: &price},
		},
		{
			name:           "Фильтр по району",
			query:          "?neighborhood=Centre",
			expectedFilter: models.ListingFilter{Neighborhood: "Centre"},
		},
		{
			name:           "Нечисловая цена игнорируется",
			query:          "?price=abc",
			expectedFilter: models.ListingFilter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockListingService)
			mockService.On("List", mock.Anything, tt.expectedFilter).
				Return([]models.Listing{{ID: 1, Title: "Комната"}}, nil).Once()

			h := handlers.NewListingHandler(mockService, &recordingStorage{})
			r := setupListingRouter(h, "alice")

			req := httptest.NewRequest(http.MethodGet, "/api/listings"+tt.query, nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)

			var listings []models.Listing
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listings))
			require.Len(t, listings, 1)
			assert.Equal(t, "Комната", listings[0].Title)
			mockService.AssertExpectations(t)
		})
	}
}

func TestListingHandler_Get(t *testing.T) {
	t.Run("Существующее объявление", func(t *testing.T) {
		mockService := new(MockListingService)
		mockService.On("Get", mock.Anything, int64(1)).
			Return(&models.Listing{ID: 1, Title: "Комната"}, nil).Once()

		h := handlers.NewListingHandler(mockService, &recordingStorage{})
		r := setupListingRouter(h, "alice")

		req := httptest.NewRequest(http.MethodGet, "/api/listings/1", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Комната")
		mockService.AssertExpectations(t)
	})

	t.Run("Несуществующее объявление", func(t *testing.T) {
		mockService := new(MockListingService)
		mockService.On("Get", mock.Anything, int64(42)).
			Return(nil, services.ErrListingNotFound).Once()

		h := handlers.NewListingHandler(mockService, &recordingStorage{})
		r := setupListingRouter(h, "alice")

		req := httptest.NewRequest(http.MethodGet, "/api/listings/42", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Объявление не найдено")
	})

	t.Run("Нечисловой ID", func(t *testing.T) {
		mockService := new(MockListingService)
		h := handlers.NewListingHandler(mockService, &recordingStorage{})
		r := setupListingRouter(h, "alice")

		req := httptest.NewRequest(http.MethodGet, "/api/listings/abc", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		// Сервис не вызывается
		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestListingHandler_Create(t *testing.T) {
	t.Run("Успешное создание с изображениями", func(t *testing.T) {
		mockService := new(MockListingService)
		mockService.On("Create", mock.Anything, mock.AnythingOfType("models.CreateListingInput"),
			mock.AnythingOfType("[]models.ListingImage"), "alice").
			Run(func(args mock.Arguments) {
				input := args.Get(1).(models.CreateListingInput)
				assert.Equal(t, "Комната", input.Title)
				assert.Equal(t, "100", input.Price)
				assert.Equal(t, "on", input.Water)

				images := args.Get(2).([]models.ListingImage)
				require.Len(t, images, 2)
				assert.Equal(t, "a.jpg", images[0].OriginalName)
				assert.Contains(t, images[0].URL, "/uploads/")
			}).
			Return(&models.Listing{ID: 1, Title: "Комната", Author: "alice"}, nil).Once()

		fs := &recordingStorage{}
		h := handlers.NewListingHandler(mockService, fs)
		r := setupListingRouter(h, "alice")

		body, contentType := buildMultipartBody(t,
			map[string]string{"title": "Комната", "price": "100", "water": "on"},
			[]string{"a.jpg", "b.png"})

		req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.CreateListingResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, int64(1), resp.Listing.ID)

		// Оба файла дошли до хранилища
		assert.Len(t, fs.uploaded, 2)
		mockService.AssertExpectations(t)
	})

	t.Run("Без заголовка и цены", func(t *testing.T) {
		mockService := new(MockListingService)
		mockService.On("Create", mock.Anything, mock.AnythingOfType("models.CreateListingInput"),
			mock.AnythingOfType("[]models.ListingImage"), "alice").
			Return(nil, services.ErrTitleAndPriceRequired).Once()

		h := handlers.NewListingHandler(mockService, &recordingStorage{})
		r := setupListingRouter(h, "alice")

		body, contentType := buildMultipartBody(t, map[string]string{"description": "без заголовка"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Требуются заголовок и цена")
	})

	t.Run("Слишком много изображений", func(t *testing.T) {
		mockService := new(MockListingService)
		h := handlers.NewListingHandler(mockService, &recordingStorage{})
		r := setupListingRouter(h, "alice")

		names := make([]string, 9)
		for i := range names {
			names[i] = "img.jpg"
		}
		body, contentType := buildMultipartBody(t, map[string]string{"title": "Комната", "price": "100"}, names)

		req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		// Сервис не вызывается
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Не более 8 изображений")
		mockService.AssertExpectations(t)
	})

	t.Run("Тело не multipart", func(t *testing.T) {
		mockService := new(MockListingService)
		h := handlers.NewListingHandler(mockService, &recordingStorage{})
		r := setupListingRouter(h, "alice")

		req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewBufferString(`{"title":"Комната"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListingHandler_Delete(t *testing.T) {
	tests := []struct {
		name            string
		id              string
		username        string
		mockReturnError error
		mockCalled      bool
		expectedStatus  int
		expectedBody    string
	}{
		{
			name:           "Успешное удаление владельцем",
			id:             "1",
			username:       "alice",
			mockCalled:     true,
			expectedStatus: http.StatusOK,
			expectedBody:   `"success":true`,
		},
		{
			name:            "Удаление чужого объявления",
			id:              "1",
			username:        "bob",
			mockReturnError: services.ErrForbidden,
			mockCalled:      true,
			expectedStatus:  http.StatusForbidden,
			expectedBody:    "Удалять объявление может только его владелец",
		},
		{
			name:            "Несуществующее объявление",
			id:              "42",
			username:        "alice",
			mockReturnError: services.ErrListingNotFound,
			mockCalled:      true,
			expectedStatus:  http.StatusNotFound,
			expectedBody:    "Объявление не найдено",
		},
		{
			name:           "Нечисловой ID",
			id:             "abc",
			username:       "alice",
			mockCalled:     false,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Объявление не найдено",
		},
		{
			name:            "Внутренняя ошибка сервера",
			id:              "1",
			username:        "alice",
			mockReturnError: errors.New("some internal error"),
			mockCalled:      true,
			expectedStatus:  http.StatusInternalServerError,
			expectedBody:    "Внутренняя ошибка сервера",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockListingService)
			if tt.mockCalled {
				mockService.On("Delete", mock.Anything, mock.AnythingOfType("int64"), tt.username).
					Return(tt.mockReturnError).Once()
			}

			h := handlers.NewListingHandler(mockService, &recordingStorage{})
			r := setupListingRouter(h, tt.username)

			req := httptest.NewRequest(http.MethodDelete, "/api/listings/"+tt.id, nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
