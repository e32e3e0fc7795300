package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maynagashev/doska/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	content := "fake image bytes"
	err = s.UploadFile(ctx, "photo.jpg", strings.NewReader(content), int64(len(content)), "image/jpeg")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

// Ключ объекта с элементами пути не выводит запись за пределы каталога.
func TestLocalStorage_UploadFile_StripsPath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	err = s.UploadFile(ctx, "../evil.jpg", strings.NewReader("data"), 4, "image/jpeg")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "evil.jpg"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "evil.jpg"))
	require.True(t, os.IsNotExist(err))
}

func TestLocalStorage_DeleteFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	t.Run("Удаление существующего файла", func(t *testing.T) {
		require.NoError(t, s.UploadFile(ctx, "photo.jpg", strings.NewReader("data"), 4, "image/jpeg"))
		require.NoError(t, s.DeleteFile(ctx, "photo.jpg"))

		_, statErr := os.Stat(filepath.Join(dir, "photo.jpg"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("Удаление отсутствующего файла", func(t *testing.T) {
		err := s.DeleteFile(ctx, "ghost.jpg")
		require.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}

func TestLocalStorage_FileURL(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/uploads/photo.jpg", s.FileURL("photo.jpg"))
	assert.Equal(t, "/uploads/photo.jpg", s.FileURL("nested/photo.jpg"))
}

// NewLocalStorage создает каталог, если его нет.
func TestNewLocalStorage_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	_, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
