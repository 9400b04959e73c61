package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	ports "employeehub/internal/employees/ports/storage"
	"employeehub/pkg/logger"
)

// Константы для логирования и ошибок.
const (
	LogLocalStorageReady = "local image storage ready"
	LogImageSaved        = "image saved"
	LogImageDeleted      = "image deleted"

	ErrCreateDir    = "failed to create uploads directory"
	ErrCreateFile   = "failed to create image file"
	ErrWriteFile    = "failed to write image file"
	ErrRemoveFile   = "failed to remove image file"
	ErrForeignImage = "image reference does not belong to this storage"
)

// LocalStorage хранит изображения в каталоге, который сервер раздает по prefix.
type LocalStorage struct {
	dir    string
	prefix string
}

// NewLocalStorage создает каталог, если его нет, и возвращает хранилище.
func NewLocalStorage(ctx context.Context, dir, prefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	logger.Log(ctx).Info(ctx, LogLocalStorageReady, zap.String("dir", dir), zap.String("prefix", prefix))
	return &LocalStorage{dir: dir, prefix: strings.TrimSuffix(prefix, "/")}, nil
}

// Dir возвращает каталог с файлами.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Prefix возвращает публичный префикс ссылок.
func (s *LocalStorage) Prefix() string {
	return s.prefix
}

// Save записывает изображение под новым именем и возвращает публичный путь к нему.
func (s *LocalStorage) Save(ctx context.Context, image *ports.Image) (string, error) {
	name, err := objectName(image.ContentType)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, name)
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrCreateFile, err)
	}

	if _, err := io.Copy(file, image.Content); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("%s: %w", ErrWriteFile, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("%s: %w", ErrWriteFile, err)
	}

	ref := s.prefix + "/" + name
	logger.Log(ctx).Debug(ctx, LogImageSaved, zap.String("ref", ref), zap.String("originalName", image.Filename))
	return ref, nil
}

// Delete удаляет файл по публичному пути. Отсутствующий файл не считается ошибкой.
func (s *LocalStorage) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s.prefix+"/") {
		return fmt.Errorf("%s: %q", ErrForeignImage, ref)
	}

	name := path.Base(ref)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", ErrRemoveFile, err)
	}

	logger.Log(ctx).Debug(ctx, LogImageDeleted, zap.String("ref", ref))
	return nil
}
