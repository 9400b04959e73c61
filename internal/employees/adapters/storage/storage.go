// Package storage содержит хранилища изображений сотрудников: локальный каталог и S3-совместимый бакет.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"employeehub/internal/config"
	ports "employeehub/internal/employees/ports/storage"
)

// ErrUnsupportedContentType возвращается для файлов, отличных от JPEG и PNG.
var ErrUnsupportedContentType = errors.New("unsupported image content type")

// objectName возвращает новое уникальное имя файла с расширением по MIME-типу.
func objectName(contentType string) (string, error) {
	ext, ok := ports.Extension(contentType)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return uuid.NewString() + ext, nil
}

// New создает хранилище, выбранное в конфигурации.
func New(ctx context.Context, cfg *config.StorageConfig) (ports.ImageStorage, error) {
	switch cfg.Backend {
	case config.StorageLocal:
		local, err := NewLocalStorage(ctx, cfg.LocalDir, cfg.PublicPrefix)
		if err != nil {
			return nil, err
		}
		return local, nil
	case config.StorageS3:
		remote, err := NewS3Storage(ctx, S3Options{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, cfg.Backend)
	}
}
