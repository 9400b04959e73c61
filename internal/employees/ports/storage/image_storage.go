// Package storage описывает хранилище изображений сотрудников.
package storage

import (
	"context"
	"io"
	"strings"
)

// Image - загружаемый файл изображения.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ImageStorage сохраняет изображения и возвращает ссылку, по которой их отдают клиенту.
type ImageStorage interface {
	Save(ctx context.Context, image *Image) (string, error)

	Delete(ctx context.Context, ref string) error
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// NormalizeContentType отбрасывает параметры MIME-типа и приводит его к нижнему регистру.
func NormalizeContentType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// Extension возвращает расширение файла для допустимого MIME-типа изображения (JPEG или PNG).
func Extension(contentType string) (string, bool) {
	ext, ok := extensions[NormalizeContentType(contentType)]
	return ext, ok
}

// AllowedContentType сообщает, можно ли сохранить изображение с таким MIME-типом.
func AllowedContentType(contentType string) bool {
	_, ok := Extension(contentType)
	return ok
}
