// Package attachment validates and stores photos sent along with transfers.
package attachment

import (
	"net/http"

	"github.com/go-petr/dream-bank/internal/domain"
)

// DefaultMaxBytes is the largest photo accepted when nothing else is configured.
const DefaultMaxBytes int64 = 1024 * 1024

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ContentType returns the declared content type or sniffs it from the content.
func ContentType(file *domain.Attachment) string {
	if file.ContentType != "" {
		return file.ContentType
	}

	return http.DetectContentType(file.Content)
}

// Validate reports whether the file may be attached to a transaction.
// A missing file is valid.
func Validate(file *domain.Attachment, maxBytes int64) bool {
	if file == nil {
		return true
	}

	size := max(file.Size, int64(len(file.Content)))
	if size > maxBytes {
		return false
	}

	_, ok := extensions[ContentType(file)]

	return ok
}
