package extractor

import (
	"path"
	"strings"
)

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// MimeType maps a file name to the content type sent to the model,
// defaulting to PDF for unknown extensions.
func MimeType(name string) string {
	ext := strings.ToLower(path.Ext(name))

	if val, ok := mimeTypes[ext]; ok {
		return val
	}

	return "application/pdf"
}
