package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// SniffLen is the number of leading bytes ValidateImageBySniff inspects.
const SniffLen = 512

var (
	ErrExtension   = errors.New("only jpg, jpeg, png, gif and webp images are allowed")
	ErrScriptable  = errors.New("html, xml and svg content is not allowed")
	ErrContentType = errors.New("file content is not a supported image")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	// SVG stays excluded, it can carry scripts
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AllowedExtension reports whether filename carries an accepted image extension.
func AllowedExtension(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// ValidateImageBySniff checks the extension of filename and the first bytes
// of the file against the image allow-list and returns the detected mime type.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	if !AllowedExtension(filename) {
		return "", ErrExtension
	}

	detected := http.DetectContentType(head)
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") ||
		strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") ||
		detected == "image/svg+xml" {
		return "", ErrScriptable
	}
	if allowedMime[detected] {
		return detected, nil
	}
	return "", ErrContentType
}
