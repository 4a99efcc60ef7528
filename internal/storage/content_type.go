package storage

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// =============================================================================
// Content Type Detection
// =============================================================================

// DetectContentType determines the MIME type of an object.
//
// Detection priority:
// 1. providedType, unless it is empty or application/octet-stream
// 2. the file extension, via mediaExtensions and then mime.TypeByExtension
// 3. sniffing the first 512 bytes of data, when data is non-nil
// 4. application/octet-stream
func DetectContentType(providedType, filename string, data io.Reader) string {
	if t := BaseType(providedType); t != "" && t != "application/octet-stream" {
		return providedType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, ok := mediaExtensions[ext]; ok {
		return contentType
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	if data != nil {
		buffer := make([]byte, 512)
		n, err := io.ReadFull(data, buffer)
		if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
			return http.DetectContentType(buffer[:n])
		}
	}

	return "application/octet-stream"
}

// BaseType strips parameters from a content type and lowercases it.
func BaseType(contentType string) string {
	return strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
}

// =============================================================================
// Content Type Validation
// =============================================================================

// AllowedImageTypes are the photo formats accepted for area media.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true, // Some systems use this instead of image/jpeg
	"image/png":  true,
	"image/webp": true,
	"image/heic": true, // iPhone photos
	"image/heif": true,
}

// AllowedAudioTypes are the voice note formats recorded by field devices.
var AllowedAudioTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp4":   true,
	"audio/x-m4a": true,
	"audio/aac":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/webm":  true,
	"audio/ogg":   true,
}

// AllowedDocumentTypes are the attachment formats for lab results and field
// sheets.
var AllowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"text/csv":   true,
	"text/plain": true,
}

// IsAllowedMediaType reports whether an upload of this type may be attached
// to an area.
func IsAllowedMediaType(contentType string) bool {
	t := BaseType(contentType)
	return AllowedImageTypes[t] || AllowedAudioTypes[t] || AllowedDocumentTypes[t]
}

// =============================================================================
// File Extension Helpers
// =============================================================================

// mediaExtensions pins the types of field-device formats. They take
// precedence over the system mime table, which lacks some of them and
// disagrees between hosts on others (.heic as image/heif).
var mediaExtensions = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".webm": "audio/webm",
}

// ExtensionForContentType returns a file extension for a MIME type, used when
// an upload arrives without a usable filename.
func ExtensionForContentType(contentType string) string {
	t := BaseType(contentType)

	extensions := map[string]string{
		"image/jpeg":       ".jpg",
		"image/jpg":        ".jpg",
		"image/png":        ".png",
		"image/webp":       ".webp",
		"image/heic":       ".heic",
		"image/heif":       ".heif",
		"audio/mpeg":       ".mp3",
		"audio/mp4":        ".m4a",
		"audio/x-m4a":      ".m4a",
		"audio/aac":        ".aac",
		"audio/wav":        ".wav",
		"audio/x-wav":      ".wav",
		"audio/webm":       ".webm",
		"audio/ogg":        ".ogg",
		"application/pdf":  ".pdf",
		"application/json": ".json",
		"text/csv":         ".csv",
		"text/plain":       ".txt",
	}
	if ext, ok := extensions[t]; ok {
		return ext
	}

	exts, err := mime.ExtensionsByType(t)
	if err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
