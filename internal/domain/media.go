// Package domain contains core business types and interfaces.
//
// This file defines the MediaFile type for photos, audio notes and documents
// attached to a checklist area.
package domain

import (
	"strings"
	"time"
)

// =============================================================================
// Media Kind
// =============================================================================

// MediaKind identifies what a media attachment contains.
type MediaKind string

const (
	// MediaKindPhoto is a site photograph. Photos are counted in PhotoCount.
	MediaKindPhoto MediaKind = "photo"

	// MediaKindAudio is a recorded voice note. Audio is counted in NotesCount.
	MediaKindAudio MediaKind = "audio"

	// MediaKindDocument is any other attachment (lab results, field sheets).
	MediaKindDocument MediaKind = "document"
)

// String returns the string representation of the kind.
func (k MediaKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is a recognized value.
func (k MediaKind) IsValid() bool {
	switch k {
	case MediaKindPhoto, MediaKindAudio, MediaKindDocument:
		return true
	}
	return false
}

// MediaKindForContentType maps a MIME type to a media kind.
func MediaKindForContentType(contentType string) MediaKind {
	baseType := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	switch {
	case strings.HasPrefix(baseType, "image/"):
		return MediaKindPhoto
	case strings.HasPrefix(baseType, "audio/"):
		return MediaKindAudio
	default:
		return MediaKindDocument
	}
}

// =============================================================================
// Media Constants
// =============================================================================

const (
	// MaxMediaSize is the maximum allowed size for uploaded media (20MB).
	MaxMediaSize = 20 * 1024 * 1024

	// ThumbnailMaxWidth is the maximum width for generated thumbnails.
	ThumbnailMaxWidth = 200

	// ThumbnailMaxHeight is the maximum height for generated thumbnails.
	ThumbnailMaxHeight = 200

	// ThumbnailJPEGQuality is the JPEG quality for thumbnail generation (0-100).
	ThumbnailJPEGQuality = 85
)

// =============================================================================
// Media File
// =============================================================================

// MediaFile is one attachment owned by a single area.
type MediaFile struct {
	ID          string    `json:"id"`
	Kind        MediaKind `json:"type"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	Transcript  string    `json:"transcript,omitempty"`
	Duration    float64   `json:"duration,omitempty"` // Seconds, audio only
}

// Validate checks the fields every attachment must carry.
func (m MediaFile) Validate() error {
	const op = "media.validate"

	if !m.Kind.IsValid() {
		return Invalid(op, "unknown media type: "+string(m.Kind))
	}
	if strings.TrimSpace(m.URL) == "" {
		return Invalid(op, "media url is required")
	}
	return nil
}

// ValidateMediaSize checks an upload against limit bytes. A limit of zero
// applies MaxMediaSize.
func ValidateMediaSize(size, limit int64) error {
	if limit <= 0 {
		limit = MaxMediaSize
	}
	if size > limit {
		return Errorf(ETOOLARGE, "media.validate", "Media size %d bytes exceeds maximum of %d bytes (%.1fMB)", size, limit, float64(limit)/(1024*1024))
	}
	if size == 0 {
		return Invalid("media.validate", "Media file is empty")
	}
	return nil
}
