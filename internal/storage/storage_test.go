package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/sitewalk/internal/domain"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:8080/files/",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

// =============================================================================
// Keys
// =============================================================================

func TestMediaKey(t *testing.T) {
	id := uuid.MustParse("7f1c1a52-3a43-4a43-9f0e-0d6a0c9c2b11")

	tests := []struct {
		name       string
		inspection string
		area       string
		filename   string
		want       string
	}{
		{
			name:       "keeps lowercased extension",
			inspection: "ASM-002",
			area:       "area-storage",
			filename:   "Drum Row.JPG",
			want:       "inspections/ASM-002/areas/area-storage/media/7f1c1a52-3a43-4a43-9f0e-0d6a0c9c2b11.jpg",
		},
		{
			name:       "slashes in ids stay in one segment",
			inspection: "../etc",
			area:       "a/b",
			filename:   "note.m4a",
			want:       "inspections/.._etc/areas/a_b/media/7f1c1a52-3a43-4a43-9f0e-0d6a0c9c2b11.m4a",
		},
		{
			name:       "dot ids are replaced",
			inspection: "..",
			area:       ".",
			filename:   "lab.pdf",
			want:       "inspections/_/areas/_/media/7f1c1a52-3a43-4a43-9f0e-0d6a0c9c2b11.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaKey(tt.inspection, tt.area, id, tt.filename))
		})
	}

	assert.Equal(t,
		"inspections/ASM-002/areas/area-storage/thumbnails/7f1c1a52-3a43-4a43-9f0e-0d6a0c9c2b11.jpg",
		MediaThumbnailKey("ASM-002", "area-storage", id),
	)
}

// =============================================================================
// Content Types
// =============================================================================

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	tests := []struct {
		name     string
		provided string
		filename string
		data     []byte
		want     string
	}{
		{"provided type wins", "audio/mp4", "note.bin", nil, "audio/mp4"},
		{"octet-stream falls through to extension", "application/octet-stream", "lab.pdf", nil, "application/pdf"},
		{"field formats do not depend on the host mime table", "", "IMG_0042.HEIC", nil, "image/heic"},
		{"voice note extension", "", "note.m4a", nil, "audio/mp4"},
		{"webm is a voice note", "application/octet-stream", "note.webm", nil, "audio/webm"},
		{"sniffed from content", "", "upload", png, "image/png"},
		{"nothing to go on", "", "upload", nil, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data io.Reader
			if tt.data != nil {
				data = bytes.NewReader(tt.data)
			}
			assert.Equal(t, tt.want, DetectContentType(tt.provided, tt.filename, data))
		})
	}
}

func TestIsAllowedMediaType(t *testing.T) {
	allowed := []string{"image/jpeg", "IMAGE/PNG", "image/heic", "audio/mpeg", "audio/webm; codecs=opus", "application/pdf", "text/csv"}
	for _, ct := range allowed {
		assert.True(t, IsAllowedMediaType(ct), ct)
	}

	rejected := []string{"", "application/octet-stream", "text/html", "application/x-msdownload", "video/mp4"}
	for _, ct := range rejected {
		assert.False(t, IsAllowedMediaType(ct), ct)
	}
}

func TestExtensionForContentType(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionForContentType("image/jpeg"))
	assert.Equal(t, ".m4a", ExtensionForContentType("audio/x-m4a"))
	assert.Equal(t, ".webm", ExtensionForContentType("audio/webm; codecs=opus"))
	assert.Equal(t, ".bin", ExtensionForContentType("application/x-sitewalk-unknown"))
}

// =============================================================================
// Errors
// =============================================================================

func TestDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"too large", &StorageError{Op: "Put", Key: "k", Err: ErrTooLarge}, domain.ETOOLARGE},
		{"invalid key", &StorageError{Op: "Put", Key: "../k", Err: ErrInvalidKey}, domain.EINVALID},
		{"key exists", &StorageError{Op: "Put", Key: "k", Err: ErrKeyExists}, domain.ECONFLICT},
		{"access denied", &StorageError{Op: "Put", Key: "k", Err: ErrAccessDenied}, domain.EINTERNAL},
		{"anything else", errors.New("disk full"), domain.EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DomainError(tt.err, "media.upload", "failed to store media")
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// =============================================================================
// LocalStorage
// =============================================================================

func TestLocalStorage_PutGetDelete(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()
	key := "inspections/ASM-002/areas/area-waste/media/a.txt"

	require.NoError(t, s.Put(ctx, key, strings.NewReader("drum labels photographed"), PutOptions{ContentType: "text/plain"}))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, info, err := s.Get(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "drum labels photographed", string(body))
	assert.Equal(t, int64(len(body)), info.Size)

	url, err := s.URL(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/"+key, url)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting a missing key is not an error")

	_, _, err = s.Get(ctx, key)
	assert.True(t, IsNotFound(err))
}

func TestLocalStorage_PutRules(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "kv/inspection-X-data", strings.NewReader("v1"), PutOptions{}))

	err := s.Put(ctx, "kv/inspection-X-data", strings.NewReader("v2"), PutOptions{})
	assert.ErrorIs(t, err, ErrKeyExists)

	require.NoError(t, s.Put(ctx, "kv/inspection-X-data", strings.NewReader("v2"), PutOptions{Overwrite: true}))

	err = s.Put(ctx, "big.bin", strings.NewReader("0123456789"), PutOptions{MaxSize: 4})
	assert.ErrorIs(t, err, ErrTooLarge)
	exists, _ := s.Exists(ctx, "big.bin")
	assert.False(t, exists, "an oversized object must not be committed")

	for _, key := range []string{"", "../escape", "/etc/passwd"} {
		err := s.Put(ctx, key, strings.NewReader("x"), PutOptions{})
		assert.True(t, IsInvalidKey(err), "key %q", key)
	}

	// No temp files are left behind
	entries, err := os.ReadDir(filepath.Join(s.basePath, "kv"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inspection-X-data", entries[0].Name())
}

func TestLocalStorage_Handler(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "inspections/X/areas/a/media/m.txt", strings.NewReader("field sheet"), PutOptions{}))
	require.NoError(t, os.WriteFile(filepath.Join(s.basePath, "inspections", "X", ".upload-123"), []byte("partial"), 0644))

	srv := http.StripPrefix("/files", s.Handler())

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/files/inspections/X/areas/a/media/m.txt", http.StatusOK},
		{"/files/inspections/X/", http.StatusNotFound},
		{"/files/inspections/X/.upload-123", http.StatusNotFound},
		{"/files/inspections/X/missing.txt", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
