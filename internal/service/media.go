// Package service contains the business logic layer.
//
// This file implements the media service, which stores uploaded photos,
// voice notes and documents and attaches them to a checklist area.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/DukeRupert/sitewalk/internal/domain"
	"github.com/DukeRupert/sitewalk/internal/metrics"
	"github.com/DukeRupert/sitewalk/internal/storage"
)

// =============================================================================
// Interface Definition
// =============================================================================

// MediaService defines the upload path for area attachments.
type MediaService interface {
	// Upload stores file and attaches it to the area.
	// Returns domain.EINVALID for empty files and unsupported types.
	// Returns domain.ETOOLARGE when the file exceeds the upload limit.
	// Returns domain.ENOTFOUND if the inspection or area does not exist.
	// Returns domain.ECONFLICT for the demo inspection.
	Upload(ctx context.Context, file io.Reader, params UploadMediaParams) (*domain.MediaFile, error)
}

// UploadMediaParams describes one uploaded file.
type UploadMediaParams struct {
	InspectionID string
	AreaID       string
	Filename     string
	ContentType  string // As reported by the client; sniffed when missing
	Size         int64  // As reported by the client; -1 when unknown
	Title        string
	Description  string
	Tags         []string
}

// =============================================================================
// Implementation
// =============================================================================

type mediaService struct {
	progress           ProgressService
	storage            storage.Storage
	thumbnailProcessor ThumbnailProcessor
	maxBytes           int64
	logger             *slog.Logger
}

// NewMediaService creates a MediaService. A maxBytes of zero applies
// domain.MaxMediaSize.
func NewMediaService(
	progress ProgressService,
	storage storage.Storage,
	thumbnailProcessor ThumbnailProcessor,
	maxBytes int64,
	logger *slog.Logger,
) MediaService {
	if maxBytes <= 0 {
		maxBytes = domain.MaxMediaSize
	}
	return &mediaService{
		progress:           progress,
		storage:            storage,
		thumbnailProcessor: thumbnailProcessor,
		maxBytes:           maxBytes,
		logger:             logger,
	}
}

// Upload validates the file, stores the original and, for photos, a JPEG
// thumbnail, then appends the attachment to the area. Stored objects are
// removed again if the attachment cannot be recorded.
func (s *mediaService) Upload(ctx context.Context, file io.Reader, params UploadMediaParams) (*domain.MediaFile, error) {
	const op = "media.upload"

	if err := RejectDemo(op, params.InspectionID); err != nil {
		return nil, err
	}

	// Fail before touching storage when the inspection or area is unknown
	rec, err := s.progress.Get(ctx, params.InspectionID)
	if err != nil {
		return nil, err
	}
	idx := rec.FindArea(params.AreaID)
	if idx < 0 {
		return nil, domain.AreaNotFound(op, params.AreaID)
	}
	area := rec.Areas[idx]

	if params.Size > 0 {
		if err := domain.ValidateMediaSize(params.Size, s.maxBytes); err != nil {
			return nil, err
		}
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, domain.Internal(err, op, "failed to read upload")
	}
	if err := domain.ValidateMediaSize(int64(len(data)), s.maxBytes); err != nil {
		return nil, err
	}

	contentType := storage.DetectContentType(params.ContentType, params.Filename, bytes.NewReader(data))
	if !storage.IsAllowedMediaType(contentType) {
		return nil, domain.Invalid(op, fmt.Sprintf("Unsupported media type: %s", storage.BaseType(contentType)))
	}
	kind := domain.MediaKindForContentType(contentType)

	filename := params.Filename
	if filepath.Ext(filename) == "" {
		filename += storage.ExtensionForContentType(contentType)
	}

	mediaID := uuid.New()
	key := storage.MediaKey(params.InspectionID, params.AreaID, mediaID, filename)
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{
		ContentType: contentType,
		MaxSize:     s.maxBytes,
	}); err != nil {
		return nil, storage.DomainError(err, op, "failed to store media")
	}
	stored := []string{key}

	media := domain.MediaFile{
		ID:          mediaID.String(),
		Kind:        kind,
		Title:       params.Title,
		Description: params.Description,
		Category:    area.Category,
		Tags:        params.Tags,
	}
	if media.Title == "" {
		media.Title = strings.TrimSuffix(filepath.Base(params.Filename), filepath.Ext(params.Filename))
	}

	media.URL, err = s.storage.URL(ctx, key, 0)
	if err != nil {
		s.cleanup(ctx, stored)
		return nil, domain.Internal(err, op, "failed to resolve media URL")
	}

	if kind == domain.MediaKindPhoto {
		thumbKey, err := s.storeThumbnail(ctx, params, mediaID, data)
		if err != nil {
			// HEIC and WebP cannot be decoded here; the photo is kept without
			// a thumbnail.
			metrics.ThumbnailFailures.Inc()
			s.logger.Warn("thumbnail generation failed",
				"inspection_id", params.InspectionID,
				"area_id", params.AreaID,
				"content_type", contentType,
				"error", err,
			)
		} else {
			stored = append(stored, thumbKey)
			if media.Thumbnail, err = s.storage.URL(ctx, thumbKey, 0); err != nil {
				s.cleanup(ctx, stored)
				return nil, domain.Internal(err, op, "failed to resolve thumbnail URL")
			}
		}
	}

	added, err := s.progress.AddMedia(ctx, params.InspectionID, params.AreaID, media)
	if err != nil {
		s.cleanup(ctx, stored)
		return nil, err
	}

	metrics.MediaUploaded(added.Kind.String(), len(data))
	s.logger.Info("media uploaded",
		"inspection_id", params.InspectionID,
		"area_id", params.AreaID,
		"media_id", added.ID,
		"type", added.Kind,
		"size", len(data),
	)
	return added, nil
}

func (s *mediaService) storeThumbnail(ctx context.Context, params UploadMediaParams, mediaID uuid.UUID, data []byte) (string, error) {
	thumb, _, _, err := s.thumbnailProcessor.GenerateThumbnail(
		bytes.NewReader(data),
		domain.ThumbnailMaxWidth,
		domain.ThumbnailMaxHeight,
	)
	if err != nil {
		return "", err
	}

	key := storage.MediaThumbnailKey(params.InspectionID, params.AreaID, mediaID)
	if err := s.storage.Put(ctx, key, bytes.NewReader(thumb), storage.PutOptions{
		ContentType: "image/jpeg",
	}); err != nil {
		return "", err
	}
	return key, nil
}

func (s *mediaService) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Error("failed to delete orphaned media", "key", key, "error", err)
		}
	}
}
