// Package handler contains the HTTP handlers of the sitewalk API.
//
// This file implements the JSON API over inspection checklists: seeding,
// loading, progress summaries, area updates and media attachments.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/DukeRupert/sitewalk/internal/domain"
	"github.com/DukeRupert/sitewalk/internal/service"
)

// =============================================================================
// Request Types
// =============================================================================

// SeedRequest is the body of PUT /api/inspections/{id}/seed.
type SeedRequest struct {
	Address       string          `json:"address" validate:"required,max=500"`
	SiteType      domain.SiteType `json:"siteType" validate:"omitempty,site_type"`
	ClientName    string          `json:"clientName" validate:"max=200"`
	HistoricalUse string          `json:"historicalUse" validate:"max=500"`
	ProjectNumber string          `json:"projectNumber" validate:"max=100"`
	SiteArea      string          `json:"siteArea" validate:"max=100"`
	CreatedAt     *time.Time      `json:"createdAt"`
}

func (req SeedRequest) toBasicInfo() domain.BasicInfo {
	info := domain.BasicInfo{
		Address:       strings.TrimSpace(req.Address),
		SiteType:      req.SiteType,
		ClientName:    strings.TrimSpace(req.ClientName),
		HistoricalUse: req.HistoricalUse,
		ProjectNumber: req.ProjectNumber,
		SiteArea:      req.SiteArea,
	}
	if req.CreatedAt != nil {
		info.CreatedAt = req.CreatedAt.UTC()
	}
	return info
}

// MediaRequest is one attachment in a JSON body.
type MediaRequest struct {
	ID          string           `json:"id" validate:"max=100"`
	Type        domain.MediaKind `json:"type" validate:"required,media_type"`
	URL         string           `json:"url" validate:"required,max=2048"`
	Thumbnail   string           `json:"thumbnail" validate:"max=2048"`
	Title       string           `json:"title" validate:"max=200"`
	Description string           `json:"description" validate:"max=2000"`
	Timestamp   *time.Time       `json:"timestamp"`
	Category    string           `json:"category" validate:"max=100"`
	Tags        []string         `json:"tags" validate:"max=20,dive,max=50"`
	Transcript  string           `json:"transcript" validate:"max=10000"`
	Duration    float64          `json:"duration" validate:"gte=0"`
}

func (req MediaRequest) toMediaFile() domain.MediaFile {
	m := domain.MediaFile{
		ID:          req.ID,
		Kind:        req.Type,
		URL:         req.URL,
		Thumbnail:   req.Thumbnail,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Transcript:  req.Transcript,
		Duration:    req.Duration,
	}
	if req.Timestamp != nil {
		m.Timestamp = req.Timestamp.UTC()
	}
	return m
}

// UpdateAreaRequest is the body of PATCH /api/inspections/{id}/areas/{areaId}.
// Omitted fields are left unchanged; a media list replaces the area's media.
type UpdateAreaRequest struct {
	Status              *domain.AreaStatus `json:"status" validate:"omitempty,area_status"`
	Findings            *string            `json:"findings" validate:"omitempty,max=10000"`
	Observations        *string            `json:"observations" validate:"omitempty,max=10000"`
	ContaminantConcerns *string            `json:"contaminantConcerns" validate:"omitempty,max=10000"`
	RecommendedActions  *string            `json:"recommendedActions" validate:"omitempty,max=10000"`
	Priority            *domain.Priority   `json:"priority" validate:"omitempty,priority"`
	EstimatedCost       *float64           `json:"estimatedCost" validate:"omitempty,gte=0"`
	Media               []MediaRequest     `json:"media" validate:"omitempty,dive"`
}

func (req UpdateAreaRequest) toAreaUpdate() domain.AreaUpdate {
	update := domain.AreaUpdate{
		Status:              req.Status,
		Findings:            req.Findings,
		Observations:        req.Observations,
		ContaminantConcerns: req.ContaminantConcerns,
		RecommendedActions:  req.RecommendedActions,
		Priority:            req.Priority,
		EstimatedCost:       req.EstimatedCost,
	}
	if req.Media != nil {
		update.Media = make([]domain.MediaFile, len(req.Media))
		for i, m := range req.Media {
			update.Media[i] = m.toMediaFile()
		}
	}
	return update
}

// StatusRequest is the body of PUT /api/inspections/{id}/areas/{areaId}/status.
type StatusRequest struct {
	Status domain.AreaStatus `json:"status" validate:"required,area_status"`
}

// =============================================================================
// Handler
// =============================================================================

// InspectionHandler serves the inspection API.
type InspectionHandler struct {
	progress       service.ProgressService
	media          service.MediaService
	validator      *validator.Validate
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewInspectionHandler creates an InspectionHandler.
func NewInspectionHandler(
	progress service.ProgressService,
	media service.MediaService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *InspectionHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = domain.MaxMediaSize
	}
	return &InspectionHandler{
		progress:       progress,
		media:          media,
		validator:      newValidator(),
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers the inspection API with the provided mux.
//
// Routes:
// - PUT   /api/inspections/{id}/seed                    -> Seed
// - GET   /api/inspections/{id}                         -> Show
// - GET   /api/inspections/{id}/progress                -> Progress
// - PATCH /api/inspections/{id}/areas/{areaId}          -> UpdateArea
// - PUT   /api/inspections/{id}/areas/{areaId}/status   -> SetStatus
// - POST  /api/inspections/{id}/areas/{areaId}/media    -> AddMedia
// - POST  /api/inspections/{id}/areas/{areaId}/uploads  -> Upload
func (h *InspectionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /api/inspections/{id}/seed", h.Seed)
	mux.HandleFunc("GET /api/inspections/{id}", h.Show)
	mux.HandleFunc("GET /api/inspections/{id}/progress", h.Progress)
	mux.HandleFunc("PATCH /api/inspections/{id}/areas/{areaId}", h.UpdateArea)
	mux.HandleFunc("PUT /api/inspections/{id}/areas/{areaId}/status", h.SetStatus)
	mux.HandleFunc("POST /api/inspections/{id}/areas/{areaId}/media", h.AddMedia)
	mux.HandleFunc("POST /api/inspections/{id}/areas/{areaId}/uploads", h.Upload)
}

// =============================================================================
// PUT /api/inspections/{id}/seed
// =============================================================================

// Seed stores the basic info an inspection is built from on first load.
func (h *InspectionHandler) Seed(w http.ResponseWriter, r *http.Request) {
	const op = "handler.seed"

	var req SeedRequest
	if err := h.decodeJSON(r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	id := r.PathValue("id")
	if err := h.progress.Seed(r.Context(), id, req.toBasicInfo()); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// =============================================================================
// GET /api/inspections/{id}
// =============================================================================

// Show returns the full inspection record.
func (h *InspectionHandler) Show(w http.ResponseWriter, r *http.Request) {
	rec, err := h.progress.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// GET /api/inspections/{id}/progress
// =============================================================================

// Progress returns the completion summary with per-status counts.
func (h *InspectionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	summary, err := h.progress.Progress(r.Context(), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// =============================================================================
// PATCH /api/inspections/{id}/areas/{areaId}
// =============================================================================

// UpdateArea merges a partial update into one area.
func (h *InspectionHandler) UpdateArea(w http.ResponseWriter, r *http.Request) {
	const op = "handler.update_area"

	var req UpdateAreaRequest
	if err := h.decodeJSON(r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	rec, err := h.progress.UpdateArea(r.Context(), r.PathValue("id"), r.PathValue("areaId"), req.toAreaUpdate())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// PUT /api/inspections/{id}/areas/{areaId}/status
// =============================================================================

// SetStatus moves one area to a new status.
func (h *InspectionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handler.set_status"

	var req StatusRequest
	if err := h.decodeJSON(r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	rec, err := h.progress.SetStatus(r.Context(), r.PathValue("id"), r.PathValue("areaId"), req.Status)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// POST /api/inspections/{id}/areas/{areaId}/media
// =============================================================================

// AddMedia attaches media that is already hosted elsewhere.
func (h *InspectionHandler) AddMedia(w http.ResponseWriter, r *http.Request) {
	const op = "handler.add_media"

	var req MediaRequest
	if err := h.decodeJSON(r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	media, err := h.progress.AddMedia(r.Context(), r.PathValue("id"), r.PathValue("areaId"), req.toMediaFile())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, media)
}

// =============================================================================
// POST /api/inspections/{id}/areas/{areaId}/uploads
// =============================================================================

// Upload stores a multipart file and attaches it to the area. Optional form
// fields: title, description and comma-separated tags.
func (h *InspectionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "handler.upload"

	// Leave room for the multipart envelope and text fields
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, r, h.logger, domain.Errorf(domain.ETOOLARGE, op, "Upload exceeds the size limit"))
			return
		}
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Expected a multipart form upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.NewValidationError(op, "file", "is required"))
		return
	}
	defer file.Close()

	media, err := h.media.Upload(r.Context(), file, service.UploadMediaParams{
		InspectionID: r.PathValue("id"),
		AreaID:       r.PathValue("areaId"),
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Tags:         splitTags(r.FormValue("tags")),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, media)
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
