// Package service contains the business logic layer.
//
// This file implements the progress service, which runs one progress.Tracker
// per call against the shared key-value store.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/DukeRupert/sitewalk/internal/domain"
	"github.com/DukeRupert/sitewalk/internal/kv"
	"github.com/DukeRupert/sitewalk/internal/progress"
)

// =============================================================================
// Interface Definition
// =============================================================================

// ProgressService defines the operations on inspection checklists.
type ProgressService interface {
	// Get loads the inspection, building it from its seed on first access.
	// Returns domain.EINVALID for an empty id.
	// Returns domain.ENOTFOUND if neither a record nor a seed exists.
	Get(ctx context.Context, inspectionID string) (*domain.InspectionRecord, error)

	// Progress returns completion figures and per-status area counts.
	Progress(ctx context.Context, inspectionID string) (*ProgressSummary, error)

	// UpdateArea merges update into one area and persists the record.
	// Returns domain.ENOTFOUND if the inspection or area does not exist.
	// Returns domain.EINVALID for unknown status, priority or media values.
	// Returns domain.ECONFLICT for the demo inspection, which is read-only.
	UpdateArea(ctx context.Context, inspectionID, areaID string, update domain.AreaUpdate) (*domain.InspectionRecord, error)

	// SetStatus moves one area to status.
	SetStatus(ctx context.Context, inspectionID, areaID string, status domain.AreaStatus) (*domain.InspectionRecord, error)

	// AddMedia appends an attachment to one area and returns it with its id
	// and timestamp filled in.
	AddMedia(ctx context.Context, inspectionID, areaID string, media domain.MediaFile) (*domain.MediaFile, error)

	// Seed stores the basic info an inspection is built from on first load.
	// Returns domain.ECONFLICT if a full record already exists, or for the
	// demo inspection. Returns domain.EINVALID for ids ending in "-data",
	// whose seed key would be another inspection's record key.
	Seed(ctx context.Context, inspectionID string, info domain.BasicInfo) error
}

// ProgressSummary is the dashboard view of an inspection's checklist.
type ProgressSummary struct {
	domain.Progress
	ByStatus []StatusCount `json:"byStatus"`
}

// StatusCount is the number of areas in one status.
type StatusCount struct {
	Status domain.AreaStatus `json:"status"`
	Label  string            `json:"label"`
	Count  int               `json:"count"`
}

// Summarize builds a ProgressSummary for rec. Every status is listed, in
// display order, even when no area has it.
func Summarize(rec *domain.InspectionRecord) *ProgressSummary {
	counts := make(map[domain.AreaStatus]int, len(domain.AreaStatuses))
	for _, a := range rec.Areas {
		counts[a.Status]++
	}

	summary := &ProgressSummary{
		Progress: rec.Progress(),
		ByStatus: make([]StatusCount, 0, len(domain.AreaStatuses)),
	}
	for _, status := range domain.AreaStatuses {
		summary.ByStatus = append(summary.ByStatus, StatusCount{
			Status: status,
			Label:  status.Label(),
			Count:  counts[status],
		})
	}
	return summary
}

// =============================================================================
// Implementation
// =============================================================================

type progressService struct {
	store  kv.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewProgressService creates a ProgressService over store.
//
// Example usage:
//
//	progressService := service.NewProgressService(kv.Instrument(store, "redis"), logger)
func NewProgressService(store kv.Store, logger *slog.Logger) ProgressService {
	return &progressService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *progressService) tracker() *progress.Tracker {
	return progress.New(s.store, s.logger, progress.WithClock(s.now))
}

// load returns a tracker holding inspectionID. A freshly seeded record whose
// first write failed is still usable, so that failure is only logged; the
// next load seeds it again.
func (s *progressService) load(ctx context.Context, inspectionID string) (*progress.Tracker, error) {
	t := s.tracker()
	rec, err := t.Load(ctx, inspectionID)
	if err != nil {
		if rec != nil && errors.Is(err, domain.ErrPersistence) {
			s.logger.Warn("serving seeded inspection that could not be saved",
				"inspection_id", inspectionID,
				"error", err,
			)
			return t, nil
		}
		return nil, err
	}
	return t, nil
}

func (s *progressService) Get(ctx context.Context, inspectionID string) (*domain.InspectionRecord, error) {
	t, err := s.load(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	return t.Record(), nil
}

func (s *progressService) Progress(ctx context.Context, inspectionID string) (*ProgressSummary, error) {
	t, err := s.load(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	return Summarize(t.Record()), nil
}

func (s *progressService) UpdateArea(ctx context.Context, inspectionID, areaID string, update domain.AreaUpdate) (*domain.InspectionRecord, error) {
	if err := RejectDemo("progress.update_area", inspectionID); err != nil {
		return nil, err
	}

	t, err := s.load(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	if err := t.UpdateArea(ctx, areaID, update); err != nil {
		return nil, err
	}

	attrs := []any{"inspection_id", inspectionID, "area_id", areaID}
	if update.Status != nil {
		attrs = append(attrs, "status", *update.Status)
	}
	s.logger.Info("area updated", attrs...)

	return t.Record(), nil
}

func (s *progressService) SetStatus(ctx context.Context, inspectionID, areaID string, status domain.AreaStatus) (*domain.InspectionRecord, error) {
	return s.UpdateArea(ctx, inspectionID, areaID, domain.AreaUpdate{Status: &status})
}

func (s *progressService) AddMedia(ctx context.Context, inspectionID, areaID string, media domain.MediaFile) (*domain.MediaFile, error) {
	if err := RejectDemo("progress.add_media", inspectionID); err != nil {
		return nil, err
	}

	t, err := s.load(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	added, err := t.AddMedia(ctx, areaID, media)
	if err != nil {
		return nil, err
	}

	s.logger.Info("media attached",
		"inspection_id", inspectionID,
		"area_id", areaID,
		"media_id", added.ID,
		"type", added.Kind,
	)
	return &added, nil
}

// RejectDemo fails mutations of the demo inspection. The demo is rebuilt on
// every load, so a write to it would be reported as saved and then lost.
func RejectDemo(op, inspectionID string) error {
	if inspectionID == domain.DemoInspectionID {
		return domain.Conflict(op, "The demo inspection is read-only")
	}
	return nil
}

func (s *progressService) Seed(ctx context.Context, inspectionID string, info domain.BasicInfo) error {
	const op = "progress.seed"

	if inspectionID == "" {
		return domain.MissingIdentifier(op)
	}
	if inspectionID == domain.DemoInspectionID {
		return domain.Conflict(op, "The demo inspection cannot be seeded")
	}
	if kv.ReservedID(inspectionID) {
		return domain.Invalid(op, "Inspection ID must not end in -data")
	}
	if err := info.Validate(); err != nil {
		return err
	}

	// The seed key must never hold a full record, whatever wrote it
	data, err := s.store.Get(ctx, kv.SeedKey(inspectionID))
	switch {
	case err == nil:
		var rec domain.InspectionRecord
		if json.Unmarshal(data, &rec) == nil && rec.CheckStored() == nil {
			return domain.Conflict(op, "Inspection ID "+inspectionID+" is already in use")
		}
	case !errors.Is(err, kv.ErrNotFound):
		return domain.Internal(err, op, "Failed to read inspection data")
	}

	_, err = s.store.Get(ctx, kv.RecordKey(inspectionID))
	switch {
	case err == nil:
		return domain.Conflict(op, "Inspection "+inspectionID+" has already been started")
	case !errors.Is(err, kv.ErrNotFound):
		return domain.Internal(err, op, "Failed to read inspection data")
	}

	if info.CreatedAt.IsZero() {
		info.CreatedAt = s.now().UTC()
	}
	data, err = json.Marshal(info)
	if err != nil {
		return domain.Internal(err, op, "Failed to encode seed")
	}
	if err := s.store.Set(ctx, kv.SeedKey(inspectionID), data); err != nil {
		return domain.Persistence(err, op)
	}

	s.logger.Info("inspection seeded",
		"inspection_id", inspectionID,
		"site_type", info.SiteType,
	)
	return nil
}
