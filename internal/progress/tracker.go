// Package progress implements the inspection progress store: it loads one
// inspection's checklist, applies area updates, keeps the derived fields
// consistent and writes the record back after every change.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/sitewalk/internal/domain"
	"github.com/DukeRupert/sitewalk/internal/kv"
	"github.com/DukeRupert/sitewalk/internal/metrics"
)

// Tracker holds the current record of a single inspection.
//
// A Tracker is not safe for concurrent use. Two trackers working on the same
// inspection id do not coordinate: the last write to the store wins.
type Tracker struct {
	store  kv.Store
	logger *slog.Logger
	now    func() time.Time

	id     string
	record *domain.InspectionRecord
	err    error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New returns a Tracker with nothing loaded.
func New(store kv.Store, logger *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// =============================================================================
// Loading
// =============================================================================

// Load makes id the tracked inspection.
//
// A stored record is returned as stored. Otherwise a record is built from
// the inspection's basic info seed and written immediately. The demo id is
// always rebuilt from the bundled dataset and never written.
//
// If writing a freshly seeded record fails, the record is still loaded and
// returned together with the persistence error.
func (t *Tracker) Load(ctx context.Context, id string) (*domain.InspectionRecord, error) {
	const op = "progress.load"

	t.id = id
	t.record = nil
	t.err = nil

	if id == "" {
		return nil, t.fail(domain.MissingIdentifier(op))
	}

	if id == domain.DemoInspectionID {
		t.record = domain.NewDemoRecord(t.clock())
		metrics.InspectionLoaded(metrics.SourceDemo)
		return t.Record(), nil
	}

	rec, err := t.loadStored(ctx, op, id)
	if err == nil {
		t.record = rec
		metrics.InspectionLoaded(metrics.SourceStored)
		return t.Record(), nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return nil, t.fail(err)
	}

	// The seed key of a reserved id holds another inspection's record
	if kv.ReservedID(id) {
		return nil, t.fail(domain.InspectionNotFound(op, id))
	}

	seed, err := t.loadSeed(ctx, op, id)
	if err != nil {
		return nil, t.fail(err)
	}

	t.record = domain.NewRecordFromSeed(id, *seed, t.clock())
	metrics.InspectionLoaded(metrics.SourceSeed)
	t.logger.Info("initialized inspection from seed",
		"inspection_id", id,
		"site_type", t.record.Site.Type,
		"areas", len(t.record.Areas),
	)

	if err := t.save(ctx, op); err != nil {
		return t.Record(), err
	}
	return t.Record(), nil
}

// loadStored returns kv.ErrNotFound unwrapped when no record is stored.
func (t *Tracker) loadStored(ctx context.Context, op, id string) (*domain.InspectionRecord, error) {
	key := kv.RecordKey(id)
	data, err := t.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, kv.ErrNotFound
		}
		return nil, domain.Internal(err, op, "Failed to read inspection data")
	}

	var rec domain.InspectionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, domain.Deserialization(err, op, key)
	}
	if err := rec.CheckStored(); err != nil {
		return nil, domain.Deserialization(err, op, key)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return &rec, nil
}

func (t *Tracker) loadSeed(ctx context.Context, op, id string) (*domain.BasicInfo, error) {
	key := kv.SeedKey(id)
	data, err := t.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, domain.InspectionNotFound(op, id)
		}
		return nil, domain.Internal(err, op, "Failed to read inspection data")
	}

	var seed domain.BasicInfo
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, domain.Deserialization(err, op, key)
	}
	return &seed, nil
}

// =============================================================================
// Mutations
// =============================================================================

// UpdateArea merges update into the area with areaID and persists the
// record. An unknown area or an invalid update leaves the record unchanged.
func (t *Tracker) UpdateArea(ctx context.Context, areaID string, update domain.AreaUpdate) error {
	const op = "progress.update_area"

	if err := update.Validate(); err != nil {
		return err
	}

	err := t.mutate(ctx, op, areaID, func(a *domain.Area) {
		update.Apply(a)
	})
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return err
	}

	if update.Status != nil {
		metrics.AreaStatusChanged(update.Status.String())
	}
	return err
}

// SetStatus moves an area to status. Any status may follow any other.
func (t *Tracker) SetStatus(ctx context.Context, areaID string, status domain.AreaStatus) error {
	return t.UpdateArea(ctx, areaID, domain.AreaUpdate{Status: &status})
}

// MarkInProgress sets the area to in_progress.
func (t *Tracker) MarkInProgress(ctx context.Context, areaID string) error {
	return t.SetStatus(ctx, areaID, domain.AreaStatusInProgress)
}

// MarkCompleted sets the area to completed.
func (t *Tracker) MarkCompleted(ctx context.Context, areaID string) error {
	return t.SetStatus(ctx, areaID, domain.AreaStatusCompleted)
}

// MarkSkipped sets the area to skipped.
func (t *Tracker) MarkSkipped(ctx context.Context, areaID string) error {
	return t.SetStatus(ctx, areaID, domain.AreaStatusSkipped)
}

// AddMedia appends media to the area's media list and persists the record.
// A missing id or timestamp is filled in; the stored attachment is returned.
func (t *Tracker) AddMedia(ctx context.Context, areaID string, media domain.MediaFile) (domain.MediaFile, error) {
	const op = "progress.add_media"

	if media.ID == "" {
		media.ID = uuid.NewString()
	}
	if media.Timestamp.IsZero() {
		media.Timestamp = t.clock()
	}
	if err := media.Validate(); err != nil {
		return domain.MediaFile{}, err
	}

	err := t.mutate(ctx, op, areaID, func(a *domain.Area) {
		a.Media = append(a.Media, media)
	})
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return domain.MediaFile{}, err
	}

	metrics.MediaAttachedToArea(media.Kind.String())
	return media, err
}

// mutate applies fn to a copy of the record, recomputes derived fields,
// swaps the copy in and then persists it. Persistence failures keep the new
// in-memory state.
func (t *Tracker) mutate(ctx context.Context, op, areaID string, fn func(*domain.Area)) error {
	if t.record == nil {
		return domain.NotLoaded(op)
	}

	idx := t.record.FindArea(areaID)
	if idx < 0 {
		return domain.AreaNotFound(op, areaID)
	}

	next := t.record.Clone()
	fn(&next.Areas[idx])
	next.Areas[idx].RecountMedia()
	next.CompletionPercentage = domain.CompletionPercentage(next.Areas)
	next.UpdatedAt = t.clock()

	t.record = next
	return t.save(ctx, op)
}

func (t *Tracker) save(ctx context.Context, op string) error {
	data, err := json.Marshal(t.record)
	if err != nil {
		return t.fail(domain.Internal(err, op, "Failed to encode inspection"))
	}

	if err := t.store.Set(ctx, kv.RecordKey(t.id), data); err != nil {
		metrics.PersistenceFailed()
		t.logger.Error("failed to persist inspection",
			"inspection_id", t.id,
			"op", op,
			"error", err,
		)
		return t.fail(domain.Persistence(err, op))
	}

	t.err = nil
	return nil
}

// =============================================================================
// Queries
// =============================================================================

// Progress summarizes the current record. It is zero before a load.
func (t *Tracker) Progress() domain.Progress {
	if t.record == nil {
		return domain.Progress{}
	}
	return t.record.Progress()
}

// Record returns a copy of the current record, or nil before a successful
// load.
func (t *Tracker) Record() *domain.InspectionRecord {
	if t.record == nil {
		return nil
	}
	return t.record.Clone()
}

// ID returns the inspection id passed to the last Load.
func (t *Tracker) ID() string {
	return t.id
}

// Err returns the outstanding load or persistence error, if any. It is
// cleared by the next successful load or write.
func (t *Tracker) Err() error {
	return t.err
}

func (t *Tracker) fail(err error) error {
	t.err = err
	return err
}

func (t *Tracker) clock() time.Time {
	return t.now().UTC()
}
