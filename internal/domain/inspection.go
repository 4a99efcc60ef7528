// Package domain contains core business types and interfaces.
//
// This file defines the InspectionRecord type and the Area checklist entries
// that track progress through an environmental site assessment.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// Area Status
// =============================================================================

// AreaStatus represents the progress state of a single checklist area.
type AreaStatus string

const (
	// AreaStatusNotStarted is the initial state of every template area.
	AreaStatusNotStarted AreaStatus = "not_started"

	// AreaStatusInProgress indicates the inspector has begun the area.
	AreaStatusInProgress AreaStatus = "in_progress"

	// AreaStatusCompleted indicates the area has been fully documented.
	AreaStatusCompleted AreaStatus = "completed"

	// AreaStatusSkipped indicates the area was deliberately not inspected.
	AreaStatusSkipped AreaStatus = "skipped"
)

// AreaStatuses lists every status in display order.
var AreaStatuses = []AreaStatus{
	AreaStatusNotStarted,
	AreaStatusInProgress,
	AreaStatusCompleted,
	AreaStatusSkipped,
}

// String returns the string representation of the status.
func (s AreaStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s AreaStatus) IsValid() bool {
	switch s {
	case AreaStatusNotStarted, AreaStatusInProgress,
		AreaStatusCompleted, AreaStatusSkipped:
		return true
	}
	return false
}

// IsFinished returns true for statuses that count toward completion.
// Both completed and skipped areas are finished.
func (s AreaStatus) IsFinished() bool {
	return s == AreaStatusCompleted || s == AreaStatusSkipped
}

// CanTransitionTo reports whether the area may move to target.
//
// Transitions are advisory only: any valid status may follow any other,
// including re-opening a completed or skipped area.
func (s AreaStatus) CanTransitionTo(target AreaStatus) bool {
	return s.IsValid() && target.IsValid()
}

// Label returns a human-readable label, e.g. "In Progress".
func (s AreaStatus) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

// =============================================================================
// Enumerations
// =============================================================================

// Priority ranks how urgently an area's findings need attention.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid returns true if the priority is a recognized value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// SiteType classifies the inspected site.
type SiteType string

const (
	SiteTypeIndustrial  SiteType = "industrial"
	SiteTypeCommercial  SiteType = "commercial"
	SiteTypeResidential SiteType = "residential"
	SiteTypeBrownfield  SiteType = "brownfield"
)

// IsValid returns true if the site type is a recognized value.
func (t SiteType) IsValid() bool {
	switch t {
	case SiteTypeIndustrial, SiteTypeCommercial,
		SiteTypeResidential, SiteTypeBrownfield:
		return true
	}
	return false
}

// =============================================================================
// Inspection Record
// =============================================================================

// Site holds descriptive metadata about the inspected site.
type Site struct {
	Address       string   `json:"address"`
	Type          SiteType `json:"type"`
	Client        string   `json:"client"`
	HistoricalUse string   `json:"historicalUse,omitempty"`
	ProjectNumber string   `json:"projectNumber,omitempty"`
	SiteArea      string   `json:"siteArea,omitempty"`
}

// legacyProperty is the residential-era shape of Site. It is only read.
type legacyProperty struct {
	Address      string `json:"address"`
	Type         string `json:"type"`
	Owner        string `json:"owner"`
	YearBuilt    string `json:"yearBuilt,omitempty"`
	PolicyNumber string `json:"policyNumber,omitempty"`
}

// Area is one checklist entry within an inspection.
//
// PhotoCount, NotesCount and PreviewImage are derived from Media and are
// recomputed by RecountMedia; they are never set directly.
type Area struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Category            string      `json:"category"`
	Status              AreaStatus  `json:"status"`
	PhotoCount          int         `json:"photoCount"`
	NotesCount          int         `json:"notesCount"`
	Findings            string      `json:"findings"`
	Observations        string      `json:"observations"`
	ContaminantConcerns string      `json:"contaminantConcerns"`
	RecommendedActions  string      `json:"recommendedActions"`
	Priority            Priority    `json:"priority"`
	PreviewImage        string      `json:"previewImage,omitempty"`
	EstimatedCost       float64     `json:"estimatedCost,omitempty"`
	Media               []MediaFile `json:"media"`
}

// UnmarshalJSON decodes an area, accepting the legacy damageDescription
// field as an alias for contaminantConcerns.
func (a *Area) UnmarshalJSON(data []byte) error {
	type alias Area
	aux := struct {
		*alias
		DamageDescription string `json:"damageDescription"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ContaminantConcerns == "" {
		a.ContaminantConcerns = aux.DamageDescription
	}
	if a.Media == nil {
		a.Media = []MediaFile{}
	}
	return nil
}

// RecountMedia recomputes the media-derived fields of the area.
func (a *Area) RecountMedia() {
	a.PhotoCount = 0
	a.NotesCount = 0
	a.PreviewImage = ""
	for _, m := range a.Media {
		switch m.Kind {
		case MediaKindPhoto:
			a.PhotoCount++
			if a.PreviewImage == "" {
				a.PreviewImage = m.URL
			}
		case MediaKindAudio:
			a.NotesCount++
		}
	}
}

// InspectionRecord is the full progress state of one inspection.
//
// CompletionPercentage is derived from the area statuses and must be
// refreshed with Recompute after any change to Areas.
type InspectionRecord struct {
	ID                   string    `json:"id"`
	Site                 Site      `json:"site"`
	Areas                []Area    `json:"areas"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	CompletionPercentage int       `json:"completionPercentage"`
}

// UnmarshalJSON decodes a record, filling Site from the legacy property
// block when the record predates the site field.
func (r *InspectionRecord) UnmarshalJSON(data []byte) error {
	type alias InspectionRecord
	aux := struct {
		*alias
		Property *legacyProperty `json:"property"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.Site == (Site{}) && aux.Property != nil {
		r.Site = Site{
			Address:       aux.Property.Address,
			Type:          SiteType(aux.Property.Type),
			Client:        aux.Property.Owner,
			ProjectNumber: aux.Property.PolicyNumber,
		}
	}
	return nil
}

// CheckStored reports whether a decoded record is usable. Every record is
// created from a non-empty template, so a record without areas, or with an
// area lacking an id or carrying an unknown status, is not a record.
func (r *InspectionRecord) CheckStored() error {
	if len(r.Areas) == 0 {
		return errors.New("record has no areas")
	}
	for i, a := range r.Areas {
		if a.ID == "" {
			return fmt.Errorf("area %d has no id", i)
		}
		if !a.Status.IsValid() {
			return fmt.Errorf("area %q has unknown status %q", a.ID, a.Status)
		}
	}
	return nil
}

// FindArea returns the index of the area with the given id, or -1.
func (r *InspectionRecord) FindArea(areaID string) int {
	for i := range r.Areas {
		if r.Areas[i].ID == areaID {
			return i
		}
	}
	return -1
}

// Recompute refreshes every derived field of the record.
func (r *InspectionRecord) Recompute() {
	for i := range r.Areas {
		r.Areas[i].RecountMedia()
	}
	r.CompletionPercentage = CompletionPercentage(r.Areas)
}

// Progress summarizes the record's completion state.
func (r *InspectionRecord) Progress() Progress {
	return Progress{
		Percentage: r.CompletionPercentage,
		Completed:  CountFinished(r.Areas),
		Total:      len(r.Areas),
	}
}

// Clone returns a deep copy of the record.
func (r *InspectionRecord) Clone() *InspectionRecord {
	c := *r
	c.Areas = make([]Area, len(r.Areas))
	for i, a := range r.Areas {
		a.Media = cloneMedia(a.Media)
		c.Areas[i] = a
	}
	return &c
}

func cloneMedia(media []MediaFile) []MediaFile {
	out := make([]MediaFile, len(media))
	for i, m := range media {
		if m.Tags != nil {
			m.Tags = append([]string(nil), m.Tags...)
		}
		out[i] = m
	}
	return out
}

// =============================================================================
// Progress
// =============================================================================

// Progress is a read-only summary of checklist completion.
type Progress struct {
	Percentage int `json:"percentage"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

// CountFinished returns the number of completed or skipped areas.
func CountFinished(areas []Area) int {
	n := 0
	for _, a := range areas {
		if a.Status.IsFinished() {
			n++
		}
	}
	return n
}

// CompletionPercentage returns round(100 * finished / total), or 0 for an
// empty checklist.
func CompletionPercentage(areas []Area) int {
	if len(areas) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(CountFinished(areas)) / float64(len(areas))))
}

// =============================================================================
// Area Updates
// =============================================================================

// AreaUpdate carries a partial update for one area. Nil fields are left
// unchanged. A non-nil Media replaces the area's media list.
type AreaUpdate struct {
	Status              *AreaStatus
	Findings            *string
	Observations        *string
	ContaminantConcerns *string
	RecommendedActions  *string
	Priority            *Priority
	EstimatedCost       *float64
	Media               []MediaFile
}

// Validate checks the enumerated fields of the update.
func (u AreaUpdate) Validate() error {
	const op = "area.validate"

	if u.Status != nil && !u.Status.IsValid() {
		return Invalid(op, "unknown area status: "+string(*u.Status))
	}
	if u.Priority != nil && !u.Priority.IsValid() {
		return Invalid(op, "unknown priority: "+string(*u.Priority))
	}
	for _, m := range u.Media {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the update into the area and recomputes derived fields.
func (u AreaUpdate) Apply(a *Area) {
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Findings != nil {
		a.Findings = *u.Findings
	}
	if u.Observations != nil {
		a.Observations = *u.Observations
	}
	if u.ContaminantConcerns != nil {
		a.ContaminantConcerns = *u.ContaminantConcerns
	}
	if u.RecommendedActions != nil {
		a.RecommendedActions = *u.RecommendedActions
	}
	if u.Priority != nil {
		a.Priority = *u.Priority
	}
	if u.EstimatedCost != nil {
		a.EstimatedCost = *u.EstimatedCost
	}
	if u.Media != nil {
		a.Media = cloneMedia(u.Media)
	}
	a.RecountMedia()
}
