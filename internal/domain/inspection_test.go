package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func areasWithStatuses(statuses ...AreaStatus) []Area {
	areas := make([]Area, len(statuses))
	for i, s := range statuses {
		areas[i] = Area{ID: string(rune('a' + i)), Status: s}
	}
	return areas
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name     string
		statuses []AreaStatus
		want     int
	}{
		{"no areas", nil, 0},
		{"nothing finished", []AreaStatus{AreaStatusNotStarted, AreaStatusInProgress}, 0},
		{"all completed", []AreaStatus{AreaStatusCompleted, AreaStatusCompleted}, 100},
		{"skipped counts", []AreaStatus{AreaStatusSkipped, AreaStatusNotStarted}, 50},
		{"rounds down", []AreaStatus{AreaStatusCompleted, AreaStatusNotStarted, AreaStatusNotStarted}, 33},
		{"rounds up", []AreaStatus{AreaStatusCompleted, AreaStatusSkipped, AreaStatusNotStarted}, 67},
		{"one of twelve", append([]AreaStatus{AreaStatusCompleted}, make([]AreaStatus, 11)...), 8},
		{"one of eight rounds half up", append([]AreaStatus{AreaStatusCompleted}, make([]AreaStatus, 7)...), 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletionPercentage(areasWithStatuses(tt.statuses...)))
		})
	}
}

func TestAreaStatus(t *testing.T) {
	tests := []struct {
		status   AreaStatus
		valid    bool
		finished bool
		label    string
	}{
		{AreaStatusNotStarted, true, false, "Not Started"},
		{AreaStatusInProgress, true, false, "In Progress"},
		{AreaStatusCompleted, true, true, "Completed"},
		{AreaStatusSkipped, true, true, "Skipped"},
		{AreaStatus("done"), false, false, "Done"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.finished, tt.status.IsFinished())
			assert.Equal(t, tt.label, tt.status.Label())
		})
	}
}

func TestAreaStatus_CanTransitionTo(t *testing.T) {
	for _, from := range AreaStatuses {
		for _, to := range AreaStatuses {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, AreaStatusCompleted.CanTransitionTo(AreaStatus("archived")))
}

func TestArea_RecountMedia(t *testing.T) {
	area := Area{
		PhotoCount: 9,
		NotesCount: 9,
		Media: []MediaFile{
			{ID: "1", Kind: MediaKindDocument, URL: "/doc.pdf"},
			{ID: "2", Kind: MediaKindPhoto, URL: "/first.jpg"},
			{ID: "3", Kind: MediaKindAudio, URL: "/note.m4a"},
			{ID: "4", Kind: MediaKindPhoto, URL: "/second.jpg"},
		},
	}

	area.RecountMedia()

	assert.Equal(t, 2, area.PhotoCount)
	assert.Equal(t, 1, area.NotesCount)
	assert.Equal(t, "/first.jpg", area.PreviewImage)

	area.Media = nil
	area.RecountMedia()
	assert.Zero(t, area.PhotoCount)
	assert.Zero(t, area.NotesCount)
	assert.Empty(t, area.PreviewImage)
}

func TestArea_UnmarshalJSON_LegacyDamageDescription(t *testing.T) {
	t.Run("alias fills empty field", func(t *testing.T) {
		var a Area
		err := json.Unmarshal([]byte(`{"id":"exterior-roof","status":"in_progress","damageDescription":"hail"}`), &a)
		require.NoError(t, err)
		assert.Equal(t, "hail", a.ContaminantConcerns)
		assert.Equal(t, AreaStatusInProgress, a.Status)
		assert.NotNil(t, a.Media)
	})

	t.Run("canonical field wins", func(t *testing.T) {
		var a Area
		err := json.Unmarshal([]byte(`{"id":"x","contaminantConcerns":"PCBs","damageDescription":"hail"}`), &a)
		require.NoError(t, err)
		assert.Equal(t, "PCBs", a.ContaminantConcerns)
	})

	t.Run("alias is never written", func(t *testing.T) {
		data, err := json.Marshal(Area{ID: "x", ContaminantConcerns: "PCBs"})
		require.NoError(t, err)
		assert.NotContains(t, string(data), "damageDescription")
		assert.Contains(t, string(data), `"media":null`)
	})
}

func TestInspectionRecord_UnmarshalJSON_LegacyProperty(t *testing.T) {
	data := `{
		"id": "ASM-7",
		"property": {"address": "9 Elm St", "type": "residential", "owner": "J. Smith", "policyNumber": "POL-1"},
		"areas": [{"id": "exterior-roof", "status": "completed"}],
		"createdAt": "2024-01-15T10:30:00Z",
		"updatedAt": "2024-01-16T10:30:00Z",
		"completionPercentage": 100
	}`

	var rec InspectionRecord
	require.NoError(t, json.Unmarshal([]byte(data), &rec))

	assert.Equal(t, Site{
		Address:       "9 Elm St",
		Type:          SiteTypeResidential,
		Client:        "J. Smith",
		ProjectNumber: "POL-1",
	}, rec.Site)
	assert.Len(t, rec.Areas, 1)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), rec.CreatedAt.UTC())

	out, err := json.Marshal(&rec)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"property"`)
	assert.Contains(t, string(out), `"site"`)
}

func TestInspectionRecord_UnmarshalJSON_SiteWins(t *testing.T) {
	data := `{"id":"A","site":{"address":"new","type":"industrial","client":"Acme"},"property":{"address":"old","owner":"Bob"}}`

	var rec InspectionRecord
	require.NoError(t, json.Unmarshal([]byte(data), &rec))
	assert.Equal(t, "new", rec.Site.Address)
	assert.Equal(t, "Acme", rec.Site.Client)
}

func TestInspectionRecord_FindArea(t *testing.T) {
	rec := &InspectionRecord{Areas: NewChecklist(EnvironmentalTemplate)}

	assert.Equal(t, 0, rec.FindArea("perimeter-access"))
	assert.Equal(t, len(EnvironmentalTemplate)-1, rec.FindArea("env-air-quality"))
	assert.Equal(t, -1, rec.FindArea("missing"))
}

func TestInspectionRecord_Progress(t *testing.T) {
	rec := &InspectionRecord{Areas: areasWithStatuses(
		AreaStatusCompleted, AreaStatusSkipped, AreaStatusInProgress, AreaStatusNotStarted,
	)}
	rec.Recompute()

	assert.Equal(t, Progress{Percentage: 50, Completed: 2, Total: 4}, rec.Progress())
}

func TestInspectionRecord_Clone(t *testing.T) {
	rec := &InspectionRecord{
		ID: "A",
		Areas: []Area{{
			ID:    "x",
			Media: []MediaFile{{ID: "m", Kind: MediaKindPhoto, URL: "/a.jpg", Tags: []string{"roof"}}},
		}},
	}

	c := rec.Clone()
	c.Areas[0].Status = AreaStatusCompleted
	c.Areas[0].Media[0].Tags[0] = "changed"
	c.Areas[0].Media = append(c.Areas[0].Media, MediaFile{ID: "n"})

	assert.Equal(t, AreaStatus(""), rec.Areas[0].Status)
	assert.Equal(t, "roof", rec.Areas[0].Media[0].Tags[0])
	assert.Len(t, rec.Areas[0].Media, 1)
}

func TestAreaUpdate_Apply(t *testing.T) {
	status := AreaStatusCompleted
	findings := "Stained soil near tank"
	cost := 1500.0
	area := Area{ID: "area-storage", Observations: "keep", Priority: PriorityHigh}

	AreaUpdate{
		Status:        &status,
		Findings:      &findings,
		EstimatedCost: &cost,
		Media: []MediaFile{
			{ID: "p", Kind: MediaKindPhoto, URL: "/p.jpg"},
			{ID: "a", Kind: MediaKindAudio, URL: "/a.m4a"},
		},
	}.Apply(&area)

	assert.Equal(t, AreaStatusCompleted, area.Status)
	assert.Equal(t, findings, area.Findings)
	assert.Equal(t, "keep", area.Observations)
	assert.Equal(t, PriorityHigh, area.Priority)
	assert.Equal(t, cost, area.EstimatedCost)
	assert.Equal(t, 1, area.PhotoCount)
	assert.Equal(t, 1, area.NotesCount)
	assert.Equal(t, "/p.jpg", area.PreviewImage)
}

func TestAreaUpdate_Validate(t *testing.T) {
	badStatus := AreaStatus("done")
	badPriority := Priority("urgent")
	okStatus := AreaStatusSkipped

	tests := []struct {
		name    string
		update  AreaUpdate
		wantErr bool
	}{
		{"empty", AreaUpdate{}, false},
		{"valid status", AreaUpdate{Status: &okStatus}, false},
		{"unknown status", AreaUpdate{Status: &badStatus}, true},
		{"unknown priority", AreaUpdate{Priority: &badPriority}, true},
		{"media without url", AreaUpdate{Media: []MediaFile{{Kind: MediaKindPhoto}}}, true},
		{"media with bad type", AreaUpdate{Media: []MediaFile{{Kind: "video", URL: "/v"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, EINVALID, ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMediaKindForContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        MediaKind
	}{
		{"image/jpeg", MediaKindPhoto},
		{"IMAGE/PNG", MediaKindPhoto},
		{"audio/mp4; codecs=mp4a", MediaKindAudio},
		{"application/pdf", MediaKindDocument},
		{"", MediaKindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaKindForContentType(tt.contentType))
		})
	}
}

func TestValidateMediaSize(t *testing.T) {
	assert.NoError(t, ValidateMediaSize(1024, 0))
	assert.Equal(t, EINVALID, ErrorCode(ValidateMediaSize(0, 0)))
	assert.Equal(t, ETOOLARGE, ErrorCode(ValidateMediaSize(MaxMediaSize+1, 0)))
	assert.Equal(t, ETOOLARGE, ErrorCode(ValidateMediaSize(2048, 1024)))
	assert.NoError(t, ValidateMediaSize(MaxMediaSize+1, 2*MaxMediaSize))
}
