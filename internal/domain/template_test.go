package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		name         string
		siteType     SiteType
		propertyType string
		want         []AreaDefinition
	}{
		{"industrial", SiteTypeIndustrial, "", EnvironmentalTemplate},
		{"commercial", SiteTypeCommercial, "", EnvironmentalTemplate},
		{"brownfield", SiteTypeBrownfield, "", EnvironmentalTemplate},
		{"residential", SiteTypeResidential, "", ResidentialTemplate},
		{"legacy residential seed", "", "residential", ResidentialTemplate},
		{"site type overrides legacy", SiteTypeIndustrial, "residential", EnvironmentalTemplate},
		{"no classification", "", "", EnvironmentalTemplate},
		{"legacy commercial", "", "commercial", EnvironmentalTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TemplateFor(tt.siteType, tt.propertyType))
		})
	}
}

func TestTemplates_UniqueIDs(t *testing.T) {
	for name, tmpl := range map[string][]AreaDefinition{
		"environmental": EnvironmentalTemplate,
		"residential":   ResidentialTemplate,
	} {
		seen := map[string]bool{}
		for _, d := range tmpl {
			assert.False(t, seen[d.ID], "%s: duplicate id %s", name, d.ID)
			assert.True(t, d.Priority.IsValid(), "%s: %s priority", name, d.ID)
			seen[d.ID] = true
		}
	}
	assert.Len(t, EnvironmentalTemplate, 12)
	assert.Len(t, ResidentialTemplate, 14)
}

func TestNewChecklist(t *testing.T) {
	areas := NewChecklist(EnvironmentalTemplate)

	require.Len(t, areas, len(EnvironmentalTemplate))
	for i, a := range areas {
		assert.Equal(t, EnvironmentalTemplate[i].ID, a.ID)
		assert.Equal(t, AreaStatusNotStarted, a.Status)
		assert.NotNil(t, a.Media)
		assert.Zero(t, a.PhotoCount)
	}
}

func TestReorderByTemplate(t *testing.T) {
	areas := []Area{{ID: "c"}, {ID: "a"}, {ID: "extra"}, {ID: "b"}}

	t.Run("canonical order", func(t *testing.T) {
		got := ReorderByTemplate(areas, []string{"a", "b", "c"})
		assert.Equal(t, []string{"a", "b", "c"}, areaIDs(got))
	})

	t.Run("missing ids are skipped", func(t *testing.T) {
		got := ReorderByTemplate(areas, []string{"a", "missing", "c"})
		assert.Equal(t, []string{"a", "c"}, areaIDs(got))
	})

	t.Run("unlisted areas are dropped", func(t *testing.T) {
		got := ReorderByTemplate(areas, []string{"b"})
		assert.Equal(t, []string{"b"}, areaIDs(got))
	})

	t.Run("input untouched", func(t *testing.T) {
		ReorderByTemplate(areas, []string{"a", "b", "c"})
		assert.Equal(t, []string{"c", "a", "extra", "b"}, areaIDs(areas))
	})
}

func TestNewDemoRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	rec := NewDemoRecord(now)

	assert.Equal(t, DemoInspectionID, rec.ID)
	assert.Equal(t, DemoSite, rec.Site)
	assert.Equal(t, DemoCreatedAt, rec.CreatedAt)
	assert.Equal(t, now, rec.UpdatedAt)
	assert.Equal(t, DemoAreaOrder, areaIDs(rec.Areas))
	assert.Equal(t, CompletionPercentage(rec.Areas), rec.CompletionPercentage)
	assert.Equal(t, 50, rec.CompletionPercentage)

	for _, a := range rec.Areas {
		photos, notes := 0, 0
		for _, m := range a.Media {
			switch m.Kind {
			case MediaKindPhoto:
				photos++
			case MediaKindAudio:
				notes++
			}
		}
		assert.Equal(t, photos, a.PhotoCount, a.ID)
		assert.Equal(t, notes, a.NotesCount, a.ID)
	}

	t.Run("fresh copy each call", func(t *testing.T) {
		rec.Areas[0].Status = AreaStatusNotStarted
		rec.Areas[0].Media[0].Tags[0] = "mutated"

		again := NewDemoRecord(now)
		assert.Equal(t, AreaStatusCompleted, again.Areas[0].Status)
		assert.Equal(t, "roof", again.Areas[0].Media[0].Tags[0])
	})
}

func TestBasicInfo_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want BasicInfo
	}{
		{
			name: "canonical",
			data: `{"address":"1 Main St","siteType":"industrial","clientName":"Acme","projectNumber":"P-1"}`,
			want: BasicInfo{Address: "1 Main St", SiteType: SiteTypeIndustrial, ClientName: "Acme", ProjectNumber: "P-1"},
		},
		{
			name: "legacy names",
			data: `{"siteAddress":"9 Elm St","ownerName":"J. Smith","policyNumber":"POL-1","propertyType":"residential","yearBuilt":"1962"}`,
			want: BasicInfo{Address: "9 Elm St", ClientName: "J. Smith", ProjectNumber: "POL-1", PropertyType: "residential", YearBuilt: "1962"},
		},
		{
			name: "canonical wins over alias",
			data: `{"address":"new","siteAddress":"old","clientName":"","ownerName":"Bob"}`,
			want: BasicInfo{Address: "new", ClientName: "Bob"},
		},
		{
			name: "created at",
			data: `{"address":"x","createdAt":"2024-02-01T09:00:00-05:00"}`,
			want: BasicInfo{Address: "x", CreatedAt: time.Date(2024, 2, 1, 14, 0, 0, 0, time.UTC)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got BasicInfo
			require.NoError(t, json.Unmarshal([]byte(tt.data), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("bad created at", func(t *testing.T) {
		var got BasicInfo
		assert.Error(t, json.Unmarshal([]byte(`{"createdAt":"yesterday"}`), &got))
	})
}

func TestBasicInfo_Validate(t *testing.T) {
	assert.NoError(t, BasicInfo{Address: "1 Main St"}.Validate())
	assert.NoError(t, BasicInfo{Address: "1 Main St", SiteType: SiteTypeBrownfield}.Validate())
	assert.Equal(t, EINVALID, ErrorCode(BasicInfo{}.Validate()))
	assert.Equal(t, EINVALID, ErrorCode(BasicInfo{Address: "x", SiteType: "farm"}.Validate()))
}

func TestNewRecordFromSeed(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("industrial seed", func(t *testing.T) {
		rec := NewRecordFromSeed("X", BasicInfo{Address: "1 Main St", SiteType: SiteTypeIndustrial, ClientName: "Acme"}, now)

		assert.Equal(t, "X", rec.ID)
		assert.Equal(t, Site{Address: "1 Main St", Type: SiteTypeIndustrial, Client: "Acme"}, rec.Site)
		assert.Equal(t, TemplateOrder(EnvironmentalTemplate), areaIDs(rec.Areas))
		assert.Zero(t, rec.CompletionPercentage)
		assert.Equal(t, now, rec.CreatedAt)
		assert.Equal(t, now, rec.UpdatedAt)
		for _, a := range rec.Areas {
			assert.Equal(t, AreaStatusNotStarted, a.Status)
		}
	})

	t.Run("legacy residential seed", func(t *testing.T) {
		created := now.Add(-48 * time.Hour)
		rec := NewRecordFromSeed("Y", BasicInfo{Address: "9 Elm St", PropertyType: "residential", CreatedAt: created}, now)

		assert.Equal(t, TemplateOrder(ResidentialTemplate), areaIDs(rec.Areas))
		assert.Equal(t, SiteTypeResidential, rec.Site.Type)
		assert.Equal(t, created, rec.CreatedAt)
	})

	t.Run("unclassified seed", func(t *testing.T) {
		rec := NewRecordFromSeed("Z", BasicInfo{Address: "2 Dock Rd", PropertyType: "warehouse"}, now)

		assert.Equal(t, SiteTypeIndustrial, rec.Site.Type)
		assert.Equal(t, TemplateOrder(EnvironmentalTemplate), areaIDs(rec.Areas))
	})
}

func areaIDs(areas []Area) []string {
	ids := make([]string, len(areas))
	for i, a := range areas {
		ids[i] = a.ID
	}
	return ids
}
