package domain

import (
	"encoding/json"
	"time"
)

// BasicInfo is the minimal record written when an assessment is scheduled.
// A full InspectionRecord is built from it on first load.
//
// Older seeds used property-inspection field names; UnmarshalJSON maps them
// onto the canonical fields.
type BasicInfo struct {
	Address       string    `json:"address"`
	SiteType      SiteType  `json:"siteType,omitempty"`
	ClientName    string    `json:"clientName"`
	HistoricalUse string    `json:"historicalUse,omitempty"`
	ProjectNumber string    `json:"projectNumber,omitempty"`
	SiteArea      string    `json:"siteArea,omitempty"`
	PropertyType  string    `json:"propertyType,omitempty"`
	YearBuilt     string    `json:"yearBuilt,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
}

// UnmarshalJSON decodes a seed, taking the first non-empty value of each
// aliased field.
func (b *BasicInfo) UnmarshalJSON(data []byte) error {
	var raw struct {
		Address       string `json:"address"`
		SiteAddress   string `json:"siteAddress"`
		SiteType      string `json:"siteType"`
		ClientName    string `json:"clientName"`
		OwnerName     string `json:"ownerName"`
		HistoricalUse string `json:"historicalUse"`
		ProjectNumber string `json:"projectNumber"`
		PolicyNumber  string `json:"policyNumber"`
		SiteArea      string `json:"siteArea"`
		PropertyType  string `json:"propertyType"`
		YearBuilt     string `json:"yearBuilt"`
		CreatedAt     string `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = BasicInfo{
		Address:       firstNonEmpty(raw.Address, raw.SiteAddress),
		SiteType:      SiteType(raw.SiteType),
		ClientName:    firstNonEmpty(raw.ClientName, raw.OwnerName),
		HistoricalUse: raw.HistoricalUse,
		ProjectNumber: firstNonEmpty(raw.ProjectNumber, raw.PolicyNumber),
		SiteArea:      raw.SiteArea,
		PropertyType:  raw.PropertyType,
		YearBuilt:     raw.YearBuilt,
	}

	if raw.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
		if err != nil {
			return err
		}
		b.CreatedAt = t.UTC()
	}
	return nil
}

// Validate checks a seed before it is stored.
func (b BasicInfo) Validate() error {
	const op = "seed.validate"

	if b.Address == "" {
		return Invalid(op, "address is required")
	}
	if b.SiteType != "" && !b.SiteType.IsValid() {
		return Invalid(op, "unknown site type: "+string(b.SiteType))
	}
	return nil
}

// NewRecordFromSeed builds a fresh record for id from a seed. All areas
// start not_started and completion is 0. Unclassified sites are industrial.
// The seed's createdAt is kept when present; otherwise now is used.
func NewRecordFromSeed(id string, seed BasicInfo, now time.Time) *InspectionRecord {
	siteType := seed.SiteType
	if siteType == "" {
		siteType = SiteType(seed.PropertyType)
	}
	if !siteType.IsValid() {
		siteType = SiteTypeIndustrial
	}

	createdAt := seed.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	rec := &InspectionRecord{
		ID: id,
		Site: Site{
			Address:       seed.Address,
			Type:          siteType,
			Client:        seed.ClientName,
			HistoricalUse: seed.HistoricalUse,
			ProjectNumber: seed.ProjectNumber,
			SiteArea:      seed.SiteArea,
		},
		Areas:     NewChecklist(TemplateFor(seed.SiteType, seed.PropertyType)),
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	rec.Recompute()
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
