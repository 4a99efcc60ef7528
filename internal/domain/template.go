package domain

// AreaDefinition is one entry of a checklist template.
type AreaDefinition struct {
	ID       string
	Name     string
	Category string
	Priority Priority
}

// EnvironmentalTemplate is the Phase II environmental site assessment
// checklist used for industrial, commercial and brownfield sites.
var EnvironmentalTemplate = []AreaDefinition{
	// Site Perimeter
	{ID: "perimeter-access", Name: "Site Perimeter & Access", Category: "Site Perimeter", Priority: PriorityLow},
	{ID: "perimeter-boundaries", Name: "Site Boundaries", Category: "Site Perimeter", Priority: PriorityLow},
	{ID: "perimeter-drainage", Name: "Stormwater & Drainage", Category: "Site Perimeter", Priority: PriorityLow},

	// Site Areas
	{ID: "area-manufacturing", Name: "Former Manufacturing Area", Category: "Site Areas", Priority: PriorityHigh},
	{ID: "area-storage", Name: "Storage Areas (Tanks/Drums)", Category: "Site Areas", Priority: PriorityHigh},
	{ID: "area-waste", Name: "Waste Management Area", Category: "Site Areas", Priority: PriorityHigh},
	{ID: "area-loading", Name: "Loading Docks & Transport", Category: "Site Areas", Priority: PriorityMedium},
	{ID: "area-surface", Name: "Surface Conditions", Category: "Site Areas", Priority: PriorityMedium},
	{ID: "area-underground", Name: "Underground Storage Tanks", Category: "Site Areas", Priority: PriorityHigh},

	// Environmental
	{ID: "env-soil-sampling", Name: "Soil Sampling Locations", Category: "Environmental", Priority: PriorityHigh},
	{ID: "env-groundwater", Name: "Groundwater Monitoring Wells", Category: "Environmental", Priority: PriorityHigh},
	{ID: "env-air-quality", Name: "Air Quality & Ventilation", Category: "Environmental", Priority: PriorityMedium},
}

// ResidentialTemplate is the legacy property inspection checklist.
var ResidentialTemplate = []AreaDefinition{
	// Exterior
	{ID: "exterior-roof", Name: "Roof & Gutters", Category: "Exterior", Priority: PriorityLow},
	{ID: "exterior-siding", Name: "Siding & Walls", Category: "Exterior", Priority: PriorityLow},
	{ID: "exterior-windows", Name: "Windows & Doors", Category: "Exterior", Priority: PriorityLow},
	{ID: "exterior-foundation", Name: "Foundation", Category: "Exterior", Priority: PriorityLow},
	{ID: "exterior-landscape", Name: "Landscape & Drainage", Category: "Exterior", Priority: PriorityLow},

	// Interior
	{ID: "interior-living", Name: "Living Room", Category: "Interior", Priority: PriorityLow},
	{ID: "interior-kitchen", Name: "Kitchen", Category: "Interior", Priority: PriorityLow},
	{ID: "interior-master-bed", Name: "Master Bedroom", Category: "Interior", Priority: PriorityLow},
	{ID: "interior-bedrooms", Name: "Other Bedrooms", Category: "Interior", Priority: PriorityLow},
	{ID: "interior-bathrooms", Name: "Bathrooms", Category: "Interior", Priority: PriorityLow},
	{ID: "interior-basement", Name: "Basement/Attic", Category: "Interior", Priority: PriorityLow},

	// Systems
	{ID: "systems-electrical", Name: "Electrical System", Category: "Systems", Priority: PriorityLow},
	{ID: "systems-plumbing", Name: "Plumbing System", Category: "Systems", Priority: PriorityLow},
	{ID: "systems-hvac", Name: "HVAC System", Category: "Systems", Priority: PriorityLow},
}

// TemplateFor selects the checklist for a site. Residential sites, or legacy
// seeds whose only classification is a residential property type, get the
// residential checklist; every other site gets the environmental one.
func TemplateFor(siteType SiteType, legacyPropertyType string) []AreaDefinition {
	if siteType == SiteTypeResidential {
		return ResidentialTemplate
	}
	if siteType == "" && legacyPropertyType == string(SiteTypeResidential) {
		return ResidentialTemplate
	}
	return EnvironmentalTemplate
}

// NewChecklist instantiates a template as not-started areas with no media.
func NewChecklist(defs []AreaDefinition) []Area {
	areas := make([]Area, len(defs))
	for i, d := range defs {
		areas[i] = Area{
			ID:       d.ID,
			Name:     d.Name,
			Category: d.Category,
			Status:   AreaStatusNotStarted,
			Priority: d.Priority,
			Media:    []MediaFile{},
		}
	}
	return areas
}

// TemplateOrder returns the area ids of a template in checklist order.
func TemplateOrder(defs []AreaDefinition) []string {
	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	return ids
}

// ReorderByTemplate arranges areas in the given canonical id order.
//
// Ids in order with no matching area are skipped, and areas whose id does
// not appear in order are dropped.
func ReorderByTemplate(areas []Area, order []string) []Area {
	byID := make(map[string]Area, len(areas))
	for _, a := range areas {
		if _, dup := byID[a.ID]; !dup {
			byID[a.ID] = a
		}
	}

	out := make([]Area, 0, len(order))
	for _, id := range order {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}
