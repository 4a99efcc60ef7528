package domain

import "time"

// DemoInspectionID is the inspection id served from the bundled dataset.
// Loading it never reads or writes the backing store.
const DemoInspectionID = "DEMO"

// DemoCreatedAt is the fixed creation time of the demo record.
var DemoCreatedAt = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

// DemoSite describes the demo assessment site.
var DemoSite = Site{
	Address:       "425 Industrial Drive, Cambridge, ON",
	Type:          SiteTypeBrownfield,
	Client:        "City of Cambridge",
	HistoricalUse: "Metal Fabrication (1965-2010)",
	ProjectNumber: "DL-2024-ENV-001",
	SiteArea:      "2.5 hectares",
}

// DemoAreaOrder is the canonical display order of the demo checklist. It
// differs from the order the dataset is bundled in.
var DemoAreaOrder = []string{
	"exterior-roof",
	"exterior-siding",
	"exterior-windows",
	"exterior-foundation",
	"exterior-landscaping",
	"interior-living",
	"interior-kitchen",
	"interior-bedrooms",
	"interior-other",
	"interior-bathrooms",
	"interior-basement",
	"systems-electrical",
	"systems-plumbing",
	"systems-hvac",
}

// NewDemoRecord builds the demo record from the bundled dataset. Each call
// returns a fresh copy; UpdatedAt is set to now.
func NewDemoRecord(now time.Time) *InspectionRecord {
	bundled := make([]Area, len(demoDataset))
	for i, a := range demoDataset {
		a.Media = cloneMedia(a.Media)
		bundled[i] = a
	}

	rec := &InspectionRecord{
		ID:        DemoInspectionID,
		Site:      DemoSite,
		Areas:     ReorderByTemplate(bundled, DemoAreaOrder),
		CreatedAt: DemoCreatedAt,
		UpdatedAt: now,
	}
	rec.Recompute()
	return rec
}

func demoTime(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func demoPhoto(id, title, category string, at time.Time, tags ...string) MediaFile {
	return MediaFile{
		ID:        id,
		Kind:      MediaKindPhoto,
		URL:       "/demo/media/" + id + ".jpg",
		Thumbnail: "/demo/media/thumbs/" + id + ".jpg",
		Title:     title,
		Timestamp: at,
		Category:  category,
		Tags:      tags,
	}
}

func demoNote(id, title, category, transcript string, seconds float64, at time.Time) MediaFile {
	return MediaFile{
		ID:         id,
		Kind:       MediaKindAudio,
		URL:        "/demo/media/" + id + ".m4a",
		Title:      title,
		Timestamp:  at,
		Category:   category,
		Transcript: transcript,
		Duration:   seconds,
	}
}

// demoDataset is stored in capture order, not checklist order.
var demoDataset = []Area{
	{
		ID:       "systems-hvac",
		Name:     "HVAC System",
		Category: "Systems",
		Status:   AreaStatusNotStarted,
		Priority: PriorityLow,
	},
	{
		ID:                  "exterior-roof",
		Name:                "Roof & Gutters",
		Category:            "Exterior",
		Status:              AreaStatusCompleted,
		Findings:            "Built-up roof membrane blistered over the former paint shop; two roof drains partially blocked.",
		ContaminantConcerns: "Staining around exhaust stack penetrations suggests historical solvent emissions.",
		RecommendedActions:  "Collect wipe samples at stack penetrations before roof replacement.",
		Priority:            PriorityMedium,
		EstimatedCost:       18500,
		Media: []MediaFile{
			demoPhoto("roof-01", "Roof overview from north parapet", "Exterior", demoTime(15, 11, 5), "roof", "overview"),
			demoPhoto("roof-02", "Stack penetration staining", "Exterior", demoTime(15, 11, 12), "roof", "staining"),
			demoNote("roof-note-01", "Roof walk notes", "Exterior", "Membrane blistering along the east bay, drains two and four holding water.", 48, demoTime(15, 11, 20)),
		},
	},
	{
		ID:                  "interior-kitchen",
		Name:                "Kitchen",
		Category:            "Interior",
		Status:              AreaStatusInProgress,
		Findings:            "Former lunchroom; floor drain connects to the process sewer line.",
		ContaminantConcerns: "Floor drain may have received shop floor wash water.",
		Priority:            PriorityMedium,
		Media: []MediaFile{
			demoPhoto("kitchen-01", "Floor drain in lunchroom", "Interior", demoTime(16, 9, 40), "drain"),
		},
	},
	{
		ID:                  "exterior-siding",
		Name:                "Siding & Walls",
		Category:            "Exterior",
		Status:              AreaStatusCompleted,
		Findings:            "Corrugated steel cladding intact; rust-through at grade on the west elevation.",
		ContaminantConcerns: "Suspect lead-based coating on original cladding.",
		RecommendedActions:  "Sample paint chips for lead before any cladding removal.",
		Priority:            PriorityLow,
		EstimatedCost:       4200,
		Media: []MediaFile{
			demoPhoto("siding-01", "West elevation corrosion", "Exterior", demoTime(15, 11, 45), "cladding", "corrosion"),
			demoPhoto("siding-02", "Coating sample location", "Exterior", demoTime(15, 11, 52), "lead"),
		},
	},
	{
		ID:       "interior-other",
		Name:     "Other Bedrooms",
		Category: "Interior",
		Status:   AreaStatusSkipped,
		Findings: "Offices demolished in 2012; no rooms remain to inspect.",
		Priority: PriorityLow,
	},
	{
		ID:                  "exterior-windows",
		Name:                "Windows & Doors",
		Category:            "Exterior",
		Status:              AreaStatusCompleted,
		Findings:            "Overhead doors operable; glazing compound cracked and friable.",
		ContaminantConcerns: "Friable glazing compound is a suspect asbestos-containing material.",
		RecommendedActions:  "Submit glazing compound for asbestos analysis.",
		Priority:            PriorityHigh,
		EstimatedCost:       2600,
		Media: []MediaFile{
			demoPhoto("windows-01", "Loading bay overhead doors", "Exterior", demoTime(15, 12, 10), "doors"),
			demoPhoto("windows-02", "Friable glazing compound", "Exterior", demoTime(15, 12, 16), "asbestos"),
			demoNote("windows-note-01", "Glazing observations", "Exterior", "Glazing compound crumbles by hand on most south windows.", 31, demoTime(15, 12, 20)),
		},
	},
	{
		ID:                  "systems-electrical",
		Name:                "Electrical System",
		Category:            "Systems",
		Status:              AreaStatusInProgress,
		Findings:            "Pad-mounted transformer on the east side; nameplate predates 1980.",
		ContaminantConcerns: "Possible PCB-containing dielectric fluid; oil staining on the pad.",
		RecommendedActions:  "Confirm PCB status with the utility and sample pad staining.",
		Priority:            PriorityHigh,
		Media: []MediaFile{
			demoPhoto("electrical-01", "Transformer pad staining", "Systems", demoTime(16, 10, 30), "pcb", "transformer"),
			{
				ID:        "electrical-doc-01",
				Kind:      MediaKindDocument,
				URL:       "/demo/media/electrical-doc-01.pdf",
				Title:     "Utility transformer records",
				Timestamp: demoTime(16, 10, 45),
				Category:  "Systems",
			},
		},
	},
	{
		ID:                  "exterior-foundation",
		Name:                "Foundation",
		Category:            "Exterior",
		Status:              AreaStatusCompleted,
		Findings:            "Slab-on-grade with expansion joints failed near the degreaser pit.",
		ContaminantConcerns: "Degreaser pit is a likely chlorinated solvent source.",
		RecommendedActions:  "Advance boreholes SB-01 and SB-02 adjacent to the pit.",
		Priority:            PriorityHigh,
		EstimatedCost:       12800,
		Media: []MediaFile{
			demoPhoto("foundation-01", "Failed joint at degreaser pit", "Exterior", demoTime(15, 13, 5), "slab", "solvents"),
			demoNote("foundation-note-01", "Pit dimensions", "Exterior", "Pit roughly two by three metres, one point five deep, liner cracked.", 22, demoTime(15, 13, 9)),
		},
	},
	{
		ID:       "interior-bathrooms",
		Name:     "Bathrooms",
		Category: "Interior",
		Status:   AreaStatusNotStarted,
		Priority: PriorityLow,
	},
	{
		ID:                  "exterior-landscaping",
		Name:                "Landscape & Drainage",
		Category:            "Exterior",
		Status:              AreaStatusCompleted,
		Findings:            "Stressed vegetation along the rail spur; catch basin discharges to a ditch.",
		ContaminantConcerns: "Historical drum storage along the rail spur.",
		RecommendedActions:  "Sample ditch sediment and install MW-01 downgradient of the spur.",
		Priority:            PriorityHigh,
		EstimatedCost:       9700,
		Media: []MediaFile{
			demoPhoto("landscape-01", "Stressed vegetation at rail spur", "Exterior", demoTime(15, 14, 0), "vegetation"),
			demoPhoto("landscape-02", "Catch basin outfall", "Exterior", demoTime(15, 14, 8), "stormwater"),
			demoPhoto("landscape-03", "Former drum storage pad", "Exterior", demoTime(15, 14, 15), "drums"),
		},
	},
	{
		ID:                  "interior-living",
		Name:                "Living Room",
		Category:            "Interior",
		Status:              AreaStatusCompleted,
		Findings:            "Main shop floor; overhead crane rails and trench drains present.",
		ContaminantConcerns: "Oil-saturated concrete in the machining bays.",
		RecommendedActions:  "Core concrete in bays 3 and 4 for PHC analysis.",
		Priority:            PriorityMedium,
		Media: []MediaFile{
			demoPhoto("living-01", "Machining bay floor staining", "Interior", demoTime(16, 9, 5), "phc"),
		},
	},
	{
		ID:       "systems-plumbing",
		Name:     "Plumbing System",
		Category: "Systems",
		Status:   AreaStatusNotStarted,
		Priority: PriorityLow,
	},
	{
		ID:                  "interior-bedrooms",
		Name:                "Master Bedroom",
		Category:            "Interior",
		Status:              AreaStatusInProgress,
		Findings:            "Former plating room; acid-resistant tile floor with trench drain.",
		ContaminantConcerns: "Heavy metals (chromium, nickel) in drain sediment.",
		Priority:            PriorityHigh,
		Media: []MediaFile{
			demoNote("bedrooms-note-01", "Plating room walkthrough", "Interior", "Green staining in the trench drain, tile lifting near the east wall.", 40, demoTime(16, 11, 15)),
		},
	},
	{
		ID:                  "interior-basement",
		Name:                "Basement/Attic",
		Category:            "Interior",
		Status:              AreaStatusNotStarted,
		ContaminantConcerns: "Mezzanine storage not yet accessed.",
		Priority:            PriorityMedium,
	},
}
