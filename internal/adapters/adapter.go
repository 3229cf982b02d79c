package adapters

import (
	"fmt"
	"regexp"
	"strings"

	"projmerge/internal/project"
	"projmerge/internal/services"
)

// Adapter maps raw rows of one source format onto canonical projects.
type Adapter struct {
	format  Format
	tables  *Tables
	ids     IDSource
	project projection
}

type projection func(a *Adapter, row project.Row) (project.Project, bool)

var projections = map[Format]projection{
	FormatMain: projectMain,
	FormatBIA:  projectBIA,
	FormatDOE:  projectDOE,
	FormatDOI:  projectDOI,
	FormatEPA:  projectEPA,
	FormatNOAA: projectNOAA,
	FormatUSBR: projectUSBR,
}

// New returns the adapter for format. Nil tables or ids fall back to the
// built-in tables and UUID tokens.
func New(format Format, tables *Tables, ids IDSource) (*Adapter, error) {
	fn, ok := projections[format]
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "adapters", "new adapter", fmt.Sprintf("unsupported format %q", format), nil)
	}
	if tables == nil {
		tables = DefaultTables()
	}
	if ids == nil {
		ids = UUIDSource{}
	}
	return &Adapter{format: format, tables: tables, ids: ids, project: fn}, nil
}

// Format returns the adapter's source format.
func (a *Adapter) Format() Format {
	return a.format
}

// Adapt converts one row. The boolean is false when the row is skipped.
func (a *Adapter) Adapt(row project.Row) (project.Project, bool) {
	p, ok := a.project(a, row)
	if !ok {
		return project.Project{}, false
	}
	if p.SourceFile == "" {
		p.SourceFile = string(a.format)
	}
	p.Original = row
	return p, true
}

func (a *Adapter) programID(row project.Row, key string) string {
	if key != "" {
		if v := strings.TrimSpace(row.Get(key)); v != "" {
			return v
		}
	}
	return ProgramID(a.ids, a.format)
}

func projectMain(_ *Adapter, row project.Row) (project.Project, bool) {
	return project.Project{
		UniqueID:      row.Get("Unique ID"),
		Name:          row.Get("Project Name"),
		Description:   row.Get("Project Description"),
		Latitude:      project.ParseCoordinate(row.Get("Latitude")),
		Longitude:     project.ParseCoordinate(row.Get("Longitude")),
		Region:        project.NormalizeRegion(row.Get("State")),
		City:          row.Get("City"),
		Tribe:         row.Get("Tribe"),
		County:        row.Get("County"),
		FundingAmount: project.ParseFunding(row.Get("Funding Amount")),
		FundingSource: row.Get("Funding Source"),
		Agency:        row.Get("Agency Name"),
		Bureau:        row.Get("Bureau Name"),
		Category:      row.Get("Category"),
		Subcategory:   row.Get("Subcategory"),
		ProgramName:   row.Get("Program Name"),
		ProgramID:     row.Get("Program ID"),
		Link:          row.Get("Link"),
		SourceFile:    string(FormatMain),
	}, true
}

var trailingRegion = regexp.MustCompile(`([A-Z]{2})$`)

func projectBIA(a *Adapter, row project.Row) (project.Project, bool) {
	location := row.Get("location_n")
	region := ""
	if m := trailingRegion.FindStringSubmatch(location); m != nil {
		region = project.NormalizeRegion(m[1])
	}
	place, _, _ := strings.Cut(location, ",")
	place = strings.TrimSpace(place)
	isTribe := strings.Contains(location, "Tribe") ||
		strings.Contains(location, "Nation") ||
		strings.Contains(location, "Reservation")

	p := project.Project{
		Name:          row.Get("project"),
		Description:   row.Get("benefits"),
		Latitude:      project.ParseCoordinate(row.Get("POINT_Y")),
		Longitude:     project.ParseCoordinate(row.Get("POINT_X")),
		Region:        region,
		FundingAmount: project.ParseFunding(row.Get("proj_am")),
		FundingSource: row.Get("fundingtype"),
		Agency:        "Department of the Interior",
		Bureau:        "Bureau of Indian Affairs",
		Subcategory:   row.Get("proj_type"),
		ProgramName:   fmt.Sprintf("BIA %s Program", row.Get("proj_type")),
		ProgramID:     "BIA" + row.Get("fiscal_year"),
		Link:          row.Get("hyperlink"),
	}
	if isTribe {
		p.Tribe = place
	} else {
		p.City = place
	}
	p.Category = a.tables.BIAFallback
	if c, ok := a.tables.BIAProjectTypes.Exact(row.Get("proj_type")); ok {
		p.Category = c
	}
	return p, true
}

func projectDOE(a *Adapter, row project.Row) (project.Project, bool) {
	if strings.EqualFold(strings.TrimSpace(row.Get("private")), "yes") {
		return project.Project{}, false
	}
	tech := row.Get("tech")
	base := row.Get("project")
	description := base + " - " + row.Get("company_name")
	if tech != "" && !strings.EqualFold(tech, "other") {
		description += " - " + tech + " technology"
	}
	source := "BIL"
	if strings.Contains(base, "IRA Section") {
		source = "IRA"
	}

	category := a.tables.DOEFallback
	if strings.Contains(row.Get("category"), "Manufacturing") {
		category = a.tables.DOEManufacturing
	} else if c, ok := a.tables.DOETechnologies.Exact(tech); ok {
		category = c
	}

	return project.Project{
		Name:          base,
		Description:   description,
		Latitude:      project.ParseCoordinate(row.Get("latitude")),
		Longitude:     project.ParseCoordinate(row.Get("longitude")),
		Region:        project.NormalizeRegion(row.Get("state")),
		City:          row.Get("city"),
		FundingAmount: project.ParseFunding(row.Get("pubinvest")),
		FundingSource: source,
		Agency:        "Department of Energy",
		Category:      category,
		Subcategory:   tech,
		ProgramName:   base,
		ProgramID:     a.programID(row, ""),
	}, true
}

func projectDOI(a *Adapter, raw project.Row) (project.Project, bool) {
	row := make(project.Row, len(raw))
	for k, v := range raw {
		row[strings.TrimSpace(k)] = v
	}
	announced := strings.TrimSpace(row.Get("Total Announced Funding Amount"))
	if announced == "" || announced == "-" {
		return project.Project{}, false
	}
	funding := project.ParseFunding(announced)
	if funding == 0 {
		return project.Project{}, false
	}

	area := row.Get("Program Area")
	category := a.tables.DOIFallback
	if c, ok := a.tables.DOIProgramAreas.Exact(area); ok {
		category = c
	} else if c, ok := a.tables.DOIKeywords.Contains(area, row.Get("Program Name")); ok {
		category = c
	}

	return project.Project{
		Name:          row.Get("Project Title"),
		Description:   row.Get("Program Name"),
		Latitude:      project.ParseCoordinate(row.Get("Latitude")),
		Longitude:     project.ParseCoordinate(row.Get("Longitude")),
		Region:        project.NormalizeRegion(row.Get("State or US Territory")),
		Tribe:         row.Get("Tribe"),
		FundingAmount: funding,
		FundingSource: "BIL",
		Agency:        "Department of the Interior",
		Bureau:        row.Get("Bureau Name"),
		Category:      category,
		Subcategory:   area,
		ProgramName:   row.Get("Program Name"),
		ProgramID:     a.programID(row, ""),
		Link:          row.Get("Program Website"),
	}, true
}

// normalizeStatute reduces a funding statute label to IRA or BIL when it
// names one of them.
func normalizeStatute(value string) string {
	switch {
	case value == "":
		return ""
	case strings.Contains(value, "IRA"):
		return "IRA"
	case strings.Contains(value, "BIL"):
		return "BIL"
	default:
		return value
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func projectEPA(a *Adapter, row project.Row) (project.Project, bool) {
	program := row.Get("Program")
	category := a.tables.EPAFallback
	if investment := row.Get("Investment Category"); investment != "" {
		if c, ok := a.tables.EPAInvestment.Contains(investment); ok {
			category = c
		}
	} else if c, ok := a.tables.EPAProgramKeywords.Contains(program); ok {
		category = c
	}

	return project.Project{
		Name:          row.Get("Project Title"),
		Description:   row.Get("Project Description"),
		Latitude:      project.ParseCoordinate(row.Get("Latitude")),
		Longitude:     project.ParseCoordinate(row.Get("Longitude")),
		Region:        project.NormalizeRegion(row.Get("State")),
		City:          row.Get("City"),
		County:        row.Get("County"),
		FundingAmount: project.ParseFunding(row.Get("Award Amount")),
		FundingSource: normalizeStatute(row.Get("Funding Source")),
		Agency:        "Environmental Protection Agency",
		Category:      category,
		Subcategory:   program,
		ProgramName:   program,
		ProgramID:     a.programID(row, "Federal Award Identification Number"),
		Link:          firstNonEmpty(row.Get("Website Url"), row.Get("Announcement Url")),
	}, true
}

func projectNOAA(a *Adapter, row project.Row) (project.Project, bool) {
	lat := project.ParseCoordinate(row.Get("POP.lat"))
	if lat == 0 {
		lat = project.ParseCoordinate(row.Get("Recipient.lat"))
	}
	lon := project.ParseCoordinate(row.Get("POP.lng"))
	if lon == 0 {
		lon = project.ParseCoordinate(row.Get("Recipient.long"))
	}
	region := firstNonEmpty(row.Get("Place of Performance State(s)"), row.Get("Recipient State"))
	if first, _, found := strings.Cut(region, ","); found {
		region = strings.TrimSpace(first)
	}

	title := row.Get("Program Full Title")
	category := a.tables.NOAAFallback
	if c, ok := a.tables.NOAAGoals.Contains(row.Get("Strategic Plan Goal")); ok {
		category = c
	} else if c, ok := a.tables.NOAAProgramKeywords.Contains(title); ok {
		category = c
	}

	return project.Project{
		Name:          row.Get("Project Title"),
		Description:   row.Get("Project Description"),
		Latitude:      lat,
		Longitude:     lon,
		Region:        project.NormalizeRegion(region),
		FundingAmount: project.ParseFunding(row.Get("Total Award Amount")),
		FundingSource: normalizeStatute(row.Get("Funding Statute")),
		Agency:        "Department of Commerce",
		Bureau:        "National Oceanic and Atmospheric Administration",
		Category:      category,
		Subcategory:   row.Get("Program Short Title"),
		ProgramName:   title,
		ProgramID:     a.programID(row, "Award Number (FAIN)"),
		Link:          firstNonEmpty(row.Get("Program Website"), row.Get("Project Website")),
	}, true
}

func projectUSBR(a *Adapter, row project.Row) (project.Project, bool) {
	subsection := row.Get("SubsectionTitle")
	subprogram := row.Get("Subprogram")
	category := a.tables.USBRFallback
	if c, ok := a.tables.USBRKeywords.Contains(subsection, subprogram); ok {
		category = c
	}

	return project.Project{
		Name:          row.Get("ProjectName"),
		Description:   row.Get("ProjectDescription"),
		Latitude:      project.ParseCoordinate(row.Get("Latitude")),
		Longitude:     project.ParseCoordinate(row.Get("Longitude")),
		Region:        project.NormalizeRegion(row.Get("State")),
		City:          row.Get("City"),
		Tribe:         row.Get("Tribe"),
		FundingAmount: project.ParseFunding(row.Get("Announced")),
		FundingSource: "IRA",
		Agency:        "Department of the Interior",
		Bureau:        "Bureau of Reclamation",
		Category:      category,
		Subcategory:   subprogram,
		ProgramName:   subsection + " - " + subprogram,
		ProgramID:     a.programID(row, "Identifier"),
		Link:          row.Get("PressRelease"),
	}, true
}
