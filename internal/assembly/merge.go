// Package assembly turns resolution decisions into output rows: registry
// additions projected onto the registry's own schema, and the review report.
package assembly

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"projmerge/internal/adapters"
	"projmerge/internal/project"
)

// UniqueIDField is the registry identifier column.
const UniqueIDField = "Unique ID"

// fallbackPrefix is used when a source file name carries no format tag.
const fallbackPrefix = "PROJ"

// DefaultIDPrefixes are identifier prefixes reused from source rows.
var DefaultIDPrefixes = []string{"ASST", "CONT"}

// Options controls identifier assignment.
type Options struct {
	IDPrefixes []string
	IDs        adapters.IDSource
}

func (o Options) prefixes() []string {
	if len(o.IDPrefixes) == 0 {
		return DefaultIDPrefixes
	}
	return o.IDPrefixes
}

func (o Options) ids() adapters.IDSource {
	if o.IDs == nil {
		return adapters.UUIDSource{}
	}
	return o.IDs
}

// Result is the merged registry view.
type Result struct {
	Header []string
	// Rows holds the registry rows unchanged followed by appended rows.
	Rows     []project.Row
	Appended []project.Row
	// Invalid counts records dropped for missing or out-of-range coordinates.
	Invalid int
}

// Merge appends the NEW projects to the registry view. Header is the
// registry's column order; "Unique ID" is prepended when absent.
func Merge(header []string, registry []project.Row, additions []project.Project, opts Options) Result {
	res := Result{Header: TargetHeader(header)}
	res.Rows = make([]project.Row, 0, len(registry)+len(additions))
	res.Rows = append(res.Rows, registry...)
	for _, p := range additions {
		row, ok := FormatRow(p, opts)
		if !ok {
			res.Invalid++
			continue
		}
		row = Project(row, res.Header)
		res.Appended = append(res.Appended, row)
		res.Rows = append(res.Rows, row)
	}
	return res
}

// TargetHeader returns header with the identifier column guaranteed first
// when missing.
func TargetHeader(header []string) []string {
	if slices.Contains(header, UniqueIDField) {
		return slices.Clone(header)
	}
	return append([]string{UniqueIDField}, header...)
}

// Project keeps only header fields of row; missing fields default to "".
func Project(row project.Row, header []string) project.Row {
	out := make(project.Row, len(header))
	for _, name := range header {
		out[name] = row.Get(name)
	}
	return out
}

// FormatRow converts p to a registry row. It reports false when p lacks
// valid coordinates. Fields outside the registry schema are not removed here.
func FormatRow(p project.Project, opts Options) (project.Row, bool) {
	if !project.ValidLocation(p.Latitude, p.Longitude) {
		return nil, false
	}
	row := p.Original.Clone()
	if row == nil {
		row = project.Row{}
	}
	updates := project.Row{
		UniqueIDField:           AssignID(p, opts),
		"Data Source":           adapters.DataSource(p.SourceFile),
		"Funding Source":        p.FundingSource,
		"Program ID":            p.ProgramID,
		"Program Name":          p.ProgramName,
		"Project Name":          p.Name,
		"Project Description":   p.Description,
		"Project Location Type": "Latitude and Longitude",
		"Latitude":              FormatFloat(p.Latitude),
		"Longitude":             FormatFloat(p.Longitude),
		"City":                  p.City,
		"County":                p.County,
		"Tribe":                 p.Tribe,
		"State":                 p.Region,
		"118th CD":              "",
		"Funding Amount":        FormatFloat(p.FundingAmount),
		"Link":                  project.CleanLink(p.Link),
		"Agency Name":           p.Agency,
		"Bureau Name":           p.Bureau,
		"Category":              p.Category,
		"Subcategory":           p.Subcategory,
		"Program Type":          "",
	}
	for k, v := range updates {
		row[k] = v
	}
	return row, true
}

// AssignID reuses an identifier carrying a recognized prefix, first from
// the project itself, then from any original field (in key order), and
// otherwise mints one under the source format's prefix.
func AssignID(p project.Project, opts Options) string {
	prefixes := opts.prefixes()
	if hasPrefix(p.UniqueID, prefixes) {
		return p.UniqueID
	}
	keys := make([]string, 0, len(p.Original))
	for k := range p.Original {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := p.Original[k]; hasPrefix(v, prefixes) {
			return v
		}
	}
	prefix := fallbackPrefix
	if f, err := adapters.DetectFormat(p.SourceFile); err == nil {
		prefix = f.Prefix()
	}
	return adapters.RegistryID(opts.ids(), prefix)
}

func hasPrefix(value string, prefixes []string) bool {
	if value == "" {
		return false
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// FormatFloat renders v with the shortest exact digits and at least one
// decimal place, e.g. 40 -> "40.0".
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
