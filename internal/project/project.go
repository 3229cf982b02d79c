package project

import "math"

// Row is one raw delimited-file record keyed by header name.
type Row map[string]string

// Project is the canonical record compared and stored by the engine.
type Project struct {
	UniqueID      string
	Name          string
	Description   string
	Latitude      float64
	Longitude     float64
	Region        string
	City          string
	Tribe         string
	County        string
	FundingAmount float64
	FundingSource string
	Agency        string
	Bureau        string
	Category      string
	Subcategory   string
	ProgramName   string
	ProgramID     string
	Link          string
	SourceFile    string

	// Original is the untransformed source row, carried through for output.
	Original Row
}

// HasLocation reports whether both coordinates are usable. Zero on either
// axis is the "unknown" sentinel.
func (p Project) HasLocation() bool {
	return ValidLocation(p.Latitude, p.Longitude)
}

// ValidLocation reports whether lat/lon are finite, non-zero and in range.
func ValidLocation(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	if math.Abs(lat) < 1e-6 || math.Abs(lon) < 1e-6 {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Text returns the name and description joined for vector-space indexing.
func (p Project) Text() string {
	return p.Name + " " + p.Description
}

// Get returns the trimmed-key value from a row; missing keys yield "".
func (r Row) Get(key string) string {
	if r == nil {
		return ""
	}
	return r[key]
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
