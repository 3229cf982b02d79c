package candidates

import (
	"sort"

	"projmerge/internal/project"
	"projmerge/internal/textutil"
)

// Options tune index construction.
type Options struct {
	// SpatialHalfWidth is the box half-width in degrees; zero uses DefaultHalfWidth.
	SpatialHalfWidth float64
	Analyzer         textutil.Analyzer
}

// Source records which lookup produced a candidate set.
type Source string

const (
	SourceNone    Source = "none"
	SourceSpatial Source = "spatial_region"
	SourceText    Source = "text"
)

// Selection is the candidate set for one incoming record.
type Selection struct {
	// Positions are registry positions in ascending order.
	Positions []int
	Via       Source
}

// Index is the immutable candidate index over a registry.
type Index struct {
	size    int
	spatial *spatialIndex
	regions map[string][]int
	text    *TextIndex
}

// Build indexes registry. The slice must not be modified afterwards.
func Build(registry []project.Project, opts Options) *Index {
	halfWidth := opts.SpatialHalfWidth
	if halfWidth <= 0 {
		halfWidth = DefaultHalfWidth
	}
	regions := make(map[string][]int)
	for i, p := range registry {
		if p.Region != "" {
			regions[p.Region] = append(regions[p.Region], i)
		}
	}
	return &Index{
		size:    len(registry),
		spatial: newSpatialIndex(registry, halfWidth),
		regions: regions,
		text:    NewTextIndex(registry, opts.Analyzer),
	}
}

// Len returns the number of registry records indexed.
func (ix *Index) Len() int { return ix.size }

// Located returns the number of registry records in the spatial index.
func (ix *Index) Located() int { return ix.spatial.size }

// Regions returns the number of distinct region codes.
func (ix *Index) Regions() int { return len(ix.regions) }

// Nearby returns positions whose bounding box overlaps the query box.
func (ix *Index) Nearby(lat, lon float64) []int {
	return ix.spatial.query(lat, lon)
}

// InRegion returns positions sharing region code. The slice is shared and
// must not be modified.
func (ix *Index) InRegion(code string) []int {
	if code == "" {
		return nil
	}
	return ix.regions[code]
}

// Text returns the fitted text index.
func (ix *Index) Text() *TextIndex { return ix.text }

// Candidates applies the selection policy: the union of spatial and region
// hits, or when that union is empty, every registry record whose text cosine
// similarity exceeds reviewThreshold/100.
func (ix *Index) Candidates(p project.Project, reviewThreshold float64) Selection {
	seen := make(map[int]struct{})
	var positions []int
	add := func(list []int) {
		for _, pos := range list {
			if _, ok := seen[pos]; ok {
				continue
			}
			seen[pos] = struct{}{}
			positions = append(positions, pos)
		}
	}
	if p.HasLocation() {
		add(ix.Nearby(p.Latitude, p.Longitude))
	}
	add(ix.InRegion(p.Region))

	if len(positions) > 0 {
		sort.Ints(positions)
		return Selection{Positions: positions, Via: SourceSpatial}
	}

	positions = ix.text.Above(p.Text(), reviewThreshold/100)
	if len(positions) == 0 {
		return Selection{Via: SourceNone}
	}
	return Selection{Positions: positions, Via: SourceText}
}
