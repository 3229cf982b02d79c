package candidates

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"projmerge/internal/project"
)

// DefaultHalfWidth is the box half-width in decimal degrees (about 11 km at
// the equator).
const DefaultHalfWidth = 0.1

var world = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// entry holds every registry position located at one point, in ascending
// order. Coincident records share an entry so the tree stays shallow.
type entry struct {
	positions []int
	point     orb.Point
}

func (e *entry) Point() orb.Point { return e.point }

type spatialIndex struct {
	halfWidth float64
	tree      *quadtree.Quadtree
	size      int
}

func newSpatialIndex(registry []project.Project, halfWidth float64) *spatialIndex {
	idx := &spatialIndex{halfWidth: halfWidth, tree: quadtree.New(world)}
	groups := make(map[orb.Point]*entry)
	var order []*entry
	for i, p := range registry {
		if !p.HasLocation() {
			continue
		}
		pt := orb.Point{p.Longitude, p.Latitude}
		e, ok := groups[pt]
		if !ok {
			e = &entry{point: pt}
			groups[pt] = e
			order = append(order, e)
		}
		e.positions = append(e.positions, i)
	}
	for _, e := range order {
		if err := idx.tree.Add(e); err == nil {
			idx.size += len(e.positions)
		}
	}
	return idx
}

func (s *spatialIndex) box(lat, lon float64) orb.Bound {
	return orb.Point{lon, lat}.Bound().Pad(s.halfWidth)
}

// query returns positions whose box overlaps the box centered on lat/lon.
// Two equal-size boxes overlap when their centers are within twice the
// half-width on both axes.
func (s *spatialIndex) query(lat, lon float64) []int {
	if s == nil || s.size == 0 || !project.ValidLocation(lat, lon) {
		return nil
	}
	queryBox := s.box(lat, lon)
	search := orb.Point{lon, lat}.Bound().Pad(2 * s.halfWidth)
	hits := s.tree.InBound(nil, search)
	var out []int
	for _, h := range hits {
		e := h.(*entry)
		if s.box(e.point.Y(), e.point.X()).Intersects(queryBox) {
			out = append(out, e.positions...)
		}
	}
	return out
}
