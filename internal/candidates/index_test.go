package candidates

import (
	"reflect"
	"sort"
	"testing"

	"projmerge/internal/project"
)

func sampleRegistry() []project.Project {
	return []project.Project{
		{UniqueID: "R0", Name: "Brandon Road Lock and Dam", Description: "Invasive carp barrier", Latitude: 40.0, Longitude: -75.0, Region: "IL"},
		{UniqueID: "R1", Name: "Highway widening", Description: "Interchange rebuild", Latitude: 40.15, Longitude: -75.0, Region: "NJ"},
		{UniqueID: "R2", Name: "Rural broadband expansion", Description: "Fiber middle mile", Latitude: 40.25, Longitude: -75.0, Region: "PA"},
		{UniqueID: "R3", Name: "Transit electrification", Description: "Battery electric buses", Region: "PA"},
	}
}

func TestNearby(t *testing.T) {
	ix := Build(sampleRegistry(), Options{})
	if ix.Located() != 3 {
		t.Fatalf("Located() = %d, want 3", ix.Located())
	}
	got := ix.Nearby(40.0, -75.0)
	if !reflect.DeepEqual(sorted(got), []int{0, 1}) {
		t.Fatalf("Nearby() = %v, want [0 1]", got)
	}
	if hits := ix.Nearby(0, 0); hits != nil {
		t.Fatalf("invalid location should return no hits, got %v", hits)
	}
}

func TestNearbyCoincidentPoints(t *testing.T) {
	const n = 20000
	registry := make([]project.Project, 0, n+1)
	for i := 0; i < n; i++ {
		registry = append(registry, project.Project{Latitude: 39.7392, Longitude: -104.9903, Region: "CO"})
	}
	registry = append(registry, project.Project{Latitude: 45.0, Longitude: -93.0, Region: "MN"})

	ix := Build(registry, Options{})
	if ix.Located() != n+1 {
		t.Fatalf("Located() = %d, want %d", ix.Located(), n+1)
	}
	got := sorted(ix.Nearby(39.74, -104.99))
	if len(got) != n || got[0] != 0 || got[n-1] != n-1 {
		t.Fatalf("Nearby() returned %d positions, want all %d centroid records", len(got), n)
	}
	if far := ix.Nearby(45.0, -93.0); !reflect.DeepEqual(far, []int{n}) {
		t.Fatalf("Nearby() = %v, want [%d]", far, n)
	}
}

func TestNearbyHalfWidth(t *testing.T) {
	ix := Build(sampleRegistry(), Options{SpatialHalfWidth: 0.05})
	got := ix.Nearby(40.0, -75.0)
	if !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("Nearby() = %v, want [0]", got)
	}
}

func TestCandidatesUnion(t *testing.T) {
	ix := Build(sampleRegistry(), Options{})
	sel := ix.Candidates(project.Project{Latitude: 40.0, Longitude: -75.0, Region: "PA"}, 40)
	if sel.Via != SourceSpatial {
		t.Fatalf("Via = %s, want %s", sel.Via, SourceSpatial)
	}
	if !reflect.DeepEqual(sel.Positions, []int{0, 1, 2, 3}) {
		t.Fatalf("Positions = %v, want [0 1 2 3]", sel.Positions)
	}
}

func TestCandidatesRegionOnly(t *testing.T) {
	ix := Build(sampleRegistry(), Options{})
	sel := ix.Candidates(project.Project{Region: "PA", Name: "Brandon Road Lock"}, 40)
	if !reflect.DeepEqual(sel.Positions, []int{2, 3}) {
		t.Fatalf("Positions = %v, want [2 3]", sel.Positions)
	}
}

func TestCandidatesTextFallback(t *testing.T) {
	ix := Build(sampleRegistry(), Options{})
	incoming := project.Project{
		Name:        "Brandon Road lock",
		Description: "carp barrier",
		Region:      "Ontario Province",
	}
	sel := ix.Candidates(incoming, 40)
	if sel.Via != SourceText {
		t.Fatalf("Via = %s, want %s", sel.Via, SourceText)
	}
	if !reflect.DeepEqual(sel.Positions, []int{0}) {
		t.Fatalf("Positions = %v, want [0]", sel.Positions)
	}
}

func TestCandidatesNone(t *testing.T) {
	ix := Build(sampleRegistry(), Options{})
	sel := ix.Candidates(project.Project{Name: "Desalination pilot"}, 40)
	if sel.Via != SourceNone || len(sel.Positions) != 0 {
		t.Fatalf("expected empty selection, got %+v", sel)
	}
}

func TestTextIndexTransformUnknownTerms(t *testing.T) {
	ix := Build(sampleRegistry(), Options{})
	if vec := ix.Text().Transform("zebra quokka"); vec != nil {
		t.Fatal("text outside the registry vocabulary should have no vector")
	}
	sims := ix.Text().Similarities(nil)
	if len(sims) != 4 {
		t.Fatalf("Similarities(nil) length = %d, want 4", len(sims))
	}
}

func TestBuildEmptyRegistry(t *testing.T) {
	ix := Build(nil, Options{})
	sel := ix.Candidates(project.Project{Name: "anything", Latitude: 1, Longitude: 1}, 40)
	if len(sel.Positions) != 0 {
		t.Fatalf("expected no candidates, got %v", sel.Positions)
	}
}

func sorted(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	return out
}
