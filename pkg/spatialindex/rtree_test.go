package spatialindex

import (
	"testing"

	"github.com/lintang-b-s/eldx/pkg/geo"
)

func TestSearchWithinRadius(t *testing.T) {
	edgeLat, edgeLon := geo.GetDestinationPoint(40.0, -88.0, 90, 1.9)

	idx := NewIndex[string]()
	idx.Insert(40.0000, -88.0000, "at query point")
	idx.Insert(40.0050, -88.0000, "about half a km north")
	idx.Insert(edgeLat, edgeLon, "1.9 km east, near the radius edge")
	idx.Insert(40.1000, -88.0000, "about 11 km north")
	idx.Insert(41.0000, -89.0000, "far away")

	if idx.Len() != 5 {
		t.Fatalf("want 5 items, got %d", idx.Len())
	}

	got := idx.SearchWithinRadius(40.0, -88.0, 2.0)
	if len(got) != 3 {
		t.Fatalf("want 3 items inside the 2km radius box, got %d: %v", len(got), got)
	}
	edgeKept := false
	for _, item := range got {
		if item == "about 11 km north" || item == "far away" {
			t.Errorf("item outside the box returned: %q", item)
		}
		if item == "1.9 km east, near the radius edge" {
			edgeKept = true
		}
	}
	if !edgeKept {
		t.Error("in-radius item near the edge was dropped by the prefilter")
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := NewIndex[int]()
	if got := idx.SearchWithinRadius(40.0, -88.0, 2.0); len(got) != 0 {
		t.Errorf("empty index returned %d items", len(got))
	}
}
