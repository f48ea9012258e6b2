// Package consolidate clusters per-frame tracked objects into persistent,
// detector-ready regions. Clustering is density-based (DBSCAN) over a hybrid
// overlap/edge distance metric; regions live across frames with merge, age,
// and prune semantics.
package consolidate

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/nvr-ai/go-motion/common"
)

// TrackedObject is a motion box with a persistent identity assigned by the
// external tracker. The consolidator only reads these fields.
type TrackedObject struct {
	// ID is stable across frames for the same physical object.
	ID int
	// Bounds is the object's current bounding box in frame coordinates.
	Bounds common.Rect
}

// Region is a consolidated group of tracked objects maintained across frames.
type Region struct {
	// ID identifies the region for downstream consumers; it survives merges.
	ID uuid.UUID
	// Bounds is the union of the current member objects' bounding boxes,
	// before expansion.
	Bounds common.Rect
	// Expanded is Bounds grown by the configured expansion factor and
	// clamped to the frame; the detector-ready crop.
	Expanded common.Rect
	// FramesSinceUpdate counts consecutive frames without a cluster match.
	FramesSinceUpdate int

	members map[int]struct{}
}

func newRegion(bounds common.Rect, memberIDs []int) *Region {
	members := make(map[int]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}
	return &Region{
		ID:      uuid.New(),
		Bounds:  bounds,
		members: members,
	}
}

// HasMember reports whether the tracked object belongs to the region.
func (r *Region) HasMember(id int) bool {
	_, ok := r.members[id]
	return ok
}

// MemberCount returns the number of tracked objects in the region.
func (r *Region) MemberCount() int { return len(r.members) }

// MemberIDs returns the member object IDs in ascending order.
func (r *Region) MemberIDs() []int {
	ids := make([]int, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *Region) String() string {
	return fmt.Sprintf("region %s members=%v bounds=%s stale=%d",
		r.ID, r.MemberIDs(), r.Bounds, r.FramesSinceUpdate)
}

// absorb merges other into r: union of boxes and member sets, minimum of the
// staleness counters. r keeps its identity.
func (r *Region) absorb(other *Region) {
	r.Bounds = r.Bounds.Union(other.Bounds)
	for id := range other.members {
		r.members[id] = struct{}{}
	}
	if other.FramesSinceUpdate < r.FramesSinceUpdate {
		r.FramesSinceUpdate = other.FramesSinceUpdate
	}
}
