package consolidate

import (
	"github.com/chewxy/math32"

	"github.com/nvr-ai/go-motion/common"
)

// Distance measures spatial affinity between two tracked objects' boxes as a
// weighted sum of an overlap component and an edge component.
//
// Centroid distance fails here: a small object's box can sit entirely inside
// a larger motion blob (a bird inside a patch of foliage motion) with a
// large center separation. The overlap component treats such boxes as
// co-located, while the edge component gives genuinely disjoint boxes a real
// proximity signal. With weights summing to 1 the result lies in
// [0, MaxEdgeDistance].
func Distance(a, b common.Rect, cfg Config) float32 {
	return cfg.OverlapWeight*overlapComponent(a, b, cfg.MaxEdgeDistance) +
		cfg.EdgeWeight*edgeComponent(a, b, cfg.MaxEdgeDistance)
}

// overlapComponent scales inversely with how much of the smaller box is
// covered: fully-contained boxes score 0, disjoint boxes score maxEdge.
func overlapComponent(a, b common.Rect, maxEdge float32) float32 {
	inter := a.Intersection(b)
	if inter <= 0 {
		return maxEdge
	}
	smaller := math32.Min(a.Area(), b.Area())
	if smaller <= 0 {
		// Zero-area boxes cannot meaningfully overlap; treat as co-located
		// rather than dividing by zero.
		return 0
	}
	ratio := math32.Min(inter/smaller, 1)
	return maxEdge * (1 - ratio)
}

// edgeComponent is the minimum boundary distance for disjoint boxes, capped
// at maxEdge, and 0 for intersecting boxes.
func edgeComponent(a, b common.Rect, maxEdge float32) float32 {
	if a.Intersects(b) {
		return 0
	}
	return math32.Min(a.EdgeDistance(b), maxEdge)
}
