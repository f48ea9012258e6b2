package consolidate

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-motion/common"
)

// Consolidator maintains the persistent region set. One instance per
// pipeline; it owns its region list exclusively and mutates it only on a
// completed call.
type Consolidator struct {
	config  Config
	regions []*Region
}

// NewConsolidator creates a consolidator with no retained regions.
func NewConsolidator(config Config) (*Consolidator, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid consolidation config")
	}
	return &Consolidator{config: config}, nil
}

// UpdateConfig replaces the tunables between calls. Retained regions are
// kept; the new expansion factor and frame bounds apply from the next call.
func (c *Consolidator) UpdateConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return errors.Wrap(err, "invalid consolidation config")
	}
	c.config = config
	return nil
}

// RegionCount returns the number of currently retained regions.
func (c *Consolidator) RegionCount() int { return len(c.regions) }

// Consolidate ingests the current frame's tracked objects and returns the
// updated region set.
//
// Per call: cluster the objects, form a region per cluster meeting the
// minimum member count, merge new regions into intersecting retained ones,
// age retained regions no cluster matched, refresh member bounding boxes
// from the objects still present, and prune regions past the staleness
// limit. An empty input still ages and may prune, but never clears the set
// outright.
func (c *Consolidator) Consolidate(objects []TrackedObject) []Region {
	matched := make(map[*Region]bool, len(c.regions))

	for _, cluster := range clusterObjects(objects, c.config) {
		if len(cluster) < c.config.MinObjectsPerRegion {
			continue
		}

		bounds := objects[cluster[0]].Bounds
		ids := make([]int, 0, len(cluster))
		for _, idx := range cluster {
			bounds = bounds.Union(objects[idx].Bounds)
			ids = append(ids, objects[idx].ID)
		}
		incoming := newRegion(bounds, ids)

		if existing := c.findIntersecting(incoming.Bounds); existing != nil {
			existing.absorb(incoming)
			matched[existing] = true
		} else {
			c.regions = append(c.regions, incoming)
			matched[incoming] = true
		}
	}

	// Unmatched regions age instead of dying immediately, tolerating brief
	// detection gaps.
	for _, r := range c.regions {
		if !matched[r] {
			r.FramesSinceUpdate++
		}
	}

	c.refreshMemberBounds(objects)
	c.prune()

	out := make([]Region, len(c.regions))
	for i, r := range c.regions {
		r.Expanded = r.Bounds.
			Expand(c.config.ExpansionFactor).
			ClampTo(c.config.FrameWidth, c.config.FrameHeight)
		out[i] = *r
	}
	return out
}

// findIntersecting returns the first retained region whose bounds intersect
// the given box. Linear scan; fine at tens of regions.
func (c *Consolidator) findIntersecting(bounds common.Rect) *Region {
	for _, r := range c.regions {
		if r.Bounds.Intersects(bounds) {
			return r
		}
	}
	return nil
}

// refreshMemberBounds recomputes each region's bounding box from only the
// member objects present this frame. Regions with no member present keep
// their last box.
func (c *Consolidator) refreshMemberBounds(objects []TrackedObject) {
	byID := make(map[int]common.Rect, len(objects))
	for _, obj := range objects {
		byID[obj.ID] = obj.Bounds
	}

	for _, r := range c.regions {
		var bounds common.Rect
		found := false
		for id := range r.members {
			box, ok := byID[id]
			if !ok {
				continue
			}
			if !found {
				bounds = box
				found = true
			} else {
				bounds = bounds.Union(box)
			}
		}
		if found {
			r.Bounds = bounds
		}
	}
}

// prune drops regions whose staleness exceeds the configured limit.
func (c *Consolidator) prune() {
	kept := c.regions[:0]
	for _, r := range c.regions {
		if r.FramesSinceUpdate <= c.config.MaxFramesWithoutUpdate {
			kept = append(kept, r)
		}
	}
	c.regions = kept
}
