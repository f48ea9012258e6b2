package consolidate

import "github.com/pkg/errors"

// Config contains the tunables for distance weighting, clustering, and
// region lifecycle. Treated as immutable during a call; swap it between
// calls with Consolidator.UpdateConfig.
type Config struct {
	// OverlapWeight scales the overlap distance component.
	OverlapWeight float32
	// EdgeWeight scales the edge distance component.
	EdgeWeight float32
	// MaxEdgeDistance caps both components; it is the distance assigned to
	// fully disjoint, far-apart boxes.
	MaxEdgeDistance float32
	// Eps is the DBSCAN neighborhood radius in metric units.
	Eps float32
	// MinPts is the minimum neighborhood size (self included) for a core point.
	MinPts int
	// MinObjectsPerRegion is the smallest cluster that becomes a region.
	MinObjectsPerRegion int
	// ExpansionFactor grows region boxes symmetrically for the detector crop.
	ExpansionFactor float32
	// FrameWidth and FrameHeight bound expanded regions.
	FrameWidth  int
	FrameHeight int
	// MaxFramesWithoutUpdate is the staleness limit; beyond it a region is pruned.
	MaxFramesWithoutUpdate int
}

// DefaultConfig returns defaults tuned for small fast movers (birds) in a
// 640x480 feed.
func DefaultConfig() Config {
	return Config{
		OverlapWeight:          0.5,
		EdgeWeight:             0.5,
		MaxEdgeDistance:        200,
		Eps:                    100,
		MinPts:                 2,
		MinObjectsPerRegion:    2,
		ExpansionFactor:        1.2,
		FrameWidth:             640,
		FrameHeight:            480,
		MaxFramesWithoutUpdate: 30,
	}
}

// Validate checks that the configuration values are usable.
func (c Config) Validate() error {
	if c.OverlapWeight < 0 || c.EdgeWeight < 0 {
		return errors.Errorf("distance weights must be non-negative, got overlap=%f edge=%f",
			c.OverlapWeight, c.EdgeWeight)
	}
	if c.MaxEdgeDistance <= 0 {
		return errors.Errorf("max edge distance must be positive, got %f", c.MaxEdgeDistance)
	}
	if c.Eps <= 0 {
		return errors.Errorf("eps must be positive, got %f", c.Eps)
	}
	if c.MinPts < 1 {
		return errors.Errorf("minPts must be at least 1, got %d", c.MinPts)
	}
	if c.MinObjectsPerRegion < 2 {
		return errors.Errorf("min objects per region must be at least 2, got %d", c.MinObjectsPerRegion)
	}
	if c.ExpansionFactor < 1 {
		return errors.Errorf("expansion factor must be at least 1, got %f", c.ExpansionFactor)
	}
	if c.FrameWidth < 1 || c.FrameHeight < 1 {
		return errors.Errorf("frame dimensions must be positive, got %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.MaxFramesWithoutUpdate < 0 {
		return errors.Errorf("staleness limit must be non-negative, got %d", c.MaxFramesWithoutUpdate)
	}
	return nil
}
