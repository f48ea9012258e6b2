package motion

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-motion/common"
)

// FilterMode selects how contour filtering thresholds are chosen.
type FilterMode int

const (
	// FilterPermissive uses fixed, deliberately loose thresholds and defers
	// real rejection to the region consolidator.
	FilterPermissive FilterMode = iota
	// FilterAdaptive learns thresholds from the observed contour population,
	// refreshed periodically.
	FilterAdaptive
)

// ExtractorConfig contains configuration parameters for contour extraction.
type ExtractorConfig struct {
	// Mode selects permissive or adaptive filtering.
	Mode FilterMode
	// RefreshInterval is the number of frames between adaptive threshold
	// refreshes. Recomputing every frame would jitter the thresholds and
	// waste work; between refreshes the cached values are reused.
	RefreshInterval int
}

// DefaultExtractorConfig returns a default configuration for contour extraction.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Mode:            FilterPermissive,
		RefreshInterval: 30,
	}
}

// contourFeatures holds the measurements a contour is filtered on.
type contourFeatures struct {
	area     float64
	solidity float64
	aspect   float64
	box      common.Rect
}

// Extractor finds outer contours in cleaned motion masks and filters them by
// area, solidity, and aspect ratio into motion boxes.
//
// In adaptive mode the thresholds are percentiles of the current frame's
// contour population, recomputed every RefreshInterval frames and cached in
// between. The cache and the calls-since-refresh counter are instance state,
// so independent pipelines never share thresholds.
type Extractor struct {
	config             ExtractorConfig
	cached             thresholds
	framesSinceRefresh int
}

// NewExtractor creates a contour extractor. The adaptive threshold cache is
// seeded with the permissive defaults so the frames before the first refresh
// still filter against real values.
func NewExtractor(config ExtractorConfig) (*Extractor, error) {
	if config.Mode == FilterAdaptive && config.RefreshInterval < 1 {
		return nil, errors.Errorf("refresh interval must be positive, got %d", config.RefreshInterval)
	}
	return &Extractor{
		config: config,
		cached: permissiveThresholds(),
	}, nil
}

// Thresholds returns the threshold set the next extraction will filter with.
func (e *Extractor) Thresholds() (minArea, minSolidity, maxAspect float64) {
	return e.cached.minArea, e.cached.minSolidity, e.cached.maxAspect
}

// UpdateConfig swaps the configuration without discarding the threshold
// cache, so a live tuning change does not reset adaptive learning.
func (e *Extractor) UpdateConfig(config ExtractorConfig) error {
	if config.Mode == FilterAdaptive && config.RefreshInterval < 1 {
		return errors.Errorf("refresh interval must be positive, got %d", config.RefreshInterval)
	}
	e.config = config
	return nil
}

// Extract finds the outer contours of the cleaned mask and returns the
// bounding boxes of those passing every active filter. An empty mask yields
// an empty result, never an error.
func (e *Extractor) Extract(mask gocv.Mat) []common.Rect {
	if mask.Empty() {
		return nil
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	features := make([]contourFeatures, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		features = append(features, measureContour(contours.At(i)))
	}

	if e.config.Mode == FilterAdaptive {
		e.framesSinceRefresh++
		if e.framesSinceRefresh >= e.config.RefreshInterval && len(features) > 0 {
			e.cached = learnThresholds(features)
			e.framesSinceRefresh = 0
		}
	}

	boxes := make([]common.Rect, 0, len(features))
	for _, f := range features {
		if e.cached.accepts(f) {
			boxes = append(boxes, f.box)
		}
	}
	return boxes
}

// measureContour computes the filter measurements for one contour: area,
// convex-hull solidity of the simplified polygon, and bounding-box aspect
// ratio.
func measureContour(contour gocv.PointVector) contourFeatures {
	area := gocv.ContourArea(contour)
	rect := gocv.BoundingRect(contour)

	var aspect float64
	if rect.Dx() > 0 && rect.Dy() > 0 {
		aspect = float64(rect.Dx()) / float64(rect.Dy())
		if aspect < 1 {
			aspect = 1 / aspect
		}
	}

	return contourFeatures{
		area:     area,
		solidity: contourSolidity(contour, area),
		aspect:   aspect,
		box:      common.RectFromImage(rect),
	}
}

// contourSolidity returns contourArea / hullArea for the perimeter-simplified
// polygon, or 0 when the hull is degenerate.
func contourSolidity(contour gocv.PointVector, area float64) float64 {
	perimeter := gocv.ArcLength(contour, true)
	if perimeter <= 0 {
		return 0
	}

	approx := gocv.ApproxPolyDP(contour, 0.02*perimeter, true)
	defer approx.Close()
	if approx.Size() < 3 {
		return 0
	}

	hull := gocv.NewMat()
	defer hull.Close()
	gocv.ConvexHull(approx, &hull, false, true)
	if hull.Empty() || hull.Rows() < 3 {
		return 0
	}

	hullPoints := gocv.NewPointVectorFromMat(hull)
	defer hullPoints.Close()
	hullArea := gocv.ContourArea(hullPoints)
	if hullArea <= 0 {
		return 0
	}
	return area / hullArea
}
