package motion

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Fixed permissive thresholds, also the seed for the adaptive cache.
const (
	permissiveMinArea     = 50.0
	permissiveMinSolidity = 0.1
	permissiveMaxAspect   = 10.0
)

// Clamp ranges for learned thresholds. Percentile learning tracks the scene,
// the clamps keep one noisy frame from dragging the thresholds somewhere
// they cannot recover from.
const (
	minAreaFloor     = 50.0
	minAreaCeil      = 1000.0
	minSolidityFloor = 0.2
	minSolidityCeil  = 0.8
	maxAspectFloor   = 2.0
	maxAspectCeil    = 15.0
)

// thresholds is the contour filter set in effect for a frame.
type thresholds struct {
	minArea     float64
	minSolidity float64
	maxAspect   float64
}

func permissiveThresholds() thresholds {
	return thresholds{
		minArea:     permissiveMinArea,
		minSolidity: permissiveMinSolidity,
		maxAspect:   permissiveMaxAspect,
	}
}

// accepts reports whether a contour passes every active filter.
func (t thresholds) accepts(f contourFeatures) bool {
	return f.area >= t.minArea &&
		f.solidity >= t.minSolidity &&
		f.aspect <= t.maxAspect
}

// learnThresholds derives a threshold set from the contour population of a
// single frame. Apparent object size and shape vary with camera distance and
// scene clutter, so the filters track the observed distributions instead of
// fixed cutoffs: area at the 10th percentile, solidity at the 25th, aspect
// ratio at the 90th, each clamped to a safety range.
func learnThresholds(features []contourFeatures) thresholds {
	areas := make([]float64, len(features))
	solidities := make([]float64, len(features))
	aspects := make([]float64, len(features))
	for i, f := range features {
		areas[i] = f.area
		solidities[i] = f.solidity
		aspects[i] = f.aspect
	}

	return thresholds{
		minArea:     clamp(percentile(areas, 0.10), minAreaFloor, minAreaCeil),
		minSolidity: clamp(percentile(solidities, 0.25), minSolidityFloor, minSolidityCeil),
		maxAspect:   clamp(percentile(aspects, 0.90), maxAspectFloor, maxAspectCeil),
	}
}

// percentile returns the p-quantile of values. The input slice is not
// modified; stat.Quantile requires sorted data so a copy is sorted here.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
