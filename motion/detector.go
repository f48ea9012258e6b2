package motion

import (
	"gocv.io/x/gocv"
)

// DetectorConfig contains configuration parameters for motion detection.
type DetectorConfig struct {
	// EnableBackgroundModel fuses a continuously-updated MOG2 foreground mask
	// into the frame-difference mask, catching slow movers that differencing
	// alone misses.
	EnableBackgroundModel bool
	// MOG2History is the number of frames the background model remembers.
	MOG2History int
	// MOG2VarThreshold is the squared Mahalanobis distance separating
	// foreground from the background model.
	MOG2VarThreshold float64
	// MOG2DetectShadows toggles shadow marking in the foreground mask.
	MOG2DetectShadows bool
}

// DefaultDetectorConfig returns a default configuration for motion detection.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		EnableBackgroundModel: true,
		MOG2History:           500,
		MOG2VarThreshold:      16.0,
		MOG2DetectShadows:     false,
	}
}

// Detector turns preprocessed frames into binary motion masks.
//
// It is a two-state machine. Before the first frame it is uninitialized; the
// first call stores the frame as baseline and emits an empty mask. From then
// on each call differences the frame against the stored previous frame,
// selects a binary threshold automatically (Otsu), optionally ORs in the
// MOG2 foreground mask, and overwrites the stored previous frame.
//
// Always call Close() when done to release native resources.
type Detector struct {
	config      DetectorConfig
	previous    gocv.Mat
	mog2        gocv.BackgroundSubtractorMOG2
	hasMOG2     bool
	initialized bool
}

// NewDetector creates a motion detector in the uninitialized state.
func NewDetector(config DetectorConfig) *Detector {
	d := &Detector{
		config:   config,
		previous: gocv.NewMat(),
	}
	if config.EnableBackgroundModel {
		d.mog2 = gocv.NewBackgroundSubtractorMOG2WithParams(
			config.MOG2History,
			config.MOG2VarThreshold,
			config.MOG2DetectShadows,
		)
		d.hasMOG2 = true
	}
	return d
}

// Initialized reports whether a baseline frame has been stored.
func (d *Detector) Initialized() bool { return d.initialized }

// Detect computes the binary motion mask for a preprocessed frame.
//
// The mask has the same dimensions as the input, with motion pixels set to
// 255. The first call establishes the baseline and yields an all-zero mask.
// An empty input frame yields an empty mask and leaves all state untouched.
func (d *Detector) Detect(frame gocv.Mat, mask *gocv.Mat) {
	if frame.Empty() || frame.Rows() == 0 || frame.Cols() == 0 {
		empty := gocv.NewMat()
		defer empty.Close()
		empty.CopyTo(mask)
		return
	}

	if !d.initialized {
		frame.CopyTo(&d.previous)
		d.initialized = true
		zeros := gocv.Zeros(frame.Rows(), frame.Cols(), gocv.MatTypeCV8UC1)
		defer zeros.Close()
		zeros.CopyTo(mask)
		return
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(frame, d.previous, &diff)

	// Otsu picks the cutoff from the difference histogram, so the mask
	// adapts to lighting instead of relying on a fixed threshold.
	gocv.Threshold(diff, mask, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	if d.hasMOG2 {
		fg := gocv.NewMat()
		defer fg.Close()
		d.mog2.Apply(frame, &fg)

		// Shadow pixels are marked 127; keep only definite foreground.
		fgBinary := gocv.NewMat()
		defer fgBinary.Close()
		gocv.Threshold(fg, &fgBinary, 200, 255, gocv.ThresholdBinary)

		gocv.BitwiseOr(*mask, fgBinary, mask)
	}

	frame.CopyTo(&d.previous)
}

// Reset returns the detector to the uninitialized state. The background
// model, if enabled, is rebuilt from scratch.
func (d *Detector) Reset() {
	d.previous.Close()
	d.previous = gocv.NewMat()
	d.initialized = false
	if d.hasMOG2 {
		d.mog2.Close()
		d.mog2 = gocv.NewBackgroundSubtractorMOG2WithParams(
			d.config.MOG2History,
			d.config.MOG2VarThreshold,
			d.config.MOG2DetectShadows,
		)
	}
}

// Close releases the previous-frame buffer and the background model.
func (d *Detector) Close() {
	d.previous.Close()
	if d.hasMOG2 {
		d.mog2.Close()
		d.hasMOG2 = false
	}
}
