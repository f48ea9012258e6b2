package motion

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-motion/images"
)

// diffOnlyDetector disables the MOG2 background model so assertions do not
// depend on its warm-up behavior.
func diffOnlyDetector() *Detector {
	return NewDetector(DetectorConfig{EnableBackgroundModel: false})
}

func TestDetectorFirstFrameYieldsEmptyMask(t *testing.T) {
	d := diffOnlyDetector()
	defer d.Close()
	assert.False(t, d.Initialized())

	frame := images.NewGrayMat(64, 48, 10)
	defer frame.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	d.Detect(frame, &mask)

	assert.True(t, d.Initialized())
	assert.Equal(t, 48, mask.Rows())
	assert.Equal(t, 64, mask.Cols())
	assert.Equal(t, 0, gocv.CountNonZero(mask))
}

func TestDetectorFindsMovingSquare(t *testing.T) {
	d := diffOnlyDetector()
	defer d.Close()

	baseline := images.NewGrayMat(160, 120, 0)
	defer baseline.Close()

	moved := images.NewGrayMat(160, 120, 0)
	defer moved.Close()
	images.FillRect(&moved, image.Rect(40, 40, 80, 80), 200)

	mask := gocv.NewMat()
	defer mask.Close()
	d.Detect(baseline, &mask)
	d.Detect(moved, &mask)

	changed := gocv.CountNonZero(mask)
	require.Greater(t, changed, 0)
	// Only the square changed; most of the frame must stay zero.
	assert.Less(t, changed, 160*120/2)
	assert.Equal(t, uint8(255), mask.GetUCharAt(60, 60))
}

func TestDetectorIdenticalFramesProduceNoMotion(t *testing.T) {
	d := diffOnlyDetector()
	defer d.Close()

	frame := images.NewGrayMat(64, 48, 128)
	defer frame.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	d.Detect(frame, &mask)
	d.Detect(frame, &mask)

	assert.Equal(t, 0, gocv.CountNonZero(mask))
}

func TestDetectorEmptyInputLeavesStateUntouched(t *testing.T) {
	d := diffOnlyDetector()
	defer d.Close()

	empty := gocv.NewMat()
	defer empty.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	d.Detect(empty, &mask)

	assert.True(t, mask.Empty())
	assert.False(t, d.Initialized())
}

func TestDetectorReset(t *testing.T) {
	d := diffOnlyDetector()
	defer d.Close()

	frame := images.NewGrayMat(64, 48, 50)
	defer frame.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	d.Detect(frame, &mask)
	require.True(t, d.Initialized())

	d.Reset()
	assert.False(t, d.Initialized())

	// The next frame is a fresh baseline again.
	d.Detect(frame, &mask)
	assert.Equal(t, 0, gocv.CountNonZero(mask))
}

func TestDetectorWithBackgroundModelClosesCleanly(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())

	frame := images.NewGrayMat(64, 48, 50)
	defer frame.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	d.Detect(frame, &mask)
	d.Detect(frame, &mask)

	assert.NotPanics(t, d.Close)
}
