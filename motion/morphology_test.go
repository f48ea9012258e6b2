package motion

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-motion/images"
)

func TestNewCleanerRejectsBadKernel(t *testing.T) {
	cfg := DefaultCleanerConfig()
	cfg.KernelSize = 0
	_, err := NewCleaner(cfg)
	assert.Error(t, err)
}

func TestCleanerFillsHolesAndRemovesSpecks(t *testing.T) {
	c, err := NewCleaner(DefaultCleanerConfig())
	require.NoError(t, err)
	defer c.Close()

	mask := images.NewGrayMat(400, 400, 0)
	defer mask.Close()

	// A solid blob with a small hole, plus an isolated speck far away.
	images.FillRect(&mask, image.Rect(50, 50, 150, 150), 255)
	images.FillRect(&mask, image.Rect(98, 98, 101, 101), 0)
	images.FillRect(&mask, image.Rect(300, 300, 302, 302), 255)

	dst := gocv.NewMat()
	defer dst.Close()
	c.Clean(mask, &dst)

	assert.Equal(t, uint8(255), dst.GetUCharAt(99, 99), "close fills the hole")
	assert.Equal(t, uint8(0), dst.GetUCharAt(301, 301), "open removes the speck")
	assert.Equal(t, uint8(255), dst.GetUCharAt(100, 75), "blob body survives")
}

func TestCleanerAllDisabledCopiesThrough(t *testing.T) {
	c, err := NewCleaner(CleanerConfig{KernelSize: 5})
	require.NoError(t, err)
	defer c.Close()

	mask := images.NewGrayMat(64, 64, 0)
	defer mask.Close()
	images.FillRect(&mask, image.Rect(10, 10, 12, 12), 255)

	dst := gocv.NewMat()
	defer dst.Close()
	c.Clean(mask, &dst)

	assert.Equal(t, gocv.CountNonZero(mask), gocv.CountNonZero(dst))
	assert.Equal(t, uint8(255), dst.GetUCharAt(11, 11))
}

func TestCleanerEmptyMask(t *testing.T) {
	c, err := NewCleaner(DefaultCleanerConfig())
	require.NoError(t, err)
	defer c.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	c.Clean(mask, &dst)

	assert.True(t, dst.Empty())
}
