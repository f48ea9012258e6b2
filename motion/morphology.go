package motion

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// CleanerConfig contains configuration parameters for morphological cleanup.
// The operations run in a fixed order: close, open, dilate, erode.
type CleanerConfig struct {
	// EnableClose fills holes inside motion blobs.
	EnableClose bool
	// EnableOpen removes speckle noise.
	EnableOpen bool
	// EnableDilate connects and expands nearby regions.
	EnableDilate bool
	// EnableErode counters over-expansion from dilation.
	EnableErode bool
	// KernelSize is the structuring element side length shared by all
	// enabled operations.
	KernelSize int
}

// DefaultCleanerConfig returns a default configuration for mask cleanup.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		EnableClose:  true,
		EnableOpen:   true,
		EnableDilate: true,
		EnableErode:  false,
		KernelSize:   5,
	}
}

// Cleaner applies the configured morphological sequence to binary motion
// masks, turning noisy pixel masks into coherent blobs. The structuring
// element is created once per configuration and reused across frames.
type Cleaner struct {
	config CleanerConfig
	kernel gocv.Mat
}

// NewCleaner creates a cleaner with an elliptical structuring element.
func NewCleaner(config CleanerConfig) (*Cleaner, error) {
	if config.KernelSize < 1 {
		return nil, errors.Errorf("kernel size must be positive, got %d", config.KernelSize)
	}
	return &Cleaner{
		config: config,
		kernel: gocv.GetStructuringElement(gocv.MorphEllipse,
			image.Pt(config.KernelSize, config.KernelSize)),
	}, nil
}

// Clean applies the enabled operations to mask, writing the result to dst.
// With every operation disabled the mask is copied through unchanged.
func (c *Cleaner) Clean(mask gocv.Mat, dst *gocv.Mat) {
	if mask.Empty() {
		empty := gocv.NewMat()
		defer empty.Close()
		empty.CopyTo(dst)
		return
	}

	mask.CopyTo(dst)
	if c.config.EnableClose {
		gocv.MorphologyEx(*dst, dst, gocv.MorphClose, c.kernel)
	}
	if c.config.EnableOpen {
		gocv.MorphologyEx(*dst, dst, gocv.MorphOpen, c.kernel)
	}
	if c.config.EnableDilate {
		gocv.Dilate(*dst, dst, c.kernel)
	}
	if c.config.EnableErode {
		gocv.Erode(*dst, dst, c.kernel)
	}
}

// Close releases the structuring element.
func (c *Cleaner) Close() {
	c.kernel.Close()
}
