// Package motion implements the frame-to-motion-box pipeline: preprocessing,
// frame differencing with optional background-model fusion, morphological
// cleanup, and contour extraction with adaptive threshold learning.
package motion

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// BlurMode selects the noise-reduction filter applied during preprocessing.
type BlurMode int

const (
	// BlurNone disables noise reduction.
	BlurNone BlurMode = iota
	// BlurGaussian applies a Gaussian blur (fast, general purpose).
	BlurGaussian
	// BlurMedian applies a median blur (best against salt-and-pepper noise).
	BlurMedian
	// BlurBilateral applies a bilateral filter (edge-preserving, slowest).
	BlurBilateral
)

// PreprocessorConfig contains configuration parameters for frame preprocessing.
type PreprocessorConfig struct {
	// ConvertGrayscale converts multi-channel frames to single-channel.
	ConvertGrayscale bool
	// EnableCLAHE toggles adaptive histogram equalization.
	EnableCLAHE bool
	// CLAHEClipLimit is the contrast limit for CLAHE.
	CLAHEClipLimit float64
	// CLAHETileSize is the side length of the CLAHE tile grid.
	CLAHETileSize int
	// Blur selects the noise-reduction filter.
	Blur BlurMode
	// GaussianKernelSize is the Gaussian kernel side length, must be odd.
	GaussianKernelSize int
	// MedianKernelSize is the median kernel side length, must be odd.
	MedianKernelSize int
	// BilateralDiameter is the pixel neighborhood diameter for the bilateral filter.
	BilateralDiameter int
	// BilateralSigmaColor is the filter sigma in color space.
	BilateralSigmaColor float64
	// BilateralSigmaSpace is the filter sigma in coordinate space.
	BilateralSigmaSpace float64
}

// DefaultPreprocessorConfig returns a default configuration for preprocessing.
func DefaultPreprocessorConfig() PreprocessorConfig {
	return PreprocessorConfig{
		ConvertGrayscale:    true,
		EnableCLAHE:         false,
		CLAHEClipLimit:      2.0,
		CLAHETileSize:       8,
		Blur:                BlurGaussian,
		GaussianKernelSize:  21,
		MedianKernelSize:    5,
		BilateralDiameter:   9,
		BilateralSigmaColor: 75,
		BilateralSigmaSpace: 75,
	}
}

// Preprocessor normalizes incoming frames before motion detection: optional
// grayscale conversion, optional CLAHE contrast equalization, then one
// configured noise-reduction blur. Deterministic and stateless across calls.
type Preprocessor struct {
	config   PreprocessorConfig
	clahe    gocv.CLAHE
	hasCLAHE bool
}

// NewPreprocessor creates a preprocessor, validating kernel parameters.
// Kernel sizes must be positive, and odd where OpenCV requires it.
func NewPreprocessor(config PreprocessorConfig) (*Preprocessor, error) {
	if err := validatePreprocessorConfig(config); err != nil {
		return nil, errors.Wrap(err, "invalid preprocessor config")
	}

	p := &Preprocessor{config: config}
	if config.EnableCLAHE {
		p.clahe = gocv.NewCLAHEWithParams(
			config.CLAHEClipLimit,
			image.Pt(config.CLAHETileSize, config.CLAHETileSize),
		)
		p.hasCLAHE = true
	}
	return p, nil
}

func validatePreprocessorConfig(config PreprocessorConfig) error {
	if config.EnableCLAHE {
		if config.CLAHEClipLimit <= 0 {
			return errors.Errorf("CLAHE clip limit must be positive, got %f", config.CLAHEClipLimit)
		}
		if config.CLAHETileSize < 1 {
			return errors.Errorf("CLAHE tile size must be positive, got %d", config.CLAHETileSize)
		}
	}
	switch config.Blur {
	case BlurGaussian:
		if config.GaussianKernelSize < 1 || config.GaussianKernelSize%2 == 0 {
			return errors.Errorf("gaussian kernel size must be positive and odd, got %d", config.GaussianKernelSize)
		}
	case BlurMedian:
		if config.MedianKernelSize < 1 || config.MedianKernelSize%2 == 0 {
			return errors.Errorf("median kernel size must be positive and odd, got %d", config.MedianKernelSize)
		}
	case BlurBilateral:
		if config.BilateralDiameter < 1 {
			return errors.Errorf("bilateral diameter must be positive, got %d", config.BilateralDiameter)
		}
	case BlurNone:
	default:
		return errors.Errorf("unknown blur mode %d", config.Blur)
	}
	return nil
}

// Process normalizes src into dst. The source Mat is not modified.
// Empty input produces an empty dst.
func (p *Preprocessor) Process(src gocv.Mat, dst *gocv.Mat) {
	if src.Empty() {
		empty := gocv.NewMat()
		defer empty.Close()
		empty.CopyTo(dst)
		return
	}

	work := src
	var owned []gocv.Mat
	defer func() {
		for i := range owned {
			owned[i].Close()
		}
	}()

	if p.config.ConvertGrayscale && src.Channels() > 1 {
		gray := gocv.NewMat()
		gocv.CvtColor(work, &gray, gocv.ColorBGRToGray)
		owned = append(owned, gray)
		work = gray
	}

	// CLAHE operates on single-channel images only.
	if p.hasCLAHE && work.Channels() == 1 {
		equalized := gocv.NewMat()
		p.clahe.Apply(work, &equalized)
		owned = append(owned, equalized)
		work = equalized
	}

	switch p.config.Blur {
	case BlurGaussian:
		k := p.config.GaussianKernelSize
		gocv.GaussianBlur(work, dst, image.Pt(k, k), 0, 0, gocv.BorderDefault)
	case BlurMedian:
		gocv.MedianBlur(work, dst, p.config.MedianKernelSize)
	case BlurBilateral:
		gocv.BilateralFilter(work, dst, p.config.BilateralDiameter,
			p.config.BilateralSigmaColor, p.config.BilateralSigmaSpace)
	default:
		work.CopyTo(dst)
	}
}

// Close releases the CLAHE resources, if any.
func (p *Preprocessor) Close() {
	if p.hasCLAHE {
		p.clahe.Close()
		p.hasCLAHE = false
	}
}
