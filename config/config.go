// Package config loads pipeline tuning from JSON files. Fields omitted from
// the file keep their built-in defaults, so partial configs are safe, and a
// missing or invalid file falls back to full defaults without stopping the
// pipeline.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-motion/consolidate"
	"github.com/nvr-ai/go-motion/motion"
	"github.com/nvr-ai/go-motion/pipeline"
)

// File is the on-disk tuning schema. Every field is a pointer so that only
// values present in the JSON override the defaults.
type File struct {
	// Preprocessing
	ConvertGrayscale    *bool    `json:"convert_grayscale,omitempty"`
	EnableCLAHE         *bool    `json:"enable_clahe,omitempty"`
	CLAHEClipLimit      *float64 `json:"clahe_clip_limit,omitempty"`
	CLAHETileSize       *int     `json:"clahe_tile_size,omitempty"`
	BlurMode            *string  `json:"blur_mode,omitempty"` // none|gaussian|median|bilateral
	GaussianKernelSize  *int     `json:"gaussian_kernel_size,omitempty"`
	MedianKernelSize    *int     `json:"median_kernel_size,omitempty"`
	BilateralDiameter   *int     `json:"bilateral_diameter,omitempty"`
	BilateralSigmaColor *float64 `json:"bilateral_sigma_color,omitempty"`
	BilateralSigmaSpace *float64 `json:"bilateral_sigma_space,omitempty"`

	// Motion detection
	EnableBackgroundModel *bool    `json:"enable_background_model,omitempty"`
	MOG2History           *int     `json:"mog2_history,omitempty"`
	MOG2VarThreshold      *float64 `json:"mog2_var_threshold,omitempty"`

	// Morphological cleanup
	EnableClose  *bool `json:"enable_close,omitempty"`
	EnableOpen   *bool `json:"enable_open,omitempty"`
	EnableDilate *bool `json:"enable_dilate,omitempty"`
	EnableErode  *bool `json:"enable_erode,omitempty"`
	KernelSize   *int  `json:"kernel_size,omitempty"`

	// Contour filtering
	FilterMode      *string `json:"filter_mode,omitempty"` // permissive|adaptive
	RefreshInterval *int    `json:"refresh_interval,omitempty"`

	// Consolidation
	OverlapWeight          *float64 `json:"overlap_weight,omitempty"`
	EdgeWeight             *float64 `json:"edge_weight,omitempty"`
	MaxEdgeDistance        *float64 `json:"max_edge_distance,omitempty"`
	Eps                    *float64 `json:"eps,omitempty"`
	MinPts                 *int     `json:"min_pts,omitempty"`
	MinObjectsPerRegion    *int     `json:"min_objects_per_region,omitempty"`
	ExpansionFactor        *float64 `json:"expansion_factor,omitempty"`
	FrameWidth             *int     `json:"frame_width,omitempty"`
	FrameHeight            *int     `json:"frame_height,omitempty"`
	MaxFramesWithoutUpdate *int     `json:"max_frames_without_update,omitempty"`
}

// Load reads and parses a JSON tuning file.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}
	return &f, nil
}

// LoadOrDefault builds a pipeline configuration from the file at path,
// falling back to the built-in defaults when the file is missing or invalid.
// Fallback is reported via log, never fatal: a misconfigured deployment
// keeps detecting motion with defaults.
func LoadOrDefault(path string) pipeline.Config {
	cfg := pipeline.DefaultConfig()
	if path == "" {
		return cfg
	}

	f, err := Load(path)
	if err != nil {
		log.Printf("config: %v, using defaults", err)
		return cfg
	}

	f.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Printf("config: %v, using defaults", err)
		return pipeline.DefaultConfig()
	}
	return cfg
}

// Apply overlays the file's set fields onto cfg.
func (f *File) Apply(cfg *pipeline.Config) {
	applyPreprocessor(f, &cfg.Preprocessor)
	applyDetector(f, &cfg.Detector)
	applyCleaner(f, &cfg.Cleaner)
	applyExtractor(f, &cfg.Extractor)
	applyConsolidation(f, &cfg.Consolidation)
}

func applyPreprocessor(f *File, c *motion.PreprocessorConfig) {
	if f.ConvertGrayscale != nil {
		c.ConvertGrayscale = *f.ConvertGrayscale
	}
	if f.EnableCLAHE != nil {
		c.EnableCLAHE = *f.EnableCLAHE
	}
	if f.CLAHEClipLimit != nil {
		c.CLAHEClipLimit = *f.CLAHEClipLimit
	}
	if f.CLAHETileSize != nil {
		c.CLAHETileSize = *f.CLAHETileSize
	}
	if f.BlurMode != nil {
		switch *f.BlurMode {
		case "none":
			c.Blur = motion.BlurNone
		case "gaussian":
			c.Blur = motion.BlurGaussian
		case "median":
			c.Blur = motion.BlurMedian
		case "bilateral":
			c.Blur = motion.BlurBilateral
		default:
			log.Printf("config: unknown blur mode %q, keeping %d", *f.BlurMode, c.Blur)
		}
	}
	if f.GaussianKernelSize != nil {
		c.GaussianKernelSize = *f.GaussianKernelSize
	}
	if f.MedianKernelSize != nil {
		c.MedianKernelSize = *f.MedianKernelSize
	}
	if f.BilateralDiameter != nil {
		c.BilateralDiameter = *f.BilateralDiameter
	}
	if f.BilateralSigmaColor != nil {
		c.BilateralSigmaColor = *f.BilateralSigmaColor
	}
	if f.BilateralSigmaSpace != nil {
		c.BilateralSigmaSpace = *f.BilateralSigmaSpace
	}
}

func applyDetector(f *File, c *motion.DetectorConfig) {
	if f.EnableBackgroundModel != nil {
		c.EnableBackgroundModel = *f.EnableBackgroundModel
	}
	if f.MOG2History != nil {
		c.MOG2History = *f.MOG2History
	}
	if f.MOG2VarThreshold != nil {
		c.MOG2VarThreshold = *f.MOG2VarThreshold
	}
}

func applyCleaner(f *File, c *motion.CleanerConfig) {
	if f.EnableClose != nil {
		c.EnableClose = *f.EnableClose
	}
	if f.EnableOpen != nil {
		c.EnableOpen = *f.EnableOpen
	}
	if f.EnableDilate != nil {
		c.EnableDilate = *f.EnableDilate
	}
	if f.EnableErode != nil {
		c.EnableErode = *f.EnableErode
	}
	if f.KernelSize != nil {
		c.KernelSize = *f.KernelSize
	}
}

func applyExtractor(f *File, c *motion.ExtractorConfig) {
	if f.FilterMode != nil {
		switch *f.FilterMode {
		case "permissive":
			c.Mode = motion.FilterPermissive
		case "adaptive":
			c.Mode = motion.FilterAdaptive
		default:
			log.Printf("config: unknown filter mode %q, keeping %d", *f.FilterMode, c.Mode)
		}
	}
	if f.RefreshInterval != nil {
		c.RefreshInterval = *f.RefreshInterval
	}
}

func applyConsolidation(f *File, c *consolidate.Config) {
	if f.OverlapWeight != nil {
		c.OverlapWeight = float32(*f.OverlapWeight)
	}
	if f.EdgeWeight != nil {
		c.EdgeWeight = float32(*f.EdgeWeight)
	}
	if f.MaxEdgeDistance != nil {
		c.MaxEdgeDistance = float32(*f.MaxEdgeDistance)
	}
	if f.Eps != nil {
		c.Eps = float32(*f.Eps)
	}
	if f.MinPts != nil {
		c.MinPts = *f.MinPts
	}
	if f.MinObjectsPerRegion != nil {
		c.MinObjectsPerRegion = *f.MinObjectsPerRegion
	}
	if f.ExpansionFactor != nil {
		c.ExpansionFactor = float32(*f.ExpansionFactor)
	}
	if f.FrameWidth != nil {
		c.FrameWidth = *f.FrameWidth
	}
	if f.FrameHeight != nil {
		c.FrameHeight = *f.FrameHeight
	}
	if f.MaxFramesWithoutUpdate != nil {
		c.MaxFramesWithoutUpdate = *f.MaxFramesWithoutUpdate
	}
}
