// Package pipeline wires the motion stages and the region consolidator into
// a single per-frame processing unit and exposes the live configuration
// update entry point.
package pipeline

import (
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-motion/common"
	"github.com/nvr-ai/go-motion/consolidate"
	"github.com/nvr-ai/go-motion/motion"
)

// Config aggregates the per-stage configurations.
type Config struct {
	Preprocessor  motion.PreprocessorConfig
	Detector      motion.DetectorConfig
	Cleaner       motion.CleanerConfig
	Extractor     motion.ExtractorConfig
	Consolidation consolidate.Config
}

// DefaultConfig returns the default configuration for every stage.
func DefaultConfig() Config {
	return Config{
		Preprocessor:  motion.DefaultPreprocessorConfig(),
		Detector:      motion.DefaultDetectorConfig(),
		Cleaner:       motion.DefaultCleanerConfig(),
		Extractor:     motion.DefaultExtractorConfig(),
		Consolidation: consolidate.DefaultConfig(),
	}
}

// Validate checks every stage configuration.
func (c Config) Validate() error {
	if _, err := motion.NewPreprocessor(c.Preprocessor); err != nil {
		return err
	}
	cleaner, err := motion.NewCleaner(c.Cleaner)
	if err != nil {
		return err
	}
	cleaner.Close()
	if _, err := motion.NewExtractor(c.Extractor); err != nil {
		return err
	}
	return c.Consolidation.Validate()
}

// Detection is one downstream detector result for a region crop.
type Detection struct {
	Label      string
	Confidence float32
	Box        common.Rect
}

// Detector is the downstream collaborator consuming consolidated regions.
// Implementations classify or verify the region crops; this module never
// runs inference itself.
type Detector interface {
	Detect(frame gocv.Mat, regions []consolidate.Region) ([]Detection, error)
}

// Stats counts pipeline activity since construction.
type Stats struct {
	FramesProcessed int64
	BoxesEmitted    int64
	RegionsLive     int
}

// Pipeline processes frames strictly in call order: preprocess, detect,
// clean, extract, and separately consolidate externally-tracked objects.
// One instance per camera feed; instances share no state. A mutex
// serializes calls so a pipeline handed to multiple goroutines degrades to
// sequential processing instead of corrupting Mat state.
type Pipeline struct {
	mu sync.Mutex

	config       Config
	preprocessor *motion.Preprocessor
	detector     *motion.Detector
	cleaner      *motion.Cleaner
	extractor    *motion.Extractor
	consolidator *consolidate.Consolidator

	preprocessed gocv.Mat
	mask         gocv.Mat
	cleaned      gocv.Mat

	stats Stats
}

// New builds a pipeline from the given configuration.
func New(config Config) (*Pipeline, error) {
	preprocessor, err := motion.NewPreprocessor(config.Preprocessor)
	if err != nil {
		return nil, errors.Wrap(err, "preprocessor")
	}
	cleaner, err := motion.NewCleaner(config.Cleaner)
	if err != nil {
		preprocessor.Close()
		return nil, errors.Wrap(err, "cleaner")
	}
	extractor, err := motion.NewExtractor(config.Extractor)
	if err != nil {
		preprocessor.Close()
		cleaner.Close()
		return nil, errors.Wrap(err, "extractor")
	}
	consolidator, err := consolidate.NewConsolidator(config.Consolidation)
	if err != nil {
		preprocessor.Close()
		cleaner.Close()
		return nil, errors.Wrap(err, "consolidator")
	}

	return &Pipeline{
		config:       config,
		preprocessor: preprocessor,
		detector:     motion.NewDetector(config.Detector),
		cleaner:      cleaner,
		extractor:    extractor,
		consolidator: consolidator,
		preprocessed: gocv.NewMat(),
		mask:         gocv.NewMat(),
		cleaned:      gocv.NewMat(),
	}, nil
}

// Process runs one frame through preprocessing, motion detection, cleanup,
// and contour extraction, returning this frame's motion boxes.
//
// A malformed frame (empty or zero-dimension) short-circuits to an empty
// result: no detections, no state mutation, no error.
func (p *Pipeline) Process(frame gocv.Mat) []common.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame.Empty() || frame.Rows() == 0 || frame.Cols() == 0 {
		return nil
	}

	p.preprocessor.Process(frame, &p.preprocessed)
	p.detector.Detect(p.preprocessed, &p.mask)
	p.cleaner.Clean(p.mask, &p.cleaned)
	boxes := p.extractor.Extract(p.cleaned)

	p.stats.FramesProcessed++
	p.stats.BoxesEmitted += int64(len(boxes))
	return boxes
}

// Consolidate feeds the external tracker's objects for the current frame to
// the region consolidator and returns the updated region set.
func (p *Pipeline) Consolidate(objects []consolidate.TrackedObject) []consolidate.Region {
	p.mu.Lock()
	defer p.mu.Unlock()

	regions := p.consolidator.Consolidate(objects)
	p.stats.RegionsLive = len(regions)
	return regions
}

// UpdateConfig applies a new configuration between calls without
// reconstructing the pipeline. Stage state survives: the previous-frame
// baseline, the adaptive threshold cache, and the retained regions are all
// kept. The preprocessor and cleaner are rebuilt (their kernels derive from
// config); the motion detector is rebuilt only when its background-model
// settings changed.
func (p *Pipeline) UpdateConfig(config Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	preprocessor, err := motion.NewPreprocessor(config.Preprocessor)
	if err != nil {
		return errors.Wrap(err, "preprocessor")
	}
	cleaner, err := motion.NewCleaner(config.Cleaner)
	if err != nil {
		preprocessor.Close()
		return errors.Wrap(err, "cleaner")
	}
	if err := p.extractor.UpdateConfig(config.Extractor); err != nil {
		preprocessor.Close()
		cleaner.Close()
		return errors.Wrap(err, "extractor")
	}
	if err := p.consolidator.UpdateConfig(config.Consolidation); err != nil {
		preprocessor.Close()
		cleaner.Close()
		return errors.Wrap(err, "consolidator")
	}

	p.preprocessor.Close()
	p.preprocessor = preprocessor
	p.cleaner.Close()
	p.cleaner = cleaner

	if config.Detector != p.config.Detector {
		p.detector.Close()
		p.detector = motion.NewDetector(config.Detector)
	}

	p.config = config
	return nil
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close releases every native resource held by the stages.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.preprocessor.Close()
	p.detector.Close()
	p.cleaner.Close()
	p.preprocessed.Close()
	p.mask.Close()
	p.cleaned.Close()
}
