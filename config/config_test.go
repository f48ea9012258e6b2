package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-motion/motion"
	"github.com/nvr-ai/go-motion/pipeline"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motion.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	_, err := Load("/etc/motion.yaml")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, "{not json")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyPartialOverride(t *testing.T) {
	path := writeConfig(t, `{
		"blur_mode": "median",
		"median_kernel_size": 7,
		"eps": 150,
		"min_objects_per_region": 3,
		"enable_background_model": false
	}`)

	f, err := Load(path)
	require.NoError(t, err)

	cfg := pipeline.DefaultConfig()
	f.Apply(&cfg)

	assert.Equal(t, motion.BlurMedian, cfg.Preprocessor.Blur)
	assert.Equal(t, 7, cfg.Preprocessor.MedianKernelSize)
	assert.Equal(t, float32(150), cfg.Consolidation.Eps)
	assert.Equal(t, 3, cfg.Consolidation.MinObjectsPerRegion)
	assert.False(t, cfg.Detector.EnableBackgroundModel)

	// Untouched fields keep their defaults.
	defaults := pipeline.DefaultConfig()
	assert.Equal(t, defaults.Preprocessor.GaussianKernelSize, cfg.Preprocessor.GaussianKernelSize)
	assert.Equal(t, defaults.Consolidation.MinPts, cfg.Consolidation.MinPts)
	assert.Equal(t, defaults.Cleaner.KernelSize, cfg.Cleaner.KernelSize)
}

func TestApplyUnknownModesKeepDefaults(t *testing.T) {
	path := writeConfig(t, `{"blur_mode": "box", "filter_mode": "strict"}`)

	f, err := Load(path)
	require.NoError(t, err)

	cfg := pipeline.DefaultConfig()
	f.Apply(&cfg)

	defaults := pipeline.DefaultConfig()
	assert.Equal(t, defaults.Preprocessor.Blur, cfg.Preprocessor.Blur)
	assert.Equal(t, defaults.Extractor.Mode, cfg.Extractor.Mode)
}

func TestLoadOrDefaultFallbacks(t *testing.T) {
	defaults := pipeline.DefaultConfig()

	// Empty path means defaults without touching the filesystem.
	assert.Equal(t, defaults, LoadOrDefault(""))

	// Missing file falls back.
	assert.Equal(t, defaults, LoadOrDefault(filepath.Join(t.TempDir(), "absent.json")))

	// A file that parses but fails validation also falls back.
	path := writeConfig(t, `{"gaussian_kernel_size": 20}`)
	assert.Equal(t, defaults, LoadOrDefault(path))
}

func TestLoadOrDefaultAppliesValidFile(t *testing.T) {
	path := writeConfig(t, `{"filter_mode": "adaptive", "refresh_interval": 10}`)

	cfg := LoadOrDefault(path)
	assert.Equal(t, motion.FilterAdaptive, cfg.Extractor.Mode)
	assert.Equal(t, 10, cfg.Extractor.RefreshInterval)
}
