package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-motion/common"
)

func obj(id int, x, y, w, h float32) TrackedObject {
	return TrackedObject{ID: id, Bounds: common.NewRect(x, y, w, h)}
}

func TestClusterEmptyInput(t *testing.T) {
	assert.Nil(t, clusterObjects(nil, DefaultConfig()))
	assert.Nil(t, clusterObjects([]TrackedObject{}, DefaultConfig()))
}

func TestClusterSingleObjectIsNoise(t *testing.T) {
	objects := []TrackedObject{obj(1, 100, 100, 50, 50)}
	clusters := clusterObjects(objects, DefaultConfig())
	assert.Empty(t, clusters)
}

func TestClusterNearbyPair(t *testing.T) {
	objects := []TrackedObject{
		obj(1, 100, 100, 50, 50),
		obj(2, 102, 102, 50, 50),
	}
	clusters := clusterObjects(objects, DefaultConfig())
	require.Len(t, clusters, 1)
	assert.ElementsMatch(t, []int{0, 1}, clusters[0])
}

func TestClusterFarPairIsNoise(t *testing.T) {
	objects := []TrackedObject{
		obj(1, 0, 0, 50, 50),
		obj(2, 1000, 1000, 50, 50),
	}
	clusters := clusterObjects(objects, DefaultConfig())
	assert.Empty(t, clusters)
}

func TestClusterTwoGroups(t *testing.T) {
	objects := []TrackedObject{
		obj(1, 100, 100, 40, 40),
		obj(2, 110, 110, 40, 40),
		obj(3, 120, 105, 40, 40),
		obj(4, 2000, 2000, 40, 40),
		obj(5, 2010, 2005, 40, 40),
	}
	clusters := clusterObjects(objects, DefaultConfig())
	require.Len(t, clusters, 2)
	assert.ElementsMatch(t, []int{0, 1, 2}, clusters[0])
	assert.ElementsMatch(t, []int{3, 4}, clusters[1])
}

func TestClusterChainAbsorption(t *testing.T) {
	// A chain of overlapping boxes is density-reachable end to end and must
	// land in a single cluster even though the ends are far apart.
	objects := []TrackedObject{
		obj(1, 0, 0, 60, 60),
		obj(2, 40, 0, 60, 60),
		obj(3, 80, 0, 60, 60),
		obj(4, 120, 0, 60, 60),
		obj(5, 160, 0, 60, 60),
	}
	clusters := clusterObjects(objects, DefaultConfig())
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0], 5)
}

func TestClusterNoiseBetweenGroupsStaysNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinPts = 3

	objects := []TrackedObject{
		obj(1, 100, 100, 40, 40),
		obj(2, 105, 105, 40, 40),
		obj(3, 110, 100, 40, 40),
		// Isolated point, no dense neighborhood anywhere near.
		obj(4, 5000, 5000, 40, 40),
	}
	clusters := clusterObjects(objects, cfg)
	require.Len(t, clusters, 1)
	assert.NotContains(t, clusters[0], 3)
}

func TestClusterDeterminism(t *testing.T) {
	objects := []TrackedObject{
		obj(1, 100, 100, 40, 40),
		obj(2, 110, 110, 40, 40),
		obj(3, 300, 300, 40, 40),
		obj(4, 310, 305, 40, 40),
		obj(5, 120, 105, 40, 40),
	}

	first := clusterObjects(objects, DefaultConfig())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, clusterObjects(objects, DefaultConfig()))
	}
}

func BenchmarkClusterObjects(b *testing.B) {
	objects := make([]TrackedObject, 40)
	for i := range objects {
		x := float32((i % 8) * 90)
		y := float32((i / 8) * 90)
		objects[i] = obj(i, x, y, 50, 50)
	}
	cfg := DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		clusterObjects(objects, cfg)
	}
}
