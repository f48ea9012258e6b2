package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvr-ai/go-motion/common"
)

func TestDistanceBounds(t *testing.T) {
	cfg := DefaultConfig()

	rects := []common.Rect{
		common.NewRect(0, 0, 50, 50),
		common.NewRect(25, 25, 50, 50),
		common.NewRect(500, 400, 10, 10),
		common.NewRect(0, 0, 0, 0),
		common.NewRect(100, 100, 1, 200),
	}

	for _, a := range rects {
		for _, b := range rects {
			d := Distance(a, b, cfg)
			assert.GreaterOrEqual(t, d, float32(0), "distance(%s, %s)", a, b)
			assert.LessOrEqual(t, d, cfg.MaxEdgeDistance, "distance(%s, %s)", a, b)
		}
	}
}

func TestDistanceIdenticalRects(t *testing.T) {
	cfg := DefaultConfig()
	r := common.NewRect(100, 100, 50, 50)
	assert.Equal(t, float32(0), Distance(r, r, cfg))
}

func TestDistanceContainedBox(t *testing.T) {
	cfg := DefaultConfig()

	// A small box fully inside a large one is co-located no matter how far
	// apart the centers are.
	large := common.NewRect(0, 0, 400, 400)
	small := common.NewRect(350, 350, 20, 20)
	assert.Equal(t, float32(0), Distance(large, small, cfg))
}

func TestDistanceFarApartApproachesMax(t *testing.T) {
	cfg := DefaultConfig()
	a := common.NewRect(0, 0, 10, 10)
	b := common.NewRect(5000, 5000, 10, 10)

	// Both components saturate: overlap contributes maxEdge (disjoint) and
	// edge contributes the cap.
	assert.Equal(t, cfg.MaxEdgeDistance, Distance(a, b, cfg))
}

func TestDistanceDisjointUsesEdgeGap(t *testing.T) {
	cfg := DefaultConfig()
	a := common.NewRect(0, 0, 10, 10)
	b := common.NewRect(30, 0, 10, 10) // 20 px horizontal gap

	want := cfg.OverlapWeight*cfg.MaxEdgeDistance + cfg.EdgeWeight*20
	assert.InDelta(t, want, Distance(a, b, cfg), 1e-3)
}

func TestDistanceZeroAreaGuard(t *testing.T) {
	cfg := DefaultConfig()
	degenerate := common.NewRect(10, 10, 0, 0)
	normal := common.NewRect(0, 0, 50, 50)

	assert.NotPanics(t, func() {
		d := Distance(degenerate, normal, cfg)
		assert.GreaterOrEqual(t, d, float32(0))
		assert.LessOrEqual(t, d, cfg.MaxEdgeDistance)
	})
	assert.NotPanics(t, func() {
		_ = Distance(degenerate, degenerate, cfg)
	})
}

func TestDistanceSymmetry(t *testing.T) {
	cfg := DefaultConfig()
	a := common.NewRect(10, 20, 80, 40)
	b := common.NewRect(70, 30, 30, 90)
	assert.Equal(t, Distance(a, b, cfg), Distance(b, a, cfg))
}

func BenchmarkDistance(b *testing.B) {
	cfg := DefaultConfig()
	r1 := common.NewRect(100, 100, 50, 50)
	r2 := common.NewRect(130, 140, 60, 40)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Distance(r1, r2, cfg)
	}
}
