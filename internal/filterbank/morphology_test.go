package filterbank

import (
	"math/rand"
	"testing"

	"github.com/dmorell/vision-figures/internal/gray"
)

func noiseGrid(width, height int, seed int64) *gray.Grid {
	rng := rand.New(rand.NewSource(seed))
	g := gray.New(width, height)
	for i := range g.Pix {
		g.Pix[i] = rng.Float64()
	}
	return g
}

func gridsEqual(a, b *gray.Grid) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

func TestDisk(t *testing.T) {
	tests := []struct {
		radius int
		size   int
	}{
		{0, 1},
		{1, 5},  // center + 4-neighborhood
		{2, 13}, // dx^2+dy^2 <= 4
	}

	for _, tt := range tests {
		se := Disk(tt.radius)
		if len(se) != tt.size {
			t.Errorf("Disk(%d): got %d offsets, want %d", tt.radius, len(se), tt.size)
		}
	}
}

func TestErodeDilate_Ordering(t *testing.T) {
	x := noiseGrid(24, 24, 1)
	se := Disk(2)

	eroded := Erode(x, se)
	dilated := Dilate(x, se)
	for i := range x.Pix {
		if eroded.Pix[i] > x.Pix[i] {
			t.Fatalf("erosion increased pix[%d]", i)
		}
		if dilated.Pix[i] < x.Pix[i] {
			t.Fatalf("dilation decreased pix[%d]", i)
		}
	}
}

func TestOpeningClosing_Idempotent(t *testing.T) {
	// Opening and closing are idempotent for a fixed structuring
	// element; min/max never invent values, so equality is exact.
	for _, radius := range []int{1, 3, 4} {
		se := Disk(radius)
		x := noiseGrid(32, 32, int64(radius))

		opened := Open(x, se)
		if !gridsEqual(opened, Open(opened, se)) {
			t.Errorf("r=%d: opening is not idempotent", radius)
		}

		closed := Close(x, se)
		if !gridsEqual(closed, Close(closed, se)) {
			t.Errorf("r=%d: closing is not idempotent", radius)
		}
	}
}

func TestWhiteTophat_NonNegative(t *testing.T) {
	x := noiseGrid(24, 24, 7)
	tophat := WhiteTophat(x, Disk(3))
	for i, v := range tophat.Pix {
		if v < 0 {
			t.Fatalf("tophat negative at pix[%d]: %f (opening must be anti-extensive)", i, v)
		}
	}
}

func TestWhiteTophat_ExtractsSmallBrightSpot(t *testing.T) {
	g := gray.New(21, 21)
	g.Set(10, 10, 1) // single bright pixel on black

	tophat := WhiteTophat(g, Disk(3))
	if tophat.At(10, 10) != 1 {
		t.Errorf("tophat at spot: got %f, want 1", tophat.At(10, 10))
	}
}

func TestMorphology_FixedKeySet(t *testing.T) {
	x := noiseGrid(16, 16, 3)

	for _, radius := range []int{3, 4} {
		results := Morphology(x, radius)
		keys := MorphologyKeys(radius)
		if len(results) != len(keys) {
			t.Fatalf("r=%d: bank size %d, want %d", radius, len(results), len(keys))
		}
		for _, key := range keys {
			if _, ok := results[key]; !ok {
				t.Errorf("r=%d: missing key %q", radius, key)
			}
		}
	}
}

func TestPipelines_FixedKeySetAndRange(t *testing.T) {
	x := noiseGrid(24, 24, 11)
	results := Pipelines(x)

	if len(results) != len(PipelineKeys) {
		t.Fatalf("pipeline count: got %d, want %d", len(results), len(PipelineKeys))
	}
	for _, key := range PipelineKeys {
		r, ok := results[key]
		if !ok {
			t.Fatalf("missing pipeline %q", key)
		}
		min, max := r.MinMax()
		if min < 0 || max > 1 {
			t.Errorf("%s: values outside [0,1]: min=%f max=%f", key, min, max)
		}
	}
}
