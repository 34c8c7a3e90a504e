package gray

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

// Load reads an image file and returns its normalized grid: grayscale,
// longer side at most maxSide (Lanczos resampling), values min-max
// rescaled to [0, 1]. Supported formats are PNG, JPEG, and GIF.
func Load(path string, maxSide int) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return Normalize(img, maxSide), nil
}

// Normalize converts a decoded image to its normalized grid form.
func Normalize(img image.Image, maxSide int) *Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longer := w
	if h > longer {
		longer = h
	}
	if maxSide > 0 && longer > maxSide {
		scale := float64(longer) / float64(maxSide)
		nw := int(float64(w) / scale)
		nh := int(float64(h) / scale)
		img = imaging.Resize(img, nw, nh, imaging.Lanczos)
	}

	return Rescale(FromImage(img))
}

// Cache provides thread-safe caching of normalized grids keyed by file
// path and size bound, avoiding redundant decode/resize work when the
// same image feeds several figures.
//
// Cached grids remain in memory until Clear() is called; the working
// set here is nine small images, so no eviction policy is needed.
type Cache struct {
	mu    sync.RWMutex
	grids map[string]*Grid
}

// NewCache creates an empty cache ready for concurrent use.
func NewCache() *Cache {
	return &Cache{grids: make(map[string]*Grid)}
}

func cacheKey(path string, maxSide int) string {
	return fmt.Sprintf("%s@%d", path, maxSide)
}

// Load returns the normalized grid for path at the given bound, reading
// from disk only on the first request.
func (c *Cache) Load(path string, maxSide int) (*Grid, error) {
	key := cacheKey(path, maxSide)

	c.mu.RLock()
	if g, ok := c.grids[key]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	g, err := Load(path, maxSide)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[key] = g
	c.mu.Unlock()

	return g, nil
}

// Clear removes all cached grids. The watch command calls this before
// re-rendering so edited files are re-read from disk.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*Grid)
	c.mu.Unlock()
}
