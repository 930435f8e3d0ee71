package slab

const (
	// DefaultInitialLayerSize is the slot count of the first layer of a pool.
	DefaultInitialLayerSize = 14
	// DefaultLayerGrowth is added to the head layer's size for each new layer.
	DefaultLayerGrowth = 3
	// DefaultMaxLayerSize caps the slot count of any single layer.
	DefaultMaxLayerSize = 143
)

// Option configures the layer growth policy of a Pool.
type Option func(*config)

type config struct {
	initial int
	growth  int
	limit   int
}

func defaultConfig() config {
	return config{
		initial: DefaultInitialLayerSize,
		growth:  DefaultLayerGrowth,
		limit:   DefaultMaxLayerSize,
	}
}

// WithInitialLayerSize sets the slot count of the first layer. Values below 1 are ignored.
func WithInitialLayerSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.initial = n
		}
	}
}

// WithLayerGrowth sets how many slots each new layer adds over the current head.
// Growth is additive so a single layer's scan stays bounded.
func WithLayerGrowth(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.growth = n
		}
	}
}

// WithMaxLayerSize caps the slot count of a layer. Zero removes the cap.
func WithMaxLayerSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.limit = n
		}
	}
}

// nextSize returns the size of the layer placed in front of a head layer of
// size head (0 when the pool has no layers).
func (c config) nextSize(head int) int {
	size := c.initial
	if head > 0 {
		size = head + c.growth
	}
	if c.limit > 0 {
		size = min(size, c.limit)
	}
	return size
}
