package resource

// CacheBuilderOption is a functional option used to configure a Cache during construction.
type CacheBuilderOption func(*cache)

// WithWorkers sets the maximum number of goroutines Preload decodes images on.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - CacheBuilderOption: a function that sets the worker count
func WithWorkers(n int) CacheBuilderOption {
	return func(c *cache) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithPlaceholderColor sets the colour of the 1x1 texture used when an image fails to load.
//
// Parameters:
//   - r, g, b, a: the placeholder colour
//
// Returns:
//   - CacheBuilderOption: a function that sets the placeholder colour
func WithPlaceholderColor(r, g, b, a uint8) CacheBuilderOption {
	return func(c *cache) {
		c.placeholder = [4]uint8{r, g, b, a}
	}
}
