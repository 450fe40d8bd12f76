package pending

// Option applies a configuration option to a Registry.
type Option func(*options)

type options struct {
	maxSize int
	newID   func() string
	onEvict func(id string, v any)
}

// WithMaxSize bounds the registry. When full, the oldest entry is evicted.
// maxSize <= 0 leaves it unbounded.
func WithMaxSize(maxSize int) Option {
	return func(o *options) {
		o.maxSize = maxSize
	}
}

// WithIDFunc overrides the id generator.
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithEvictHook is called, with the lock held, for every evicted entry.
func WithEvictHook(fn func(id string, v any)) Option {
	return func(o *options) {
		o.onEvict = fn
	}
}
