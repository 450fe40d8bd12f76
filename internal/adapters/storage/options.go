package storage

import "github.com/okian/netninja/pkg/logger"

// Option configures a backend built by Open or NewFile.
type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger sets the logger backends report recoverable faults to.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
