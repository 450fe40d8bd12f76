package api

import "github.com/okian/netninja/pkg/logger"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default is logger.Get().Named("api").
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
