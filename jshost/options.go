package jshost

import "log/slog"

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for host failures.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}
