package persist

import "github.com/rs/zerolog"

// FileStoreOption is a functional option for configuring a file store.
// Use the With* functions to create options that are applied directly to the store instance.
type FileStoreOption func(*fileStore)

// WithLogger sets the store's logger. Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - FileStoreOption: option function to apply
func WithLogger(log zerolog.Logger) FileStoreOption {
	return func(s *fileStore) {
		s.log = log
	}
}
