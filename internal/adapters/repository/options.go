package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithRetainedRuns sets how many run summaries Runs reports.
func WithRetainedRuns(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.retain = n
		}
	}
}
