package winner

type options struct {
	descending bool
}

// Option configures a merge tree.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithDescending merges sequences that are sorted in descending order,
// producing a descending stream. Ties still resolve toward the earlier
// sequence.
func WithDescending() Option {
	return func(o *options) {
		o.descending = true
	}
}
