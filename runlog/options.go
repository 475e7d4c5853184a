package runlog

// DefaultSegmentCapacity is the number of records buffered per segment
// when no WithSegmentCapacity option is given.
const DefaultSegmentCapacity = 1024

type options struct {
	segmentCapacity int
	compression     Compression
}

// Option configures a run log writer.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		segmentCapacity: DefaultSegmentCapacity,
		compression:     CompressionNone,
	}
}

// WithSegmentCapacity sets how many records are buffered, sorted and then
// flushed as one segment.
func WithSegmentCapacity(n int) Option {
	return func(o *options) {
		o.segmentCapacity = n
	}
}

// WithCompression selects the compression codec for flushed segments.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}
