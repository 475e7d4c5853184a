package pebble

import "bytes"

type scanOptions struct {
	lowerBound []byte
	upperBound []byte
}

// ScanOption configures a store scan.
type ScanOption func(*scanOptions)

func defaultScanOptions() *scanOptions {
	return &scanOptions{}
}

// WithBounds restricts a scan to keys in [lower, upper). A nil bound
// leaves that side of the range open.
func WithBounds(lower, upper []byte) ScanOption {
	return func(o *scanOptions) {
		o.lowerBound = lower
		o.upperBound = upper
	}
}

// WithPrefix restricts a scan to keys beginning with prefix.
func WithPrefix(prefix []byte) ScanOption {
	return func(o *scanOptions) {
		o.lowerBound = prefix
		o.upperBound = prefixUpperBound(prefix)
	}
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix, or nil when no such key exists.
func prefixUpperBound(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
