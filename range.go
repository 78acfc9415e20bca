package tollgate

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteRange is an inclusive byte span, 0 <= Start <= End.
type ByteRange struct {
	Start uint64
	End   uint64
}

// Length returns the number of bytes spanned.
func (r ByteRange) Length() int64 {
	return int64(r.End-r.Start) + 1
}

// ContentRange renders the partial-content response header value, e.g.
// "bytes 0-99/1000".
func (r ByteRange) ContentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}

// UnsatisfiableContentRange is the Content-Range value for a 416 response
// when the total size is known: "bytes */<total>".
func UnsatisfiableContentRange(total int64) string {
	return fmt.Sprintf("bytes */%d", total)
}

// ResolveRange parses a raw Range header value against the object's total
// size. total < 0 means the size is unknown, in which case open-ended and
// suffix forms cannot be resolved.
//
// Accepted forms:
//
//	bytes=a-b   both bounds; valid iff b >= a, b clamped to total-1
//	bytes=a-    open end; requires known total, resolves to [a, total-1]
//	bytes=-n    suffix; requires known total and n > 0, resolves to the
//	            last n bytes, clamped to the object start
//
// When the total is known, a start at or beyond the object end is
// unsatisfiable.
//
// A nil range with nil error means no Range header was supplied. Any other
// header shape is unsatisfiable and returns a range error; callers respond
// 416 rather than silently serving the full object.
func ResolveRange(header string, total int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, RangeError("malformed range header")
	}
	a, b, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, RangeError("malformed range header")
	}

	// Suffix form: last n bytes. An empty object has no last byte to span.
	if a == "" {
		if total <= 0 {
			return nil, RangeError("suffix range requires a known object size")
		}
		n, err := strconv.ParseUint(b, 10, 64)
		if err != nil || n == 0 {
			return nil, RangeError("malformed suffix range")
		}
		start := uint64(0)
		if n < uint64(total) {
			start = uint64(total) - n
		}
		return &ByteRange{Start: start, End: uint64(total) - 1}, nil
	}

	start, err := strconv.ParseUint(a, 10, 64)
	if err != nil {
		return nil, RangeError("malformed range start")
	}
	if total >= 0 && start >= uint64(total) {
		return nil, RangeError("range start beyond object end")
	}

	// Open end: through the last byte.
	if b == "" {
		if total <= 0 {
			return nil, RangeError("open range requires a known object size")
		}
		return &ByteRange{Start: start, End: uint64(total) - 1}, nil
	}

	end, err := strconv.ParseUint(b, 10, 64)
	if err != nil || end < start {
		return nil, RangeError("malformed range end")
	}
	if total >= 0 && end >= uint64(total) {
		end = uint64(total) - 1
	}
	return &ByteRange{Start: start, End: end}, nil
}

// FullRange returns the range spanning an entire object of the given size,
// used to frame forced downloads as partial content with an explicit total.
// ok is false for unknown or empty sizes.
func FullRange(total int64) (ByteRange, bool) {
	if total <= 0 {
		return ByteRange{}, false
	}
	return ByteRange{Start: 0, End: uint64(total) - 1}, true
}
