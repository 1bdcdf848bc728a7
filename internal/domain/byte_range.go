package domain

import "fmt"

// ByteRange is the span of a file sent in one upload request.
// End is the index of the last byte sent (inclusive). A range with
// Begin > End is empty; it happens when the server already holds the
// whole file or the file has zero length.
type ByteRange struct {
	Begin      int64
	End        int64
	FileLength int64
}

// ResolveRange turns caller-supplied bounds into a ByteRange.
// end == -1 means "to the end of the file"; any end at or past the file
// length is clamped to the last byte.
func ResolveRange(begin, end, fileLength int64) (ByteRange, error) {
	if fileLength < 0 {
		return ByteRange{}, fmt.Errorf("%w: negative file length %d", ErrInvalidRange, fileLength)
	}
	if begin < 0 || begin > fileLength {
		return ByteRange{}, fmt.Errorf("%w: begin %d outside file of %d bytes", ErrInvalidRange, begin, fileLength)
	}
	switch {
	case end == -1 || end >= fileLength:
		end = fileLength - 1
	case end < begin:
		return ByteRange{}, fmt.Errorf("%w: end %d before begin %d", ErrInvalidRange, end, begin)
	}
	return ByteRange{Begin: begin, End: end, FileLength: fileLength}, nil
}

// Len is the number of bytes in the range, which is also the request's
// Content-Length.
func (r ByteRange) Len() int64 {
	if r.Empty() {
		return 0
	}
	return r.End - r.Begin + 1
}

// Empty reports whether the range carries no bytes.
func (r ByteRange) Empty() bool {
	return r.Begin > r.End
}

// ContentRange renders the Content-Range header value.
func (r ByteRange) ContentRange() string {
	if r.Empty() {
		return fmt.Sprintf("bytes */%d", r.FileLength)
	}
	return fmt.Sprintf("bytes %d-%d/%d", r.Begin, r.End, r.FileLength)
}
