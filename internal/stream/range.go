package stream

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jgivc/philportal/internal/common"
	"github.com/jgivc/philportal/internal/entity"
)

const (
	// ChunkSize bounds an open ended range like "bytes=100-".
	ChunkSize int64 = 1_000_000
)

var (
	rangeRegexp = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)
)

// ParseRange parses a single "bytes=<start>-[<end>]" range against a file of
// the given size. Suffix ranges ("bytes=-500") and multiple ranges are
// treated as malformed.
func ParseRange(header string, size int64) (entity.ByteRange, error) {
	m := rangeRegexp.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return entity.ByteRange{}, fmt.Errorf("%w: %q", common.ErrMalformedRange, header)
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return entity.ByteRange{}, fmt.Errorf("%w: bad start: %w", common.ErrMalformedRange, err)
	}

	if start >= size {
		return entity.ByteRange{}, fmt.Errorf("%w: start %d, size %d", common.ErrUnsatisfiableRange, start, size)
	}

	end := min(start+ChunkSize-1, size-1)
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return entity.ByteRange{}, fmt.Errorf("%w: bad end: %w", common.ErrMalformedRange, err)
		}
	}

	if end >= size || end < start {
		return entity.ByteRange{}, fmt.Errorf("%w: %d-%d, size %d", common.ErrUnsatisfiableRange, start, end, size)
	}

	return entity.ByteRange{Start: start, End: end}, nil
}
