package srs

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/crosstrainer/internal/metrics"
	"github.com/abhisek/crosstrainer/internal/reconstruction"
)

const defaultCacheSize = 256

// parsedEntry is a parsed reconstruction with the text it was parsed from.
type parsedEntry struct {
	text string
	segs *reconstruction.Segments
}

// segmentCache memoises reconstruction parses per solve. An entry is
// reused only while the solve's reconstruction text is unchanged.
type segmentCache struct {
	cache   *lru.Cache[int64, parsedEntry]
	metrics *metrics.Metrics
}

func newSegmentCache(size int, m *metrics.Metrics) (*segmentCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[int64, parsedEntry](size)
	if err != nil {
		return nil, err
	}
	return &segmentCache{cache: c, metrics: m}, nil
}

// Segments returns the parsed reconstruction of a solve. A nil text
// yields nil segments and is not cached.
func (c *segmentCache) Segments(solveID int64, text *string) *reconstruction.Segments {
	if text == nil {
		return nil
	}
	if e, ok := c.cache.Get(solveID); ok && e.text == *text {
		c.metrics.SolutionCacheLookup(true)
		return e.segs
	}
	c.metrics.SolutionCacheLookup(false)
	segs := reconstruction.Parse(*text)
	c.cache.Add(solveID, parsedEntry{text: *text, segs: segs})
	return segs
}

// Len returns the number of cached parses.
func (c *segmentCache) Len() int {
	return c.cache.Len()
}
