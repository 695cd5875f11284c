package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/engitrack/engitrack/internal/cachemanager"
	"github.com/engitrack/engitrack/internal/schema"
)

const cacheTTL = cachemanager.DefaultExpiration

type extractInput struct {
	text    string
	columns []schema.Column
}

// Cached wraps an Extractor with a read-through cache so identical prompts
// within a session skip the remote call. Errors are never cached.
type Cached struct {
	rtc *cachemanager.ReadThroughCache[string, map[string]any, extractInput]
}

var _ Extractor = (*Cached)(nil)

// NewCached wraps the given extractor.
func NewCached(inner Extractor) *Cached {
	cache := cachemanager.NewInMemoryCacheManager[string, map[string]any](
		"extract", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	return &Cached{
		rtc: cachemanager.NewReadThroughCache[string, map[string]any, extractInput](
			cache,
			func(ctx context.Context, in extractInput) (map[string]any, error) {
				return inner.Extract(ctx, in.text, in.columns)
			},
			false,
		),
	}
}

// Extract returns the cached result for an identical (text, schema) pair or
// falls through to the wrapped extractor.
func (c *Cached) Extract(ctx context.Context, text string, columns []schema.Column) (map[string]any, error) {
	return c.rtc.Get(ctx, cacheKey(text, columns), extractInput{text: text, columns: columns}, cacheTTL)
}

// cacheKey hashes the text together with the column schema: changing a
// column label or type must miss the cache.
func cacheKey(text string, columns []schema.Column) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	if data, err := json.Marshal(columns); err == nil {
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
