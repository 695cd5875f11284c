// Package extract turns unstructured project notes into field values using
// the Gemini generateContent API. The response schema is built from the live
// column registry, so custom columns participate without code changes.
package extract

import (
	"context"

	"github.com/engitrack/engitrack/internal/schema"
)

// Extractor parses free text into a field mapping keyed by column key.
type Extractor interface {
	Extract(ctx context.Context, text string, columns []schema.Column) (map[string]any, error)
}
