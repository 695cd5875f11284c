// Package stats computes aggregate statistics over project records.
// Computation is pure and recomputed per read; nothing here is cached.
package stats

import (
	"strconv"
	"strings"

	"github.com/engitrack/engitrack/internal/record"
)

// Uncategorized is the bucket for records whose category field is absent or
// empty. Label matches the rest of the Chinese-language schema.
const Uncategorized = "未分类"

// UnknownCreator is the bucket for records with no recorded creator.
const UnknownCreator = "Unknown"

// Options selects which fields drive the aggregation.
type Options struct {
	// CategoryField is the column key to group by. Empty means "method".
	CategoryField string
	// SumField is the column key whose numeric values are totalled.
	// Empty means "outlineQty".
	SumField string
}

func (o Options) withDefaults() Options {
	if o.CategoryField == "" {
		o.CategoryField = "method"
	}
	if o.SumField == "" {
		o.SumField = "outlineQty"
	}
	return o
}

// Bucket is one group-by slice: a display name and its record count.
type Bucket struct {
	Name  string
	Count int
}

// Summary is a point-in-time aggregation snapshot.
type Summary struct {
	TotalProjects int
	// Categories groups records by the category field, first-seen order,
	// with absent/empty values collected under Uncategorized.
	Categories []Bucket
	// Creators groups records by who entered them.
	Creators []Bucket
	// Total is the best-effort numeric sum over the sum field.
	Total float64
}

// Compute aggregates the given records. It never fails: malformed values
// contribute zero to the sum and fall into the catch-all buckets.
func Compute(records []record.Record, opts Options) Summary {
	opts = opts.withDefaults()

	sum := Summary{TotalProjects: len(records)}
	catIndex := make(map[string]int)
	creatorIndex := make(map[string]int)

	for _, r := range records {
		cat := stringValue(r.Fields[opts.CategoryField])
		if cat == "" {
			cat = Uncategorized
		}
		if i, ok := catIndex[cat]; ok {
			sum.Categories[i].Count++
		} else {
			catIndex[cat] = len(sum.Categories)
			sum.Categories = append(sum.Categories, Bucket{Name: cat, Count: 1})
		}

		creator := r.CreatedBy
		if creator == "" {
			creator = UnknownCreator
		}
		if i, ok := creatorIndex[creator]; ok {
			sum.Creators[i].Count++
		} else {
			creatorIndex[creator] = len(sum.Creators)
			sum.Creators = append(sum.Creators, Bucket{Name: creator, Count: 1})
		}

		sum.Total += Coerce(r.Fields[opts.SumField])
	}

	return sum
}

// Coerce converts a field value to a number on a best-effort basis.
// Numbers pass through, numeric strings are parsed after trimming, and
// everything else contributes exactly zero.
func Coerce(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
