// Package catalog holds the in-memory article index: an immutable snapshot
// built once from the generated data document, plus read-only queries and
// the related-articles ranker over it.
//
// A *Catalog is never mutated after construction, so any number of
// goroutines may query it concurrently. Fresher data means loading a new
// snapshot, not changing the old one.
package catalog

import (
	"time"

	"folio/internal/domain/content"
)

type Catalog struct {
	articles  []content.Article // load order
	generated time.Time
}

func Empty() *Catalog {
	return &Catalog{}
}

func (c *Catalog) Len() int {
	return len(c.articles)
}

// Generated is the timestamp recorded in the data document, zero if absent.
func (c *Catalog) Generated() time.Time {
	return c.generated
}
