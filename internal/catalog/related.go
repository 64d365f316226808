package catalog

import (
	"slices"

	"folio/internal/domain/content"
)

// Related-article scoring weights.
// TODO: weights are unreviewed; confirm with product before tuning them.
const (
	CategoryWeight = 3
	TagWeight      = 1

	DefaultRelatedLimit = 3
)

// Related ranks every other article by similarity to the reference one and
// returns at most limit of them. A limit <= 0 means DefaultRelatedLimit.
// An unknown reference yields an empty result.
func (c *Catalog) Related(categoryDir, slug string, limit int) []content.Article {
	ref, ok := c.BySlug(categoryDir, slug)
	if !ok {
		return []content.Article{}
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	type scored struct {
		article content.Article
		score   int
	}
	var candidates []scored
	for _, a := range c.All() {
		if a.ID() == ref.ID() {
			continue
		}
		candidates = append(candidates, scored{article: a, score: Score(ref, a)})
	}

	slices.SortStableFunc(candidates, func(x, y scored) int {
		return y.score - x.score
	})

	out := make([]content.Article, 0, min(limit, len(candidates)))
	for _, s := range candidates[:min(limit, len(candidates))] {
		out = append(out, s.article)
	}
	return out
}

// Score is the similarity of candidate to ref: CategoryWeight for an exact
// category match plus TagWeight per distinct shared tag.
func Score(ref, candidate content.Article) int {
	score := 0
	if candidate.Category == ref.Category {
		score += CategoryWeight
	}

	refTags := make(map[string]struct{}, len(ref.Tags))
	for _, t := range ref.Tags {
		refTags[t] = struct{}{}
	}
	counted := make(map[string]struct{}, len(candidate.Tags))
	for _, t := range candidate.Tags {
		if _, ok := refTags[t]; !ok {
			continue
		}
		if _, dup := counted[t]; dup {
			continue
		}
		counted[t] = struct{}{}
		score += TagWeight
	}
	return score
}
