package catalog

import (
	"slices"
	"strings"

	"folio/internal/domain/content"
)

// All returns every article, newest first. Articles with equal dates keep
// their load order.
func (c *Catalog) All() []content.Article {
	out := make([]content.Article, len(c.articles))
	for i, a := range c.articles {
		out[i] = clone(a)
	}
	slices.SortStableFunc(out, func(a, b content.Article) int {
		return b.Published.Compare(a.Published)
	})
	return out
}

// Slugs returns every article id ("dir/slug") in load order.
func (c *Catalog) Slugs() []string {
	out := make([]string, 0, len(c.articles))
	for _, a := range c.articles {
		out = append(out, a.ID())
	}
	return out
}

func (c *Catalog) BySlug(categoryDir, slug string) (content.Article, bool) {
	for _, a := range c.articles {
		if a.CategoryDir == categoryDir && a.Slug == slug {
			return clone(a), true
		}
	}
	return content.Article{}, false
}

// BySlugPath looks up an article by its "dir/slug" id.
func (c *Catalog) BySlugPath(id string) (content.Article, bool) {
	dir, slug := content.SplitSlug(id, "")
	if dir == "" {
		return content.Article{}, false
	}
	return c.BySlug(dir, slug)
}

func (c *Catalog) Featured() []content.Article {
	return c.filter(func(a content.Article) bool { return a.Featured })
}

func (c *Catalog) ByCategory(label string) []content.Article {
	return c.filter(func(a content.Article) bool {
		return strings.EqualFold(a.Category, label)
	})
}

func (c *Catalog) ByCategoryDir(dir string) []content.Article {
	return c.filter(func(a content.Article) bool {
		return strings.EqualFold(a.CategoryDir, dir)
	})
}

func (c *Catalog) ByTag(tag string) []content.Article {
	return c.filter(func(a content.Article) bool { return a.HasTag(tag) })
}

// Categories lists distinct display labels in first-seen order over All.
func (c *Catalog) Categories() []string {
	return distinct(c.All(), func(a content.Article) []string { return []string{a.Category} })
}

func (c *Catalog) CategoryDirs() []string {
	return distinct(c.All(), func(a content.Article) []string { return []string{a.CategoryDir} })
}

func (c *Catalog) Tags() []string {
	return distinct(c.All(), func(a content.Article) []string { return a.Tags })
}

// CategoryName returns the display label used by articles in dir, or dir
// itself when no article lives there.
func (c *Catalog) CategoryName(dir string) string {
	if arts := c.ByCategoryDir(dir); len(arts) > 0 {
		return arts[0].Category
	}
	return dir
}

type CategoryCount struct {
	Name  string `json:"name"`
	Dir   string `json:"slug"`
	Count int    `json:"count"`
}

// Stats counts articles per category directory, first-seen order over All.
func (c *Catalog) Stats() []CategoryCount {
	var out []CategoryCount
	pos := make(map[string]int)
	for _, a := range c.All() {
		i, ok := pos[a.CategoryDir]
		if !ok {
			i = len(out)
			pos[a.CategoryDir] = i
			out = append(out, CategoryCount{Name: a.Category, Dir: a.CategoryDir})
		}
		out[i].Count++
	}
	return out
}

func (c *Catalog) filter(keep func(content.Article) bool) []content.Article {
	out := []content.Article{}
	for _, a := range c.All() {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func distinct(arts []content.Article, values func(content.Article) []string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, a := range arts {
		for _, v := range values(a) {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// clone detaches the tag slice so callers cannot reach into the snapshot.
func clone(a content.Article) content.Article {
	a.Tags = slices.Clone(a.Tags)
	return a
}
