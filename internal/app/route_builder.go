package app

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"folio/internal/catalog"
	"folio/internal/domain/site"
)

// RouteBuilder maps a catalog onto the files of the static export. Paths
// use forward slashes and are relative to the public dir.
type RouteBuilder struct {
	Catalog *catalog.Catalog
}

func (rb *RouteBuilder) BuildArticleRoutes() []site.Route {
	var routes []site.Route
	used := make(map[string]struct{})
	for _, a := range rb.Catalog.All() {
		routes = append(routes, site.Route{
			Kind:    site.RouteArticle,
			Slug:    a.ID(),
			OutPath: claim(used, path.Join("articles", pathSegment(a.CategoryDir)), pathSegment(a.Slug)),
		})
	}
	return routes
}

func (rb *RouteBuilder) BuildListingRoutes() []site.Route {
	routes := []site.Route{
		{Kind: site.RouteIndex, OutPath: "articles.json"},
		{Kind: site.RouteFeatured, OutPath: "featured.json"},
		{Kind: site.RouteCategories, OutPath: "categories.json"},
		{Kind: site.RouteTags, OutPath: "tags.json"},
	}
	used := make(map[string]struct{})
	for _, dir := range rb.Catalog.CategoryDirs() {
		routes = append(routes, site.Route{
			Kind:    site.RouteCategory,
			Key:     dir,
			OutPath: claim(used, "categories", pathSegment(dir)),
		})
	}

	// tags differing only in case share one file
	seen := make(map[string]struct{})
	for _, tag := range rb.Catalog.Tags() {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		routes = append(routes, site.Route{
			Kind:    site.RouteTag,
			Key:     tag,
			OutPath: claim(used, "tags", pathSegment(key)),
		})
	}
	return routes
}

// pathSegment escapes s into a single file name. Distinct inputs give
// distinct names, so v1.0 and v1-0 never share a file.
func pathSegment(s string) string {
	switch s {
	case "":
		return "_"
	case ".", "..":
		return strings.Repeat("%2E", len(s))
	}
	return url.PathEscape(s)
}

// claim returns dir/name.json, appending ~2, ~3 ... while that path is taken.
func claim(used map[string]struct{}, dir, name string) string {
	p := path.Join(dir, name+".json")
	for i := 2; ; i++ {
		if _, ok := used[p]; !ok {
			break
		}
		p = path.Join(dir, fmt.Sprintf("%s~%d.json", name, i))
	}
	used[p] = struct{}{}
	return p
}
