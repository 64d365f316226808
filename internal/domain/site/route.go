package site

import (
	"strings"
)

type RouteKind string

const (
	RouteArticle    RouteKind = "article"
	RouteIndex      RouteKind = "index"
	RouteFeatured   RouteKind = "featured"
	RouteCategories RouteKind = "categories"
	RouteCategory   RouteKind = "category"
	RouteTags       RouteKind = "tags"
	RouteTag        RouteKind = "tag"
)

// Route is one file of the static export. Slug is the article id for
// article routes; Key is the category dir or tag for listing routes.
type Route struct {
	Kind    RouteKind
	Slug    string
	Key     string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}
