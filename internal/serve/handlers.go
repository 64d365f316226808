package serve

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
)

// GET /api/articles?tag=&category=&featured=true|false
func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	c := s.Catalog()
	q := r.URL.Query()

	arts := c.All()
	if tag := q.Get("tag"); tag != "" {
		arts = intersect(arts, c.ByTag(tag))
	}
	if cat := q.Get("category"); cat != "" {
		arts = intersect(arts, c.ByCategory(cat))
	}
	if f := q.Get("featured"); f != "" {
		want, err := strconv.ParseBool(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, "featured must be a boolean")
			return
		}
		featured := intersect(arts, c.Featured())
		if want {
			arts = featured
		} else {
			arts = subtract(arts, featured)
		}
	}
	writeJSON(w, http.StatusOK, summaries(arts))
}

// GET /api/articles/{dir}/{slug}
func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	a, ok := s.Catalog().BySlug(chi.URLParam(r, "dir"), chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	sa, err := s.ser.Serialize(r.Context(), a)
	if err != nil {
		var cerr *domainerr.ContentCompilationError
		if errors.As(err, &cerr) {
			// a broken body reads as a missing page
			s.metrics.compileFailures.Inc()
			s.log.Warn().Err(err).Str("slug", a.ID()).Msg("article failed to compile")
			writeError(w, http.StatusNotFound, "article not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to compile article")
		return
	}
	writeJSON(w, http.StatusOK, sa)
}

// GET /api/articles/{dir}/{slug}/related?limit=
func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	c := s.Catalog()
	dir, slug := chi.URLParam(r, "dir"), chi.URLParam(r, "slug")
	if _, ok := c.BySlug(dir, slug); !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	limit := s.cfg.Catalog.RelatedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, summaries(c.Related(dir, slug, limit)))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog().Stats())
}

type categoryDirResponse struct {
	Name     string            `json:"name"`
	Dir      string            `json:"slug"`
	Articles []content.Article `json:"articles"`
}

// GET /api/category-dirs/{dir}
func (s *Server) handleCategoryDir(w http.ResponseWriter, r *http.Request) {
	c := s.Catalog()
	dir := chi.URLParam(r, "dir")
	arts := c.ByCategoryDir(dir)
	if len(arts) == 0 {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, categoryDirResponse{
		Name:     c.CategoryName(dir),
		Dir:      dir,
		Articles: summaries(arts),
	})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog().Tags())
}

type healthResponse struct {
	Status    string `json:"status"`
	Articles  int    `json:"articles"`
	Generated string `json:"generated,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	c := s.Catalog()
	resp := healthResponse{Status: "ok", Articles: c.Len()}
	if g := c.Generated(); !g.IsZero() {
		resp.Generated = g.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ===================== 工具 =====================

// intersect keeps the articles of base that also appear in keep, in base
// order.
func intersect(base, keep []content.Article) []content.Article {
	ids := make(map[string]struct{}, len(keep))
	for _, a := range keep {
		ids[a.ID()] = struct{}{}
	}
	out := make([]content.Article, 0, len(keep))
	for _, a := range base {
		if _, ok := ids[a.ID()]; ok {
			out = append(out, a)
		}
	}
	return out
}

// subtract keeps the articles of base that do not appear in drop.
func subtract(base, drop []content.Article) []content.Article {
	ids := make(map[string]struct{}, len(drop))
	for _, a := range drop {
		ids[a.ID()] = struct{}{}
	}
	out := make([]content.Article, 0, len(base))
	for _, a := range base {
		if _, ok := ids[a.ID()]; !ok {
			out = append(out, a)
		}
	}
	return out
}

func summaries(arts []content.Article) []content.Article {
	for i := range arts {
		arts[i].Content = ""
	}
	return arts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
