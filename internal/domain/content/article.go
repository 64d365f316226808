package content

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Article is the normalized in-memory form of an ArticleRecord. Every
// optional field has already been defaulted; downstream code never has to
// re-derive a value.
type Article struct {
	Slug        string      `json:"slug"`
	CategoryDir string      `json:"categoryDir"`
	Category    string      `json:"category"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Published   time.Time   `json:"-"`
	ReadTime    string      `json:"readTime"`
	Tags        []string    `json:"tags"`
	Featured    bool        `json:"featured"`
	Author      string      `json:"author"`
	Content     string      `json:"content,omitempty"`
	ReadingTime ReadingTime `json:"readingTime"`
}

// ID is the only external identifier of an article.
func (a Article) ID() string {
	return a.CategoryDir + "/" + a.Slug
}

func (a Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Source is the compiled body of one article. CompiledSource holds HTML with
// anchored headings; Headings is the table of contents in document order.
type Source struct {
	CompiledSource string    `json:"compiledSource"`
	Headings       []Heading `json:"headings"`
}

// SerializedArticle is an Article whose raw content has been replaced by
// its compiled form.
type SerializedArticle struct {
	Slug        string      `json:"slug"`
	CategoryDir string      `json:"categoryDir"`
	Category    string      `json:"category"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	ReadTime    string      `json:"readTime"`
	Tags        []string    `json:"tags"`
	Featured    bool        `json:"featured"`
	Author      string      `json:"author"`
	ReadingTime ReadingTime `json:"readingTime"`
	Source      Source      `json:"source"`
}

func (a Article) Serialized(src Source) SerializedArticle {
	return SerializedArticle{
		Slug:        a.Slug,
		CategoryDir: a.CategoryDir,
		Category:    a.Category,
		Title:       a.Title,
		Description: a.Description,
		Date:        a.Date,
		ReadTime:    a.ReadTime,
		Tags:        a.Tags,
		Featured:    a.Featured,
		Author:      a.Author,
		ReadingTime: a.ReadingTime,
		Source:      src,
	}
}

// Normalize turns a raw record into an Article. Reading time is left zero;
// the catalog loader fills it in.
func Normalize(rec ArticleRecord) Article {
	dir, slug := SplitSlug(rec.Slug, rec.CategoryDir)

	category := strings.TrimSpace(rec.Category)
	if category == "" && dir != "" {
		category = FormatCategoryName(dir)
	}
	if dir == "" && category != "" {
		dir = CategoryDirFromName(category)
	}

	date := strings.TrimSpace(rec.Date)
	return Article{
		Slug:        slug,
		CategoryDir: dir,
		Category:    category,
		Title:       strings.TrimSpace(rec.Title),
		Description: strings.TrimSpace(rec.Description),
		Date:        date,
		Published:   ParseDate(date),
		ReadTime:    strings.TrimSpace(rec.ReadTime),
		Tags:        normalizeTags(rec.Tags),
		Featured:    rec.Featured,
		Author:      strings.TrimSpace(rec.Author),
		Content:     rec.Content,
	}
}

// SplitSlug recovers the category directory and bare slug from a record.
// The stored slug may carry a "{dir}/" prefix.
func SplitSlug(slug, categoryDir string) (string, string) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	categoryDir = strings.TrimSpace(categoryDir)

	if categoryDir == "" {
		if i := strings.IndexByte(slug, '/'); i >= 0 {
			return slug[:i], slug[i+1:]
		}
		return "", slug
	}
	return categoryDir, strings.TrimPrefix(slug, categoryDir+"/")
}

// FormatCategoryName turns "machine-learning" into "Machine Learning".
func FormatCategoryName(dir string) string {
	words := strings.Split(dir, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// CategoryDirFromName is the inverse used when a record has a display label
// but no directory.
func CategoryDirFromName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// ParseDate accepts the date shapes front matter usually carries. An
// unparseable value yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.DateOnly,
		"2006-01-02 15:04",
		time.DateTime,
		"2006-01-02T15:04:05",
		"January 2, 2006",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate renders a date the way article pages print it.
func FormatDate(s string) string {
	t := ParseDate(s)
	if t.IsZero() {
		return s
	}
	return t.Format("January 2, 2006")
}

func normalizeTags(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
