package content

// ArticleRecord is one entry of the generated data document, exactly as it
// is stored on disk.
type ArticleRecord struct {
	Slug        string   `json:"slug"`
	Content     string   `json:"content"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	ReadTime    string   `json:"readTime"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	Author      string   `json:"author"`
	CategoryDir string   `json:"categoryDir,omitempty"`
}

type CategorySummary struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

type DataStats struct {
	TotalArticles   int            `json:"totalArticles"`
	TotalCategories int            `json:"totalCategories"`
	CategoryCounts  map[string]int `json:"categoryCounts"`
}

// DataFile is the consolidated document written by the ingest step and read
// by the catalog loader. Categories and Stats are informational only.
type DataFile struct {
	Articles   []ArticleRecord   `json:"articles"`
	Generated  string            `json:"generated"`
	Count      int               `json:"count"`
	Categories []CategorySummary `json:"categories,omitempty"`
	Stats      *DataStats        `json:"stats,omitempty"`
}
