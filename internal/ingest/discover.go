package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceFile is one article file inside a category directory.
type SourceFile struct {
	Path        string
	CategoryDir string
	Slug        string
}

// files tolerated in the articles root
var ignoredRootFiles = map[string]bool{
	"README.md": true,
	".gitkeep":  true,
	".DS_Store": true,
}

func isArticleFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".mdx"
}

// Discover lists article files under root. Each direct subdirectory is a
// category; only .md and .mdx files one level deep are articles. Stray files
// in root produce warnings.
func Discover(root string) ([]SourceFile, []Warning, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("read articles dir: %w", err)
	}

	var out []SourceFile
	var warns []Warning
	for _, e := range entries {
		if !e.IsDir() {
			if !ignoredRootFiles[e.Name()] {
				warns = append(warns, Warning{
					Path: filepath.Join(root, e.Name()),
					Msg:  "file in articles root; move it into a category directory",
				})
			}
			continue
		}

		dir := e.Name()
		files, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			return nil, nil, fmt.Errorf("read category %s: %w", dir, err)
		}

		found := 0
		for _, f := range files {
			if f.IsDir() || !isArticleFile(f.Name()) {
				continue
			}
			out = append(out, SourceFile{
				Path:        filepath.Join(root, dir, f.Name()),
				CategoryDir: dir,
				Slug:        strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())),
			})
			found++
		}
		if found == 0 {
			warns = append(warns, Warning{
				Path: filepath.Join(root, dir),
				Msg:  "no articles in category",
			})
		}
	}
	return out, warns, nil
}
