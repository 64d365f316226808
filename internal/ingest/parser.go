package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var errNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

// FrontMatter holds the optional per-article fields. Date is loosely typed:
// YAML and TOML may both hand back either a string or a time.
type FrontMatter struct {
	Title       string   `yaml:"title" toml:"title"`
	Description string   `yaml:"description" toml:"description"`
	Date        any      `yaml:"date" toml:"date"`
	ReadTime    string   `yaml:"readTime" toml:"readTime"`
	Tags        []string `yaml:"tags" toml:"tags"`
	Featured    bool     `yaml:"featured" toml:"featured"`
	Author      string   `yaml:"author" toml:"author"`
}

// DateString renders Date as stored in the data document.
func (fm FrontMatter) DateString() string {
	switch v := fm.Date.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		h, m, s := v.Clock()
		if h == 0 && m == 0 && s == 0 && v.Nanosecond() == 0 {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// ParseFrontMatter splits raw into front matter and body. "---" fences
// carry YAML, "+++" fences carry TOML. A file without a fence returns
// errNoFrontMatter together with the whole file as body.
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	// 统一换行符
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))
	norm = bytes.TrimPrefix(norm, []byte("\xef\xbb\xbf"))

	var sep string
	switch {
	case bytes.HasPrefix(norm, []byte("---\n")):
		sep = "---"
	case bytes.HasPrefix(norm, []byte("+++\n")):
		sep = "+++"
	default:
		return FrontMatter{}, norm, errNoFrontMatter
	}

	rest := norm[len(sep)+1:]

	var head, body []byte
	if bytes.HasPrefix(rest, []byte(sep+"\n")) {
		body = rest[len(sep)+1:]
	} else if parts := bytes.SplitN(rest, []byte("\n"+sep+"\n"), 2); len(parts) == 2 {
		head, body = parts[0], parts[1]
	} else if bytes.HasSuffix(rest, []byte("\n"+sep)) {
		head = rest[:len(rest)-len(sep)-1]
	} else if !bytes.Equal(bytes.TrimSpace(rest), []byte(sep)) {
		// 只有 "---\n---" 这种空 front matter 无正文的情况可以放行
		return FrontMatter{}, norm, errInvalidFrontMatter
	}

	var fm FrontMatter
	if len(bytes.TrimSpace(head)) > 0 {
		var err error
		if sep == "+++" {
			err = toml.Unmarshal(head, &fm)
		} else {
			err = yaml.Unmarshal(head, &fm)
		}
		if err != nil {
			return FrontMatter{}, norm, fmt.Errorf("%w: %v", errInvalidFrontMatter, err)
		}
	}
	return fm, bytes.TrimLeft(body, "\n"), nil
}
