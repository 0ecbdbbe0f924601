package article

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/frontmatter"
)

// Meta is the optional front matter of an article.
type Meta struct {
	Title       string `yaml:"title" toml:"title" json:"title"`
	Date        string `yaml:"date" toml:"date" json:"date"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Excerpt     string `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	Thumbnail   string `yaml:"thumbnail" toml:"thumbnail" json:"thumbnail"`
}

// frontMatterOpen are the opening delimiters of the formats
// recognized by frontmatter.Parse.
var frontMatterOpen = []string{"---", "---yaml", "+++", "---toml", ";;;", "---json", "{"}

// ParseMeta splits markdown into its front matter and body.
// Without front matter, meta is empty and body is markdown.
//
// An opening delimiter followed by a blank line is a horizontal rule,
// not front matter.
func ParseMeta(markdown []byte) (Meta, []byte, error) {
	if !hasFrontMatter(markdown) {
		return Meta{}, markdown, nil
	}

	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(markdown), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta, body, nil
}

func hasFrontMatter(markdown []byte) bool {
	lines := bytes.Split(markdown, []byte("\n"))
	for i, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !slices.Contains(frontMatterOpen, string(line)) {
			return false
		}
		return i+1 < len(lines) && len(bytes.TrimSpace(lines[i+1])) != 0
	}
	return false
}

// IndexEntry returns a suggested entry for the site article index
// for the article whose Markdown source is src.
// The entry is only printed, the index file is maintained by hand.
func IndexEntry(src string, meta Meta) string {
	folder := filepath.Base(filepath.Dir(src))
	excerpt := meta.Excerpt
	if excerpt == "" {
		excerpt = meta.Description
	}

	entry := bytes.NewBuffer(nil)
	Fprint(entry, "{\n")
	Fprintf(entry, "    folder: '%s',\n", jsEscape(folder))
	Fprintf(entry, "    title: '%s',\n", jsEscape(meta.Title))
	Fprintf(entry, "    excerpt: '%s',\n", jsEscape(excerpt))
	Fprintf(entry, "    date: '%s',\n", jsEscape(meta.Date))
	Fprintf(entry, "    hasThumbnail: %t\n", meta.Thumbnail != "")
	Fprint(entry, "},\n")

	return entry.String()
}

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
)

func jsEscape(s string) string {
	return jsEscaper.Replace(s)
}
