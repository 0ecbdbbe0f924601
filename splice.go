package article

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// region matches the first article-content div up to the nearest closing div.
// The indentation before the closing tag is captured so it can be kept.
var region = regexp.MustCompile(`(?s)(` + regexp.QuoteMeta(MarkerOpen) + `)(.*?)([ \t]*)(` + regexp.QuoteMeta(MarkerClose) + `)`)

// Splice replaces the inner content of the first article-content region
// in template with fragment. Bytes outside the region are kept as is.
//
// The match is non-greedy, so the region ends at the first </div>
// after the opening marker, even if the content has nested divs.
func Splice(template []byte, fragment []byte) ([]byte, error) {
	loc := region.FindSubmatchIndex(template)
	if loc == nil {
		return nil, ErrMarkerNotFound
	}

	open := template[loc[2]:loc[3]]
	indent := template[loc[6]:loc[7]]
	closing := template[loc[8]:loc[9]]

	out := bytes.NewBuffer(make([]byte, 0, len(template)+len(fragment)))
	out.Write(template[:loc[0]])
	out.Write(open)
	out.WriteByte('\n')
	out.Write(fragment)
	out.WriteByte('\n')
	out.Write(indent)
	out.Write(closing)
	out.Write(template[loc[1]:])

	return out.Bytes(), nil
}

// CountRegions returns the number of div elements in template
// whose class list contains article-content.
func CountRegions(template []byte) int {
	z := html.NewTokenizer(bytes.NewReader(template))
	count := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return count

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "div" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "class" && hasClass(string(val), "article-content") {
					count++
				}
				if !more {
					break
				}
			}
		}
	}
}

func hasClass(classes, class string) bool {
	for _, c := range strings.Fields(classes) {
		if c == class {
			return true
		}
	}
	return false
}
