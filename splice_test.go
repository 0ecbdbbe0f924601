package article_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/soyart/article-go"
)

const templateReference = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Article</title>
</head>
<body>
    <main>
        <article>
            <div class="article-wrapper">
                <div class="article-content">
                    <p>Article content goes here.</p>
                </div>
            </div>
        </article>
    </main>
</body>
</html>
`

func TestSplice(t *testing.T) {
	type testCase struct {
		template string
		fragment string
		expected string
	}

	tests := []testCase{
		{
			template: "<div class=\"article-content\">\n   old\n                </div>",
			fragment: "<h1>Hi</h1>\n<p>Body <strong>text</strong>.</p>",
			expected: "<div class=\"article-content\">\n<h1>Hi</h1>\n<p>Body <strong>text</strong>.</p>\n                </div>",
		},
		{
			template: "<body><div class=\"article-content\"></div></body>",
			fragment: "<p>x</p>",
			expected: "<body><div class=\"article-content\">\n<p>x</p>\n</div></body>",
		},
		{
			// Tabs before the closing tag are kept
			template: "<div class=\"article-content\">\n\t\told\n\t</div>\n",
			fragment: "<p>x</p>",
			expected: "<div class=\"article-content\">\n<p>x</p>\n\t</div>\n",
		},
		{
			// Only the first region is replaced
			template: "<div class=\"article-content\">a</div>\n<div class=\"article-content\">b</div>",
			fragment: "X",
			expected: "<div class=\"article-content\">\nX\n</div>\n<div class=\"article-content\">b</div>",
		},
		{
			// Fragment is opaque, replacement patterns are not expanded
			template: "<div class=\"article-content\"></div>",
			fragment: "<p>$1 ${2} costs $5</p>",
			expected: "<div class=\"article-content\">\n<p>$1 ${2} costs $5</p>\n</div>",
		},
	}

	for i := range tests {
		tc := &tests[i]
		actual, err := article.Splice([]byte(tc.template), []byte(tc.fragment))
		if err != nil {
			t.Fatalf("unexpected error from case %d: %v", i+1, err)
		}
		if string(actual) != tc.expected {
			t.Logf("expected:\n%q", tc.expected)
			t.Logf("actual:\n%q", actual)
			t.Fatalf("unexpected output from case %d", i+1)
		}
	}
}

// The region ends at the first </div>, so nested divs before
// the intended closing tag cut the region short.
func TestSpliceNonGreedy(t *testing.T) {
	template := `<div class="article-content">
    <div>one</div>
    <div>two</div>
                </div>
<footer></footer>
`
	expected := `<div class="article-content">
<p>new</p>
</div>
    <div>two</div>
                </div>
<footer></footer>
`

	actual, err := article.Splice([]byte(template), []byte("<p>new</p>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(actual) != expected {
		t.Logf("expected:\n%s", expected)
		t.Logf("actual:\n%s", actual)
		t.Fatalf("unexpected non-greedy splice output")
	}
}

func TestSplicePreservesOutside(t *testing.T) {
	template := []byte(templateReference)
	fragments := []string{
		"",
		"<h1>Title</h1>",
		"<pre><code>&lt;/div&gt;</code></pre>\n<div class=\"note\">nested</div>\n",
	}

	start := strings.Index(templateReference, article.MarkerOpen)
	end := start + strings.Index(templateReference[start:], article.MarkerClose) + len(article.MarkerClose)
	before, after := template[:start], template[end:]

	for i, fragment := range fragments {
		actual, err := article.Splice(template, []byte(fragment))
		if err != nil {
			t.Fatalf("unexpected error from case %d: %v", i+1, err)
		}
		if !bytes.HasPrefix(actual, before) {
			t.Fatalf("bytes before region changed in case %d", i+1)
		}
		if !bytes.HasSuffix(actual, after) {
			t.Fatalf("bytes after region changed in case %d", i+1)
		}
		inner := "\n" + fragment + "\n                </div>"
		if !bytes.Contains(actual, []byte(article.MarkerOpen+inner)) {
			t.Fatalf("unexpected region in case %d:\n%s", i+1, actual)
		}
		if bytes.Contains(actual, []byte("Article content goes here.")) {
			t.Fatalf("old content still present in case %d", i+1)
		}
	}
}

func TestSpliceIdempotent(t *testing.T) {
	fragment := []byte("<p>same</p>\n")
	first, err := article.Splice([]byte(templateReference), fragment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := article.Splice([]byte(templateReference), fragment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("splice is not deterministic")
	}

	// Splicing into an already spliced page only swaps the region content again
	again, err := article.Splice(first, fragment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, again) {
		t.Logf("first:\n%s", first)
		t.Logf("again:\n%s", again)
		t.Fatalf("splicing twice changed the page")
	}
}

func TestSpliceMarkerNotFound(t *testing.T) {
	templates := []string{
		"",
		"<div class=\"content\"></div>",
		"<div class=\"article-content\">unclosed",
		"<div class='article-content'></div>",
	}

	for i, template := range templates {
		_, err := article.Splice([]byte(template), []byte("<p>x</p>"))
		if !errors.Is(err, article.ErrMarkerNotFound) {
			t.Fatalf("unexpected error from case %d: %v", i+1, err)
		}
	}
}

func TestCountRegions(t *testing.T) {
	type testCase struct {
		template string
		expected int
	}

	tests := []testCase{
		{template: templateReference, expected: 1},
		{template: "<p>no regions</p>", expected: 0},
		{template: `<div class="wide article-content"></div>`, expected: 1},
		{template: `<div class="article-contents"></div>`, expected: 0},
		{template: `<section class="article-content"></section>`, expected: 0},
		{template: `<div class="article-content"></div><div id="x" class="article-content"></div>`, expected: 2},
	}

	for i := range tests {
		tc := &tests[i]
		if actual := article.CountRegions([]byte(tc.template)); actual != tc.expected {
			t.Fatalf("unexpected count %d, expecting %d for case %d", actual, tc.expected, i+1)
		}
	}
}
