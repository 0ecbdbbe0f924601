package article

import (
	"os"
	"path/filepath"
	"testing"

	ignore "github.com/sabhiram/go-gitignore"
)

// Test that the library we use actually does what we want it to
func TestArticleIgnore(t *testing.T) {
	type testCase struct {
		path     string
		ignores  []string
		expected bool
	}

	tests := []testCase{
		{
			ignores: []string{
				"drafts",
			},
			path:     "drafts",
			expected: true,
		},
		{
			ignores: []string{
				"drafts",
			},
			path:     "blog/drafts/wip/article.md",
			expected: true,
		},
		{
			ignores: []string{
				"draft-*",
			},
			path:     "blog/draft-attention/article.md",
			expected: true,
		},
		{
			ignores: []string{
				"draft-*",
			},
			path:     "blog/attention/article.md",
			expected: false,
		},
		{
			ignores: []string{
				"blog/",
				"!blog/published/",
			},
			path:     "blog/published/article.md",
			expected: false,
		},
		{
			ignores: []string{
				"blog/**/wip.md",
				"#blog/**/article.md", // Comment
			},
			path:     "blog/some/path/article.md",
			expected: false,
		},
	}

	for i := range tests {
		tc := &tests[i]
		ignores := ignore.CompileIgnoreLines(tc.ignores...)
		if ignores == nil {
			panic("bad ignore lines")
		}

		ignorer := &gitIgnorer{GitIgnore: ignores}
		ignored := ignorer.Ignore(tc.path)
		if tc.expected == ignored {
			continue
		}

		t.Fatalf("[case %d] unexpected ignore value, expecting %v, got %v", i+1, tc.expected, ignored)
	}
}

func TestParseArticleIgnore(t *testing.T) {
	root := t.TempDir()

	ignorer, err := ParseArticleIgnore(filepath.Join(root, ArticleIgnore))
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
	if ignorer.Ignore("anything") {
		t.Fatalf("missing articleignore must not ignore")
	}
	ignored, err := ignorer.IgnoreFrom(root, filepath.Join(root, "anything"))
	if err != nil || ignored {
		t.Fatalf("unexpected result from nil ignorer: ignored=%v err=%v", ignored, err)
	}

	err = os.WriteFile(filepath.Join(root, ArticleIgnore), []byte("drafts/\n"), 0644)
	if err != nil {
		panic(err)
	}
	ignorer, err = ParseArticleIgnore(filepath.Join(root, ArticleIgnore))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ignored, err = ignorer.IgnoreFrom(root, filepath.Join(root, "blog", "drafts", "a", "article.md"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ignored {
		t.Fatalf("expecting drafts to be ignored")
	}
}
