package article

import (
	"fmt"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// ParseArticleIgnore compiles the gitignore-style rules at path.
// A missing file yields a nil *gitIgnorer, which ignores nothing.
func ParseArticleIgnore(path string) (*gitIgnorer, error) {
	ignores, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse articleignore at %s: %w", path, err)
	}

	return &gitIgnorer{GitIgnore: ignores}, nil
}

type gitIgnorer struct {
	*ignore.GitIgnore
}

func (i *gitIgnorer) Ignore(path string) bool {
	if i == nil {
		return false
	}
	if i.GitIgnore == nil {
		return false
	}
	return i.MatchesPath(path)
}

// IgnoreFrom matches path relative to root
func (i *gitIgnorer) IgnoreFrom(root, path string) (bool, error) {
	if i == nil || i.GitIgnore == nil {
		return false, nil
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(rootAbs, pathAbs)
	if err != nil {
		return false, err
	}

	return i.Ignore(filepath.ToSlash(rel)), nil
}
