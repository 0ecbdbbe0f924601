package article

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	MarkerOpen    = `<div class="article-content">`
	MarkerClose   = `</div>`
	OutputName    = "index.html"
	ArticleIgnore = ".articleignore"
	ConfigName    = "article.toml"

	TemplateDefault = "blog/article-template.html"
	IndexDefault    = "blog-data.js"

	PandocEnvKey                = "ARTICLE_PANDOC"
	PandocDefault               = "pandoc"
	TimeoutDefault time.Duration = 30 * time.Second
)

var (
	ErrInputNotFound    = errors.New("input not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoRenderer       = errors.New("no usable markdown renderer")
	ErrMarkerNotFound   = errors.New("article-content region not found")
	ErrConverterTimeout = errors.New("converter timed out")

	// ErrIgnored is returned when the Markdown source matches
	// a pattern in .articleignore and the conversion is not forced.
	ErrIgnored = errors.New("article is ignored")
)

type Article struct {
	Src      string // Markdown source
	Root     string // Project root, used for the template, .articleignore and article.toml
	Template string // Template path, joined with Root unless absolute
	Title    string // Fallback title for title placeholders

	options options
	meta    Meta
}

func (a *Article) Options() Options { return a.options }
func (a *Article) Meta() Meta       { return a.meta }

// New returns a default [Article] for Markdown file src.
func New(src string) Article {
	return Article{
		Src:      filepath.Clean(src),
		Root:     ".",
		Template: TemplateDefault,
		options: options{
			pandoc:  PandocDefault,
			timeout: TimeoutDefault,
		},
	}
}

func NewWithOptions(src string, opts ...Option) *Article {
	a := New(src)
	a.With(opts...)
	return &a
}

// Convert renders src and writes the spliced page to index.html
// next to src. It creates a one-off [Article] that's used right away.
func Convert(ctx context.Context, src string, opts ...Option) (OutputFile, error) {
	return NewWithOptions(src, opts...).Convert(ctx)
}

// With applies opts to a sequentially
func (a *Article) With(opts ...Option) *Article {
	for i := range opts {
		opts[i](a)
	}
	return a
}

// Target returns the output path, index.html in the article directory.
func (a *Article) Target() string {
	return filepath.Join(filepath.Dir(a.Src), OutputName)
}

func (a *Article) TemplatePath() string {
	if filepath.IsAbs(a.Template) {
		return a.Template
	}
	return filepath.Join(a.Root, a.Template)
}

// Build renders the article and splices it into the template
// without touching the filesystem except for reads.
func (a *Article) Build(ctx context.Context) (OutputFile, error) {
	err := a.prepare()
	if err != nil {
		return OutputFile{}, err
	}

	data, err := ReadFile(a.Src)
	if err != nil {
		return OutputFile{}, err
	}
	meta, body, err := ParseMeta(data)
	if err != nil {
		// Leave bad front matter to the renderer
		a.log().Debug("ignoring front matter", "src", a.Src, "error", err)
		meta, body = Meta{}, data
	}
	a.meta = meta

	src := Source{Data: body}
	if len(body) == len(data) {
		// No front matter was stripped, so the converter can read the file itself
		src.Path = a.Src
	}

	renderers, err := a.renderers()
	if err != nil {
		return OutputFile{}, err
	}
	fragment, name, err := Render(ctx, src, renderers, a.log())
	if err != nil {
		return OutputFile{}, err
	}
	a.log().Info("rendered article", "src", a.Src, "renderer", name, "bytes", len(fragment))

	for i, hook := range a.options.hooksRender {
		fragment, err = hook(fragment)
		if err != nil {
			return OutputFile{}, fmt.Errorf("hooksRender[%d]: error when rendering %s: %w", i, a.Src, err)
		}
	}

	template, err := a.loadTemplate()
	if err != nil {
		return OutputFile{}, err
	}
	if n := CountRegions(template); n != 1 {
		a.log().Warn("unexpected number of article-content regions, only the first is replaced",
			"template", a.TemplatePath(),
			"regions", n,
		)
	}

	template = FillPlaceholders([]byte(a.Title), template, body, meta)
	page, err := Splice(template, fragment)
	if err != nil {
		return OutputFile{}, fmt.Errorf("%s: %w", a.TemplatePath(), err)
	}

	for i, h := range a.options.hooksGenerate {
		page, err = h(page)
		if err != nil {
			return OutputFile{}, fmt.Errorf("hooksGenerate[%d] error when building %s: %w", i, a.Src, err)
		}
	}

	return Output(a.Target(), a.Src, page, 0644), nil
}

// Convert builds the article and writes it to [Article.Target]
func (a *Article) Convert(ctx context.Context) (OutputFile, error) {
	output, err := a.Build(ctx)
	if err != nil {
		return OutputFile{}, err
	}
	err = output.Write()
	if err != nil {
		return OutputFile{}, err
	}
	a.log().Debug("wrote article", "target", output.Target(), "bytes", len(output.Data()))
	return output, nil
}

func (a *Article) prepare() error {
	if a.Src == "" || a.Src == "." {
		return fmt.Errorf("empty src")
	}
	stat, err := os.Stat(a.Src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, a.Src)
		}
		return fmt.Errorf("failed to stat src '%s': %w", a.Src, err)
	}
	if stat.IsDir() {
		return fmt.Errorf("src '%s' is a directory", a.Src)
	}
	if a.options.force {
		return nil
	}

	ignores, err := ParseArticleIgnore(filepath.Join(a.Root, ArticleIgnore))
	if err != nil {
		return err
	}
	ignored, err := ignores.IgnoreFrom(a.Root, a.Src)
	if err != nil {
		return err
	}
	if ignored {
		return fmt.Errorf("%w: %s", ErrIgnored, a.Src)
	}

	return nil
}

func (a *Article) loadTemplate() ([]byte, error) {
	path := a.TemplatePath()
	template, err := ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("failed to read template '%s': %w", path, err)
	}
	return template, nil
}

func (a *Article) renderers() ([]Renderer, error) {
	if a.options.renderers != nil {
		return a.options.renderers, nil
	}

	names := a.options.rendererNames
	if names == nil {
		names = RenderersDefault
	}
	pandoc := &Pandoc{
		Bin:     a.options.pandoc,
		Timeout: a.options.timeout,
		Runner:  a.options.runner,
	}

	renderers := make([]Renderer, len(names))
	for i, name := range names {
		r, err := RendererByName(name, pandoc)
		if err != nil {
			return nil, err
		}
		renderers[i] = r
	}
	return renderers, nil
}

func (a *Article) log() Logger {
	if a.options.logger == nil {
		return NoOp()
	}
	return a.options.logger
}
