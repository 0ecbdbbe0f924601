package article

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/russross/blackfriday/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	RendererPandoc      = "pandoc"
	RendererGoldmark    = "goldmark"
	RendererGomarkdown  = "gomarkdown"
	RendererBlackfriday = "blackfriday"

	HtmlFlags            = mdhtml.CommonFlags
	GomarkdownExtensions = parser.CommonExtensions |
		parser.Mmark |
		parser.AutoHeadingIDs
)

// RenderersDefault is the fallback chain: the external converter first,
// then the in-process libraries.
var RenderersDefault = []string{
	RendererPandoc,
	RendererGoldmark,
	RendererGomarkdown,
	RendererBlackfriday,
}

// WaitDelayDefault bounds how long a killed converter's children
// may keep its output open.
const WaitDelayDefault = time.Second

var errUnavailable = errors.New("unavailable")

type (
	// Source is the Markdown input handed to renderers.
	// Path is empty when Data differs from the file on disk,
	// e.g. after front matter was stripped.
	Source struct {
		Path string
		Data []byte
	}

	// Renderer is one Markdown to HTML strategy in the fallback chain.
	Renderer interface {
		Name() string
		Available() bool
		Render(ctx context.Context, src Source) ([]byte, error)
	}

	// CommandRunner runs external programs, so that tests can fake the converter.
	CommandRunner interface {
		LookPath(file string) (string, error)
		Run(ctx context.Context, stdin io.Reader, name string, args ...string) (stdout []byte, stderr []byte, err error)
	}

	// ExecRunner runs programs with os/exec. After ctx is done and the process
	// is killed, output pipes still held by its children are closed
	// after WaitDelay (WaitDelayDefault if zero).
	ExecRunner struct {
		WaitDelay time.Duration
	}

	// Pandoc renders with the external pandoc converter.
	Pandoc struct {
		Bin     string
		Timeout time.Duration
		Runner  CommandRunner
	}

	Goldmark struct {
		md goldmark.Markdown
	}

	Gomarkdown struct{}

	Blackfriday struct{}
)

// Render tries renderers in order and returns the output of the first one
// that is available and succeeds, along with its name.
//
// A failing renderer is a soft failure and the next one is tried.
// Converter timeouts and context cancellation abort the chain.
func Render(ctx context.Context, src Source, renderers []Renderer, logger Logger) ([]byte, string, error) {
	if logger == nil {
		logger = NoOp()
	}

	var errs []error
	for _, r := range renderers {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		name := r.Name()
		if !r.Available() {
			logger.Debug("renderer unavailable", "renderer", name)
			errs = append(errs, errorRender{renderer: name, err: errUnavailable})
			continue
		}

		html, err := r.Render(ctx, src)
		if err == nil {
			return html, name, nil
		}
		if errors.Is(err, ErrConverterTimeout) {
			return nil, name, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, name, ctxErr
		}

		logger.Debug("renderer failed, trying next", "renderer", name, "error", err)
		errs = append(errs, errorRender{renderer: name, err: err})
	}

	if len(errs) == 0 {
		return nil, "", ErrNoRenderer
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoRenderer, errors.Join(errs...))
}

// RendererByName returns a renderer for name.
// pandoc is used for name "pandoc", and may be nil for defaults.
func RendererByName(name string, pandoc *Pandoc) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RendererPandoc:
		if pandoc == nil {
			pandoc = &Pandoc{}
		}
		return pandoc, nil

	case RendererGoldmark:
		return NewGoldmark(), nil

	case RendererGomarkdown:
		return Gomarkdown{}, nil

	case RendererBlackfriday:
		return Blackfriday{}, nil
	}

	return nil, fmt.Errorf("unknown renderer '%s'", name)
}

func (r ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r ExecRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = WaitDelayDefault
	}

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func (p *Pandoc) Name() string { return RendererPandoc }

func (p *Pandoc) Available() bool {
	_, err := p.runner().LookPath(p.bin())
	return err == nil
}

// Render runs pandoc reading Markdown with raw HTML and writing unwrapped HTML.
// The file is passed by path when src.Path is set, otherwise src.Data goes to stdin.
func (p *Pandoc) Render(ctx context.Context, src Source) ([]byte, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	args := []string{"-f", "markdown+raw_html", "-t", "html", "--wrap=none"}
	var stdin io.Reader
	if src.Path != "" {
		args = append([]string{src.Path}, args...)
	} else {
		stdin = bytes.NewReader(src.Data)
	}

	stdout, stderr, err := p.runner().Run(ctx, stdin, p.bin(), args...)
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
		return nil, ctxErr
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s after %s", ErrConverterTimeout, p.bin(), p.Timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return nil, fmt.Errorf("%s: %s: %w", p.bin(), msg, err)
		}
		return nil, fmt.Errorf("%s: %w", p.bin(), err)
	}

	return stdout, nil
}

func (p *Pandoc) bin() string {
	if p.Bin == "" {
		return PandocDefault
	}
	return p.Bin
}

func (p *Pandoc) runner() CommandRunner {
	if p.Runner == nil {
		return ExecRunner{}
	}
	return p.Runner
}

// NewGoldmark returns goldmark with raw HTML passthrough, tables,
// strikethrough and footnotes. Fenced code blocks are CommonMark core.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.Footnote,
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

func (g *Goldmark) Name() string    { return RendererGoldmark }
func (g *Goldmark) Available() bool { return g.md != nil }

func (g *Goldmark) Render(_ context.Context, src Source) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(src.Data, &buf); err != nil {
		return nil, fmt.Errorf("goldmark: %w", err)
	}
	return buf.Bytes(), nil
}

func (Gomarkdown) Name() string    { return RendererGomarkdown }
func (Gomarkdown) Available() bool { return true }

func (Gomarkdown) Render(_ context.Context, src Source) ([]byte, error) {
	return ToHtml(src.Data), nil
}

func (Blackfriday) Name() string    { return RendererBlackfriday }
func (Blackfriday) Available() bool { return true }

func (Blackfriday) Render(_ context.Context, src Source) ([]byte, error) {
	return blackfriday.Run(src.Data, blackfriday.WithExtensions(blackfriday.CommonExtensions)), nil
}

// ToHtml converts md (Markdown) into HTML with gomarkdown
func ToHtml(md []byte) []byte {
	root := markdown.Parse(md, parser.NewWithExtensions(GomarkdownExtensions))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: HtmlFlags,
	})
	return markdown.Render(root, renderer)
}

type errorRender struct {
	renderer string
	err      error
}

func (e errorRender) Error() string {
	return fmt.Sprintf("RenderError(renderer='%s'): %s", e.renderer, e.err.Error())
}

func (e errorRender) Unwrap() error {
	return e.err
}
