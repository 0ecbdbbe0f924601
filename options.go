package article

import (
	"os"
	"time"
)

type (
	Option func(*Article)

	// HookRender takes in the rendered HTML fragment
	// and returns modified fragment to be spliced into the template
	HookRender func(fragment []byte) (output []byte, err error)

	// HookGenerate takes in the full spliced page
	// and returns modified HTML output (e.g. minified) to be written at destination
	HookGenerate func(page []byte) (output []byte, err error)

	Options interface {
		HooksRender() []HookRender
		HooksGenerate() []HookGenerate
		Renderers() []string
		Pandoc() string
		Timeout() time.Duration
		Force() bool
	}

	options struct {
		hooksRender   []HookRender
		hooksGenerate []HookGenerate
		renderers     []Renderer
		rendererNames []string
		runner        CommandRunner
		pandoc        string
		timeout       time.Duration
		force         bool
		logger        Logger
	}
)

func (o options) HooksRender() []HookRender     { return o.hooksRender }
func (o options) HooksGenerate() []HookGenerate { return o.hooksGenerate }
func (o options) Pandoc() string                { return o.pandoc }
func (o options) Timeout() time.Duration        { return o.timeout }
func (o options) Force() bool                   { return o.force }

// Renderers returns names of the renderers in the order they will be tried
func (o options) Renderers() []string {
	if o.renderers != nil {
		names := make([]string, len(o.renderers))
		for i := range o.renderers {
			names[i] = o.renderers[i].Name()
		}
		return names
	}
	if o.rendererNames != nil {
		return o.rendererNames
	}
	return RenderersDefault
}

// PandocFromEnv returns an option that sets the converter binary
// to whatever [GetEnvPandoc] returns
func PandocFromEnv() Option {
	return func(a *Article) {
		a.options.pandoc = GetEnvPandoc()
	}
}

// GetEnvPandoc returns ENV value for the converter binary,
// or default value if undefined
func GetEnvPandoc() string {
	bin := os.Getenv(PandocEnvKey)
	if bin != "" {
		return bin
	}

	return PandocDefault
}

// WithPandoc sets the external converter binary, either a name looked up in PATH or a path.
func WithPandoc(bin string) Option {
	return func(a *Article) {
		if bin != "" {
			a.options.pandoc = bin
		}
	}
}

// Timeout bounds the external converter. Non-positive values disable the bound.
func Timeout(d time.Duration) Option {
	return func(a *Article) { a.options.timeout = d }
}

// WithRunner replaces the command runner used by the pandoc renderer.
func WithRunner(r CommandRunner) Option {
	return func(a *Article) { a.options.runner = r }
}

// WithRenderers sets the exact renderer chain, tried in order.
// It takes precedence over [WithRendererNames].
func WithRenderers(renderers ...Renderer) Option {
	return func(a *Article) { a.options.renderers = renderers }
}

// WithRendererNames selects renderers by name, see [RendererByName].
// Renderers are resolved at build time so that converter options
// given after this option still apply.
func WithRendererNames(names ...string) Option {
	return func(a *Article) { a.options.rendererNames = names }
}

// WithRoot sets the project root
func WithRoot(root string) Option {
	return func(a *Article) {
		if root != "" {
			a.Root = root
		}
	}
}

// WithTemplate sets the template path, relative to root unless absolute
func WithTemplate(path string) Option {
	return func(a *Article) {
		if path != "" {
			a.Template = path
		}
	}
}

func WithTitle(title string) Option {
	return func(a *Article) { a.Title = title }
}

// Force converts the article even if it matches .articleignore
func Force(b bool) Option {
	return func(a *Article) { a.options.force = b }
}

func WithLogger(l Logger) Option {
	return func(a *Article) { a.options.logger = l }
}

// WithHooksRender will make [Article] call hooks in order on the rendered fragment.
func WithHooksRender(hooks ...HookRender) Option {
	return func(a *Article) { a.options.hooksRender = append(a.options.hooksRender, hooks...) }
}

// PrependHooksRender prepends hooks to Article's existing render hooks.
func PrependHooksRender(hooks ...HookRender) Option {
	return func(a *Article) {
		hooks = append(hooks, a.options.hooksRender...)
		a.options.hooksRender = hooks
	}
}

// WithHooksGenerate assigns hooks to be called on the full page
// after the fragment was spliced into the template.
func WithHooksGenerate(hooks ...HookGenerate) Option {
	return func(a *Article) { a.options.hooksGenerate = append(a.options.hooksGenerate, hooks...) }
}
