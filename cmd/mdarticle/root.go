package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyart/article-go"
)

const usage = "Usage: mdarticle blog/article-name/article.md\n"

var errUsage = errors.New("usage")

type flags struct {
	root      string
	template  string
	config    string
	timeout   time.Duration
	renderers []string
	force     bool
	entry     bool
	verbose   bool
	logFormat string
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	f := new(flags)
	cmd := &cobra.Command{
		Use:   "mdarticle <markdown-file>",
		Short: "Convert a Markdown article into index.html using the article template",
		Long: `mdarticle renders a Markdown article to HTML and splices it into
the article-content region of the blog article template,
writing index.html next to the Markdown file.

Rendering tries pandoc first and falls back to in-process renderers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert(cmd, f, args[0])
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stdout)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	fl := cmd.Flags()
	fl.StringVar(&f.root, "root", ".", "project root containing the template, article.toml and .articleignore")
	fl.StringVar(&f.template, "template", "", "template path, relative to root (default \""+article.TemplateDefault+"\")")
	fl.StringVar(&f.config, "config", "", "config file (default <root>/"+article.ConfigName+" if present)")
	fl.DurationVar(&f.timeout, "timeout", article.TimeoutDefault, "timeout for the external converter, 0 to disable")
	fl.StringSliceVar(&f.renderers, "renderers", nil, "renderers to try in order (pandoc,goldmark,gomarkdown,blackfriday)")
	fl.BoolVar(&f.force, "force", false, "convert even if the article matches "+article.ArticleIgnore)
	fl.BoolVar(&f.entry, "entry", false, "print a suggested entry for the site article index")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")
	fl.StringVar(&f.logFormat, "log-format", "", "log format: console, json or pretty")

	return cmd
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	report(stdout, err)
	return 1
}

func convert(cmd *cobra.Command, f *flags, path string) error {
	w := cmd.OutOrStdout()

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return describe(fmt.Errorf("%w: %s", article.ErrInputNotFound, path), "")
		}
		return err
	}

	conf, err := loadConfig(f)
	if err != nil {
		return err
	}
	if f.logFormat != "" {
		conf.Log.Format = f.logFormat
	}
	logger, err := newLogger(conf.Log, f.verbose)
	if err != nil {
		return err
	}

	opts, err := conf.Options()
	if err != nil {
		return err
	}
	opts = append([]article.Option{article.WithRoot(f.root)}, opts...)
	if os.Getenv(article.PandocEnvKey) != "" {
		opts = append(opts, article.PandocFromEnv())
	}
	opts = append(opts, article.WithLogger(logger), article.Force(f.force))

	fl := cmd.Flags()
	if fl.Changed("template") {
		opts = append(opts, article.WithTemplate(f.template))
	}
	if fl.Changed("timeout") {
		opts = append(opts, article.Timeout(f.timeout))
	}
	if fl.Changed("renderers") {
		for _, name := range f.renderers {
			_, err := article.RendererByName(name, nil)
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
		}
		opts = append(opts, article.WithRendererNames(f.renderers...))
	}

	a := article.NewWithOptions(path, opts...)
	logger.Debug("converting", "src", path, "template", a.TemplatePath(), "renderers", a.Options().Renderers())

	article.Fprintf(w, "Converting: %s\n", path)

	output, err := a.Convert(cmd.Context())
	if err != nil {
		return describe(err, a.TemplatePath())
	}

	article.Fprintf(w, "✓ Success! Updated: %s\n", output.Target())
	printNextSteps(w, conf.IndexName())

	if f.entry {
		article.Fprintf(w, "\nSuggested entry for %s:\n", conf.IndexName())
		article.Fprint(w, article.IndexEntry(path, a.Meta()))
	}

	return nil
}

func loadConfig(f *flags) (article.Config, error) {
	if f.config != "" {
		return article.LoadConfig(f.config)
	}
	return article.LoadConfigFrom(f.root)
}

func printNextSteps(w io.Writer, index string) {
	article.Fprintln(w)
	article.Fprintln(w, "Next steps:")
	article.Fprint(w, "  1. Update the title in the HTML file\n")
	article.Fprint(w, "  2. Update the date in the HTML file\n")
	article.Fprint(w, "  3. Update meta description if needed\n")
	article.Fprintf(w, "  4. Add the article to %s\n", index)
}

// exitError carries the message printed before exiting with status 1
type exitError struct {
	msg string
	err error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

// describe maps conversion errors to user-facing messages
func describe(err error, templatePath string) error {
	msg := bytes.NewBuffer(nil)

	switch {
	case errors.Is(err, article.ErrInputNotFound):
		article.Fprintf(msg, "Error: File not found: %s\n", strings.TrimPrefix(err.Error(), article.ErrInputNotFound.Error()+": "))

	case errors.Is(err, article.ErrTemplateNotFound):
		article.Fprintf(msg, "Error: Template not found: %s\n", templatePath)

	case errors.Is(err, article.ErrNoRenderer):
		article.Fprint(msg, "Error: Neither pandoc nor an in-process Markdown renderer is available.\n")
		article.Fprint(msg, "\nInstall or enable one of these:\n")
		article.Fprint(msg, "  - pandoc: sudo apt install pandoc (Linux) or brew install pandoc (Mac)\n")
		article.Fprintf(msg, "  - an in-process renderer: add goldmark, gomarkdown or blackfriday to renderers in %s\n", article.ConfigName)
		article.Fprintf(msg, "\nDetails: %s\n", err.Error())

	case errors.Is(err, article.ErrMarkerNotFound):
		article.Fprintf(msg, "Error: No %s region in template: %s\n", article.MarkerOpen, templatePath)

	case errors.Is(err, article.ErrConverterTimeout):
		article.Fprintf(msg, "Error: Converter timed out: %s\n", err.Error())

	case errors.Is(err, article.ErrIgnored):
		article.Fprintf(msg, "Error: %s (use --force to convert anyway)\n", err.Error())

	default:
		article.Fprintf(msg, "Error: %s\n", err.Error())
	}

	return exitError{msg: msg.String(), err: err}
}

func report(w io.Writer, err error) {
	var exitErr exitError
	switch {
	case errors.As(err, &exitErr):
		article.Fprint(w, exitErr.msg)

	case errors.Is(err, errUsage):
		if err != errUsage {
			article.Fprintf(w, "Error: %s\n", err.Error())
		}
		article.Fprint(w, usage)

	default:
		article.Fprintf(w, "Error: %s\n", err.Error())
	}
}
