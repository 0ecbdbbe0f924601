package article

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the optional project configuration, usually article.toml in the project root.
//
//	template = "blog/article-template.html"
//	pandoc = "/usr/local/bin/pandoc"
//	timeout = "10s"
//	renderers = ["pandoc", "goldmark"]
//	index = "data/blog-data.js"
//	title = "My blog"
//
//	[log]
//	level = "debug"
//	format = "console"
type Config struct {
	Template  string    `toml:"template"`
	Pandoc    string    `toml:"pandoc"`
	Timeout   string    `toml:"timeout"`
	Renderers []string  `toml:"renderers"`
	Index     string    `toml:"index"`
	Title     string    `toml:"title"`
	Log       LogConfig `toml:"log"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadConfig reads the TOML config at path.
func LoadConfig(path string) (Config, error) {
	data, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var c Config
	err = toml.Unmarshal(data, &c)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config at %s: %w", path, err)
	}

	return c, nil
}

// LoadConfigFrom reads article.toml under root.
// A missing file yields the zero Config.
func LoadConfigFrom(root string) (Config, error) {
	c, err := LoadConfig(filepath.Join(root, ConfigName))
	if err != nil && os.IsNotExist(err) {
		return Config{}, nil
	}
	return c, err
}

func (c Config) IndexName() string {
	if c.Index == "" {
		return IndexDefault
	}
	return c.Index
}

// Options returns options for non-empty config values
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.Template != "" {
		opts = append(opts, WithTemplate(c.Template))
	}
	if c.Pandoc != "" {
		opts = append(opts, WithPandoc(c.Pandoc))
	}
	if c.Title != "" {
		opts = append(opts, WithTitle(c.Title))
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("bad timeout '%s': %w", c.Timeout, err)
		}
		opts = append(opts, Timeout(d))
	}
	if len(c.Renderers) != 0 {
		for _, name := range c.Renderers {
			_, err := RendererByName(name, nil)
			if err != nil {
				return nil, err
			}
		}
		opts = append(opts, WithRendererNames(c.Renderers...))
	}

	return opts, nil
}
