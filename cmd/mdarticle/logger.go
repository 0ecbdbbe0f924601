package main

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/soyart/article-go"
)

// newLogger returns a go-logger backed logger. Level defaults to warn,
// verbose forces debug.
func newLogger(conf article.LogConfig, verbose bool) (article.Logger, error) {
	level := normalizeLevel(conf.Level)
	if verbose {
		level = glog.Debug
	}
	if level == "" {
		level = glog.Warn
	}

	options := []glog.Option{glog.WithLevel(level)}

	switch strings.ToLower(strings.TrimSpace(conf.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("unsupported log format %q", conf.Format)
	}

	return glog.NewLogger(options...).GetLogger("mdarticle"), nil
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	case "error":
		return glog.Error
	default:
		return ""
	}
}
