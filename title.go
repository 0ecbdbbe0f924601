package article

import (
	"bufio"
	"bytes"
	"html"
)

const (
	TargetFromH1      = "{{from-h1}}"
	TargetTitle       = "{{title}}"
	TargetDate        = "{{date}}"
	TargetDescription = "{{description}}"

	keyTitleFromH1 = "# " // The first h1 line is used as the fallback title
)

func GetTitleFromH1(markdown []byte) []byte {
	k := []byte(keyTitleFromH1)
	s := bufio.NewScanner(bytes.NewBuffer(markdown))

	var title []byte
	for s.Scan() {
		line := s.Bytes()
		if !bytes.HasPrefix(line, k) {
			continue
		}
		parts := bytes.SplitN(line, k, 2)
		if len(parts) != 2 {
			continue
		}

		title = trimRightWhitespace(parts[1])
		break
	}

	return title
}

// GetTitle returns the front matter title, then the first h1,
// then d if neither is found.
func GetTitle(d []byte, markdown []byte, meta Meta) []byte {
	if meta.Title != "" {
		return []byte(meta.Title)
	}
	if title := GetTitleFromH1(markdown); len(title) != 0 {
		return title
	}
	return d
}

// FillPlaceholders replaces title, date and description placeholders in template.
// Title placeholders fall back to the first h1 in markdown, then to d.
// Placeholders without a value are left untouched.
func FillPlaceholders(d []byte, template []byte, markdown []byte, meta Meta) []byte {
	if !HasPlaceholders(template) {
		return template
	}

	if title := GetTitle(d, markdown, meta); len(title) != 0 {
		escaped := []byte(html.EscapeString(string(title)))
		template = bytes.ReplaceAll(template, []byte(TargetTitle), escaped)
		template = bytes.ReplaceAll(template, []byte(TargetFromH1), escaped)
	}
	if meta.Date != "" {
		template = bytes.ReplaceAll(template, []byte(TargetDate), []byte(html.EscapeString(meta.Date)))
	}
	if meta.Description != "" {
		template = bytes.ReplaceAll(template, []byte(TargetDescription), []byte(html.EscapeString(meta.Description)))
	}

	return template
}

func HasPlaceholders(b []byte) bool {
	for _, target := range []string{TargetFromH1, TargetTitle, TargetDate, TargetDescription} {
		if bytes.Contains(b, []byte(target)) {
			return true
		}
	}
	return false
}

func trimRightWhitespace(b []byte) []byte {
	return bytes.TrimRightFunc(b, func(r rune) bool {
		switch r {
		case ' ', '\t', '\r':
			return true
		}
		return false
	})
}
