// Package frontmatter splits YAML frontmatter (`---` delimited) from a Markdown
// body and decodes it into a field map.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a parsed Markdown source file.
type Document struct {
	Fields map[string]any
	Body   []byte
}

// Parse splits and decodes the frontmatter of content. Documents without a
// leading delimiter yield an empty field map and the full input as body.
func Parse(content []byte) (*Document, error) {
	raw, body, err := split(content)
	if err != nil {
		return nil, err
	}
	fields, err := parseYAML(raw)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return &Document{Fields: fields, Body: body}, nil
}

func split(content []byte) (frontmatter, body []byte, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], nil
	}

	closeSeq := []byte(nl + "---")
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	rest := content[start+idx+len(closeSeq):]
	switch {
	case len(rest) == 0:
	case bytes.HasPrefix(rest, []byte(nl)):
		rest = rest[len(nl):]
	default:
		// "---" followed by more text on the same line is not a delimiter.
		return nil, nil, ErrMissingClosingDelimiter
	}
	return content[start:end], rest, nil
}

func parseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

