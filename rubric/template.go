/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// stringLiteral is a private type so only untyped string constants (and
// values of this type) can be bound without an encoder.
type stringLiteral string

// template is a rubric prompt with {{name}} placeholders.
type template struct {
	name         string
	text         string
	placeholders map[string]struct{}
}

// parseTemplate validates the placeholders of text.
func parseTemplate(name string, text stringLiteral) (*template, error) {
	placeholders := make(map[string]struct{})
	if _, err := walkTemplate(string(text), func(p string) (string, error) {
		placeholders[p] = struct{}{}
		return "", nil
	}); err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return &template{name: name, text: string(text), placeholders: placeholders}, nil
}

func mustParseTemplate(name string, text stringLiteral) *template {
	t, err := parseTemplate(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

// render substitutes every placeholder in a single pass, so bound values
// are never themselves expanded. Bindings the template does not use are ignored.
func (t *template) render(values map[string]string) (string, error) {
	return walkTemplate(t.text, func(p string) (string, error) {
		v, ok := values[p]
		if !ok {
			return "", fmt.Errorf("template %s: unbound placeholder: %s", t.name, p)
		}
		return v, nil
	})
}

// value is something that can be bound to a placeholder.
type value interface {
	render() (string, error)
}

// literal is developer-controlled text inserted as is.
type literal stringLiteral

func (l literal) render() (string, error) {
	return string(l), nil
}

// section wraps caller text in a CDATA element so it reaches the model
// byte for byte, without escaping or sanitization.
type section struct {
	tag  string
	body string
}

func (s section) render() (string, error) {
	b, err := xml.Marshal(struct {
		XMLName xml.Name
		Body    string `xml:",cdata"`
	}{XMLName: xml.Name{Local: s.tag}, Body: s.body})
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML section %s: %w", s.tag, err)
	}
	return string(b), nil
}

// jsonValue marshals structured data as indented JSON.
type jsonValue struct {
	data any
}

func (j jsonValue) render() (string, error) {
	b, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(b), nil
}

// renderAll renders each value once.
func renderAll(values map[string]value) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for name, v := range values {
		s, err := v.render()
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

// walkTemplate tokenizes the template and calls resolve for each placeholder
func walkTemplate(text string, resolve func(name string) (string, error)) (string, error) {
	var b strings.Builder
	for len(text) > 0 {
		start := strings.Index(text, "{{")
		if start == -1 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:start])

		end := strings.Index(text[start:], "}}")
		if end == -1 {
			return "", errors.New("unclosed placeholder: missing '}}'")
		}
		end += start + 2

		name := strings.TrimSpace(text[start+2 : end-2])
		if !isValidIdentifier(name) {
			return "", fmt.Errorf("invalid placeholder identifier %q", name)
		}
		replacement, err := resolve(name)
		if err != nil {
			return "", err
		}
		b.WriteString(replacement)
		text = text[end:]
	}
	return b.String(), nil
}

// isValidIdentifier requires a leading letter followed by letters, digits or underscores.
func isValidIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
