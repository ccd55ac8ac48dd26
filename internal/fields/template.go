// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import (
	"fmt"
	"strings"
)

// token is either literal text or a placeholder name.
type token struct {
	literal string
	name    string
	isField bool
}

// parse splits a template into literal runs and {name} placeholders.
// Doubled braces escape themselves. A conversion (!r) or format spec (:>10)
// after the name is accepted and ignored.
func parse(tmpl string) ([]token, error) {
	var (
		tokens []token
		lit    strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at offset %d in template", i)
			}
			name := tmpl[i+1 : i+1+end]
			if cut := strings.IndexAny(name, "!:"); cut >= 0 {
				name = name[:cut]
			}
			if name == "" {
				return nil, fmt.Errorf("empty placeholder at offset %d in template", i)
			}
			flush()
			tokens = append(tokens, token{name: name, isField: true})
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' at offset %d in template", i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return tokens, nil
}

// Placeholders returns the distinct placeholder names of tmpl in order of
// first appearance. For a malformed template it falls back to every {...}
// run in tmpl, unescaped braces included.
func Placeholders(tmpl string) []string {
	tokens, _ := parse(tmpl)
	if tokens == nil {
		tokens = scanLoose(tmpl)
	}
	seen := make(map[string]bool)
	var names []string
	for _, t := range tokens {
		if t.isField && !seen[t.name] {
			seen[t.name] = true
			names = append(names, t.name)
		}
	}
	return names
}

// scanLoose collects every {...} run without validating the rest of the
// template.
func scanLoose(tmpl string) []token {
	var tokens []token
	for {
		start := strings.IndexByte(tmpl, '{')
		if start < 0 {
			return tokens
		}
		end := strings.IndexByte(tmpl[start+1:], '}')
		if end < 0 {
			return tokens
		}
		if name := tmpl[start+1 : start+1+end]; name != "" {
			tokens = append(tokens, token{name: name, isField: true})
		}
		tmpl = tmpl[start+1+end+1:]
	}
}

// Format substitutes every {name} in tmpl with the matching field. A
// placeholder without a field fails with a *MissingFieldError.
func Format(tmpl string, f Fields) (string, error) {
	tokens, err := parse(tmpl)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, t := range tokens {
		if !t.isField {
			b.WriteString(t.literal)
			continue
		}
		v, ok := f[t.name]
		if !ok {
			return "", &MissingFieldError{Name: t.name}
		}
		b.WriteString(v.String())
	}
	return b.String(), nil
}
