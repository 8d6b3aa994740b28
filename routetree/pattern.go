package routetree

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	rootPatternSource     = `(?i)^\/?$`
	wildcardPatternSource = `(?i)^.*$`
)

// CaptureToken describes one named capture group of a compiled pattern:
// the parameter name, whether the path declared it optional, and the byte
// offset of its ":" in the path the pattern was compiled from. Decoding
// consumes tokens in offset order.
type CaptureToken struct {
	Name     string
	Optional bool
	Offset   int
}

// Pattern is a compiled path-matching pattern. The source text follows the
// layered-router convention: case-insensitive, anchored, each parameter
// rendered as an optional-capable non-capturing group around a capture
// group, and a tolerated trailing separator. For example "/user/:id"
// compiles to
//
//	(?i)^\/user(?:\/([^\/]+?))\/?$
//
// A pattern built by WildcardPattern matches any remaining path and is
// flagged so decoding yields the empty segment.
type Pattern struct {
	source   string
	re       *regexp.Regexp
	keys     []CaptureToken
	wildcard bool
}

// CompilePattern builds a Pattern from a route path such as "/user/:id",
// "/file/:name?" or "/report-:year.:format". A parameter may declare a
// custom capture expression in parentheses, e.g. "/user/:id(\d+)". The
// empty path and "/" compile to the root pattern.
func CompilePattern(path string) (*Pattern, error) {
	core := strings.Trim(strings.TrimSpace(path), "/")
	if core == "" {
		return &Pattern{source: rootPatternSource, re: regexp.MustCompile(rootPatternSource)}, nil
	}

	s := "/" + core
	var b strings.Builder
	b.WriteString(`(?i)^`)
	var keys []CaptureToken

	i := 0
	for i < len(s) {
		switch {
		case s[i] == '/' && i+1 < len(s) && s[i+1] == ':':
			// The separator is folded into the parameter group so an
			// optional parameter absorbs its own slash.
			tok, capture, next, err := parseParamToken(s, i+1)
			if err != nil {
				return nil, err
			}
			keys = append(keys, tok)
			b.WriteString(`(?:\/(` + capture + `))`)
			if tok.Optional {
				b.WriteString(`?`)
			}
			i = next
		case s[i] == ':':
			// Mid-segment parameter, e.g. the ":year" of "/report-:year".
			tok, capture, next, err := parseParamToken(s, i)
			if err != nil {
				return nil, err
			}
			keys = append(keys, tok)
			b.WriteString(`(?:(` + capture + `))`)
			if tok.Optional {
				b.WriteString(`?`)
			}
			i = next
		case s[i] == '/':
			b.WriteString(`\/`)
			i++
		default:
			j := i
			for j < len(s) && s[j] != '/' && s[j] != ':' {
				j++
			}
			b.WriteString(regexp.QuoteMeta(s[i:j]))
			i = j
		}
	}
	b.WriteString(`\/?$`)

	source := b.String()
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("path %q compiled to invalid pattern %q: %w", path, source, err)
	}
	return &Pattern{source: source, re: re, keys: keys}, nil
}

// MustCompilePattern is CompilePattern that panics on error. Route builders
// use it so malformed paths fail at registration time.
func MustCompilePattern(path string) *Pattern {
	p, err := CompilePattern(path)
	if err != nil {
		panic(err)
	}
	return p
}

// WildcardPattern returns the pattern that matches any remaining path. It
// is the pattern of a mount with no prefix and contributes no path segment.
func WildcardPattern() *Pattern {
	return &Pattern{
		source:   wildcardPatternSource,
		re:       regexp.MustCompile(wildcardPatternSource),
		wildcard: true,
	}
}

// parseParamToken reads a ":name", ":name(expr)" or ":name?" token starting
// at the ":" and returns its capture token, its capture expression and the
// index of the first byte after the token.
func parseParamToken(s string, at int) (CaptureToken, string, int, error) {
	i := at + 1
	j := i
	for j < len(s) && isParamNameByte(s[j]) {
		j++
	}
	if j == i {
		return CaptureToken{}, "", 0, fmt.Errorf("path %q: parameter at offset %d has no name", s, at)
	}
	tok := CaptureToken{Name: s[i:j], Offset: at}

	capture := `[^\/]+?`
	if j < len(s) && s[j] == '(' {
		end, ok := matchingParen(s, j)
		if !ok {
			return CaptureToken{}, "", 0, fmt.Errorf("path %q: unterminated capture for parameter %q", s, tok.Name)
		}
		capture = s[j+1 : end]
		j = end + 1
	}
	if j < len(s) && s[j] == '?' {
		tok.Optional = true
		j++
	}
	return tok, capture, j, nil
}

func isParamNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// matchingParen returns the index of the ")" closing the "(" at open,
// honoring backslash escapes.
func matchingParen(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// Source returns the pattern's regular-expression source text.
func (p *Pattern) Source() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Keys returns the pattern's capture tokens in declaration order.
func (p *Pattern) Keys() []CaptureToken {
	if p == nil {
		return nil
	}
	return p.keys
}

// Wildcard reports whether the pattern matches any remaining path.
func (p *Pattern) Wildcard() bool {
	return p != nil && p.wildcard
}

// MatchString reports whether the pattern matches the given path.
func (p *Pattern) MatchString(path string) bool {
	if p == nil {
		return false
	}
	return p.re.MatchString(path)
}

// passthrough reports whether the pattern contributes no path segment: nil,
// the wildcard, or the bare root pattern.
func (p *Pattern) passthrough() bool {
	return p == nil || p.wildcard || p.source == rootPatternSource
}
