package routetree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MalformedPatternError reports a pattern whose source text did not decode
// cleanly: a parameter group with an unexpected shape, or a mismatch between
// capture tokens and the groups found in the source. Decoding still returns
// its best-effort path text; the walk logs the anomaly and keeps going.
type MalformedPatternError struct {
	Source string
	Reason string
}

func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("malformed pattern %q: %s", e.Source, e.Reason)
}

// IsMalformedPatternErr reports whether err is a MalformedPatternError.
func IsMalformedPatternErr(err error) bool {
	var target *MalformedPatternError
	return errors.As(err, &target)
}

// decodePattern recovers the original path text from a compiled pattern,
// e.g. `(?i)^\/user(?:\/([^\/]+?))\/?$` with token "id" back to "/user/:id".
// A wildcard pattern decodes to the empty segment.
func decodePattern(p *Pattern) (string, error) {
	if p == nil || p.wildcard {
		return "", nil
	}
	return decodeSource(p.source, p.keys)
}

// decodeSource rewrites a pattern source into path text in four steps:
// replace each parameter group with ":name" from the capture tokens sorted
// by source offset, strip the case-insensitivity and anchoring artifacts,
// drop the tolerated-trailing-separator suffix, and unescape the remaining
// literals. Anomalies never abort the rewrite; the first one is reported
// alongside the best-effort result.
func decodeSource(source string, tokens []CaptureToken) (string, error) {
	sorted := append([]CaptureToken(nil), tokens...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var out strings.Builder
	var firstErr error
	note := func(reason string) {
		if firstErr == nil {
			firstErr = &MalformedPatternError{Source: source, Reason: reason}
		}
	}

	next := 0
	i := 0
	for i < len(source) {
		if !strings.HasPrefix(source[i:], "(?:") {
			if source[i] == '\\' && i+1 < len(source) {
				out.WriteString(source[i : i+2])
				i += 2
				continue
			}
			out.WriteByte(source[i])
			i++
			continue
		}

		inner := i + 3
		separated := strings.HasPrefix(source[inner:], `\/(`)
		if separated {
			inner += 2
		}
		if inner >= len(source) || source[inner] != '(' {
			note(fmt.Sprintf("unexpected group shape at offset %d", i))
			out.WriteString("(?:")
			i += 3
			continue
		}
		innerEnd, ok := matchingParen(source, inner)
		if !ok || innerEnd+1 >= len(source) || source[innerEnd+1] != ')' {
			note(fmt.Sprintf("unterminated parameter group at offset %d", i))
			out.WriteString("(?:")
			i += 3
			continue
		}
		end := innerEnd + 1
		if end+1 < len(source) && source[end+1] == '?' {
			end++
		}

		if next >= len(sorted) {
			note("more parameter groups than capture tokens")
			out.WriteString(source[i : end+1])
		} else {
			if separated {
				out.WriteString(`\/`)
			}
			out.WriteString(":" + sorted[next].Name)
			next++
		}
		i = end + 1
	}
	if next < len(sorted) {
		note(fmt.Sprintf("%d capture tokens without a matching group", len(sorted)-next))
	}

	text := out.String()
	text = strings.TrimPrefix(text, "(?i)")
	text = strings.TrimPrefix(text, "^")
	if stripped, ok := strings.CutSuffix(text, `\/?$`); ok {
		text = stripped
	} else {
		text = strings.TrimSuffix(text, "$")
	}
	return unescape(text), firstErr
}

// unescape removes single-character backslash escapes, turning `\/` back
// into "/" and cleaning residual escapes such as `\.` out of literals.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
