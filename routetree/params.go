package routetree

import (
	"strconv"
	"strings"
)

// paramMetaChars are the pattern metacharacters whose presence marks a
// sub-token as a parameter. They are also what gets stripped to obtain the
// parameter's bare name.
const paramMetaChars = ":?+*()|"

// extractTemplate converts a decoded route path into a gateway URL template,
// turning parameter sub-tokens into braced placeholders:
//
//	/user/:id            ->  /user/{id}
//	/report-:year.:fmt   ->  /report-{year}.{fmt}
//
// Segments are split on "/" and re-scanned on "-" and "." so parameters
// embedded in compound segments are found too; literal sub-tokens pass
// through untouched. A parameter whose written sub-token is two characters
// or shorter, or whose bare name repeats within the path, is disambiguated
// with a "P<n>" suffix drawn from the run-wide counter. Every extracted
// parameter is declared as a required string.
func extractTemplate(path string, run *compileRun) (string, []TemplateParameter) {
	var params []TemplateParameter
	seen := make(map[string]struct{})

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = rewriteSegment(segment, seen, &params, run)
	}
	return strings.Join(segments, "/"), params
}

// rewriteSegment rebuilds one path segment, converting each parameter
// sub-token in place while keeping the segment's "-" and "." delimiters.
func rewriteSegment(segment string, seen map[string]struct{}, params *[]TemplateParameter, run *compileRun) string {
	if !strings.ContainsAny(segment, paramMetaChars) {
		return segment
	}
	var b strings.Builder
	start := 0
	for i := 0; i <= len(segment); i++ {
		if i < len(segment) && segment[i] != '-' && segment[i] != '.' {
			continue
		}
		b.WriteString(rewriteToken(segment[start:i], seen, params, run))
		if i < len(segment) {
			b.WriteByte(segment[i])
		}
		start = i + 1
	}
	return b.String()
}

func rewriteToken(token string, seen map[string]struct{}, params *[]TemplateParameter, run *compileRun) string {
	if !strings.ContainsAny(token, paramMetaChars) {
		return token
	}
	name := stripMetaChars(token)
	_, collides := seen[name]
	if len(token) <= 2 || collides {
		name += "P" + strconv.Itoa(run.nextParamSerial())
	}
	seen[name] = struct{}{}
	*params = append(*params, TemplateParameter{Name: name, Required: true, Type: "string"})
	return "{" + name + "}"
}

func stripMetaChars(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for i := 0; i < len(token); i++ {
		if strings.IndexByte(paramMetaChars, token[i]) < 0 {
			b.WriteByte(token[i])
		}
	}
	return b.String()
}
