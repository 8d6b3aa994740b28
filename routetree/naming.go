package routetree

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	operationIDPrefix = "op"
	namingMaxPathLen  = 30
)

// operationID derives the unique identifier for an operation: the template
// lower-cased and slugified, capped at 30 characters, then composed with the
// method and the run's next serial so repeated templates stay distinct.
//
//	/user/{id} + GET  ->  op-user-id-get-1
func operationID(template, method string, run *compileRun) string {
	slug := strings.ToLower(strings.TrimSpace(template))
	slug = strings.ReplaceAll(slug, "/", "-")
	slug = keepAlnumAndDashes(slug)
	if len(slug) > namingMaxPathLen {
		slug = slug[:namingMaxPathLen]
	}
	slug = strings.Trim(slug, "-")

	parts := []string{operationIDPrefix}
	if slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, strings.ToLower(method), strconv.Itoa(run.nextOperationSerial()))
	return strings.Join(parts, "-")
}

// displayName derives the human-readable operation name: the template's
// words title-cased and capped at 30 characters, prefixed with the
// capitalized method.
//
//	/user/{id} + GET  ->  Get User Id
func displayName(template, method string) string {
	text := strings.TrimSpace(template)
	text = strings.Map(func(r rune) rune {
		if r == '/' || r == '-' {
			return ' '
		}
		return r
	}, text)
	text = keepAlnumAndSpaces(text)

	words := strings.Fields(text)
	for i, word := range words {
		words[i] = titleWord(word)
	}
	pathPart := strings.Join(words, " ")
	if len(pathPart) > namingMaxPathLen {
		pathPart = pathPart[:namingMaxPathLen]
	}

	methodPart := titleWord(method)
	if pathPart == "" {
		return methodPart
	}
	return methodPart + " " + pathPart
}

func keepAlnumAndDashes(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func keepAlnumAndSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func titleWord(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
