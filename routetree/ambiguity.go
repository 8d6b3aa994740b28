package routetree

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)

// eraseParameters rewrites every placeholder of a template to the neutral
// "{param}" so templates that differ only in parameter names compare equal.
func eraseParameters(template string) string {
	return placeholderRe.ReplaceAllString(template, "{param}")
}

// AmbiguityWarning reports a template that erases to the same gateway path
// as an earlier registration with the same method. The colliding entries
// stay in the table; strict compilation turns the collision into an error.
type AmbiguityWarning struct {
	Method       string
	ErasedPath   string
	Template     string
	CollidesWith string
}

func (w AmbiguityWarning) String() string {
	return fmt.Sprintf("ambiguous path %s %s: template %q collides with %q",
		w.Method, w.ErasedPath, w.Template, w.CollidesWith)
}

// AmbiguousPathError is returned by strict compilation when two or more
// registered templates erase to the same path for the same method.
type AmbiguousPathError struct {
	Method     string
	ErasedPath string
	Templates  []string
}

func (e *AmbiguousPathError) Error() string {
	return fmt.Sprintf("ambiguous path %s %s: %s erase to the same gateway path",
		e.Method, e.ErasedPath, strings.Join(e.Templates, ", "))
}

// IsAmbiguousPathErr reports whether err is an AmbiguousPathError.
func IsAmbiguousPathErr(err error) bool {
	var target *AmbiguousPathError
	return errors.As(err, &target)
}

// detectAmbiguities groups entries by erased template and method, in
// registration order. In strict mode the first colliding group is returned
// as an error; otherwise each colliding entry beyond a group's first yields
// one warning.
func detectAmbiguities(entries []OperationEntry, strict bool, logger Logger) ([]AmbiguityWarning, error) {
	if logger == nil {
		logger = NoopLogger()
	}
	type groupKey struct {
		erased string
		method string
	}
	groups := make(map[groupKey][]int)
	var keyOrder []groupKey
	for i, entry := range entries {
		key := groupKey{erased: eraseParameters(entry.URLTemplate), method: entry.Method}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], i)
	}

	var warnings []AmbiguityWarning
	for _, key := range keyOrder {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		if strict {
			templates := make([]string, 0, len(members))
			for _, idx := range members {
				templates = append(templates, entries[idx].URLTemplate)
			}
			return nil, &AmbiguousPathError{Method: key.method, ErasedPath: key.erased, Templates: templates}
		}
		first := entries[members[0]]
		for _, idx := range members[1:] {
			warning := AmbiguityWarning{
				Method:       key.method,
				ErasedPath:   key.erased,
				Template:     entries[idx].URLTemplate,
				CollidesWith: first.URLTemplate,
			}
			logger.Warnf("%s", warning)
			warnings = append(warnings, warning)
		}
	}
	return warnings, nil
}
