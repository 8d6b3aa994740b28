package routetree

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// testLogger records log lines so traversal output can be asserted on.
type testLogger struct {
	infos []string
	warns []string
}

func (l *testLogger) Infof(format string, args ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *testLogger) Warnf(format string, args ...any) {
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func countContaining(lines []string, substr string) int {
	n := 0
	for _, line := range lines {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func TestCompileSingleRoute(t *testing.T) {
	root := NewRouter().Get("/user/:id")
	table := compileTree(t, root, CompilerConfig{})

	if table.Len() != 1 {
		t.Fatalf("expected one entry, got %d", table.Len())
	}
	entry := table.Entries[0]
	if entry.Identifier != "op-user-id-get-1" {
		t.Errorf("unexpected identifier %q", entry.Identifier)
	}
	if entry.DisplayName != "Get User Id" {
		t.Errorf("unexpected display name %q", entry.DisplayName)
	}
	if entry.Method != "GET" || entry.URLTemplate != "/user/{id}" {
		t.Errorf("unexpected entry target: %s %s", entry.Method, entry.URLTemplate)
	}
	if len(entry.Parameters) != 1 {
		t.Fatalf("expected one parameter, got %d", len(entry.Parameters))
	}
	param := entry.Parameters[0]
	if param.Name != "id" || !param.Required || param.Type != "string" {
		t.Errorf("unexpected parameter: %+v", param)
	}
}

func TestCompileIdentifiersStayDistinct(t *testing.T) {
	// Both paths slugify to "user-id"; the run serial keeps the identifiers
	// apart.
	root := NewRouter()
	root.Get("/user/:id")
	root.Get("/user-id")

	table := compileTree(t, root, CompilerConfig{})
	seen := map[string]bool{}
	for _, entry := range table.Entries {
		if seen[entry.Identifier] {
			t.Errorf("identifier %q appears twice", entry.Identifier)
		}
		seen[entry.Identifier] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected two distinct identifiers, got %v", seen)
	}
}

func TestCompileParametersMatchPlaceholders(t *testing.T) {
	root := NewRouter()
	root.Get("/user/:id")
	root.Post("/orders/:orderId/items/:itemId")
	root.Get("/report-:year.:format")
	root.Delete("/x/:v")
	root.Get("/plain/path")

	table := compileTree(t, root, CompilerConfig{})
	for _, entry := range table.Entries {
		var placeholders []string
		for _, m := range placeholderRe.FindAllString(entry.URLTemplate, -1) {
			placeholders = append(placeholders, strings.Trim(m, "{}"))
		}
		if len(placeholders) != len(entry.Parameters) {
			t.Errorf("%s: %d placeholders but %d parameters", entry.URLTemplate, len(placeholders), len(entry.Parameters))
			continue
		}
		for i, p := range entry.Parameters {
			if placeholders[i] != p.Name {
				t.Errorf("%s: placeholder %q does not match parameter %q", entry.URLTemplate, placeholders[i], p.Name)
			}
		}
	}
}

func TestCompileEmptyRouter(t *testing.T) {
	table := compileTree(t, NewRouter(), CompilerConfig{})
	if table.Len() != 0 {
		t.Errorf("expected an empty table, got %d entries", table.Len())
	}
	if got := table.PrettyTable(); got != "<empty operation table>" {
		t.Errorf("unexpected empty rendering %q", got)
	}
}

func TestCompileNilRouter(t *testing.T) {
	if _, err := NewCompiler(CompilerConfig{}).Compile(nil); err == nil {
		t.Errorf("expected an error for a nil router")
	}
}

func TestCompileLogsProgress(t *testing.T) {
	logger := &testLogger{}
	root := NewRouter()
	root.Get("/user/:id")
	root.Post("/orders")

	compileTree(t, root, CompilerConfig{Logger: logger})
	if countContaining(logger.infos, "walking route tree") != 1 {
		t.Errorf("expected a traversal start line, got %v", logger.infos)
	}
	if countContaining(logger.infos, "registered endpoint") != 2 {
		t.Errorf("expected two registration lines, got %v", logger.infos)
	}
}

func TestCompileLogsAmbiguities(t *testing.T) {
	logger := &testLogger{}
	root := NewRouter()
	root.Get("/user/:id")
	root.Get("/user/:uid")

	compileTree(t, root, CompilerConfig{Logger: logger})
	if countContaining(logger.warns, "ambiguous path") != 1 {
		t.Errorf("expected one ambiguity warning line, got %v", logger.warns)
	}
}

func TestOperationTableLookup(t *testing.T) {
	root := NewRouter()
	root.Get("/user/:id")
	root.Post("/orders")

	table := compileTree(t, root, CompilerConfig{})
	if _, ok := table.Lookup("/user/{id}", "get"); !ok {
		t.Errorf("expected lookup by template and lower-case method")
	}
	if _, ok := table.Lookup("/user/{id}", "POST"); ok {
		t.Errorf("did not expect a POST entry for /user/{id}")
	}
	if _, ok := table.Lookup("/missing", "GET"); ok {
		t.Errorf("did not expect a missing template to resolve")
	}
}

func TestOperationTableRendering(t *testing.T) {
	root := NewRouter()
	root.Get("/user/:id", WithMetadata(NewRouteMetadata("users")))

	table := compileTree(t, root, CompilerConfig{})

	t.Run("pretty table", func(t *testing.T) {
		rendered := table.PrettyTable()
		for _, want := range []string{"url_template", "op-user-id-get-1", "/user/{id}", "users"} {
			if !strings.Contains(rendered, want) {
				t.Errorf("expected rendering to contain %q:\n%s", want, rendered)
			}
		}
	})

	t.Run("pretty json", func(t *testing.T) {
		var decoded struct {
			Entries []OperationEntry `json:"entries"`
		}
		if err := json.Unmarshal([]byte(table.PrettyJson("  ")), &decoded); err != nil {
			t.Fatalf("expected valid JSON: %v", err)
		}
		if len(decoded.Entries) != 1 || decoded.Entries[0].Identifier != "op-user-id-get-1" {
			t.Errorf("unexpected decoded entries: %+v", decoded.Entries)
		}
	})

	t.Run("warnings are appended to the grid", func(t *testing.T) {
		ambiguous := NewRouter()
		ambiguous.Get("/user/:id")
		ambiguous.Get("/user/:uid")
		rendered := compileTree(t, ambiguous, CompilerConfig{}).PrettyTable()
		if !strings.Contains(rendered, "warning: ambiguous path") {
			t.Errorf("expected the warning suffix, got:\n%s", rendered)
		}
	})
}

func TestCompileFreshRunPerCompilation(t *testing.T) {
	root := NewRouter().Get("/user/:id")
	compiler := NewCompiler(CompilerConfig{})

	first, err := compiler.Compile(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := compiler.Compile(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Entries[0].Identifier != second.Entries[0].Identifier {
		t.Errorf("expected serials to reset between compilations: %q vs %q",
			first.Entries[0].Identifier, second.Entries[0].Identifier)
	}
}
