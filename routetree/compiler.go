// Package routetree compiles layered routing trees into gateway operation
// tables. A tree built with this package's Router (or assembled directly
// from Layer values) is walked depth-first; every terminal route becomes one
// OperationEntry per method, with its path pattern decoded back to text, its
// parameters lifted into a braced URL template, and generated identifier and
// display names. Tags and policy fragments attached through route metadata
// are merged into the entries, and templates that collide after parameter
// erasure are reported as ambiguities or, in strict mode, rejected.
package routetree

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bndr/gotabulate"
)

// compileRun carries the serial counters shared by one compilation run.
// Both counters are monotonic and never reset, so identifiers and
// disambiguated parameter names stay unique across the whole run.
type compileRun struct {
	operationSerial int
	paramSerial     int
	logger          Logger
}

func newCompileRun(logger Logger) *compileRun {
	if logger == nil {
		logger = NoopLogger()
	}
	return &compileRun{logger: logger}
}

func (r *compileRun) nextOperationSerial() int {
	r.operationSerial++
	return r.operationSerial
}

func (r *compileRun) nextParamSerial() int {
	r.paramSerial++
	return r.paramSerial
}

// CompilerConfig configures a compilation run.
type CompilerConfig struct {
	// BasePath is prepended to every discovered path.
	BasePath string
	// Strict turns ambiguous gateway paths into a compile error instead of
	// warnings.
	Strict bool
	// Logger receives traversal, registration and ambiguity log lines.
	// Defaults to the no-op logger.
	Logger Logger
}

// Compiler turns a routing tree into an OperationTable.
type Compiler struct {
	config CompilerConfig
}

// NewCompiler creates a compiler with the given configuration.
func NewCompiler(config CompilerConfig) *Compiler {
	if config.Logger == nil {
		config.Logger = NoopLogger()
	}
	return &Compiler{config: config}
}

// Compile walks the tree rooted at router and returns the resulting
// operation table. In strict mode an ambiguous gateway path aborts the
// compilation with an *AmbiguousPathError; otherwise ambiguities are
// collected as warnings on the table.
func (c *Compiler) Compile(router *Router) (*OperationTable, error) {
	if router == nil {
		return nil, fmt.Errorf("cannot compile a nil router")
	}
	run := newCompileRun(c.config.Logger)
	registry := newEndpointRegistry(run)

	walker := newTreeWalker(registry, c.config.Logger)
	walker.walk(router, c.config.BasePath)

	entries := registry.Entries()
	warnings, err := detectAmbiguities(entries, c.config.Strict, c.config.Logger)
	if err != nil {
		return nil, err
	}
	return &OperationTable{Entries: entries, Warnings: warnings}, nil
}

// Compile is a convenience wrapper building a Compiler for a single run.
func Compile(router *Router, config CompilerConfig) (*OperationTable, error) {
	return NewCompiler(config).Compile(router)
}

// OperationTable is the result of one compilation: the discovered operation
// entries in registration order plus any ambiguity warnings.
type OperationTable struct {
	Entries  []OperationEntry   `json:"entries"`
	Warnings []AmbiguityWarning `json:"warnings,omitempty"`
}

// Len returns the number of entries in the table.
func (t *OperationTable) Len() int {
	return len(t.Entries)
}

// Lookup returns the entry whose template and method match.
func (t *OperationTable) Lookup(template, method string) (*OperationEntry, bool) {
	method = strings.ToUpper(strings.TrimSpace(method))
	for i := range t.Entries {
		if t.Entries[i].URLTemplate == template && t.Entries[i].Method == method {
			return &t.Entries[i], true
		}
	}
	return nil, false
}

// PrettyTable renders the table as a human-readable grid.
func (t *OperationTable) PrettyTable() string {
	if len(t.Entries) == 0 {
		return "<empty operation table>"
	}
	headers := []string{"id", "method", "url_template", "display_name", "tags"}
	rows := make([][]any, 0, len(t.Entries))
	for _, entry := range t.Entries {
		rows = append(rows, []any{
			entry.Identifier,
			entry.Method,
			entry.URLTemplate,
			entry.DisplayName,
			strings.Join(entry.Tags, ","),
		})
	}
	grid := gotabulate.Create(rows)
	grid.SetHeaders(headers)
	grid.SetAlign("left")
	grid.SetWrapStrings(true)
	grid.SetMaxCellSize(85)
	rendered := grid.Render("grid")
	if len(t.Warnings) == 0 {
		return rendered
	}
	var out strings.Builder
	out.WriteString(rendered)
	for _, warning := range t.Warnings {
		out.WriteString("\nwarning: ")
		out.WriteString(warning.String())
	}
	return out.String()
}

// PrettyJson renders the table as JSON, optionally indented.
func (t *OperationTable) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(t, "", indent[0])
	} else {
		b, err = json.Marshal(t)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}
