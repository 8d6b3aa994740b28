package routetree

import "strings"

type registryKey struct {
	path   string
	method string
}

// EndpointRegistry accumulates operation entries keyed by normalized path
// and method, preserving registration order. Registering the same path and
// method again merges into the existing entry: tags and policy fragments
// accumulate, naming fields follow last-write-wins with fields left unset
// falling back to the previous value.
type EndpointRegistry struct {
	run    *compileRun
	byPath map[string]map[string]*OperationEntry
	order  []registryKey
}

// NewEndpointRegistry creates an empty registry with its own compilation
// run, so identifier and parameter serials start fresh.
func NewEndpointRegistry() *EndpointRegistry {
	return newEndpointRegistry(newCompileRun(nil))
}

func newEndpointRegistry(run *compileRun) *EndpointRegistry {
	return &EndpointRegistry{
		run:    run,
		byPath: make(map[string]map[string]*OperationEntry),
	}
}

// Add registers the route at path and method, deriving the entry's template,
// parameters, identifier and display name, and folding in the metadata's
// tags and policy fragments. It returns the stored entry after any merge.
func (r *EndpointRegistry) Add(path, method string, meta *RouteMetadata) *OperationEntry {
	path = normalizePath(path)
	method = strings.ToUpper(strings.TrimSpace(method))

	template, params := extractTemplate(path, r.run)
	incoming := OperationEntry{
		Identifier:  operationID(template, method, r.run),
		DisplayName: displayName(template, method),
		Method:      method,
		URLTemplate: template,
		Parameters:  params,
	}
	if meta != nil {
		incoming.Tags = append([]string(nil), meta.Tags...)
		incoming.Policies = meta.Policies.clone()
	}
	return r.upsert(path, method, incoming)
}

// AddEntry registers a caller-built entry at path and method. Naming fields
// left empty keep the values of an already-registered entry, so partial
// updates can append tags or policies without renaming the operation.
func (r *EndpointRegistry) AddEntry(path, method string, entry OperationEntry) *OperationEntry {
	path = normalizePath(path)
	method = strings.ToUpper(strings.TrimSpace(method))
	entry.Method = method
	return r.upsert(path, method, entry)
}

func (r *EndpointRegistry) upsert(path, method string, incoming OperationEntry) *OperationEntry {
	methods, ok := r.byPath[path]
	if !ok {
		methods = make(map[string]*OperationEntry)
		r.byPath[path] = methods
	}

	existing, ok := methods[method]
	if !ok {
		stored := incoming
		methods[method] = &stored
		r.order = append(r.order, registryKey{path: path, method: method})
		return &stored
	}

	if incoming.Identifier != "" {
		existing.Identifier = incoming.Identifier
	}
	if incoming.DisplayName != "" {
		existing.DisplayName = incoming.DisplayName
	}
	if incoming.URLTemplate != "" {
		existing.URLTemplate = incoming.URLTemplate
	}
	if incoming.Parameters != nil {
		existing.Parameters = incoming.Parameters
	}
	existing.Tags = append(existing.Tags, incoming.Tags...)
	existing.Policies = existing.Policies.appendFrom(incoming.Policies)
	return existing
}

// Lookup returns the entry registered at path and method.
func (r *EndpointRegistry) Lookup(path, method string) (*OperationEntry, bool) {
	methods, ok := r.byPath[normalizePath(path)]
	if !ok {
		return nil, false
	}
	entry, ok := methods[strings.ToUpper(strings.TrimSpace(method))]
	return entry, ok
}

// Len returns the number of registered entries.
func (r *EndpointRegistry) Len() int {
	return len(r.order)
}

// Entries returns copies of all entries in registration order.
func (r *EndpointRegistry) Entries() []OperationEntry {
	out := make([]OperationEntry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.byPath[key.path][key.method])
	}
	return out
}

// normalizePath maps the empty accumulated path to the root path.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
