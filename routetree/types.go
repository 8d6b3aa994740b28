package routetree

// MetadataHandlerName identifies the marker handler that carries route
// metadata. Routing-tree owners attach it next to their real handlers; the
// compiler only recognizes and reads it.
const MetadataHandlerName = "gateway-metadata"

// PolicyStage is one of the four lifecycle points at which the gateway can
// apply a declared policy fragment.
type PolicyStage string

const (
	StageInbound  PolicyStage = "inbound"
	StageBackend  PolicyStage = "backend"
	StageOutbound PolicyStage = "outbound"
	StageOnError  PolicyStage = "on-error"
)

// StageOrder returns the four policy stages in their canonical order.
func StageOrder() []PolicyStage {
	return []PolicyStage{StageInbound, StageBackend, StageOutbound, StageOnError}
}

// PolicyMap maps a policy stage to its ordered list of policy fragments.
type PolicyMap map[PolicyStage][]string

// clone returns a deep copy so merged entries never share fragment slices
// with the metadata objects they were built from.
func (pm PolicyMap) clone() PolicyMap {
	if pm == nil {
		return nil
	}
	out := make(PolicyMap, len(pm))
	for stage, fragments := range pm {
		out[stage] = append([]string(nil), fragments...)
	}
	return out
}

// appendFrom concatenates the other map's fragment lists onto this one,
// stage by stage. Existing fragments keep their position; incoming ones are
// appended after them. Nothing is deduplicated.
func (pm PolicyMap) appendFrom(other PolicyMap) PolicyMap {
	if len(other) == 0 {
		return pm
	}
	if pm == nil {
		pm = make(PolicyMap, len(other))
	}
	for _, stage := range StageOrder() {
		if fragments := other[stage]; len(fragments) > 0 {
			pm[stage] = append(pm[stage], fragments...)
		}
	}
	return pm
}

// RouteMetadata is the optional payload a route-tree owner attaches to a
// handler: free-form tags plus policy fragments partitioned by stage.
type RouteMetadata struct {
	Tags     []string  `json:"tags,omitempty"`
	Policies PolicyMap `json:"policies,omitempty"`
}

// NewRouteMetadata creates a metadata payload carrying the given tags.
func NewRouteMetadata(tags ...string) *RouteMetadata {
	return &RouteMetadata{Tags: tags}
}

// WithPolicy appends policy fragments for a stage and returns the metadata
// so declarations chain:
//
//	routetree.NewRouteMetadata("billing").
//	    WithPolicy(routetree.StageInbound, "<rate-limit calls=\"60\"/>").
//	    WithPolicy(routetree.StageOnError, "<trace/>")
func (m *RouteMetadata) WithPolicy(stage PolicyStage, fragments ...string) *RouteMetadata {
	if m.Policies == nil {
		m.Policies = make(PolicyMap)
	}
	m.Policies[stage] = append(m.Policies[stage], fragments...)
	return m
}

// MetadataCarrier is implemented by handlers that expose route metadata.
// The compiler never registers such handlers itself; it only looks them up.
type MetadataCarrier interface {
	RouteMetadata() *RouteMetadata
}

// MetadataOf returns the metadata exposed by a handler, or nil when the
// handler carries none. This is the single lookup the tree walk relies on.
func MetadataOf(handler any) *RouteMetadata {
	if carrier, ok := handler.(MetadataCarrier); ok {
		return carrier.RouteMetadata()
	}
	return nil
}

// metadataHandler is the built-in marker produced by WithRouteMetadata and
// Router.Annotate.
type metadataHandler struct {
	meta *RouteMetadata
}

func (h *metadataHandler) Name() string                 { return MetadataHandlerName }
func (h *metadataHandler) RouteMetadata() *RouteMetadata { return h.meta }

// WithRouteMetadata wraps a metadata payload in a marker handler that can be
// placed in a route stack next to the real handler.
func WithRouteMetadata(meta *RouteMetadata) any {
	return &metadataHandler{meta: meta}
}

// Layer is one node of a routing tree. It is a closed set of variants:
//
//   - MetadataLayer    - carries route metadata for subsequent routes
//   - RouteLayer       - a path pattern paired with a route definition
//   - MountLayer       - a path pattern paired with a nested sub-tree
//   - MiddlewareLayer  - a pass-through handler with no path contribution
//
// The tree walk classifies nodes by matching over these variants, in the
// order listed above.
type Layer interface {
	isLayer()
}

// MetadataLayer injects route metadata at router level. The walk treats it
// as a traversal leaf: the metadata applies to sibling routes discovered
// after it in the same stack.
type MetadataLayer struct {
	Meta *RouteMetadata
}

func (*MetadataLayer) isLayer() {}

// RouteLayer binds a compiled path pattern to a route definition. The route
// is terminal when all its handlers are plain method handlers; otherwise it
// is a nested definition the walk descends into.
type RouteLayer struct {
	Pattern *Pattern
	Route   *Route
}

func (*RouteLayer) isLayer() {}

// MountLayer mounts a nested router under a path prefix. A nil or wildcard
// pattern mounts the sub-tree without adding a path segment.
type MountLayer struct {
	Pattern *Pattern
	Sub     *Router
}

func (*MountLayer) isLayer() {}

// MiddlewareLayer is a plain handler with no route and no path contribution.
// The walk skips it.
type MiddlewareLayer struct {
	Name    string
	Handler any
}

func (*MiddlewareLayer) isLayer() {}

// MethodHandler is one entry of a route's handler stack: an HTTP method
// bound to a handler, with an optional per-handler pattern. The handler is
// opaque to the compiler except for two probes: whether it is itself a
// *Router and whether it carries route metadata.
type MethodHandler struct {
	Method  string
	Pattern *Pattern
	Handler any
}

// Route is an ordered stack of method handlers registered for one path.
type Route struct {
	stack []MethodHandler
}

// Method binds a handler to an HTTP method on this route and returns the
// route so registrations chain.
func (rt *Route) Method(method string, handler any) *Route {
	rt.stack = append(rt.stack, MethodHandler{Method: method, Handler: handler})
	return rt
}

// Handlers returns the route's stack in registration order.
func (rt *Route) Handlers() []MethodHandler {
	return rt.stack
}

// terminal reports whether every entry of the stack is a plain method
// handler: it has a method, at most a pass-through pattern, and its handler
// is not itself a nested router.
func (rt *Route) terminal() bool {
	for _, h := range rt.stack {
		if h.Method == "" {
			return false
		}
		if !h.Pattern.passthrough() {
			return false
		}
		if _, nested := h.Handler.(*Router); nested {
			return false
		}
	}
	return true
}

// methods returns the distinct methods of the stack in first-seen order.
func (rt *Route) methods() []string {
	var out []string
	seen := make(map[string]struct{}, len(rt.stack))
	for _, h := range rt.stack {
		if h.Method == "" {
			continue
		}
		if _, dup := seen[h.Method]; dup {
			continue
		}
		seen[h.Method] = struct{}{}
		out = append(out, h.Method)
	}
	return out
}

// metadata returns the metadata objects carried by marker handlers in the
// stack, in registration order.
func (rt *Route) metadata() []*RouteMetadata {
	var out []*RouteMetadata
	for _, h := range rt.stack {
		if meta := MetadataOf(h.Handler); meta != nil {
			out = append(out, meta)
		}
	}
	return out
}

// layers reclassifies a non-terminal route stack as a layer list so the
// walk can descend into it with the same rules it applies at router level.
func (rt *Route) layers() []Layer {
	out := make([]Layer, 0, len(rt.stack))
	for _, h := range rt.stack {
		switch {
		case MetadataOf(h.Handler) != nil:
			out = append(out, &MetadataLayer{Meta: MetadataOf(h.Handler)})
		case isRouter(h.Handler):
			out = append(out, &MountLayer{Pattern: h.Pattern, Sub: h.Handler.(*Router)})
		case h.Method != "":
			out = append(out, &RouteLayer{
				Pattern: h.Pattern,
				Route:   &Route{stack: []MethodHandler{{Method: h.Method, Handler: h.Handler}}},
			})
		default:
			out = append(out, &MiddlewareLayer{Handler: h.Handler})
		}
	}
	return out
}

func isRouter(handler any) bool {
	_, ok := handler.(*Router)
	return ok
}

// TemplateParameter is one named placeholder of a URL template. Parameters
// extracted from route paths are always required strings.
type TemplateParameter struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Type     string `json:"type"`
}

// OperationEntry is one row of the compiled operation table: a gateway
// operation at (URLTemplate, Method) with its generated naming, declared
// template parameters, and the tags and policy fragments merged from every
// metadata object that applied to the route.
type OperationEntry struct {
	Identifier  string              `json:"id"`
	DisplayName string              `json:"display_name"`
	Method      string              `json:"method"`
	URLTemplate string              `json:"url_template"`
	Parameters  []TemplateParameter `json:"parameters,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Policies    PolicyMap           `json:"policies,omitempty"`
}
