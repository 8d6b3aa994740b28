package routetree

import "strings"

// treeWalker performs the depth-first traversal that discovers endpoints.
// Layers are classified by variant, in order: metadata, route (terminal or
// nested), mount, middleware. Terminal routes register one entry per
// distinct method; metadata gathered from markers earlier in the stack and
// inside the route's own stack is attached to each registration.
type treeWalker struct {
	registry *EndpointRegistry
	logger   Logger
}

func newTreeWalker(registry *EndpointRegistry, logger Logger) *treeWalker {
	if logger == nil {
		logger = NoopLogger()
	}
	return &treeWalker{registry: registry, logger: logger}
}

func (w *treeWalker) walk(root *Router, basePath string) {
	w.logger.Infof("walking route tree rooted at %q", normalizePath(basePath))
	w.walkStack(root.Stack(), basePath)
}

// walkStack visits one layer stack. The pending metadata list is local to
// the stack: a metadata layer applies to the routes that follow it among
// its siblings, and descents into nested stacks start with a fresh list.
func (w *treeWalker) walkStack(stack []Layer, base string) {
	var pending []*RouteMetadata
	for _, layer := range stack {
		switch l := layer.(type) {
		case *MetadataLayer:
			if l.Meta != nil {
				pending = append(pending, l.Meta)
			}
		case *RouteLayer:
			w.walkRoute(l, base, pending)
		case *MountLayer:
			w.walkStack(l.Sub.Stack(), joinPath(base, w.decode(l.Pattern)))
		case *MiddlewareLayer:
			// No route and no path contribution.
		}
	}
}

func (w *treeWalker) walkRoute(l *RouteLayer, base string, pending []*RouteMetadata) {
	if l.Route == nil {
		return
	}
	path := joinPath(base, w.decode(l.Pattern))
	if !l.Route.terminal() {
		w.walkStack(l.Route.layers(), path)
		return
	}

	gathered := append(append([]*RouteMetadata(nil), pending...), l.Route.metadata()...)
	for _, method := range l.Route.methods() {
		if len(gathered) == 0 {
			w.register(path, method, nil)
			continue
		}
		for _, meta := range gathered {
			w.register(path, method, meta)
		}
	}
}

func (w *treeWalker) register(path, method string, meta *RouteMetadata) {
	entry := w.registry.Add(path, method, meta)
	w.logger.Infof("registered endpoint %s %s as %s", entry.Method, entry.URLTemplate, entry.Identifier)
}

// decode returns the pattern's path text, logging patterns that did not
// decode cleanly and keeping their best-effort text.
func (w *treeWalker) decode(p *Pattern) string {
	segment, err := decodePattern(p)
	if err != nil {
		w.logger.Warnf("pattern did not decode cleanly, using %q: %v", segment, err)
	}
	return segment
}

// joinPath joins two path fragments with exactly one separator, trimming
// each side first. Empty fragments contribute nothing; the result carries a
// leading separator whenever it is non-empty.
func joinPath(base, segment string) string {
	base = strings.Trim(base, "/")
	segment = strings.Trim(segment, "/")
	switch {
	case base == "" && segment == "":
		return ""
	case base == "":
		return "/" + segment
	case segment == "":
		return "/" + base
	default:
		return "/" + base + "/" + segment
	}
}
