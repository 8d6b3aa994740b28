package routetree

// Router is a layered routing tree: an ordered stack of layers, each either
// a route, a mounted sub-router, a metadata marker or plain middleware. It
// carries just enough structure for the compiler to discover endpoints;
// request dispatch is intentionally out of scope.
type Router struct {
	stack []Layer
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{}
}

// Stack returns the router's layers in registration order.
func (r *Router) Stack() []Layer {
	return r.stack
}

// Append adds a pre-built layer to the stack. Trees assembled from external
// routing frameworks can be fed to the compiler this way.
func (r *Router) Append(layer Layer) *Router {
	if layer != nil {
		r.stack = append(r.stack, layer)
	}
	return r
}

// RouteOption customizes a route registered through Handle.
type RouteOption func(*routeConfig)

type routeConfig struct {
	handler  any
	metadata []*RouteMetadata
}

// WithHandler sets the route's handler. Without it a no-op handler is
// registered, which is enough for compilation-only trees.
func WithHandler(handler any) RouteOption {
	return func(c *routeConfig) {
		c.handler = handler
	}
}

// WithMetadata attaches route metadata to the registration. The metadata is
// stored as a marker handler in the route's stack, next to the real handler.
func WithMetadata(meta *RouteMetadata) RouteOption {
	return func(c *routeConfig) {
		if meta != nil {
			c.metadata = append(c.metadata, meta)
		}
	}
}

func noopHandler() {}

// Handle registers a terminal route for one method at the given path. The
// path may declare parameters with the ":name", ":name?" and ":name(expr)"
// syntaxes; it is compiled to a pattern at registration time and a malformed
// path panics.
func (r *Router) Handle(method, path string, opts ...RouteOption) *Router {
	config := routeConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	if config.handler == nil {
		config.handler = noopHandler
	}

	route := &Route{}
	for _, meta := range config.metadata {
		route.stack = append(route.stack, MethodHandler{Method: method, Handler: WithRouteMetadata(meta)})
	}
	route.stack = append(route.stack, MethodHandler{Method: method, Handler: config.handler})

	r.stack = append(r.stack, &RouteLayer{Pattern: MustCompilePattern(path), Route: route})
	return r
}

// Get is shorthand for Handle("GET", ...).
func (r *Router) Get(path string, opts ...RouteOption) *Router {
	return r.Handle("GET", path, opts...)
}

// Post is shorthand for Handle("POST", ...).
func (r *Router) Post(path string, opts ...RouteOption) *Router {
	return r.Handle("POST", path, opts...)
}

// Put is shorthand for Handle("PUT", ...).
func (r *Router) Put(path string, opts ...RouteOption) *Router {
	return r.Handle("PUT", path, opts...)
}

// Delete is shorthand for Handle("DELETE", ...).
func (r *Router) Delete(path string, opts ...RouteOption) *Router {
	return r.Handle("DELETE", path, opts...)
}

// Route registers a route at the given path and returns it so several
// methods can share the path:
//
//	r.Route("/widgets").
//	    Method("GET", listWidgets).
//	    Method("POST", createWidget)
func (r *Router) Route(path string) *Route {
	route := &Route{}
	r.stack = append(r.stack, &RouteLayer{Pattern: MustCompilePattern(path), Route: route})
	return route
}

// Mount attaches a sub-router under a path prefix.
func (r *Router) Mount(path string, sub *Router) *Router {
	r.stack = append(r.stack, &MountLayer{Pattern: MustCompilePattern(path), Sub: sub})
	return r
}

// MountWildcard attaches a sub-router without a path prefix, the equivalent
// of mounting at "/".
func (r *Router) MountWildcard(sub *Router) *Router {
	r.stack = append(r.stack, &MountLayer{Pattern: WildcardPattern(), Sub: sub})
	return r
}

// Use appends plain middleware. It never contributes a path and the
// compiler skips it.
func (r *Router) Use(name string, handler any) *Router {
	r.stack = append(r.stack, &MiddlewareLayer{Name: name, Handler: handler})
	return r
}

// Annotate injects route metadata at router level. It applies to the routes
// registered after it on this router.
func (r *Router) Annotate(meta *RouteMetadata) *Router {
	r.stack = append(r.stack, &MetadataLayer{Meta: meta})
	return r
}
