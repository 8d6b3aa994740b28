package core

import (
	"context"
	"io"
	"net/http"
	"time"
)

// GatewayResourceAPI defines the interface for standard CRUD operations on a GMS resource.
type GatewayResourceAPI interface {
	Session() RESTSession
	GetResourceType() string
	GetResourcePath() string // normalized collection path, e.g. "/apis"

	List(Params) (RecordSet, error)
	Create(Params) (Record, error)
	Update(any, Params) (Record, error)
	Delete(Params, Params) (Record, error)
	DeleteById(any, Params, Params) (Record, error)
	Ensure(Params, Params) (Record, error)
	Get(Params) (Record, error)
	GetById(any) (Record, error)
	Exists(Params) (bool, error)
	MustExists(Params) bool
	GetIterator(Params, int) Iterator
	// Resource-level mutex lock for concurrent access control
	Lock(...any) func()
}

type GatewayResourceAPIWithContext interface {
	GatewayResourceAPI
	ListWithContext(context.Context, Params) (RecordSet, error)
	CreateWithContext(context.Context, Params) (Record, error)
	UpdateWithContext(context.Context, any, Params) (Record, error)
	DeleteWithContext(context.Context, Params, Params, Params) (Record, error)
	DeleteByIdWithContext(context.Context, any, Params, Params) (Record, error)
	EnsureWithContext(context.Context, Params, Params) (Record, error)
	GetWithContext(context.Context, Params) (Record, error)
	GetByIdWithContext(context.Context, any) (Record, error)
	ExistsWithContext(context.Context, Params) (bool, error)
	MustExistsWithContext(context.Context, Params) bool
	GetIteratorWithContext(context.Context, Params, int) Iterator
}

// InterceptableGatewayResourceAPI combines request interception with gateway resource behavior.
type InterceptableGatewayResourceAPI interface {
	RequestInterceptor
	GatewayResourceAPIWithContext
}

type Awaitable interface {
	WaitWithContext(context.Context) (Record, error)
	Wait(time.Duration) (Record, error)
}

// RequestInterceptor defines a middleware-style interface for intercepting API requests
// and responses in client-server interactions. It allows implementing logic that runs
// before sending a request and after receiving a response.
// Typical use cases include logging, request mutation, authentication, and response transformation.
type RequestInterceptor interface {
	// BeforeRequest is invoked prior to sending the API request.
	//
	// Parameters:
	//   - ctx: The request context, useful for deadlines, tracing, or cancellation.
	//   - req: Request object
	//   - verb: The HTTP method (e.g., GET, POST, PUT).
	//   - url: The URL path being accessed (including query params)
	//   - body: The request body as an io.Reader, typically containing JSON data.
	BeforeRequest(context.Context, *http.Request, string, string, io.Reader) error

	// AfterRequest is invoked after the API response is received.
	//
	// The input and output are of type Renderable, which includes types like:
	//   - Record: a single key-value response object
	//   - RecordSet: a list of Record objects
	//
	// This method can inspect, mutate, or log the response data.
	//
	// Returns:
	//   - A (possibly modified) Renderable
	//   - An error if the interceptor encounters issues processing the response
	AfterRequest(context.Context, Renderable) (Renderable, error)

	// doBeforeRequest No need to implement on GMS resources. For internal usage only
	doBeforeRequest(context.Context, *http.Request, string, string, io.Reader) error

	// doAfterRequest No need to implement on GMS resources. For internal usage only
	doAfterRequest(context.Context, Renderable) (Renderable, error)
}

type GatewayRest interface {
	GetSession() RESTSession
	GetResourceMap() map[string]GatewayResourceAPIWithContext
	GetCtx() context.Context
	SetCtx(context.Context)
}
