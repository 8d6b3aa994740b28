package gateway_client

import (
	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/gateway-mirror/go-gateway-client/rest"
	"github.com/gateway-mirror/go-gateway-client/routetree"
)

type (
	GMSConfig                       = core.GMSConfig
	Params                          = core.Params
	Record                          = core.Record
	RecordSet                       = core.RecordSet
	Renderable                      = core.Renderable
	TypedGMSRest                    = rest.TypedGMSRest
	UntypedGMSRest                  = rest.UntypedGMSRest
	GatewayResourceAPI              = core.GatewayResourceAPI
	GatewayResourceAPIWithContext   = core.GatewayResourceAPIWithContext
	InterceptableGatewayResourceAPI = core.InterceptableGatewayResourceAPI

	Compiler       = routetree.Compiler
	CompilerConfig = routetree.CompilerConfig
	OperationTable = routetree.OperationTable
	OperationEntry = routetree.OperationEntry
	RouteMetadata  = routetree.RouteMetadata
	Router         = routetree.Router
)

func NewTypedGMSRest(config *GMSConfig) (*TypedGMSRest, error) {
	return rest.NewTypedGMSRest(config)
}

func NewUntypedGMSRest(config *GMSConfig) (*UntypedGMSRest, error) {
	return rest.NewUntypedGMSRest(config)
}

// NewGMSRest creates an untyped GMS REST client. Alias of NewUntypedGMSRest.
func NewGMSRest(config *GMSConfig) (*UntypedGMSRest, error) {
	return rest.NewUntypedGMSRest(config)
}

// NewCompiler creates a route-tree compiler with the provided configuration.
func NewCompiler(config CompilerConfig) *Compiler {
	return routetree.NewCompiler(config)
}

// NewRouter creates an empty route-tree builder.
func NewRouter() *Router {
	return routetree.NewRouter()
}
