package untyped

import (
	"github.com/gateway-mirror/go-gateway-client/core"
)

// Backend is an upstream service that operations forward requests to.
type Backend struct {
	*core.GatewayResource
}
