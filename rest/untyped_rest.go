package rest

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/gateway-mirror/go-gateway-client/resources/untyped"
)

// UntypedGatewayResourceType defines the interface constraint for all untyped resources.
// Uses interface-based constraint to avoid Go's 100 union term limitation.
type UntypedGatewayResourceType interface {
	core.GatewayResourceAPIWithContext
}

// Bit flags representing which CRUD operations are supported
const (
	C = core.C
	L = core.L
	R = core.R
	U = core.U
	D = core.D
)

type UntypedGMSRest struct {
	ctx         context.Context
	Session     core.RESTSession
	resourceMap map[string]core.GatewayResourceAPIWithContext // Map to store resources by resourceType

	// +apiall:extraMethod:POST=/apis/{id}/import
	Apis       *untyped.Api
	Operations *untyped.Operation
	// +apiall:extraMethod:POST=/revisions/{id}/make_current
	Revisions   *untyped.Revision
	Policies    *untyped.Policy
	Backends    *untyped.Backend
	NamedValues *untyped.NamedValue
	DeployTasks *untyped.DeployTask
	Versions    *untyped.Version
}

func NewUntypedGMSRest(config *core.GMSConfig) (*UntypedGMSRest, error) {
	config.Validate(
		core.WithAuth,
		core.WithHost,
		core.WithUserAgent,
		core.WithFillFn,
		core.WithApiVersion("v1"),
		core.WithTimeout(time.Second*30),
		core.WithMaxConnections(10),
		core.WithPort(443),
	)
	session, err := core.NewGMSSession(config)
	if err != nil {
		return nil, err
	}
	rest := &UntypedGMSRest{
		Session:     session,
		resourceMap: make(map[string]core.GatewayResourceAPIWithContext),
	}

	// Set context: use provided context or default to background context
	if config.Context != nil {
		rest.SetCtx(config.Context)
	} else {
		rest.SetCtx(context.Background())
	}

	// Fill in each resource, pointing back to the same rest
	rest.Apis = newUntypedResource[untyped.Api](rest, "apis", C, L, R, U, D)
	rest.Operations = newUntypedResource[untyped.Operation](rest, "operations", C, L, R, U, D)
	rest.Revisions = newUntypedResource[untyped.Revision](rest, "revisions", C, L, R, U, D)
	rest.Policies = newUntypedResource[untyped.Policy](rest, "policies", C, L, R, U, D)
	rest.Backends = newUntypedResource[untyped.Backend](rest, "backends", C, L, R, U, D)
	rest.NamedValues = newUntypedResource[untyped.NamedValue](rest, "namedvalues", C, L, R, U, D)
	rest.DeployTasks = newUntypedResource[untyped.DeployTask](rest, "tasks", L, R)
	rest.Versions = newUntypedResource[untyped.Version](rest, "versions", L, R)

	// Revision rollout and its task tracking appeared with GMS 2.0.
	rest.Revisions.SetAvailableFromVersion("2.0.0")
	rest.DeployTasks.SetAvailableFromVersion("2.0.0")

	return rest, nil
}

func (rest *UntypedGMSRest) GetSession() core.RESTSession {
	return rest.Session
}

func (rest *UntypedGMSRest) GetResourceMap() map[string]core.GatewayResourceAPIWithContext {
	return rest.resourceMap
}

func (rest *UntypedGMSRest) GetCtx() context.Context {
	return rest.ctx
}

func (rest *UntypedGMSRest) SetCtx(ctx context.Context) {
	rest.ctx = ctx
}

func newUntypedResource[T UntypedGatewayResourceType](rest *UntypedGMSRest, resourcePath string, resourceOps ...core.ResourceOps) *T {
	// Get the concrete type from the type parameter
	var zero T
	t := reflect.TypeOf(zero)
	resourceType := t.Name()

	// Create new instance using reflection
	instance := reflect.New(t).Interface()

	// Create GatewayResource with parent reference for method discovery via reflection
	resource := core.NewGatewayResource(resourcePath, resourceType, rest, core.NewResourceOps(resourceOps...), instance)

	// Set the embedded *GatewayResource field using reflection
	// All untyped resources embed *core.GatewayResource
	val := reflect.ValueOf(instance).Elem()

	// Find the embedded *GatewayResource field
	found := false
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Type() == reflect.TypeOf((*core.GatewayResource)(nil)) {
			if field.CanSet() {
				field.Set(reflect.ValueOf(resource))
				found = true
				break
			}
		}
	}

	if !found {
		panic(fmt.Sprintf("Resource %s does not embed *core.GatewayResource or field is not settable", resourceType))
	}

	// Register in resource map
	if res, ok := instance.(core.GatewayResourceAPIWithContext); ok {
		rest.resourceMap[resourceType] = res
	}

	// Return as pointer to the constrained type
	if result, ok := instance.(*T); ok {
		return result
	}
	panic(fmt.Sprintf("Failed to convert instance to type *%s", resourceType))
}
