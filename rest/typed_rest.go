package rest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/gateway-mirror/go-gateway-client/resources/typed"
)

// TypedGatewayResourceType defines the interface constraint for all typed resources.
// Uses interface-based constraint to avoid Go's 100 union term limitation.
// All typed resources implement this by embedding *core.TypedGatewayResource.
type TypedGatewayResourceType interface {
	GetResourceType() string
}

type TypedGMSRest struct {
	Untyped *UntypedGMSRest

	Apis       *typed.Api
	Operations *typed.Operation
	Revisions  *typed.Revision
	Policies   *typed.Policy
}

func NewTypedGMSRest(config *core.GMSConfig) (*TypedGMSRest, error) {
	untyped, err := NewUntypedGMSRest(config)
	if err != nil {
		return nil, err
	}

	rest := &TypedGMSRest{
		Untyped: untyped,
	}

	// Set external context
	if config.Context != nil {
		rest.SetCtx(config.Context)
	}

	rest.Apis = newTypedResource[typed.Api](rest)
	rest.Operations = newTypedResource[typed.Operation](rest)
	rest.Revisions = newTypedResource[typed.Revision](rest)
	rest.Policies = newTypedResource[typed.Policy](rest)

	return rest, nil
}

func (rest *TypedGMSRest) GetSession() core.RESTSession {
	return rest.Untyped.Session
}

func (rest *TypedGMSRest) GetResourceMap() map[string]core.GatewayResourceAPIWithContext {
	return rest.Untyped.resourceMap
}

func (rest *TypedGMSRest) GetCtx() context.Context {
	return rest.Untyped.ctx
}

func (rest *TypedGMSRest) SetCtx(ctx context.Context) {
	rest.Untyped.ctx = ctx
}

func newTypedResource[T TypedGatewayResourceType](rest *TypedGMSRest) *T {
	// Get the concrete type from the type parameter
	var zero T
	t := reflect.TypeOf(zero)
	resourceType := t.Name()

	// Create new instance using reflection
	instance := reflect.New(t).Interface()

	// Create the typed resource
	typedRes := core.NewTypedGatewayResource(resourceType, rest.Untyped)

	// Set the embedded *TypedGatewayResource field using reflection
	// All typed resources embed *core.TypedGatewayResource
	val := reflect.ValueOf(instance).Elem()

	// Find the embedded *TypedGatewayResource field
	found := false
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Type() == reflect.TypeOf((*core.TypedGatewayResource)(nil)) {
			if field.CanSet() {
				field.Set(reflect.ValueOf(typedRes))
				found = true
				break
			}
		}
	}

	if !found {
		panic(fmt.Sprintf("Resource %s does not embed *core.TypedGatewayResource or field is not settable", resourceType))
	}

	// Verify the corresponding untyped resource exists
	if _, ok := rest.Untyped.resourceMap[resourceType]; !ok {
		panic(fmt.Sprintf("untyped resource type %s not found in REST", resourceType))
	}

	// Return as pointer to the constrained type
	if result, ok := instance.(*T); ok {
		return result
	}
	panic(fmt.Sprintf("Failed to convert instance to type *%s", resourceType))
}
