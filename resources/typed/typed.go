// Package typed provides typed request/response wrappers around the untyped
// GMS resources. Request bodies are checked against their validate tags
// before anything goes on the wire; responses are filled into typed models.
package typed

import (
	"reflect"

	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// untypedOf resolves the untyped counterpart a typed resource delegates to.
func untypedOf(r *core.TypedGatewayResource) core.GatewayResourceAPIWithContext {
	return r.Untyped.GetResourceMap()[r.GetResourceType()]
}

// validateBody checks a typed request body against its validate tags.
// A nil body passes.
func validateBody(body any) error {
	if body == nil {
		return nil
	}
	if v := reflect.ValueOf(body); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	return validate.Struct(body)
}
