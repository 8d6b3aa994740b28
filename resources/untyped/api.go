package untyped

import (
	"context"
	"net/http"

	"github.com/gateway-mirror/go-gateway-client/core"
)

// Api is the top-level gateway artifact: a named API definition that owns
// operations and revisions.
type Api struct {
	*core.GatewayResource
}

func init() {
	core.RegisterExtraMethod(
		"Api",
		"ApiImportDocument_POST",
		http.MethodPost,
		"/apis/{id}/import",
		"Import an OpenAPI document into an existing API definition",
	)
}

// EnsureByNameWithContext ensures an API definition with the given name exists.
// When no API matches the name, one is created from body with "name" filled in.
func (a *Api) EnsureByNameWithContext(ctx context.Context, name string, body core.Params) (core.Record, error) {
	if body == nil {
		body = core.Params{}
	}
	body.Update(core.Params{"name": name}, false)
	return a.EnsureWithContext(ctx, core.Params{"name": name}, body)
}

func (a *Api) EnsureByName(name string, body core.Params) (core.Record, error) {
	return a.EnsureByNameWithContext(a.Rest.GetCtx(), name, body)
}

// ApiImportDocumentWithContext_POST
// method: POST
// url: /apis/{id}/import
// summary: Import an OpenAPI document into an existing API definition
func (a *Api) ApiImportDocumentWithContext_POST(ctx context.Context, apiId any, document core.Params) (core.Record, error) {
	path := core.BuildResourcePathWithID(a.GetResourcePath(), apiId, "import")
	return core.Request[core.Record](ctx, a, http.MethodPost, path, nil, document)
}

// ApiImportDocument_POST
// method: POST
// url: /apis/{id}/import
// summary: Import an OpenAPI document into an existing API definition
func (a *Api) ApiImportDocument_POST(apiId any, document core.Params) (core.Record, error) {
	return a.ApiImportDocumentWithContext_POST(a.Rest.GetCtx(), apiId, document)
}
