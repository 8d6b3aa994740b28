package untyped

import (
	"context"
	"fmt"

	"github.com/gateway-mirror/go-gateway-client/core"
)

// Operation is a single invocable endpoint of an API: one URL template plus
// one HTTP method.
type Operation struct {
	*core.GatewayResource
}

// ListForApiWithContext lists the operations registered under the given API.
// Extra filter params are merged into the query.
func (o *Operation) ListForApiWithContext(ctx context.Context, apiId any, params core.Params) (core.RecordSet, error) {
	if params == nil {
		params = core.Params{}
	}
	params.Update(core.Params{"api_id": apiId}, true)
	return o.ListWithContext(ctx, params)
}

func (o *Operation) ListForApi(apiId any, params core.Params) (core.RecordSet, error) {
	return o.ListForApiWithContext(o.Rest.GetCtx(), apiId, params)
}

// UpsertForApiWithContext creates or updates an operation under the given API.
// Operations have no natural name; identity is the (api_id, url_template,
// method) triple, so body must carry url_template and method. Concurrent
// upserts of the same triple are serialized through the resource key lock.
func (o *Operation) UpsertForApiWithContext(ctx context.Context, apiId any, body core.Params) (core.Record, error) {
	template, ok := body["url_template"]
	if !ok {
		return nil, fmt.Errorf("operation body must contain url_template")
	}
	method, ok := body["method"]
	if !ok {
		return nil, fmt.Errorf("operation body must contain method")
	}
	body.Update(core.Params{"api_id": apiId}, true)

	defer o.Lock(apiId, template, method)()

	searchParams := core.Params{"api_id": apiId, "url_template": template, "method": method}
	existing, err := o.GetWithContext(ctx, searchParams)
	if core.IsNotFoundErr(err) {
		return o.CreateWithContext(ctx, body)
	} else if err != nil {
		return nil, err
	}
	return o.UpdateWithContext(ctx, existing.RecordID(), body)
}

func (o *Operation) UpsertForApi(apiId any, body core.Params) (core.Record, error) {
	return o.UpsertForApiWithContext(o.Rest.GetCtx(), apiId, body)
}
