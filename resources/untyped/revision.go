package untyped

import (
	"context"
	"net/http"
	"time"

	"github.com/gateway-mirror/go-gateway-client/core"
)

// Revision is an immutable snapshot of an API's operation set. Exactly one
// revision per API is current; promoting another one is an asynchronous
// rollout tracked by a DeployTask.
type Revision struct {
	*core.GatewayResource
}

func init() {
	core.RegisterExtraMethod(
		"Revision",
		"MakeCurrent_POST",
		http.MethodPost,
		"/revisions/{id}/make_current",
		"Promote a revision to the current revision of its API",
	)
}

// ListForApiWithContext lists the revisions of the given API.
func (r *Revision) ListForApiWithContext(ctx context.Context, apiId any, params core.Params) (core.RecordSet, error) {
	if params == nil {
		params = core.Params{}
	}
	params.Update(core.Params{"api_id": apiId}, true)
	return r.ListWithContext(ctx, params)
}

func (r *Revision) ListForApi(apiId any, params core.Params) (core.RecordSet, error) {
	return r.ListForApiWithContext(r.Rest.GetCtx(), apiId, params)
}

// MakeCurrentWithContext promotes the revision to current.
//
// GMS answers with a task envelope. With timeout 0 the method returns
// immediately and the rollout continues in the background; with a positive
// timeout it waits for the deployment task and returns the final task record.
//
// method: POST
// url: /revisions/{id}/make_current
func (r *Revision) MakeCurrentWithContext(ctx context.Context, revisionId any, timeout time.Duration) (*AsyncResult, core.Record, error) {
	path := core.BuildResourcePathWithID(r.GetResourcePath(), revisionId, "make_current")
	record, err := core.Request[core.Record](ctx, r, http.MethodPost, path, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	return MaybeWaitAsyncResultWithContext(ctx, record, r.Rest, timeout)
}

func (r *Revision) MakeCurrent(revisionId any, timeout time.Duration) (*AsyncResult, core.Record, error) {
	return r.MakeCurrentWithContext(r.Rest.GetCtx(), revisionId, timeout)
}
