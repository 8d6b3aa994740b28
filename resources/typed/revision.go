package typed

import (
	"context"
	"time"

	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/gateway-mirror/go-gateway-client/resources/untyped"
)

// -----------------------------------------------------
// SEARCH PARAMS
// -----------------------------------------------------

// RevisionSearchParams represents the search parameters for Revision operations
type RevisionSearchParams struct {
	ApiId     string `json:"api_id,omitempty" doc:"Filter results by owning API."`
	IsCurrent bool   `json:"is_current,omitempty" doc:"Filter for the revision currently served."`
	// RawData bypasses the typed fields when custom query parameters are needed.
	RawData core.Params `json:"-"`
}

// -----------------------------------------------------
// REQUEST BODY
// -----------------------------------------------------

// RevisionRequestBody represents the request body for Revision operations
type RevisionRequestBody struct {
	ApiId        string `json:"api_id,omitempty" validate:"required" doc:"Owning API identifier."`
	ReleaseNotes string `json:"release_notes,omitempty" doc:"What changed in this revision."`
}

// -----------------------------------------------------
// RESPONSE BODY
// -----------------------------------------------------

// RevisionResponseBody represents the response data for Revision operations
type RevisionResponseBody struct {
	Id              string `json:"id,omitempty" doc:"Revision identifier."`
	ApiId           string `json:"api_id,omitempty" doc:"Owning API identifier."`
	ReleaseNotes    string `json:"release_notes,omitempty" doc:"What changed in this revision."`
	IsCurrent       bool   `json:"is_current,omitempty" doc:"Whether this revision is currently served."`
	OperationsCount int64  `json:"operations_count,omitempty" doc:"Number of operations captured by the revision."`
	CreatedAt       string `json:"created_at,omitempty" doc:"Creation timestamp."`
	Url             string `json:"url,omitempty" doc:"Endpoint URL for API operations on this resource."`
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// Revision represents a typed resource for API revision operations
type Revision struct {
	*core.TypedGatewayResource
}

// Get retrieves a single revision with typed request/response
func (r *Revision) Get(req *RevisionSearchParams) (*RevisionResponseBody, error) {
	return r.GetWithContext(r.Untyped.GetCtx(), req)
}

// GetWithContext retrieves a single revision using the provided context
func (r *Revision) GetWithContext(ctx context.Context, req *RevisionSearchParams) (*RevisionResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).GetWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response RevisionResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetById retrieves a single revision by ID
func (r *Revision) GetById(id any) (*RevisionResponseBody, error) {
	return r.GetByIdWithContext(r.Untyped.GetCtx(), id)
}

// GetByIdWithContext retrieves a single revision by ID using the provided context
func (r *Revision) GetByIdWithContext(ctx context.Context, id any) (*RevisionResponseBody, error) {
	record, err := untypedOf(r.TypedGatewayResource).GetByIdWithContext(ctx, id)
	if err != nil {
		return nil, err
	}

	var response RevisionResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// List retrieves multiple revisions with typed request/response
func (r *Revision) List(req *RevisionSearchParams) ([]*RevisionResponseBody, error) {
	return r.ListWithContext(r.Untyped.GetCtx(), req)
}

// ListWithContext retrieves multiple revisions using the provided context
func (r *Revision) ListWithContext(ctx context.Context, req *RevisionSearchParams) ([]*RevisionResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	recordSet, err := untypedOf(r.TypedGatewayResource).ListWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response []*RevisionResponseBody
	if err := recordSet.Fill(&response); err != nil {
		return nil, err
	}

	return response, nil
}

// Create creates a new revision with typed request/response
func (r *Revision) Create(req *RevisionRequestBody) (*RevisionResponseBody, error) {
	return r.CreateWithContext(r.Untyped.GetCtx(), req)
}

// CreateWithContext creates a new revision using the provided context
func (r *Revision) CreateWithContext(ctx context.Context, req *RevisionRequestBody) (*RevisionResponseBody, error) {
	if err := validateBody(req); err != nil {
		return nil, err
	}
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).CreateWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response RevisionResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// MakeCurrent promotes the revision to current, optionally waiting for the rollout task
func (r *Revision) MakeCurrent(revisionId any, timeout time.Duration) (*core.AsyncResult, core.Record, error) {
	return r.MakeCurrentWithContext(r.Untyped.GetCtx(), revisionId, timeout)
}

// MakeCurrentWithContext promotes the revision to current using the provided context
func (r *Revision) MakeCurrentWithContext(ctx context.Context, revisionId any, timeout time.Duration) (*core.AsyncResult, core.Record, error) {
	return untypedOf(r.TypedGatewayResource).(*untyped.Revision).MakeCurrentWithContext(ctx, revisionId, timeout)
}

// Delete deletes a revision matching the search parameters
func (r *Revision) Delete(req *RevisionSearchParams) error {
	return r.DeleteWithContext(r.Untyped.GetCtx(), req)
}

// DeleteWithContext deletes a revision matching the search parameters using the provided context
func (r *Revision) DeleteWithContext(ctx context.Context, req *RevisionSearchParams) error {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return err
	}
	_, err = untypedOf(r.TypedGatewayResource).DeleteWithContext(ctx, params, nil, nil)
	return err
}

// DeleteById deletes a revision by ID
func (r *Revision) DeleteById(id any) error {
	return r.DeleteByIdWithContext(r.Untyped.GetCtx(), id)
}

// DeleteByIdWithContext deletes a revision by ID using the provided context
func (r *Revision) DeleteByIdWithContext(ctx context.Context, id any) error {
	_, err := untypedOf(r.TypedGatewayResource).DeleteByIdWithContext(ctx, id, nil, nil)
	return err
}

// Exists checks if a revision matching the search parameters exists
func (r *Revision) Exists(req *RevisionSearchParams) (bool, error) {
	return r.ExistsWithContext(r.Untyped.GetCtx(), req)
}

// ExistsWithContext checks if a revision matching the search parameters exists using the provided context
func (r *Revision) ExistsWithContext(ctx context.Context, req *RevisionSearchParams) (bool, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return false, err
	}
	return untypedOf(r.TypedGatewayResource).ExistsWithContext(ctx, params)
}
