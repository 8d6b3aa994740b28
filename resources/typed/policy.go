package typed

import (
	"context"

	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/gateway-mirror/go-gateway-client/resources/untyped"
)

// -----------------------------------------------------
// SEARCH PARAMS
// -----------------------------------------------------

// PolicySearchParams represents the search parameters for Policy operations
type PolicySearchParams struct {
	Scope       string `json:"scope,omitempty" doc:"Policy scope: api or operation."`
	ApiId       string `json:"api_id,omitempty" doc:"Filter results by owning API."`
	OperationId string `json:"operation_id,omitempty" doc:"Filter results by attached operation."`
	// RawData bypasses the typed fields when custom query parameters are needed.
	RawData core.Params `json:"-"`
}

// -----------------------------------------------------
// REQUEST BODY
// -----------------------------------------------------

// PolicyRequestBody represents the request body for Policy operations.
// Stage lists hold policy fragments in application order.
type PolicyRequestBody struct {
	Scope       string   `json:"scope,omitempty" validate:"required,oneof=api operation" doc:"Policy scope: api or operation."`
	ApiId       string   `json:"api_id,omitempty" doc:"Owning API. Required for api scope."`
	OperationId string   `json:"operation_id,omitempty" doc:"Attached operation. Required for operation scope."`
	Inbound     []string `json:"inbound,omitempty" doc:"Fragments applied before routing."`
	Backend     []string `json:"backend,omitempty" doc:"Fragments applied around the backend call."`
	Outbound    []string `json:"outbound,omitempty" doc:"Fragments applied to the response."`
	OnError     []string `json:"on-error,omitempty" doc:"Fragments applied when a stage faults."`
}

// -----------------------------------------------------
// RESPONSE BODY
// -----------------------------------------------------

// PolicyResponseBody represents the response data for Policy operations
type PolicyResponseBody struct {
	Id          string   `json:"id,omitempty" doc:"Policy identifier."`
	Scope       string   `json:"scope,omitempty" doc:"Policy scope: api or operation."`
	ApiId       string   `json:"api_id,omitempty" doc:"Owning API."`
	OperationId string   `json:"operation_id,omitempty" doc:"Attached operation for operation scope."`
	Inbound     []string `json:"inbound,omitempty" doc:"Fragments applied before routing."`
	Backend     []string `json:"backend,omitempty" doc:"Fragments applied around the backend call."`
	Outbound    []string `json:"outbound,omitempty" doc:"Fragments applied to the response."`
	OnError     []string `json:"on-error,omitempty" doc:"Fragments applied when a stage faults."`
	CreatedAt   string   `json:"created_at,omitempty" doc:"Creation timestamp."`
	UpdatedAt   string   `json:"updated_at,omitempty" doc:"Last update timestamp."`
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// Policy represents a typed resource for gateway policy documents
type Policy struct {
	*core.TypedGatewayResource
}

// Get retrieves a single policy with typed request/response
func (r *Policy) Get(req *PolicySearchParams) (*PolicyResponseBody, error) {
	return r.GetWithContext(r.Untyped.GetCtx(), req)
}

// GetWithContext retrieves a single policy using the provided context
func (r *Policy) GetWithContext(ctx context.Context, req *PolicySearchParams) (*PolicyResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).GetWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response PolicyResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetById retrieves a single policy by ID
func (r *Policy) GetById(id any) (*PolicyResponseBody, error) {
	return r.GetByIdWithContext(r.Untyped.GetCtx(), id)
}

// GetByIdWithContext retrieves a single policy by ID using the provided context
func (r *Policy) GetByIdWithContext(ctx context.Context, id any) (*PolicyResponseBody, error) {
	record, err := untypedOf(r.TypedGatewayResource).GetByIdWithContext(ctx, id)
	if err != nil {
		return nil, err
	}

	var response PolicyResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetForOperation retrieves the operation-scoped policy of the given operation
func (r *Policy) GetForOperation(operationId any) (*PolicyResponseBody, error) {
	return r.GetForOperationWithContext(r.Untyped.GetCtx(), operationId)
}

// GetForOperationWithContext retrieves the operation-scoped policy of the given operation using the provided context
func (r *Policy) GetForOperationWithContext(ctx context.Context, operationId any) (*PolicyResponseBody, error) {
	record, err := untypedOf(r.TypedGatewayResource).(*untyped.Policy).GetForOperationWithContext(ctx, operationId)
	if err != nil {
		return nil, err
	}

	var response PolicyResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// List retrieves multiple policies with typed request/response
func (r *Policy) List(req *PolicySearchParams) ([]*PolicyResponseBody, error) {
	return r.ListWithContext(r.Untyped.GetCtx(), req)
}

// ListWithContext retrieves multiple policies using the provided context
func (r *Policy) ListWithContext(ctx context.Context, req *PolicySearchParams) ([]*PolicyResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	recordSet, err := untypedOf(r.TypedGatewayResource).ListWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response []*PolicyResponseBody
	if err := recordSet.Fill(&response); err != nil {
		return nil, err
	}

	return response, nil
}

// Create creates a new policy with typed request/response
func (r *Policy) Create(req *PolicyRequestBody) (*PolicyResponseBody, error) {
	return r.CreateWithContext(r.Untyped.GetCtx(), req)
}

// CreateWithContext creates a new policy using the provided context
func (r *Policy) CreateWithContext(ctx context.Context, req *PolicyRequestBody) (*PolicyResponseBody, error) {
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

	var response PolicyResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Update updates an existing policy with typed request/response
func (r *Policy) Update(id any, req *PolicyRequestBody) (*PolicyResponseBody, error) {
	return r.UpdateWithContext(r.Untyped.GetCtx(), id, req)
}

// UpdateWithContext updates an existing policy using the provided context
func (r *Policy) UpdateWithContext(ctx context.Context, id any, req *PolicyRequestBody) (*PolicyResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).UpdateWithContext(ctx, id, params)
	if err != nil {
		return nil, err
	}

	var response PolicyResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// SetForOperation creates or replaces the operation-scoped policy of the given operation
func (r *Policy) SetForOperation(operationId any, req *PolicyRequestBody) (*PolicyResponseBody, error) {
	return r.SetForOperationWithContext(r.Untyped.GetCtx(), operationId, req)
}

// SetForOperationWithContext creates or replaces the operation-scoped policy
// of the given operation using the provided context
func (r *Policy) SetForOperationWithContext(ctx context.Context, operationId any, req *PolicyRequestBody) (*PolicyResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).(*untyped.Policy).SetForOperationWithContext(ctx, operationId, params)
	if err != nil {
		return nil, err
	}

	var response PolicyResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Delete deletes a policy matching the search parameters
func (r *Policy) Delete(req *PolicySearchParams) error {
	return r.DeleteWithContext(r.Untyped.GetCtx(), req)
}

// DeleteWithContext deletes a policy matching the search parameters using the provided context
func (r *Policy) DeleteWithContext(ctx context.Context, req *PolicySearchParams) error {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return err
	}
	_, err = untypedOf(r.TypedGatewayResource).DeleteWithContext(ctx, params, nil, nil)
	return err
}

// DeleteById deletes a policy by ID
func (r *Policy) DeleteById(id any) error {
	return r.DeleteByIdWithContext(r.Untyped.GetCtx(), id)
}

// DeleteByIdWithContext deletes a policy by ID using the provided context
func (r *Policy) DeleteByIdWithContext(ctx context.Context, id any) error {
	_, err := untypedOf(r.TypedGatewayResource).DeleteByIdWithContext(ctx, id, nil, nil)
	return err
}

// Exists checks if a policy matching the search parameters exists
func (r *Policy) Exists(req *PolicySearchParams) (bool, error) {
	return r.ExistsWithContext(r.Untyped.GetCtx(), req)
}

// ExistsWithContext checks if a policy matching the search parameters exists using the provided context
func (r *Policy) ExistsWithContext(ctx context.Context, req *PolicySearchParams) (bool, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return false, err
	}
	return untypedOf(r.TypedGatewayResource).ExistsWithContext(ctx, params)
}
