package typed

import (
	"context"

	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/gateway-mirror/go-gateway-client/resources/untyped"
)

// -----------------------------------------------------
// SEARCH PARAMS
// -----------------------------------------------------

// OperationSearchParams represents the search parameters for Operation operations
type OperationSearchParams struct {
	ApiId       string `json:"api_id,omitempty" doc:"Filter results by owning API."`
	OperationId string `json:"operation_id,omitempty" doc:"Filter results by generated operation identifier."`
	UrlTemplate string `json:"url_template,omitempty" doc:"Filter results by URL template."`
	Method      string `json:"method,omitempty" doc:"Filter results by HTTP method."`
	Tag         string `json:"tag,omitempty" doc:"Filter results by tag."`
	// RawData bypasses the typed fields when custom query parameters are needed.
	RawData core.Params `json:"-"`
}

// -----------------------------------------------------
// REQUEST BODY
// -----------------------------------------------------

// OperationParameter is one named placeholder of an operation's URL template.
type OperationParameter struct {
	Name     string `json:"name" validate:"required" doc:"Placeholder name as it appears in the template."`
	Required bool   `json:"required" doc:"Whether a value must be supplied."`
	Type     string `json:"type,omitempty" doc:"Parameter type. Template parameters are strings."`
}

// OperationRequestBody represents the request body for Operation operations
type OperationRequestBody struct {
	ApiId       string               `json:"api_id,omitempty" validate:"required" doc:"Owning API identifier."`
	UrlTemplate string               `json:"url_template,omitempty" validate:"required" doc:"URL template with {name} placeholders."`
	Method      string               `json:"method,omitempty" validate:"required" doc:"HTTP method of the operation."`
	OperationId string               `json:"operation_id,omitempty" doc:"Stable operation identifier."`
	DisplayName string               `json:"display_name,omitempty" doc:"Human readable operation name."`
	BackendId   string               `json:"backend_id,omitempty" doc:"Backend the operation forwards to."`
	Parameters  []OperationParameter `json:"parameters,omitempty" validate:"dive" doc:"Template parameters declared by the operation."`
	Tags        []string             `json:"tags,omitempty" doc:"Labels merged from route metadata."`
}

// -----------------------------------------------------
// RESPONSE BODY
// -----------------------------------------------------

// OperationResponseBody represents the response data for Operation operations
type OperationResponseBody struct {
	Id          string               `json:"id,omitempty" doc:"Operation record identifier."`
	ApiId       string               `json:"api_id,omitempty" doc:"Owning API identifier."`
	OperationId string               `json:"operation_id,omitempty" doc:"Stable operation identifier."`
	DisplayName string               `json:"display_name,omitempty" doc:"Human readable operation name."`
	Method      string               `json:"method,omitempty" doc:"HTTP method of the operation."`
	UrlTemplate string               `json:"url_template,omitempty" doc:"URL template with {name} placeholders."`
	BackendId   string               `json:"backend_id,omitempty" doc:"Backend the operation forwards to."`
	Parameters  []OperationParameter `json:"parameters,omitempty" doc:"Template parameters declared by the operation."`
	Tags        []string             `json:"tags,omitempty" doc:"Labels merged from route metadata."`
	CreatedAt   string               `json:"created_at,omitempty" doc:"Creation timestamp."`
	UpdatedAt   string               `json:"updated_at,omitempty" doc:"Last update timestamp."`
	Url         string               `json:"url,omitempty" doc:"Endpoint URL for API operations on this resource."`
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// Operation represents a typed resource for gateway operation records
type Operation struct {
	*core.TypedGatewayResource
}

// Get retrieves a single operation with typed request/response
func (r *Operation) Get(req *OperationSearchParams) (*OperationResponseBody, error) {
	return r.GetWithContext(r.Untyped.GetCtx(), req)
}

// GetWithContext retrieves a single operation using the provided context
func (r *Operation) GetWithContext(ctx context.Context, req *OperationSearchParams) (*OperationResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).GetWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response OperationResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetById retrieves a single operation by ID
func (r *Operation) GetById(id any) (*OperationResponseBody, error) {
	return r.GetByIdWithContext(r.Untyped.GetCtx(), id)
}

// GetByIdWithContext retrieves a single operation by ID using the provided context
func (r *Operation) GetByIdWithContext(ctx context.Context, id any) (*OperationResponseBody, error) {
	record, err := untypedOf(r.TypedGatewayResource).GetByIdWithContext(ctx, id)
	if err != nil {
		return nil, err
	}

	var response OperationResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// List retrieves multiple operations with typed request/response
func (r *Operation) List(req *OperationSearchParams) ([]*OperationResponseBody, error) {
	return r.ListWithContext(r.Untyped.GetCtx(), req)
}

// ListWithContext retrieves multiple operations using the provided context
func (r *Operation) ListWithContext(ctx context.Context, req *OperationSearchParams) ([]*OperationResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	recordSet, err := untypedOf(r.TypedGatewayResource).ListWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response []*OperationResponseBody
	if err := recordSet.Fill(&response); err != nil {
		return nil, err
	}

	return response, nil
}

// Create creates a new operation with typed request/response
func (r *Operation) Create(req *OperationRequestBody) (*OperationResponseBody, error) {
	return r.CreateWithContext(r.Untyped.GetCtx(), req)
}

// CreateWithContext creates a new operation using the provided context
func (r *Operation) CreateWithContext(ctx context.Context, req *OperationRequestBody) (*OperationResponseBody, error) {
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

	var response OperationResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Update updates an existing operation with typed request/response
func (r *Operation) Update(id any, req *OperationRequestBody) (*OperationResponseBody, error) {
	return r.UpdateWithContext(r.Untyped.GetCtx(), id, req)
}

// UpdateWithContext updates an existing operation using the provided context
func (r *Operation) UpdateWithContext(ctx context.Context, id any, req *OperationRequestBody) (*OperationResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).UpdateWithContext(ctx, id, params)
	if err != nil {
		return nil, err
	}

	var response OperationResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// UpsertForApi creates or updates an operation keyed by (api_id, url_template, method)
func (r *Operation) UpsertForApi(apiId any, req *OperationRequestBody) (*OperationResponseBody, error) {
	return r.UpsertForApiWithContext(r.Untyped.GetCtx(), apiId, req)
}

// UpsertForApiWithContext creates or updates an operation keyed by
// (api_id, url_template, method) using the provided context
func (r *Operation) UpsertForApiWithContext(ctx context.Context, apiId any, req *OperationRequestBody) (*OperationResponseBody, error) {
	if err := validateBody(req); err != nil {
		return nil, err
	}
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).(*untyped.Operation).UpsertForApiWithContext(ctx, apiId, params)
	if err != nil {
		return nil, err
	}

	var response OperationResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Delete deletes an operation matching the search parameters
func (r *Operation) Delete(req *OperationSearchParams) error {
	return r.DeleteWithContext(r.Untyped.GetCtx(), req)
}

// DeleteWithContext deletes an operation matching the search parameters using the provided context
func (r *Operation) DeleteWithContext(ctx context.Context, req *OperationSearchParams) error {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return err
	}
	_, err = untypedOf(r.TypedGatewayResource).DeleteWithContext(ctx, params, nil, nil)
	return err
}

// DeleteById deletes an operation by ID
func (r *Operation) DeleteById(id any) error {
	return r.DeleteByIdWithContext(r.Untyped.GetCtx(), id)
}

// DeleteByIdWithContext deletes an operation by ID using the provided context
func (r *Operation) DeleteByIdWithContext(ctx context.Context, id any) error {
	_, err := untypedOf(r.TypedGatewayResource).DeleteByIdWithContext(ctx, id, nil, nil)
	return err
}

// Exists checks if an operation matching the search parameters exists
func (r *Operation) Exists(req *OperationSearchParams) (bool, error) {
	return r.ExistsWithContext(r.Untyped.GetCtx(), req)
}

// ExistsWithContext checks if an operation matching the search parameters exists using the provided context
func (r *Operation) ExistsWithContext(ctx context.Context, req *OperationSearchParams) (bool, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return false, err
	}
	return untypedOf(r.TypedGatewayResource).ExistsWithContext(ctx, params)
}
