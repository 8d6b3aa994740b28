package typed

import (
	"context"

	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/gateway-mirror/go-gateway-client/resources/untyped"
)

// -----------------------------------------------------
// SEARCH PARAMS
// -----------------------------------------------------

// ApiSearchParams represents the search parameters for Api operations
type ApiSearchParams struct {
	Name        string `json:"name,omitempty" doc:"Filter results by API name."`
	DisplayName string `json:"display_name,omitempty" doc:"Filter results by display name."`
	// RawData bypasses the typed fields when custom query parameters are needed.
	RawData core.Params `json:"-"`
}

// -----------------------------------------------------
// REQUEST BODY
// -----------------------------------------------------

// ApiRequestBody represents the request body for Api operations
type ApiRequestBody struct {
	Name        string   `json:"name,omitempty" validate:"required,max=255" doc:"Unique API name."`
	DisplayName string   `json:"display_name,omitempty" doc:"Human readable name shown in listings."`
	Description string   `json:"description,omitempty" doc:"Free-form description of the API."`
	Tags        []string `json:"tags,omitempty" doc:"Labels used to group APIs."`
}

// -----------------------------------------------------
// RESPONSE BODY
// -----------------------------------------------------

// ApiResponseBody represents the response data for Api operations
type ApiResponseBody struct {
	Id                string   `json:"id,omitempty" doc:"API identifier."`
	Name              string   `json:"name,omitempty" doc:"Unique API name."`
	DisplayName       string   `json:"display_name,omitempty" doc:"Human readable name shown in listings."`
	Description       string   `json:"description,omitempty" doc:"Free-form description of the API."`
	Tags              []string `json:"tags,omitempty" doc:"Labels used to group APIs."`
	CurrentRevisionId string   `json:"current_revision_id,omitempty" doc:"Identifier of the revision currently served."`
	OperationsCount   int64    `json:"operations_count,omitempty" doc:"Number of operations registered under the API."`
	CreatedAt         string   `json:"created_at,omitempty" doc:"Creation timestamp."`
	UpdatedAt         string   `json:"updated_at,omitempty" doc:"Last update timestamp."`
	Url               string   `json:"url,omitempty" doc:"Endpoint URL for API operations on this resource."`
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// Api represents a typed resource for API definition operations
type Api struct {
	*core.TypedGatewayResource
}

// Get retrieves a single API definition with typed request/response
func (r *Api) Get(req *ApiSearchParams) (*ApiResponseBody, error) {
	return r.GetWithContext(r.Untyped.GetCtx(), req)
}

// GetWithContext retrieves a single API definition using the provided context
func (r *Api) GetWithContext(ctx context.Context, req *ApiSearchParams) (*ApiResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).GetWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response ApiResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetById retrieves a single API definition by ID
func (r *Api) GetById(id any) (*ApiResponseBody, error) {
	return r.GetByIdWithContext(r.Untyped.GetCtx(), id)
}

// GetByIdWithContext retrieves a single API definition by ID using the provided context
func (r *Api) GetByIdWithContext(ctx context.Context, id any) (*ApiResponseBody, error) {
	record, err := untypedOf(r.TypedGatewayResource).GetByIdWithContext(ctx, id)
	if err != nil {
		return nil, err
	}

	var response ApiResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// List retrieves multiple API definitions with typed request/response
func (r *Api) List(req *ApiSearchParams) ([]*ApiResponseBody, error) {
	return r.ListWithContext(r.Untyped.GetCtx(), req)
}

// ListWithContext retrieves multiple API definitions using the provided context
func (r *Api) ListWithContext(ctx context.Context, req *ApiSearchParams) ([]*ApiResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	recordSet, err := untypedOf(r.TypedGatewayResource).ListWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	var response []*ApiResponseBody
	if err := recordSet.Fill(&response); err != nil {
		return nil, err
	}

	return response, nil
}

// Create creates a new API definition with typed request/response
func (r *Api) Create(req *ApiRequestBody) (*ApiResponseBody, error) {
	return r.CreateWithContext(r.Untyped.GetCtx(), req)
}

// CreateWithContext creates a new API definition using the provided context
func (r *Api) CreateWithContext(ctx context.Context, req *ApiRequestBody) (*ApiResponseBody, error) {
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

	var response ApiResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Update updates an existing API definition with typed request/response
func (r *Api) Update(id any, req *ApiRequestBody) (*ApiResponseBody, error) {
	return r.UpdateWithContext(r.Untyped.GetCtx(), id, req)
}

// UpdateWithContext updates an existing API definition using the provided context
func (r *Api) UpdateWithContext(ctx context.Context, id any, req *ApiRequestBody) (*ApiResponseBody, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).UpdateWithContext(ctx, id, params)
	if err != nil {
		return nil, err
	}

	var response ApiResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Delete deletes an API definition matching the search parameters
func (r *Api) Delete(req *ApiSearchParams) error {
	return r.DeleteWithContext(r.Untyped.GetCtx(), req)
}

// DeleteWithContext deletes an API definition matching the search parameters using the provided context
func (r *Api) DeleteWithContext(ctx context.Context, req *ApiSearchParams) error {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return err
	}
	_, err = untypedOf(r.TypedGatewayResource).DeleteWithContext(ctx, params, nil, nil)
	return err
}

// DeleteById deletes an API definition by ID
func (r *Api) DeleteById(id any) error {
	return r.DeleteByIdWithContext(r.Untyped.GetCtx(), id)
}

// DeleteByIdWithContext deletes an API definition by ID using the provided context
func (r *Api) DeleteByIdWithContext(ctx context.Context, id any) error {
	_, err := untypedOf(r.TypedGatewayResource).DeleteByIdWithContext(ctx, id, nil, nil)
	return err
}

// Ensure makes sure an API definition matching the search parameters exists
func (r *Api) Ensure(searchParams *ApiSearchParams, body *ApiRequestBody) (*ApiResponseBody, error) {
	return r.EnsureWithContext(r.Untyped.GetCtx(), searchParams, body)
}

// EnsureWithContext makes sure an API definition matching the search parameters exists using the provided context
func (r *Api) EnsureWithContext(ctx context.Context, searchParams *ApiSearchParams, body *ApiRequestBody) (*ApiResponseBody, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	searchParamsConverted, err := core.NewParamsFromStruct(searchParams)
	if err != nil {
		return nil, err
	}
	bodyConverted, err := core.NewParamsFromStruct(body)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).EnsureWithContext(ctx, searchParamsConverted, bodyConverted)
	if err != nil {
		return nil, err
	}

	var response ApiResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// EnsureByName makes sure an API definition with the given name exists
func (r *Api) EnsureByName(name string, body *ApiRequestBody) (*ApiResponseBody, error) {
	return r.EnsureByNameWithContext(r.Untyped.GetCtx(), name, body)
}

// EnsureByNameWithContext makes sure an API definition with the given name exists using the provided context
func (r *Api) EnsureByNameWithContext(ctx context.Context, name string, body *ApiRequestBody) (*ApiResponseBody, error) {
	bodyConverted, err := core.NewParamsFromStruct(body)
	if err != nil {
		return nil, err
	}

	record, err := untypedOf(r.TypedGatewayResource).(*untyped.Api).EnsureByNameWithContext(ctx, name, bodyConverted)
	if err != nil {
		return nil, err
	}

	var response ApiResponseBody
	if err := record.Fill(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Exists checks if an API definition matching the search parameters exists
func (r *Api) Exists(req *ApiSearchParams) (bool, error) {
	return r.ExistsWithContext(r.Untyped.GetCtx(), req)
}

// ExistsWithContext checks if an API definition matching the search parameters exists using the provided context
func (r *Api) ExistsWithContext(ctx context.Context, req *ApiSearchParams) (bool, error) {
	params, err := core.NewParamsFromStruct(req)
	if err != nil {
		return false, err
	}
	return untypedOf(r.TypedGatewayResource).ExistsWithContext(ctx, params)
}
