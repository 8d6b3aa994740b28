package core

import (
	"context"
	"fmt"
	"strings"
)

// ######################################################
//              ITERATOR INTERFACES
// ######################################################

// Iterator provides an interface for iterating over paginated or non-paginated API results.
// It abstracts away the differences between paginated resources (with next/previous links)
// and non-paginated resources (flat lists).
type Iterator interface {
	// Next advances to the next page and returns the records and any error.
	// Returns empty RecordSet when there are no more pages.
	Next() (RecordSet, error)

	// Previous moves to the previous page and returns the records and any error.
	// Returns empty RecordSet when there is no previous page.
	Previous() (RecordSet, error)

	// HasNext returns true if there is a next page available.
	HasNext() bool

	// HasPrevious returns true if there is a previous page available.
	HasPrevious() bool

	// Count returns the total count of items (if available from pagination metadata).
	// Returns -1 if count information is not available.
	Count() int

	// PageSize returns the current page size.
	PageSize() int

	// Reset resets the iterator to the first page and returns the first page records.
	Reset() (RecordSet, error)

	// All fetches all remaining pages and returns all records as a single RecordSet.
	// This should be used with caution for large datasets.
	All() (RecordSet, error)
}

// ######################################################
//              RESOURCE ITERATOR IMPLEMENTATION
// ######################################################

// ResourceIterator implements the Iterator interface for GMS resources.
// It makes raw HTTP requests to preserve pagination metadata from the API.
//
// Paginated GMS collections answer with an envelope:
//
//	{"value": [...], "count": N, "nextLink": "...", "prevLink": "..."}
//
// Non-paginated collections answer with a bare JSON array; both shapes are
// handled transparently.
type ResourceIterator struct {
	resource     GatewayResourceAPIWithContext
	ctx          context.Context
	initialQuery Params
	pageSize     int

	current     RecordSet
	nextURL     *string
	previousURL *string
	totalCount  int
	currentPage int
	err         error
	initialized bool
}

// NewResourceIterator creates an iterator that makes raw HTTP requests to preserve pagination metadata.
// If pageSize is 0 or negative, uses the session's configured PageSize (default: 0 means no page_size param sent).
func NewResourceIterator(ctx context.Context, resource GatewayResourceAPIWithContext, params Params, pageSize int) Iterator {
	if pageSize <= 0 {
		// Get default page size from session config
		config := resource.Session().GetConfig()
		pageSize = config.PageSize // May be 0, which means don't send page_size param
	}

	if params == nil {
		params = make(Params)
	}
	// Only add page_size to params if pageSize > 0
	if _, exists := params["page_size"]; !exists && pageSize > 0 {
		params["page_size"] = pageSize
	}

	return &ResourceIterator{
		resource:     resource,
		ctx:          ctx,
		initialQuery: params,
		pageSize:     pageSize,
		totalCount:   -1,
		currentPage:  0,
		initialized:  false,
	}
}

// setCurrentRecords stores the page and stamps every record with the resource type.
func (it *ResourceIterator) setCurrentRecords(records RecordSet) error {
	it.current = records
	resourceType := it.resource.GetResourceType()
	if resourceType != "Dummy" {
		return setResourceKey(it.current, resourceType)
	}
	return nil
}

// fetchPage makes a raw HTTP request and processes the pagination envelope.
func (it *ResourceIterator) fetchPage(url string, params Params) error {
	session := it.resource.Session()

	// Make raw HTTP request
	var response Renderable
	var err error

	if url != "" {
		// Use the full URL for nextLink/prevLink navigation
		response, err = session.Get(it.ctx, url, nil, nil)
	} else {
		// Use resource path with params for first request
		resourcePath := it.resource.GetResourcePath()
		query := params.ToQuery()
		fullURL, buildErr := buildUrl(session, resourcePath, query, session.GetConfig().ApiVersion)
		if buildErr != nil {
			return buildErr
		}
		response, err = session.Get(it.ctx, fullURL, nil, nil)
	}

	if err != nil {
		return err
	}

	// Check if response is a pagination envelope
	if record, ok := response.(Record); ok {
		return it.processPaginationEnvelope(record)
	}

	// If it's already a RecordSet, it's been unwrapped - treat as non-paginated
	if recordSet, ok := response.(RecordSet); ok {
		it.nextURL = nil
		it.previousURL = nil
		it.totalCount = len(recordSet)
		return it.setCurrentRecords(recordSet)
	}

	return fmt.Errorf("unexpected response type: %T", response)
}

// processPaginationEnvelope extracts the page from a {value,count,nextLink,prevLink} envelope.
func (it *ResourceIterator) processPaginationEnvelope(envelope Record) error {
	_, hasValue := envelope["value"]
	_, hasCount := envelope["count"]

	if !hasValue || !hasCount {
		// Not a pagination envelope - treat the record itself as the result
		it.nextURL = nil
		it.previousURL = nil
		it.totalCount = 1
		return it.setCurrentRecords(RecordSet{envelope})
	}

	records, err := envelopeValueToRecords(envelope["value"])
	if err != nil {
		return err
	}
	if err = it.setCurrentRecords(records); err != nil {
		return err
	}

	if count, err := toInt(envelope["count"]); err == nil {
		it.totalCount = int(count)
	}
	it.nextURL = envelopeLink(envelope, "nextLink")
	it.previousURL = envelopeLink(envelope, "prevLink")
	return nil
}

// envelopeValueToRecords converts the "value" array of a pagination envelope
// into a RecordSet.
func envelopeValueToRecords(raw any) (RecordSet, error) {
	switch items := raw.(type) {
	case []map[string]any:
		return toRecordSet(items), nil
	case []any:
		converted := make([]map[string]any, 0, len(items))
		for _, item := range items {
			record, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("unexpected type in value array: %T", item)
			}
			converted = append(converted, record)
		}
		return toRecordSet(converted), nil
	case nil:
		return RecordSet{}, nil
	default:
		return nil, fmt.Errorf("unexpected type for value field: %T", raw)
	}
}

// envelopeLink returns the pagination link under key, or nil when absent or empty.
func envelopeLink(envelope Record, key string) *string {
	if link, ok := envelope[key].(string); ok && link != "" {
		return &link
	}
	return nil
}

// Next advances to the next page and returns the records and any error.
func (it *ResourceIterator) Next() (RecordSet, error) {
	if !it.initialized {
		it.err = it.fetchPage("", it.initialQuery)
		it.initialized = true
		if it.err != nil {
			return RecordSet{}, it.err
		}
		return it.current, nil
	}

	if !it.HasNext() {
		return RecordSet{}, nil
	}

	it.err = it.fetchPage(*it.nextURL, nil)
	if it.err != nil {
		return RecordSet{}, it.err
	}

	it.currentPage++
	return it.current, nil
}

// Previous moves to the previous page and returns the records and any error.
func (it *ResourceIterator) Previous() (RecordSet, error) {
	if !it.initialized {
		it.err = fmt.Errorf("iterator not initialized, call Next() first")
		return RecordSet{}, it.err
	}

	if !it.HasPrevious() {
		return RecordSet{}, nil
	}

	it.err = it.fetchPage(*it.previousURL, nil)
	if it.err != nil {
		return RecordSet{}, it.err
	}

	it.currentPage--
	return it.current, nil
}

// HasNext returns true if there is a next page.
func (it *ResourceIterator) HasNext() bool {
	if !it.initialized {
		return true
	}
	return it.nextURL != nil && *it.nextURL != ""
}

// HasPrevious returns true if there is a previous page.
func (it *ResourceIterator) HasPrevious() bool {
	if !it.initialized {
		return false
	}
	return it.previousURL != nil && *it.previousURL != ""
}

// Count returns the total count of items.
func (it *ResourceIterator) Count() int {
	return it.totalCount
}

// PageSize returns the page size.
func (it *ResourceIterator) PageSize() int {
	return it.pageSize
}

// String returns a formatted string representation of the iterator state.
func (it *ResourceIterator) String() string {
	var sb strings.Builder

	sb.WriteString("ResourceIterator {\n")
	sb.WriteString(fmt.Sprintf("  Initialized:   %v\n", it.initialized))
	sb.WriteString(fmt.Sprintf("  Current Page:  %d\n", it.currentPage))
	sb.WriteString(fmt.Sprintf("  Page Size:     %d\n", it.pageSize))
	sb.WriteString(fmt.Sprintf("  Total Count:   %d\n", it.totalCount))

	// Show current records with count
	if it.current != nil && len(it.current) > 0 {
		sb.WriteString(fmt.Sprintf("  Current:       [... (%d items)]\n", len(it.current)))
	} else {
		sb.WriteString("  Current:       []\n")
	}

	// Show next URL
	if it.nextURL != nil && *it.nextURL != "" {
		sb.WriteString(fmt.Sprintf("  Next URL:      %s\n", *it.nextURL))
	} else {
		sb.WriteString("  Next URL:      <none>\n")
	}

	// Show previous URL
	if it.previousURL != nil && *it.previousURL != "" {
		sb.WriteString(fmt.Sprintf("  Previous URL:  %s\n", *it.previousURL))
	} else {
		sb.WriteString("  Previous URL:  <none>\n")
	}

	// Show error if any
	if it.err != nil {
		sb.WriteString(fmt.Sprintf("  Error:         %v\n", it.err))
	}

	sb.WriteString("}")
	return sb.String()
}

// Reset resets the iterator to the first page and returns the first page records.
func (it *ResourceIterator) Reset() (RecordSet, error) {
	it.initialized = false
	it.current = nil
	it.nextURL = nil
	it.previousURL = nil
	it.currentPage = 0
	it.err = nil
	it.totalCount = -1

	return it.Next()
}

// All fetches all pages and returns all records.
func (it *ResourceIterator) All() (RecordSet, error) {
	var allRecords RecordSet

	if !it.initialized {
		records, err := it.Next()
		if err != nil {
			return nil, err
		}
		allRecords = append(allRecords, records...)
	} else {
		// Include current page if already initialized
		allRecords = append(allRecords, it.current...)
	}

	for it.HasNext() {
		records, err := it.Next()
		if err != nil {
			return nil, err
		}
		allRecords = append(allRecords, records...)
	}

	return allRecords, nil
}
