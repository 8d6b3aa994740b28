package core

import (
	"testing"
)

func TestFlexibleUnmarshal_NumberToString(t *testing.T) {
	type operation struct {
		Name     string `json:"name"`
		Revision string `json:"revision"`
		Timeout  int64  `json:"timeout"`
	}

	// JSON with a number in a string field. Older management planes answered
	// with numeric revision ids.
	jsonData := []byte(`{
		"name": "Get user",
		"revision": 12,
		"timeout": 30
	}`)

	var result operation
	err := FlexibleUnmarshal(jsonData, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Name != "Get user" {
		t.Errorf("expected Name to be 'Get user', got %q", result.Name)
	}

	// This is the key behavior - number 12 should be converted to string "12"
	if result.Revision != "12" {
		t.Errorf("expected Revision to be '12', got %q", result.Revision)
	}

	if result.Timeout != 30 {
		t.Errorf("expected Timeout to be 30, got %d", result.Timeout)
	}
}

func TestFlexibleUnmarshal_BooleanToString(t *testing.T) {
	type revision struct {
		IsCurrent string `json:"is_current"`
	}

	jsonData := []byte(`{"is_current": true}`)

	var result revision
	err := FlexibleUnmarshal(jsonData, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsCurrent != "true" {
		t.Errorf("expected IsCurrent to be 'true', got %q", result.IsCurrent)
	}
}

func TestFlexibleUnmarshal_NestedStruct(t *testing.T) {
	type backend struct {
		Name string `json:"name"`
		Id   string `json:"id"`
	}

	type operation struct {
		Backend backend `json:"backend"`
		Timeout int64   `json:"timeout"`
	}

	// Nested struct with number in string field
	jsonData := []byte(`{
		"backend": {
			"name": "orders-v2",
			"id": 123
		},
		"timeout": 456
	}`)

	var result operation
	err := FlexibleUnmarshal(jsonData, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Backend.Name != "orders-v2" {
		t.Errorf("expected Backend.Name to be 'orders-v2', got %q", result.Backend.Name)
	}

	if result.Backend.Id != "123" {
		t.Errorf("expected Backend.Id to be '123', got %q", result.Backend.Id)
	}

	if result.Timeout != 456 {
		t.Errorf("expected Timeout to be 456, got %d", result.Timeout)
	}
}

func TestFlexibleUnmarshal_ArrayFields(t *testing.T) {
	type operation struct {
		Tags    []string `json:"tags"`
		Values  []string `json:"values"`
		Weights []int64  `json:"weights"`
	}

	// Array with mixed types in string array
	jsonData := []byte(`{
		"tags": ["users", "admin", "v2"],
		"values": ["text", 123, true],
		"weights": [1, 2, 3]
	}`)

	var result operation
	err := FlexibleUnmarshal(jsonData, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Tags) != 3 {
		t.Errorf("expected 3 tags, got %d", len(result.Tags))
	}

	if len(result.Values) != 3 {
		t.Errorf("expected 3 values, got %d", len(result.Values))
	}

	// Check that numbers and booleans were converted to strings
	if result.Values[0] != "text" {
		t.Errorf("expected Values[0] to be 'text', got %q", result.Values[0])
	}
	if result.Values[1] != "123" {
		t.Errorf("expected Values[1] to be '123', got %q", result.Values[1])
	}
	if result.Values[2] != "true" {
		t.Errorf("expected Values[2] to be 'true', got %q", result.Values[2])
	}

	// Numbers should remain numbers
	if len(result.Weights) != 3 || result.Weights[0] != 1 || result.Weights[1] != 2 || result.Weights[2] != 3 {
		t.Errorf("expected Weights to be [1, 2, 3], got %v", result.Weights)
	}
}

func TestFlexibleUnmarshal_NullValues(t *testing.T) {
	type operation struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	jsonData := []byte(`{
		"name": "Get user",
		"description": null
	}`)

	var result operation
	err := FlexibleUnmarshal(jsonData, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Name != "Get user" {
		t.Errorf("expected Name to be 'Get user', got %q", result.Name)
	}

	// Null should become empty string
	if result.Description != "" {
		t.Errorf("expected Description to be empty, got %q", result.Description)
	}
}

func TestFlexibleUnmarshal_FloatToString(t *testing.T) {
	type namedValue struct {
		Value string `json:"value"`
	}

	jsonData := []byte(`{"value": 123.456}`)

	var result namedValue
	err := FlexibleUnmarshal(jsonData, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Value != "123.456" {
		t.Errorf("expected Value to be '123.456', got %q", result.Value)
	}
}

func TestFlexibleUnmarshal_IntegerAsFloat(t *testing.T) {
	type namedValue struct {
		Value string `json:"value"`
	}

	// JSON numbers are always floats in Go's json.Unmarshal
	jsonData := []byte(`{"value": 123.0}`)

	var result namedValue
	err := FlexibleUnmarshal(jsonData, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should be "123" not "123.0"
	if result.Value != "123" {
		t.Errorf("expected Value to be '123', got %q", result.Value)
	}
}

func TestFlexibleUnmarshal_PointerFields(t *testing.T) {
	type operation struct {
		Name     string  `json:"name"`
		Revision *string `json:"revision"`
	}

	jsonData := []byte(`{"name": "Get user", "revision": 7}`)

	var result operation
	err := FlexibleUnmarshal(jsonData, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Revision == nil {
		t.Fatal("expected Revision pointer to be set")
	}
	if *result.Revision != "7" {
		t.Errorf("expected Revision to be '7', got %q", *result.Revision)
	}
}
