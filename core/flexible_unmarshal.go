package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// FlexibleUnmarshal unmarshals JSON with lenient typing for string fields.
// GMS identifiers are strings, but some control-plane builds emit them as
// JSON numbers; any scalar arriving for a string field is stringified before
// the final decode so both shapes fill the same struct.
func FlexibleUnmarshal(data []byte, target any) error {
	var rawData map[string]any
	if err := json.Unmarshal(data, &rawData); err != nil {
		return err
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer")
	}
	targetElem := targetValue.Elem()
	if targetElem.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	coerced := coerceToFieldTypes(rawData, targetElem.Type())

	coercedJSON, err := json.Marshal(coerced)
	if err != nil {
		return err
	}
	return json.Unmarshal(coercedJSON, target)
}

// coerceToFieldTypes rewrites map values so they decode cleanly into the
// struct's field types, recursing through nested objects.
func coerceToFieldTypes(data map[string]any, structType reflect.Type) map[string]any {
	result := make(map[string]any, len(data))
	for key, value := range data {
		field, found := lookupFieldByTag(structType, key)
		if !found {
			result[key] = value
			continue
		}
		result[key] = coerceValue(value, field.Type)
	}
	return result
}

// coerceValue converts a single decoded value to suit the target type.
func coerceValue(value any, targetType reflect.Type) any {
	if value == nil {
		return nil
	}

	switch targetType.Kind() {
	case reflect.String:
		return stringifyScalar(value)

	case reflect.Slice:
		if arr, ok := value.([]any); ok {
			out := make([]any, len(arr))
			for i, item := range arr {
				out[i] = coerceValue(item, targetType.Elem())
			}
			return out
		}

	case reflect.Ptr:
		return coerceValue(value, targetType.Elem())

	case reflect.Struct:
		if m, ok := value.(map[string]any); ok {
			return coerceToFieldTypes(m, targetType)
		}
	}

	return value
}

// stringifyScalar renders a decoded JSON scalar as a string.
func stringifyScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// lookupFieldByTag finds a struct field by the name part of its json tag.
func lookupFieldByTag(structType reflect.Type, jsonTag string) (reflect.StructField, bool) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tagName, _ := parseJSONTag(field.Tag.Get("json"))
		if tagName != "" && tagName == jsonTag {
			return field, true
		}
	}
	return reflect.StructField{}, false
}
