package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// toInt coerces numeric JSON values into an int64.
func toInt(val any) (int64, error) {
	switch v := val.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type for numeric field: %T", v)
	}
}

// toString coerces scalar JSON values into their string form. GMS resource
// identifiers are strings on the wire, but older control planes answered with
// numeric ids; both shapes collapse to the same string here.
func toString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unexpected type for identifier field: %T", v)
	}
}

// ToRecord converts a plain map into a Record.
func ToRecord(m map[string]any) Record {
	converted := make(Record, len(m))
	for k, v := range m {
		converted[k] = v
	}
	return converted
}

func toRecordSet(list []map[string]any) RecordSet {
	records := make(RecordSet, 0, len(list))
	for _, item := range list {
		records = append(records, ToRecord(item))
	}
	return records
}

// contains checks if an item is present in a slice
func contains[T comparable](slice []T, item T) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("must: %v", err))
	}
	return v
}

// BuildResourcePathWithID builds a resource path addressing a single record,
// with optional trailing sub-collection segments.
// GMS identifiers are opaque strings ("api-billing", "op-users-get-7"), so the
// id is rendered verbatim after the collection path.
// Example: BuildResourcePathWithID("apis", "api-billing", "operations")
// returns "/apis/api-billing/operations".
func BuildResourcePathWithID(resourcePath string, id any, segments ...string) string {
	path := fmt.Sprintf("/%s/%v", strings.Trim(resourcePath, "/"), id)
	for _, segment := range segments {
		path += "/" + strings.Trim(segment, "/")
	}
	return path
}

// structToMap converts a struct to a map[string]any using reflection,
// respecting json tags and recursing into nested structs. Keeping this out of
// the marshal/unmarshal path avoids a JSON round trip per request.
func structToMap(item any) map[string]any {
	res := map[string]any{}
	if item == nil {
		return res
	}

	typ := reflect.TypeOf(item)
	val := reflect.Indirect(reflect.ValueOf(item))
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return res
	}

	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		if !field.CanInterface() {
			continue
		}

		tagName, omitEmpty := parseJSONTag(typ.Field(i).Tag.Get("json"))
		if tagName == "" || tagName == "-" {
			continue
		}

		switch {
		case field.Kind() == reflect.Ptr:
			if field.IsNil() {
				if omitEmpty {
					continue
				}
				res[tagName] = nil
			} else if field.Elem().Kind() == reflect.Struct {
				res[tagName] = structToMap(field.Interface())
			} else {
				// Non-nil pointers to primitives are always included;
				// omitempty only drops nil pointers, matching encoding/json.
				res[tagName] = field.Elem().Interface()
			}

		case field.Kind() == reflect.Struct:
			// encoding/json renders empty structs as {} even with omitempty,
			// so nested structs are never dropped here either.
			res[tagName] = structToMap(field.Interface())

		case field.Kind() == reflect.Slice || field.Kind() == reflect.Array:
			if omitEmpty && (field.Kind() == reflect.Slice && field.IsNil() || field.Len() == 0) {
				continue
			}
			res[tagName] = field.Interface()

		default:
			if omitEmpty && isZeroValue(field) {
				continue
			}
			res[tagName] = field.Interface()
		}
	}
	return res
}

// parseJSONTag splits a json struct tag into the field name and the omitempty flag.
func parseJSONTag(tag string) (name string, omitEmpty bool) {
	if tag == "" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
			break
		}
	}
	return name, omitEmpty
}

// isZeroValue reports whether v is the zero value for its type.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Complex64, reflect.Complex128:
		return v.Complex() == 0
	case reflect.Array, reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	case reflect.String:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
