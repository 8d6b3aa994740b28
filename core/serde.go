package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/bndr/gotabulate"
)

const (
	ResourceTypeKey = "@resourceType"
	customRawKey    = "@raw" // used to store raw scalar values in Record
)

var empty = struct{}{}
var printableAttrs = map[string]struct{}{
	"id":           empty,
	"name":         empty,
	"display_name": empty,
	"description":  empty,
	"method":       empty,
	"url_template": empty,
	"path":         empty,
	"state":        empty,
	"api_id":       empty,
	"revision_id":  empty,
	"backend_id":   empty,
	"operation_id": empty,
	"stage":        empty,
	"is_current":   empty,
	"version":      empty,
	"value":        empty,
	"created_at":   empty,
	"updated_at":   empty,
}

type FillFunc func(Record, any) error

var fillFunc FillFunc = func(r Record, container any) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	// FlexibleUnmarshal tolerates numeric ids from older control planes
	// landing in string fields.
	return FlexibleUnmarshal(raw, container)
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value parameters,
// used for constructing query strings or request bodies.
type Params map[string]any

// FileData represents a file to be uploaded in multipart form data
type FileData struct {
	Filename string
	Content  []byte
}

// ToQuery serializes the Params into a URL-encoded query string.
// This is useful for GET requests where parameters are passed via the URL.
func (pr *Params) ToQuery() string {
	return convertMapToQuery(*pr)
}

// ToBody serializes the Params into a JSON-encoded io.Reader,
// suitable for use as the body of an HTTP POST, PUT, or PATCH request.
func (pr *Params) ToBody() (io.Reader, error) {
	buffer, err := json.Marshal(*pr)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// MultipartFormData represents the result of ToMultipartFormData()
type MultipartFormData struct {
	Body        io.Reader
	ContentType string
}

// ToMultipartFormData serializes the Params into multipart/form-data format.
// Files should be provided as FileData values in the Params map.
// Returns a MultipartFormData struct containing the body and content type.
func (pr *Params) ToMultipartFormData() (*MultipartFormData, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range *pr {
		switch v := value.(type) {
		case FileData:
			fileWriter, err := writer.CreateFormFile(key, v.Filename)
			if err != nil {
				return nil, fmt.Errorf("failed to create form file for %s: %w", key, err)
			}
			if _, err := fileWriter.Write(v.Content); err != nil {
				return nil, fmt.Errorf("failed to write file content for %s: %w", key, err)
			}
		case []byte:
			// Raw byte payloads become files keyed by the field name.
			fileWriter, err := writer.CreateFormFile(key, key)
			if err != nil {
				return nil, fmt.Errorf("failed to create form file for %s: %w", key, err)
			}
			if _, err := fileWriter.Write(v); err != nil {
				return nil, fmt.Errorf("failed to write byte content for %s: %w", key, err)
			}
		default:
			if err := writer.WriteField(key, fmt.Sprintf("%v", value)); err != nil {
				return nil, fmt.Errorf("failed to write field %s: %w", key, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &MultipartFormData{
		Body:        &body,
		ContentType: writer.FormDataContentType(),
	}, nil
}

// Update merges another Params map into the original Params.
// Existing keys are overwritten only when `override` is true;
// missing keys are always added.
func (pr *Params) Update(other Params, override bool) {
	for key, value := range other {
		if _, exists := (*pr)[key]; exists && !override {
			continue
		}
		(*pr)[key] = value
	}
}

// UpdateWithout merges another Params map into the original Params,
// skipping any key listed in `without`. Existing keys are overwritten
// only when `override` is true.
func (pr *Params) UpdateWithout(other Params, override bool, without []string) {
	for key, value := range other {
		if contains(without, key) {
			continue
		}
		if _, exists := (*pr)[key]; exists && !override {
			continue
		}
		(*pr)[key] = value
	}
}

// Without removes the specified keys from the Params map.
// This is useful when you want to exclude certain parameters before sending a request.
func (pr *Params) Without(keys ...string) {
	for _, key := range keys {
		delete(*pr, key)
	}
}

// FromStruct converts any struct to Params while maintaining the json tags as keys.
// This method uses reflection to directly extract struct fields and their json tags,
// avoiding the overhead of JSON marshaling/unmarshaling.
//
// Example usage:
//
//	type MyRequest struct {
//	    Name     string `json:"name"`
//	    Age      int    `json:"age"`
//	    Optional *bool  `json:"optional,omitempty"`
//	}
//
//	req := MyRequest{Name: "John", Age: 30}
//	params := make(Params)
//	err := params.FromStruct(req)
//	// params now contains: {"name": "John", "age": 30}
//
// Returns an error if the input is not a struct or pointer to struct.
func (pr *Params) FromStruct(obj any) error {
	if obj == nil {
		return nil
	}
	for key, value := range structToMap(obj) {
		(*pr)[key] = value
	}
	return nil
}

// NewParamsFromStruct creates a new Params map from any struct, respecting json tags.
//
// Special handling for RawData field:
// If the struct has a RawData field (type Params) with len > 0, the RawData map is
// returned directly instead of parsing the struct fields. This allows bypassing
// typed field parsing when custom query parameters are needed.
//
// Example usage:
//
//	type MyRequest struct {
//	    Name    string `json:"name"`
//	    RawData Params `json:"-"`
//	}
//
//	// Using typed fields:
//	params, err := NewParamsFromStruct(MyRequest{Name: "billing"})
//	// params contains: {"name": "billing"}
//
//	// Using RawData (bypasses typed fields):
//	params, err := NewParamsFromStruct(MyRequest{RawData: Params{"name__contains": "bil"}})
//	// params contains: {"name__contains": "bil"}
func NewParamsFromStruct(obj any) (Params, error) {
	params := make(Params)
	if obj == nil {
		return params, nil
	}

	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return params, nil
		}
		val = val.Elem()
	}

	if val.Kind() == reflect.Struct {
		rawDataField := val.FieldByName("RawData")
		if rawDataField.IsValid() && rawDataField.Type() == reflect.TypeOf(Params{}) {
			if rawData, ok := rawDataField.Interface().(Params); ok && len(rawData) > 0 {
				return rawData, nil
			}
		}
	}

	err := params.FromStruct(obj)
	return params, err
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// getPrintableAttrs returns a slice of keys to be printed from the Record
func getPrintableAttrs(r Record) []string {
	var attrs []string
	for key := range r {
		if _, ok := printableAttrs[key]; ok {
			attrs = append(attrs, key)
		}
	}
	sort.Strings(attrs) // Sort to keep consistent order
	return attrs
}

// Renderable is an interface implemented by types that can render themselves
// into a human-readable string format, typically for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Filler is a generic interface for filling a struct or slice of structs.
type Filler interface {
	// Fill populates the given container with data from the implementing type.
	// The container can be a pointer to a struct (for Record),
	// or a pointer to a slice of structs (for RecordSet).
	Fill(container any) error
}

// DisplayableRecord combines rendering and data population for values
// deserialized from a GMS response, whether a single object or a list.
type DisplayableRecord interface {
	Renderable
	Filler
}

// Record represents a single generic data object as a key-value map.
// It's commonly used to unmarshal a single JSON object from an API response.
// When a response is empty (e.g., 204 No Content), an empty Record{} is returned.
type Record map[string]any

// RecordSet represents a list of Record objects.
// It is typically used to represent responses containing multiple items.
type RecordSet []Record

// RecordUnion defines a union of supported record types for generic operations.
// It can be a single Record or a RecordSet.
// This allows functions to operate on any supported response type
// using Go generics.
type RecordUnion interface {
	Record | RecordSet
}

// Fill populates the exported fields of the given struct pointer using values
// from the Record. Keys are matched to struct fields via their `json` tags and
// values pass through the configured FillFunc, which by default performs
// flexible type conversion (numbers arriving for string fields become strings).
//
// The target container must be a non-nil pointer to a struct.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	return fillFunc(r, container)
}

// RecordID returns the ID of the record as a string.
// It looks up the "id" field in the record map.
func (r Record) RecordID() string {
	idVal, ok := r["id"]
	if !ok {
		panic(fmt.Sprintf("record id not found in record %s", r.PrettyTable()))
	}
	strIdVal, err := toString(idVal)
	if err != nil {
		panic(err)
	}
	return strIdVal
}

// RecordName returns the name of the record as a string.
// It looks up the "name" field in the record map.
func (r Record) RecordName() string {
	nameVal, ok := r["name"]
	if !ok {
		panic(fmt.Sprintf("record name not found in record %s", r.PrettyTable()))
	}
	return fmt.Sprintf("%v", nameVal)
}

// RecordState returns the lifecycle state of the record as a string.
// It looks up the "state" field in the record map.
func (r Record) RecordState() string {
	stateVal, ok := r["state"]
	if !ok {
		panic(fmt.Sprintf("record state not found in record %s", r.PrettyTable()))
	}
	return fmt.Sprintf("%v", stateVal)
}

// RecordApiID returns the owning API's id as a string.
// It looks up the "api_id" field in the record map.
func (r Record) RecordApiID() string {
	idVal, ok := r["api_id"]
	if !ok {
		panic(fmt.Sprintf("record api_id not found in record %s", r.PrettyTable()))
	}
	strIdVal, err := toString(idVal)
	if err != nil {
		panic(err)
	}
	return strIdVal
}

// SetMissingValue If the key is not present in the Record, set it to the provided value
func (r Record) SetMissingValue(key string, value any) {
	if _, exists := r[key]; !exists {
		r[key] = value
	}
}

// PrettyTable prints a single Record as a table
func (r Record) PrettyTable() string {
	headers := []string{"attr", "value"}
	var rows [][]any
	var name string
	if resourceTyp, ok := r[ResourceTypeKey]; ok {
		name = resourceTyp.(string)
	}
	if len(r) == 0 {
		return "<>"
	}
	// Iterate over printable attributes and add them to rows
	for _, key := range getPrintableAttrs(r) {
		if val, ok := r[key]; ok && val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}

	// Collect remaining attributes that are not in printableAttrs
	remainingAttrs := make(map[string]any)
	for key, value := range r {
		if _, ok := printableAttrs[key]; !ok {
			if key == ResourceTypeKey || value == nil {
				continue
			}
			remainingAttrs[key] = value
		}
	}
	if len(remainingAttrs) > 0 {
		// Marshal remainingAttrs into compact JSON
		remainingJSON, _ := json.Marshal(remainingAttrs)
		rows = append(rows, []any{"<<remaining attrs>>", string(remainingJSON)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	if name != "" {
		return fmt.Sprintf("%s:\n%s", name, t.Render("grid"))
	}
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(r, "", indent[0])
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

func (r Record) String() string {
	return r.PrettyTable()
}

// Fill populates the provided container slice with data from the RecordSet.
// The container must be a non-nil pointer to a slice of structs. Each Record
// in the RecordSet is filled into a fresh element, so both *[]T and *[]*T
// container shapes work.
//
// Example usage:
//
//	var ops []Operation
//	err := recordSet.Fill(&ops)
//	if err != nil {
//	    // handle error
//	}
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}

	sliceVal := val.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}

	elemType := sliceVal.Type().Elem()
	isPtrElem := elemType.Kind() == reflect.Ptr

	var targetType reflect.Type
	if isPtrElem {
		if elemType.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be pointer to a struct")
		}
		targetType = elemType.Elem()
	} else {
		if elemType.Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be a struct")
		}
		targetType = elemType
	}

	for _, record := range rs {
		elemPtr := reflect.New(targetType)
		if err := record.Fill(elemPtr.Interface()); err != nil {
			return err
		}
		if isPtrElem {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
		}
	}
	return nil
}

// PrettyTable prints the full RecordSet by rendering each individual Record
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var out strings.Builder
	out.WriteString("[\n")
	for i, record := range rs {
		out.WriteString(record.PrettyTable())
		if i < len(rs)-1 {
			out.WriteString("\n\n") // separate entries with a blank line
		}
	}
	out.WriteString("\n]")
	return out.String()
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

// PrettyJson prints the RecordSet as JSON, optionally indented
func (rs RecordSet) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(rs, "", indent[0])
	} else {
		b, err = json.Marshal(rs)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// unmarshalToRecordUnion parses an HTTP response body into one of the supported record types:
// - Record: a map representing a single JSON object (empty Record{} for empty responses or 204 No Content).
// - RecordSet: a slice of Records representing a JSON array.
//
// It inspects the first non-whitespace character of the response body to determine whether
// to unmarshal it into a Record or RecordSet. If the JSON format is unsupported (i.e., not an object or array),
// an error is returned.
func unmarshalToRecordUnion(response *http.Response) (Renderable, error) {
	defer response.Body.Close()

	// Handle empty response
	if response.ContentLength == 0 || response.StatusCode == http.StatusNoContent {
		return Record{}, nil
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	// Check first non-whitespace character
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Record{}, nil
	}
	switch trimmed[0] {
	case '{': // JSON object
		var rec Record
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case '[': // JSON array
		// First try to unmarshal as RecordSet (array of objects)
		var recSet RecordSet
		if err := json.Unmarshal(body, &recSet); err == nil {
			return recSet, nil
		}
		// If that fails, it might be an array of any type, convert each to Record
		var anySlice []any
		if err := json.Unmarshal(body, &anySlice); err != nil {
			return nil, err
		}
		recordSet := make(RecordSet, len(anySlice))
		for i, item := range anySlice {
			recordSet[i] = Record{customRawKey: item}
		}
		return recordSet, nil
	case '"': // string
		return Record{customRawKey: body}, nil
	default:
		return nil, fmt.Errorf("unsupported JSON format: must be object or array")
	}
}

// applyCallbackForRecordUnion applies the provided callback function to a response if
// the response type matches the specified generic type T. It supports different types
// of Renderable responses (Record and RecordSet), and will only apply the
// callback for the exact type matching the generic type T.
func applyCallbackForRecordUnion[T RecordUnion](response Renderable, callback func(Renderable) (Renderable, error)) (Renderable, error) {
	switch typed := response.(type) {
	case Record:
		var zero T
		if _, ok := any(zero).(Record); ok {
			return callback(typed)
		}
		return typed, nil

	case RecordSet:
		var zero T
		if _, ok := any(zero).(RecordSet); ok {
			return callback(typed)
		}
		return typed, nil

	default:
		return nil, fmt.Errorf("unsupported type %T for result", response)
	}
}

// typeMatch checks whether the dynamic type of given Renderable value
// matches the generic type T at runtime.
//
// It is typically used to determine if a response object corresponds to
// a specific expected data type (e.g., RecordSet or Record).
//
// Example usage:
//
//	if typeMatch[RecordSet](someRenderable) {
//	    // val is of type RecordSet
//	}
func typeMatch[T RecordUnion](val Renderable) bool {
	var zero T
	return reflect.TypeOf(val) == reflect.TypeOf(zero)
}

// setResourceKey sets resource type key for tabular formatting (only if not already set).
func setResourceKey(result Renderable, resourceType string) error {
	switch v := result.(type) {
	case Record:
		if _, ok := v[ResourceTypeKey]; !ok && len(v) > 0 {
			v[ResourceTypeKey] = resourceType
		}
		return nil
	case RecordSet:
		for _, rec := range v {
			if _, ok := rec[ResourceTypeKey]; !ok && len(rec) > 0 {
				rec[ResourceTypeKey] = resourceType
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported type")
	}
}

// ModelToRecord converts any typed model struct to a Record with @resourceType.
// This is a helper function for typed resources to convert their models to Records.
func ModelToRecord(model any) Record {
	jsonBytes, err := json.Marshal(model)
	if err != nil {
		panic(fmt.Sprintf("failed to marshal struct: %v", err))
	}

	record := make(Record)
	if err := json.Unmarshal(jsonBytes, &record); err != nil {
		panic(fmt.Sprintf("failed to unmarshal to record: %v", err))
	}

	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	record[ResourceTypeKey] = modelType.Name()

	return record
}
