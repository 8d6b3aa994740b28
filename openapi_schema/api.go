package openapi_schema

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gateway-mirror/go-gateway-client/routetree"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// PoliciesExtensionKey is the vendor extension under which every exported
// operation carries its four-stage policy map.
const PoliciesExtensionKey = "x-gateway-policies"

// DocumentInfo describes the header of an exported OpenAPI document.
// Empty fields fall back to neutral defaults so the document always passes
// OpenAPI validation.
type DocumentInfo struct {
	Title       string
	Description string
	Version     string
}

var supportedMethods = map[string]struct{}{
	http.MethodConnect: {},
	http.MethodDelete:  {},
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodOptions: {},
	http.MethodPatch:   {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodTrace:   {},
}

// BuildDocument renders a compiled operation table as an OpenAPI v3 document.
//
// One PathItem is created per URL template and one Operation per method.
// Each operation carries the generated operation ID, the display name as its
// summary, the merged tags, the template parameters as required string path
// parameters, and a default JSON response. Policy fragments ride in the
// PoliciesExtensionKey vendor extension.
//
// Parameters:
//   - info: document header values. Empty fields get neutral defaults.
//   - entries: the operation table rows, typically Compiler output.
//
// Returns:
//   - *openapi3.T: the assembled document.
//   - error: if an entry has an empty or unsupported method, an empty URL
//     template, or duplicates another entry's (URL template, method) pair.
func BuildDocument(info DocumentInfo, entries []routetree.OperationEntry) (*openapi3.T, error) {
	if info.Title == "" {
		info.Title = "Gateway API"
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Description: info.Description,
			Version:     info.Version,
		},
		Paths: openapi3.NewPaths(),
	}

	seen := make(map[string]struct{}, len(entries))
	docTags := make(map[string]struct{})

	for _, entry := range entries {
		if entry.URLTemplate == "" {
			return nil, fmt.Errorf("operation %q: empty URL template", entry.Identifier)
		}
		method := strings.ToUpper(entry.Method)
		if _, ok := supportedMethods[method]; !ok {
			return nil, fmt.Errorf("operation %q: unsupported HTTP method %q", entry.Identifier, entry.Method)
		}
		key := method + " " + entry.URLTemplate
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate operation for %s", key)
		}
		seen[key] = struct{}{}

		op := openapi3.NewOperation()
		op.OperationID = entry.Identifier
		op.Summary = entry.DisplayName
		op.Tags = entry.Tags
		for _, tag := range entry.Tags {
			docTags[tag] = struct{}{}
		}

		for _, param := range entry.Parameters {
			p := openapi3.NewPathParameter(param.Name)
			p.Required = param.Required
			p.Schema = openapi3.NewStringSchema().NewRef()
			op.AddParameter(p)
		}

		response := openapi3.NewResponse().
			WithDescription("Backend response passed through the gateway").
			WithJSONSchema(openapi3.NewObjectSchema())
		op.AddResponse(0, response)

		if len(entry.Policies) > 0 {
			op.Extensions = map[string]any{PoliciesExtensionKey: entry.Policies}
		}

		pathItem := doc.Paths.Value(entry.URLTemplate)
		if pathItem == nil {
			pathItem = &openapi3.PathItem{}
			doc.Paths.Set(entry.URLTemplate, pathItem)
		}
		pathItem.SetOperation(method, op)
	}

	if len(docTags) > 0 {
		names := make([]string, 0, len(docTags))
		for name := range docTags {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			doc.Tags = append(doc.Tags, &openapi3.Tag{Name: name})
		}
	}

	return doc, nil
}

// DocumentJSON serializes the document as indented JSON.
func DocumentJSON(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// DocumentYAML serializes the document as YAML. The document is rendered
// through its JSON form so extension values marshal exactly as in JSON
// output.
func DocumentYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return yaml.Marshal(tree)
}

// ValidateDocument runs kin-openapi validation over the document.
func ValidateDocument(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("openapi document validation failed: %w", err)
	}
	return nil
}

// LoadDocument parses an OpenAPI document from JSON or YAML bytes.
func LoadDocument(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return doc, nil
}

// OperationPolicies returns the policy map carried by an exported operation,
// or nil when the operation has none. After a LoadDocument round trip the
// extension value is generic JSON, so fragments are re-decoded into the
// routetree shape.
func OperationPolicies(op *openapi3.Operation) (routetree.PolicyMap, error) {
	if op == nil || op.Extensions == nil {
		return nil, nil
	}
	raw, ok := op.Extensions[PoliciesExtensionKey]
	if !ok {
		return nil, nil
	}

	// Fast path: the document was built in-process.
	if pm, ok := raw.(routetree.PolicyMap); ok {
		return pm, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode %s extension: %w", PoliciesExtensionKey, err)
	}
	var pm routetree.PolicyMap
	if err := json.Unmarshal(encoded, &pm); err != nil {
		return nil, fmt.Errorf("decode %s extension: %w", PoliciesExtensionKey, err)
	}
	return pm, nil
}
