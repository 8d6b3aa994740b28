package core

import "sort"

// ExtraMethodMetadata stores the URL path and HTTP verb for extra methods.
// Registered from init() functions next to the resource that owns the method.
type ExtraMethodMetadata struct {
	MethodName string // e.g., "ApiImportDocument_POST"
	HTTPVerb   string // e.g., "POST"
	URLPath    string // e.g., "/apis/{id}/import"
	Summary    string // e.g., "Import OpenAPI document"
}

// ExtraMethodRegistry is a global registry of extra method metadata.
var ExtraMethodRegistry = map[string]map[string]ExtraMethodMetadata{
	// Key is resource type (e.g., "Api")
	// Value is map of method name to metadata
}

// RegisterExtraMethod registers metadata for an extra method.
// Called from init() in the resource packages.
func RegisterExtraMethod(resourceType, methodName, httpVerb, urlPath, summary string) {
	if ExtraMethodRegistry[resourceType] == nil {
		ExtraMethodRegistry[resourceType] = make(map[string]ExtraMethodMetadata)
	}
	ExtraMethodRegistry[resourceType][methodName] = ExtraMethodMetadata{
		MethodName: methodName,
		HTTPVerb:   httpVerb,
		URLPath:    urlPath,
		Summary:    summary,
	}
}

// GetExtraMethodMetadata retrieves metadata for a specific extra method
func GetExtraMethodMetadata(resourceType, methodName string) (ExtraMethodMetadata, bool) {
	if methods, ok := ExtraMethodRegistry[resourceType]; ok {
		metadata, found := methods[methodName]
		return metadata, found
	}
	return ExtraMethodMetadata{}, false
}

// GetAllExtraMethodsForResource returns all extra methods for a resource type,
// sorted by method name so hints render in a stable order.
func GetAllExtraMethodsForResource(resourceType string) []ExtraMethodMetadata {
	if methods, ok := ExtraMethodRegistry[resourceType]; ok {
		result := make([]ExtraMethodMetadata, 0, len(methods))
		for _, metadata := range methods {
			result = append(result, metadata)
		}
		sort.Slice(result, func(i, j int) bool { return result[i].MethodName < result[j].MethodName })
		return result
	}
	return nil
}
