package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"reflect"
	"strings"
)

// validateResponse checks the response for valid HTTP status codes (specifically for 2xx codes).
// It returns an *ApiError for non-2xx codes, and for a nil response an *ApiError
// naming the endpoint that could not be reached.
func validateResponse(response *http.Response, host string, port uint64) error {
	requestURL := "<unknown URL>"
	method := "<unknown method>"
	if response == nil {
		return &ApiError{
			Method:     method,
			URL:        fmt.Sprintf("https://%s:%d", host, port),
			StatusCode: 0,
			Body:       fmt.Sprintf("GMS endpoint %s:%d is unreachable: verify the host is correct and the network is accessible", host, port),
		}
	}
	if response.StatusCode >= 200 && response.StatusCode <= 299 {
		return nil
	}
	if response.Request != nil {
		if response.Request.URL != nil {
			requestURL = response.Request.URL.String()
		}
		method = response.Request.Method
	}
	return &ApiError{
		Method:     method,
		URL:        requestURL,
		StatusCode: response.StatusCode,
		Body:       getResponseBodyAsStr(response),
	}
}

// pathToUrl returns a full URI string based on the provided input.
// If the input string is already a full URI (i.e., contains a scheme like "http" or "https"),
// it is returned unchanged. This is how pagination links handed back by GMS
// (`nextLink`/`prevLink`) are followed verbatim.
// Otherwise, the function constructs a full URI from the session's configuration,
// placing the input path (with optional query parameters) under the management
// prefix: https://{host}:{port}/mgmt/{apiVersion}/{path}.
func pathToUrl(s RESTSession, input string) (string, error) {
	parsedURL, parseErr := urlpkg.Parse(input)
	if parseErr == nil && parsedURL.Scheme != "" {
		return input, nil // already a full URI
	}
	// Ensure input starts with a slash
	if !strings.HasPrefix(input, "/") {
		input = "/" + input
	}
	config := s.GetConfig()

	pathAndQuery, err := urlpkg.ParseRequestURI(input)
	if err != nil {
		return "", fmt.Errorf("invalid relative URL: %w", err)
	}
	joinedPath, err := urlpkg.JoinPath("mgmt", config.ApiVersion, strings.Trim(pathAndQuery.Path, "/"))
	if err != nil {
		return "", err
	}
	fullURL := &urlpkg.URL{
		Scheme:   "https",
		Host:     fmt.Sprintf("%s:%v", config.Host, config.Port),
		Path:     joinedPath,
		RawQuery: pathAndQuery.RawQuery,
	}
	return fullURL.String(), nil
}

// buildUrl constructs the full management-plane URL for a resource path.
// An empty apiVer falls back to the session's configured version. GMS paths
// carry no trailing slash.
func buildUrl(s RESTSession, path, query, apiVer string) (string, error) {
	var err error
	config := s.GetConfig()
	if apiVer == "" {
		apiVer = config.ApiVersion
	}
	if path, err = urlpkg.JoinPath("mgmt", apiVer, strings.Trim(path, "/")); err != nil {
		return "", err
	}
	url := urlpkg.URL{
		Scheme: "https",
		Host:   fmt.Sprintf("%s:%v", config.Host, config.Port),
		Path:   path,
	}
	if query != "" {
		url.RawQuery = query
	}
	return url.String(), nil
}

// convertMapToQuery converts a Params map to a URL query string.
// Slice and array values are flattened to comma-separated lists, the form GMS
// expects for repeated filter values; everything else is stringified with fmt.
func convertMapToQuery(params Params) string {
	values := urlpkg.Values{}
	for k, v := range params {
		values.Set(k, flattenQueryValue(v))
	}
	return values.Encode()
}

func flattenQueryValue(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

// getResponseBodyAsStr reads and returns the HTTP response body as a string.
// If the response body contains valid JSON, it returns a pretty-printed version.
// If the JSON indentation fails or the body is not JSON, it returns the raw body as a string.
// If the response is nil or an error occurs during reading, it returns an empty string.
//
// Note: This function consumes and closes the response body.
func getResponseBodyAsStr(r *http.Response) string {
	var b bytes.Buffer
	if r == nil {
		return ""
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	// Try to render pretty json; fall back to the raw body.
	if err = json.Indent(&b, body, "", "  "); err == nil {
		return b.String()
	}
	return string(body)
}
