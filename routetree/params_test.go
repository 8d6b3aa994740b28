package routetree

import (
	"reflect"
	"testing"
)

func TestExtractTemplate(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		template string
		params   []string
	}{
		{"single parameter", "/user/:id", "/user/{id}", []string{"id"}},
		{"plain path untouched", "/apis/current", "/apis/current", nil},
		{"root", "/", "/", nil},
		{"two parameters", "/orders/:orderId/items/:itemId", "/orders/{orderId}/items/{itemId}", []string{"orderId", "itemId"}},
		{"compound segment", "/report-:year.:format", "/report-{year}.{format}", []string{"year", "format"}},
		{"metacharacters stripped", "/search/:term|raw", "/search/{termraw}", []string{"termraw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newCompileRun(nil)
			template, params := extractTemplate(tt.path, run)
			if template != tt.template {
				t.Errorf("expected template %q, got %q", tt.template, template)
			}
			var names []string
			for _, p := range params {
				names = append(names, p.Name)
				if !p.Required || p.Type != "string" {
					t.Errorf("parameter %q should be a required string, got %+v", p.Name, p)
				}
			}
			if !reflect.DeepEqual(names, tt.params) {
				t.Errorf("expected parameters %v, got %v", tt.params, names)
			}
		})
	}
}

func TestExtractTemplateDisambiguation(t *testing.T) {
	t.Run("short written token gets a suffix", func(t *testing.T) {
		run := newCompileRun(nil)
		template, params := extractTemplate("/x/:v", run)
		if template != "/x/{vP1}" {
			t.Errorf("expected /x/{vP1}, got %q", template)
		}
		if len(params) != 1 || params[0].Name != "vP1" {
			t.Errorf("unexpected parameters: %+v", params)
		}
	})

	t.Run("three characters written is long enough", func(t *testing.T) {
		run := newCompileRun(nil)
		template, _ := extractTemplate("/user/:id", run)
		if template != "/user/{id}" {
			t.Errorf("expected /user/{id} without suffix, got %q", template)
		}
	})

	t.Run("repeated name in one path gets a suffix", func(t *testing.T) {
		run := newCompileRun(nil)
		template, params := extractTemplate("/pair/:id/:id", run)
		if template != "/pair/{id}/{idP1}" {
			t.Errorf("expected /pair/{id}/{idP1}, got %q", template)
		}
		if len(params) != 2 || params[0].Name != "id" || params[1].Name != "idP1" {
			t.Errorf("unexpected parameters: %+v", params)
		}
	})

	t.Run("counter is shared across paths and never resets", func(t *testing.T) {
		run := newCompileRun(nil)
		first, _ := extractTemplate("/a/:v", run)
		second, _ := extractTemplate("/b/:v", run)
		if first != "/a/{vP1}" {
			t.Errorf("expected /a/{vP1}, got %q", first)
		}
		if second != "/b/{vP2}" {
			t.Errorf("expected /b/{vP2}, got %q", second)
		}
	})

	t.Run("token of only metacharacters synthesizes a name", func(t *testing.T) {
		run := newCompileRun(nil)
		template, params := extractTemplate("/files/*", run)
		if template != "/files/{P1}" {
			t.Errorf("expected /files/{P1}, got %q", template)
		}
		if len(params) != 1 || params[0].Name != "P1" {
			t.Errorf("unexpected parameters: %+v", params)
		}
	})
}
