package routetree

import "testing"

func TestOperationID(t *testing.T) {
	t.Run("slug method and serial", func(t *testing.T) {
		run := newCompileRun(nil)
		if id := operationID("/user/{id}", "GET", run); id != "op-user-id-get-1" {
			t.Errorf("expected op-user-id-get-1, got %q", id)
		}
	})

	t.Run("serial advances per call", func(t *testing.T) {
		run := newCompileRun(nil)
		first := operationID("/user/{id}", "GET", run)
		second := operationID("/user/{id}", "GET", run)
		if first == second {
			t.Errorf("expected distinct identifiers, got %q twice", first)
		}
		if second != "op-user-id-get-2" {
			t.Errorf("expected op-user-id-get-2, got %q", second)
		}
	})

	t.Run("slug truncated to thirty characters", func(t *testing.T) {
		run := newCompileRun(nil)
		id := operationID("/customers/{customerId}/subscriptions/{subscriptionId}", "POST", run)
		if id != "op-customers-customerid-subscrip-post-1" {
			t.Errorf("unexpected identifier %q", id)
		}
	})

	t.Run("root template drops the slug", func(t *testing.T) {
		run := newCompileRun(nil)
		if id := operationID("/", "GET", run); id != "op-get-1" {
			t.Errorf("expected op-get-1, got %q", id)
		}
	})

	t.Run("method is lower-cased", func(t *testing.T) {
		run := newCompileRun(nil)
		if id := operationID("/a", "DELETE", run); id != "op-a-delete-1" {
			t.Errorf("expected op-a-delete-1, got %q", id)
		}
	})
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		template string
		method   string
		expected string
	}{
		{"simple template", "/user/{id}", "GET", "Get User Id"},
		{"plain path", "/apis/current", "POST", "Post Apis Current"},
		{"dashes become word breaks", "/named-values", "GET", "Get Named Values"},
		{"root template", "/", "DELETE", "Delete"},
		{"method case normalized", "/a", "get", "Get A"},
		{
			"path portion truncated to thirty characters",
			"/customers/{customerId}/subscriptions/{subscriptionId}",
			"POST",
			"Post Customers Customerid Subscript",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayName(tt.template, tt.method); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
