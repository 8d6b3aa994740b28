package untyped

import (
	"context"
	"fmt"

	"github.com/gateway-mirror/go-gateway-client/core"
)

// NamedValue is a gateway-wide key/value setting referenced from policy
// bodies through {{name}} placeholders. Secret values never come back in
// clear text on reads.
type NamedValue struct {
	*core.GatewayResource
}

// EnsureValueWithContext makes sure a named value exists with the given
// value. Plain values are compared against the stored record and left alone
// when equal. Secret values read back masked, so they are always rewritten.
func (n *NamedValue) EnsureValueWithContext(ctx context.Context, name string, value any, secret bool) (core.Record, error) {
	body := core.Params{"name": name, "value": value, "secret": secret}

	defer n.Lock(name)()

	existing, err := n.GetWithContext(ctx, core.Params{"name": name})
	if core.IsNotFoundErr(err) {
		return n.CreateWithContext(ctx, body)
	} else if err != nil {
		return nil, err
	}
	if !secret && fmt.Sprintf("%v", existing["value"]) == fmt.Sprintf("%v", value) {
		return existing, nil
	}
	return n.UpdateWithContext(ctx, existing.RecordID(), body)
}

func (n *NamedValue) EnsureValue(name string, value any, secret bool) (core.Record, error) {
	return n.EnsureValueWithContext(n.Rest.GetCtx(), name, value, secret)
}
