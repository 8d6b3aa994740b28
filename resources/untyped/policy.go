package untyped

import (
	"context"

	"github.com/gateway-mirror/go-gateway-client/core"
)

// Policy is a processing pipeline attached to an API or to a single
// operation. Stage bodies are stored under the wire stage keys "inbound",
// "backend", "outbound" and "on-error".
type Policy struct {
	*core.GatewayResource
}

// GetForOperationWithContext returns the operation-scoped policy of the given
// operation. A NotFoundError means the operation inherits its API's policy.
func (p *Policy) GetForOperationWithContext(ctx context.Context, operationId any) (core.Record, error) {
	return p.GetWithContext(ctx, core.Params{"scope": "operation", "operation_id": operationId})
}

func (p *Policy) GetForOperation(operationId any) (core.Record, error) {
	return p.GetForOperationWithContext(p.Rest.GetCtx(), operationId)
}

// SetForOperationWithContext creates or replaces the operation-scoped policy
// of the given operation. stages holds the stage bodies keyed by wire stage
// name; stages absent from the map are cleared on update. Concurrent writers
// for the same operation are serialized through the resource key lock.
func (p *Policy) SetForOperationWithContext(ctx context.Context, operationId any, stages core.Params) (core.Record, error) {
	body := core.Params{"scope": "operation", "operation_id": operationId}
	body.Update(stages, false)

	defer p.Lock(operationId)()

	existing, err := p.GetForOperationWithContext(ctx, operationId)
	if core.IsNotFoundErr(err) {
		return p.CreateWithContext(ctx, body)
	} else if err != nil {
		return nil, err
	}
	return p.UpdateWithContext(ctx, existing.RecordID(), body)
}

func (p *Policy) SetForOperation(operationId any, stages core.Params) (core.Record, error) {
	return p.SetForOperationWithContext(p.Rest.GetCtx(), operationId, stages)
}
