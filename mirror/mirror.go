// Package mirror synchronizes a compiled operation table into a gateway
// management service, making the remote API definition match the local route
// tree. A push creates or updates operations, rewrites their policy
// documents, optionally prunes orphans and rolls a revision, and keeps a
// fingerprint snapshot between runs so unchanged operations are skipped.
package mirror

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gateway-mirror/go-gateway-client/core"
	"github.com/gateway-mirror/go-gateway-client/rest"
	"github.com/gateway-mirror/go-gateway-client/routetree"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PushOptions control a single push run.
type PushOptions struct {
	// ApiID is the API definition the table is pushed into.
	ApiID string `validate:"required"`
	// CreateRevision snapshots the API into a new revision before any
	// operation is touched.
	CreateRevision bool
	// MakeCurrent promotes the created revision once the push completed.
	// Requires CreateRevision.
	MakeCurrent bool
	// ReleaseNotes annotate the created revision.
	ReleaseNotes string
	// BackendID is stamped on every pushed operation when non-empty.
	BackendID string
	// PruneOrphans deletes remote operations absent from the local table.
	PruneOrphans bool
	// ValidateNamedValues verifies that every {{name}} reference inside a
	// policy fragment resolves to an existing named value before anything
	// is written.
	ValidateNamedValues bool
	// Force pushes every operation even when its fingerprint matches the
	// last snapshot.
	Force bool
	// WaitTimeout bounds the wait for the promotion task spawned by
	// MakeCurrent. Zero leaves the task running in the background.
	WaitTimeout time.Duration
}

// PushReport summarizes one push run.
type PushReport struct {
	RunID      string
	Created    int
	Updated    int
	Skipped    int
	Pruned     int
	RevisionID string
	TookMs     int64
}

// Config assembles a Mirror.
type Config struct {
	// Rest is the management-plane client pushes go through.
	Rest *rest.UntypedGMSRest
	// Store keeps per-API fingerprint snapshots between runs. A nil store
	// disables skip detection and snapshot writes.
	Store *SnapshotStore
	// Logger receives per-operation sync log lines. Defaults to the no-op
	// logger.
	Logger routetree.Logger
}

// Mirror pushes operation tables into a gateway management service.
type Mirror struct {
	rest     *rest.UntypedGMSRest
	validate *validator.Validate
	store    *SnapshotStore
	logger   routetree.Logger
}

func New(config Config) (*Mirror, error) {
	if config.Rest == nil {
		return nil, fmt.Errorf("mirror requires a REST client")
	}
	if config.Logger == nil {
		config.Logger = routetree.NoopLogger()
	}
	return &Mirror{
		rest:     config.Rest,
		validate: validator.New(),
		store:    config.Store,
		logger:   config.Logger,
	}, nil
}

// Push synchronizes the entries into the API named by opts.ApiID.
//
// The run proceeds in phases: option and table validation, the optional
// named-value reference check, the optional revision snapshot, the
// operation diff (create, update, skip and prune), per-operation policy
// rewrites, the optional revision promotion, and finally the snapshot save.
// The first failing phase aborts the push.
func (m *Mirror) Push(ctx context.Context, entries []routetree.OperationEntry, opts PushOptions) (*PushReport, error) {
	started := time.Now()

	if err := m.validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid push options: %w", err)
	}
	if opts.MakeCurrent && !opts.CreateRevision {
		return nil, fmt.Errorf("invalid push options: MakeCurrent requires CreateRevision")
	}
	local, err := indexEntries(entries)
	if err != nil {
		return nil, err
	}

	if opts.ValidateNamedValues {
		if err = m.checkNamedValueRefs(ctx, entries); err != nil {
			return nil, err
		}
	}

	report := &PushReport{RunID: uuid.NewString()}
	m.logger.Infof("push %s: syncing %d operations into api %s", report.RunID, len(entries), opts.ApiID)

	// The target API must exist before anything is written under it.
	if _, err = m.rest.Apis.GetByIdWithContext(ctx, opts.ApiID); err != nil {
		return nil, fmt.Errorf("api %s: %w", opts.ApiID, err)
	}

	if opts.CreateRevision {
		revision, err := m.rest.Revisions.CreateWithContext(ctx, core.Params{
			"api_id":        opts.ApiID,
			"release_notes": opts.ReleaseNotes,
		})
		if err != nil {
			return nil, fmt.Errorf("create revision: %w", err)
		}
		report.RevisionID = revision.RecordID()
		m.logger.Infof("push %s: created revision %s", report.RunID, report.RevisionID)
	}

	var last *Snapshot
	if m.store != nil {
		if last, err = m.store.Load(opts.ApiID); err != nil {
			return nil, err
		}
	}

	remote, err := m.remoteOperations(ctx, opts.ApiID)
	if err != nil {
		return nil, err
	}

	fingerprints := make(map[string]string, len(entries))
	for _, entry := range entries {
		key := operationKey(entry.Method, entry.URLTemplate)
		fingerprint, err := EntryFingerprint(entry)
		if err != nil {
			return nil, err
		}
		fingerprints[key] = fingerprint

		existing, found := remote[key]
		if found && !opts.Force && last != nil && last.Fingerprints[key] == fingerprint {
			report.Skipped++
			continue
		}

		body := operationBody(entry, opts)
		if found {
			updated, err := m.rest.Operations.UpdateWithContext(ctx, existing.RecordID(), body)
			if err != nil {
				return nil, fmt.Errorf("update operation %s: %w", key, err)
			}
			report.Updated++
			if err = m.syncPolicies(ctx, updated.RecordID(), entry, false); err != nil {
				return nil, err
			}
		} else {
			created, err := m.rest.Operations.CreateWithContext(ctx, body)
			if err != nil {
				return nil, fmt.Errorf("create operation %s: %w", key, err)
			}
			report.Created++
			if err = m.syncPolicies(ctx, created.RecordID(), entry, true); err != nil {
				return nil, err
			}
		}
		m.logger.Infof("push %s: synced %s", report.RunID, key)
	}

	if opts.PruneOrphans {
		for key, record := range remote {
			if _, keep := local[key]; keep {
				continue
			}
			if _, err = m.rest.Operations.DeleteByIdWithContext(ctx, record.RecordID(), nil, nil); err != nil {
				return nil, fmt.Errorf("prune operation %s: %w", key, err)
			}
			report.Pruned++
			m.logger.Infof("push %s: pruned %s", report.RunID, key)
		}
	}

	if opts.MakeCurrent {
		asyncResult, _, err := m.rest.Revisions.MakeCurrentWithContext(ctx, report.RevisionID, opts.WaitTimeout)
		if err != nil {
			return nil, fmt.Errorf("make revision %s current: %w", report.RevisionID, err)
		}
		if asyncResult != nil && opts.WaitTimeout == 0 {
			m.logger.Infof("push %s: revision %s promotion running as task %s", report.RunID, report.RevisionID, asyncResult.TaskId)
		}
	}

	if m.store != nil {
		snap := &Snapshot{
			ApiID:        opts.ApiID,
			RunID:        report.RunID,
			TakenAt:      time.Now().UTC(),
			Fingerprints: fingerprints,
		}
		if err = m.store.Save(snap); err != nil {
			return nil, err
		}
	}

	report.TookMs = time.Since(started).Milliseconds()
	m.logger.Infof("push %s: done, created=%d updated=%d skipped=%d pruned=%d",
		report.RunID, report.Created, report.Updated, report.Skipped, report.Pruned)
	return report, nil
}

// operationKey identifies an operation by its (method, URL template) pair.
func operationKey(method, template string) string {
	return method + " " + template
}

// indexEntries validates the table and indexes it by operation key.
func indexEntries(entries []routetree.OperationEntry) (map[string]routetree.OperationEntry, error) {
	byKey := make(map[string]routetree.OperationEntry, len(entries))
	byID := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Identifier == "" {
			return nil, fmt.Errorf("operation %s %s has no identifier", entry.Method, entry.URLTemplate)
		}
		if entry.Method == "" {
			return nil, fmt.Errorf("operation %q has no HTTP method", entry.Identifier)
		}
		if entry.URLTemplate == "" {
			return nil, fmt.Errorf("operation %q has an empty URL template", entry.Identifier)
		}
		if _, dup := byID[entry.Identifier]; dup {
			return nil, fmt.Errorf("duplicate operation id %q", entry.Identifier)
		}
		byID[entry.Identifier] = struct{}{}
		key := operationKey(entry.Method, entry.URLTemplate)
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("duplicate operation for %s", key)
		}
		byKey[key] = entry
	}
	return byKey, nil
}

// remoteOperations fetches every operation of the API, following pagination,
// and indexes the records by operation key.
func (m *Mirror) remoteOperations(ctx context.Context, apiID string) (map[string]core.Record, error) {
	records, err := m.rest.Operations.GetIteratorWithContext(ctx, core.Params{"api_id": apiID}, 0).All()
	if err != nil {
		return nil, fmt.Errorf("list operations of api %s: %w", apiID, err)
	}
	out := make(map[string]core.Record, len(records))
	for _, record := range records {
		method := fmt.Sprintf("%v", record["method"])
		template := fmt.Sprintf("%v", record["url_template"])
		out[operationKey(method, template)] = record
	}
	return out, nil
}

// operationBody renders an entry as the wire body of the operations resource.
func operationBody(entry routetree.OperationEntry, opts PushOptions) core.Params {
	body := core.Params{
		"api_id":       opts.ApiID,
		"operation_id": entry.Identifier,
		"display_name": entry.DisplayName,
		"method":       entry.Method,
		"url_template": entry.URLTemplate,
	}
	if len(entry.Parameters) > 0 {
		parameters := make([]core.Params, 0, len(entry.Parameters))
		for _, parameter := range entry.Parameters {
			parameters = append(parameters, core.Params{
				"name":     parameter.Name,
				"required": parameter.Required,
				"type":     parameter.Type,
			})
		}
		body["parameters"] = parameters
	}
	if len(entry.Tags) > 0 {
		body["tags"] = entry.Tags
	}
	if opts.BackendID != "" {
		body["backend_id"] = opts.BackendID
	}
	return body
}

// syncPolicies rewrites the operation-scoped policy document of one pushed
// operation. Entries without policies inherit the API-scoped policy, so any
// stale operation-scoped document is removed rather than emptied.
func (m *Mirror) syncPolicies(ctx context.Context, operationID string, entry routetree.OperationEntry, created bool) error {
	if len(entry.Policies) > 0 {
		stages := core.Params{}
		for _, stage := range routetree.StageOrder() {
			if fragments := entry.Policies[stage]; len(fragments) > 0 {
				stages[string(stage)] = fragments
			}
		}
		if _, err := m.rest.Policies.SetForOperationWithContext(ctx, operationID, stages); err != nil {
			return fmt.Errorf("set policies of operation %s: %w", operationID, err)
		}
		return nil
	}
	// A freshly created operation cannot have a policy document yet.
	if created {
		return nil
	}
	existing, err := m.rest.Policies.GetForOperationWithContext(ctx, operationID)
	if core.IsNotFoundErr(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("get policies of operation %s: %w", operationID, err)
	}
	if _, err = m.rest.Policies.DeleteByIdWithContext(ctx, existing.RecordID(), nil, nil); err != nil {
		return fmt.Errorf("delete policies of operation %s: %w", operationID, err)
	}
	return nil
}

// namedValueRef matches {{name}} references inside policy fragments.
var namedValueRef = regexp.MustCompile(`\{\{\s*([A-Za-z0-9._-]+)\s*\}\}`)

// checkNamedValueRefs verifies that every named value referenced from a
// policy fragment exists on the gateway.
func (m *Mirror) checkNamedValueRefs(ctx context.Context, entries []routetree.OperationEntry) error {
	names := make(map[string]struct{})
	for _, entry := range entries {
		for _, fragments := range entry.Policies {
			for _, fragment := range fragments {
				for _, match := range namedValueRef.FindAllStringSubmatch(fragment, -1) {
					names[match[1]] = struct{}{}
				}
			}
		}
	}
	if len(names) == 0 {
		return nil
	}

	var missing []string
	for name := range names {
		exists, err := m.rest.NamedValues.ExistsWithContext(ctx, core.Params{"name": name})
		if err != nil {
			return fmt.Errorf("check named value %q: %w", name, err)
		}
		if !exists {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("policy fragments reference unknown named values: %s", strings.Join(missing, ", "))
	}
	return nil
}
