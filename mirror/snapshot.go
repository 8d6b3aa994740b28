package mirror

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gateway-mirror/go-gateway-client/routetree"
	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot records what a push run left on the gateway: one content
// fingerprint per operation, keyed by "<METHOD> <template>". The next run
// diffs its table against these fingerprints to skip unchanged operations.
type Snapshot struct {
	ApiID        string            `msgpack:"api_id"`
	RunID        string            `msgpack:"run_id"`
	TakenAt      time.Time         `msgpack:"taken_at"`
	Fingerprints map[string]string `msgpack:"fingerprints"`
}

// SnapshotStore persists one snapshot per API as "<apiID>.snap" msgpack
// files inside a directory.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore opens a snapshot directory, creating it if needed.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}
	return &SnapshotStore{dir: dir}, nil
}

func (s *SnapshotStore) file(apiID string) (string, error) {
	if apiID == "" || strings.ContainsAny(apiID, `/\`) {
		return "", fmt.Errorf("invalid api id %q for snapshot file", apiID)
	}
	return filepath.Join(s.dir, apiID+".snap"), nil
}

// Load returns the last saved snapshot for the API, or nil when none exists.
func (s *SnapshotStore) Load(apiID string) (*Snapshot, error) {
	path, err := s.file(apiID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("read snapshot of api %s: %w", apiID, err)
	}
	var snap Snapshot
	if err = msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot of api %s: %w", apiID, err)
	}
	return &snap, nil
}

// Save writes the snapshot, replacing any previous one for the same API.
func (s *SnapshotStore) Save(snap *Snapshot) error {
	path, err := s.file(snap.ApiID)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot of api %s: %w", snap.ApiID, err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot of api %s: %w", snap.ApiID, err)
	}
	return nil
}

// Delete removes the snapshot of the API. Deleting a missing snapshot is not
// an error.
func (s *SnapshotStore) Delete(apiID string) error {
	path, err := s.file(apiID)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot of api %s: %w", apiID, err)
	}
	return nil
}

// canonicalEntry is the stable encoding hashed into a fingerprint. Policy
// stages are flattened into their canonical order so the bytes do not depend
// on map iteration order.
type canonicalEntry struct {
	ID          string               `msgpack:"id"`
	DisplayName string               `msgpack:"display_name"`
	Method      string               `msgpack:"method"`
	URLTemplate string               `msgpack:"url_template"`
	Parameters  []canonicalParameter `msgpack:"parameters"`
	Tags        []string             `msgpack:"tags"`
	Policies    []canonicalStage     `msgpack:"policies"`
}

type canonicalParameter struct {
	Name     string `msgpack:"name"`
	Required bool   `msgpack:"required"`
	Type     string `msgpack:"type"`
}

type canonicalStage struct {
	Stage     string   `msgpack:"stage"`
	Fragments []string `msgpack:"fragments"`
}

func canonicalize(entry routetree.OperationEntry) canonicalEntry {
	out := canonicalEntry{
		ID:          entry.Identifier,
		DisplayName: entry.DisplayName,
		Method:      entry.Method,
		URLTemplate: entry.URLTemplate,
		Tags:        entry.Tags,
	}
	for _, parameter := range entry.Parameters {
		out.Parameters = append(out.Parameters, canonicalParameter{
			Name:     parameter.Name,
			Required: parameter.Required,
			Type:     parameter.Type,
		})
	}
	for _, stage := range routetree.StageOrder() {
		if fragments := entry.Policies[stage]; len(fragments) > 0 {
			out.Policies = append(out.Policies, canonicalStage{
				Stage:     string(stage),
				Fragments: fragments,
			})
		}
	}
	return out
}

// EntryFingerprint returns the sha256 hex digest of the entry's canonical
// msgpack encoding. Two entries fingerprint equal exactly when a push would
// write the same operation and policy content for both.
func EntryFingerprint(entry routetree.OperationEntry) (string, error) {
	encoded, err := msgpack.Marshal(canonicalize(entry))
	if err != nil {
		return "", fmt.Errorf("encode operation %q for fingerprinting: %w", entry.Identifier, err)
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}
