package release

import (
	"context"
	"sync"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/lsst-dm/curation-tools/pkg/rucio"
)

// mockClient implements the client interfaces consumed by release
// operations, with function fields and call recording
type mockClient struct {
	mu sync.Mutex

	listRulesFunc  func(model.DID) ([]model.Rule, error)
	addRuleFunc    func(rucio.RuleRequest) ([]string, error)
	deleteRuleFunc func(id string, purge bool) error
	listAssocFunc  func(model.DID) ([]model.Rule, error)
	updateRuleFunc func(id string, opts rucio.RuleOptions) error
	listDIDsFunc   func(scope, pattern, didType string) ([]string, error)
	setMetaFunc    func(did model.DID, key string, value interface{}) error

	addedRules   []rucio.RuleRequest
	deletedRules []string
	touched      []model.DID
}

func (m *mockClient) ListDIDRules(_ context.Context, did model.DID) ([]model.Rule, error) {
	return m.listRulesFunc(did)
}

func (m *mockClient) AddReplicationRule(_ context.Context, req rucio.RuleRequest) ([]string, error) {
	m.mu.Lock()
	m.addedRules = append(m.addedRules, req)
	m.mu.Unlock()
	return m.addRuleFunc(req)
}

func (m *mockClient) DeleteReplicationRule(_ context.Context, id string, purge bool) error {
	m.mu.Lock()
	m.deletedRules = append(m.deletedRules, id)
	m.mu.Unlock()
	return m.deleteRuleFunc(id, purge)
}

func (m *mockClient) ListAssociatedRules(_ context.Context, did model.DID) ([]model.Rule, error) {
	return m.listAssocFunc(did)
}

func (m *mockClient) UpdateReplicationRule(_ context.Context, id string, opts rucio.RuleOptions) error {
	return m.updateRuleFunc(id, opts)
}

func (m *mockClient) ListDIDs(_ context.Context, scope, pattern, didType string) ([]string, error) {
	return m.listDIDsFunc(scope, pattern, didType)
}

func (m *mockClient) SetMetadata(_ context.Context, did model.DID, key string, value interface{}) error {
	m.mu.Lock()
	m.touched = append(m.touched, did)
	m.mu.Unlock()
	return m.setMetaFunc(did, key, value)
}

func (m *mockClient) mutations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.addedRules) + len(m.deletedRules) + len(m.touched)
}

func testManifest() model.ReleaseManifest {
	return model.ReleaseManifest{
		"dp1:Container/Coadds":   1500,
		"dp1:Container/Catalogs": 42,
		"dp1:Container/Raw":      7,
	}
}

func testIDAC() model.IDACConfig {
	return model.IDACConfig{
		RSE: "IN2P3_DISK",
		Containers: map[string]model.Flag{
			"dp1:Container/Coadds":   true,
			"dp1:Container/Catalogs": true,
			"dp1:Container/Raw":      false,
		},
	}
}
