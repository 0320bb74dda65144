package testing

import (
	"github.com/imamik/vmpool/internal/platform/ovirt/fake"
)

// Names seeded by EngineFixture.
const (
	FixtureCluster  = "c1"
	FixtureNetwork  = "net1"
	FixtureTemplate = "rhel7"
	FixtureProfile  = "ovirtmgmt"
)

// EngineFixture provides a pre-seeded in-memory engine for common test scenarios.
type EngineFixture struct {
	engine *fake.Client
}

// NewEngineFixture creates an engine with one cluster, its network, a
// template and a VNIC profile on that network.
func NewEngineFixture() *EngineFixture {
	engine := fake.New()
	engine.AddCluster(FixtureCluster, FixtureNetwork)
	engine.AddTemplate(FixtureTemplate)
	engine.AddProfile(FixtureProfile, FixtureNetwork)
	return &EngineFixture{engine: engine}
}

// Engine returns the underlying fake for custom configuration.
func (f *EngineFixture) Engine() *fake.Client {
	return f.engine
}

// WithForeignProfile adds a profile whose network is not attached to the
// fixture cluster. Returns the fixture for chaining.
func (f *EngineFixture) WithForeignProfile(name string) *EngineFixture {
	f.engine.AddProfile(name, "net-outside")
	return f
}
