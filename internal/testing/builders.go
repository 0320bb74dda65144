package testing

import (
	"maps"

	"github.com/imamik/vmpool/internal/config"
)

// PoolParamsBuilder provides a fluent interface for constructing pool parameters.
// Each method returns a new builder (immutable) for chaining.
type PoolParamsBuilder struct {
	params config.PoolParams
}

// NewPoolParamsBuilder creates a builder for a present pool named pool1 in
// the fixture cluster, based on the fixture template.
func NewPoolParamsBuilder() *PoolParamsBuilder {
	cluster, template := FixtureCluster, FixtureTemplate
	return &PoolParamsBuilder{
		params: config.PoolParams{
			Name:     "pool1",
			State:    config.StatePresent,
			Cluster:  &cluster,
			Template: &template,
		},
	}
}

// WithName sets the pool name.
func (b *PoolParamsBuilder) WithName(name string) *PoolParamsBuilder {
	newBuilder := b.clone()
	newBuilder.params.Name = name
	return newBuilder
}

// WithState sets the desired state.
func (b *PoolParamsBuilder) WithState(state config.State) *PoolParamsBuilder {
	newBuilder := b.clone()
	newBuilder.params.State = state
	return newBuilder
}

// WithCounts sets the pool size, prestarted VMs and VMs per user.
func (b *PoolParamsBuilder) WithCounts(vmCount, prestarted, vmPerUser int64) *PoolParamsBuilder {
	newBuilder := b.clone()
	newBuilder.params.VMCount = &vmCount
	newBuilder.params.Prestarted = &prestarted
	newBuilder.params.VMPerUser = &vmPerUser
	return newBuilder
}

// WithDescription sets the pool description.
func (b *PoolParamsBuilder) WithDescription(description string) *PoolParamsBuilder {
	newBuilder := b.clone()
	newBuilder.params.Description = &description
	return newBuilder
}

// WithNic declares a NIC on every pool VM. An empty profile leaves it unset.
func (b *PoolParamsBuilder) WithNic(name, profile string) *PoolParamsBuilder {
	newBuilder := b.clone()
	nic := config.NicParams{Name: name}
	if profile != "" {
		nic.ProfileName = &profile
	}
	newBuilder.ensureVM()
	newBuilder.params.VM.Nics = append(newBuilder.params.VM.Nics, nic)
	return newBuilder
}

// WithCloudInit sets the cloud-init map.
func (b *PoolParamsBuilder) WithCloudInit(values map[string]any) *PoolParamsBuilder {
	newBuilder := b.clone()
	newBuilder.ensureVM()
	newBuilder.params.VM.CloudInit = maps.Clone(values)
	return newBuilder
}

// WithWait enables waiting with the given timeout in seconds.
func (b *PoolParamsBuilder) WithWait(timeout int) *PoolParamsBuilder {
	newBuilder := b.clone()
	wait := true
	newBuilder.params.Wait = &wait
	newBuilder.params.Timeout = &timeout
	return newBuilder
}

// WithCheckMode enables check mode.
func (b *PoolParamsBuilder) WithCheckMode() *PoolParamsBuilder {
	newBuilder := b.clone()
	newBuilder.params.CheckMode = true
	return newBuilder
}

// Build returns the constructed parameters with defaults applied.
func (b *PoolParamsBuilder) Build() *config.PoolParams {
	params := b.clone().params
	params.ApplyDefaults()
	return &params
}

func (b *PoolParamsBuilder) ensureVM() {
	if b.params.VM == nil {
		b.params.VM = &config.VMParams{}
	}
}

// clone creates a deep copy of the builder for immutability.
func (b *PoolParamsBuilder) clone() *PoolParamsBuilder {
	newParams := b.params
	if b.params.VM != nil {
		vm := *b.params.VM
		vm.CloudInit = maps.Clone(b.params.VM.CloudInit)
		vm.Sysprep = maps.Clone(b.params.VM.Sysprep)
		if len(b.params.VM.CloudInitNics) > 0 {
			vm.CloudInitNics = make([]map[string]any, len(b.params.VM.CloudInitNics))
			for i, nic := range b.params.VM.CloudInitNics {
				vm.CloudInitNics[i] = maps.Clone(nic)
			}
		}
		if len(b.params.VM.Nics) > 0 {
			vm.Nics = make([]config.NicParams, len(b.params.VM.Nics))
			copy(vm.Nics, b.params.VM.Nics)
		}
		newParams.VM = &vm
	}
	return &PoolParamsBuilder{params: newParams}
}

// MinimalParams returns the smallest valid desired state.
func MinimalParams() *config.PoolParams {
	return NewPoolParamsBuilder().Build()
}
