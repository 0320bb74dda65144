// Package fake provides a stateful in-memory ovirt.Client for tests.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/imamik/vmpool/internal/platform/ovirt"
)

// Client simulates the engine. It keeps pools, member VMs, NICs, clusters,
// profiles and templates in memory and records every call.
type Client struct {
	mu sync.Mutex

	pools     map[string]*ovirt.Pool
	poolOrder []string
	vms       map[string]*ovirt.VM
	vmOrder   []string
	nics      map[string][]*ovirt.Nic
	profiles  []*ovirt.VnicProfile
	clusters  map[string]*ovirt.Cluster
	networks  map[string][]string
	templates map[string]*ovirt.Template

	errs    map[string]error
	scripts map[string][]ovirt.VMStatus
	calls   map[string]int
	lingers map[string]int

	// RemovalPolls keeps member VMs of a removed pool visible to this many
	// ListPoolVMs calls, simulating asynchronous engine-side cascade.
	RemovalPolls int

	Closed bool
}

var _ ovirt.Client = (*Client)(nil)

// New returns an empty fake engine.
func New() *Client {
	return &Client{
		pools:     make(map[string]*ovirt.Pool),
		vms:       make(map[string]*ovirt.VM),
		nics:      make(map[string][]*ovirt.Nic),
		clusters:  make(map[string]*ovirt.Cluster),
		networks:  make(map[string][]string),
		templates: make(map[string]*ovirt.Template),
		errs:      make(map[string]error),
		scripts:   make(map[string][]ovirt.VMStatus),
		calls:     make(map[string]int),
		lingers:   make(map[string]int),
	}
}

// AddCluster registers a cluster with the given attached network IDs.
func (f *Client) AddCluster(name string, networkIDs ...string) *ovirt.Cluster {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &ovirt.Cluster{ID: uuid.NewString(), Name: name}
	f.clusters[c.ID] = c
	f.networks[c.ID] = append([]string(nil), networkIDs...)
	return c
}

// AddTemplate registers a template.
func (f *Client) AddTemplate(name string) *ovirt.Template {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &ovirt.Template{ID: uuid.NewString(), Name: name}
	f.templates[t.ID] = t
	return t
}

// AddProfile appends a VNIC profile bound to networkID. Listing order is insertion order.
func (f *Client) AddProfile(name, networkID string) *ovirt.VnicProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &ovirt.VnicProfile{ID: uuid.NewString(), Name: name, NetworkID: networkID}
	f.profiles = append(f.profiles, p)
	return p
}

// AddVMNic attaches a NIC directly, bypassing call accounting.
func (f *Client) AddVMNic(vmID string, nic ovirt.Nic) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if nic.ID == "" {
		nic.ID = uuid.NewString()
	}
	f.nics[vmID] = append(f.nics[vmID], &nic)
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
func (f *Client) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// ScriptStatus queues statuses that successive GetVM calls apply to the VM
// before returning it. The last status sticks once the queue drains.
func (f *Client) ScriptStatus(vmID string, statuses ...ovirt.VMStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[vmID] = append(f.scripts[vmID], statuses...)
}

// SetStatus sets a VM's status immediately.
func (f *Client) SetStatus(vmID string, status ovirt.VMStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if vm, ok := f.vms[vmID]; ok {
		vm.Status = status
	}
}

// Calls returns how many times op was invoked.
func (f *Client) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Mutations returns the number of mutating calls made so far.
func (f *Client) Mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls["CreatePool"] + f.calls["UpdatePool"] + f.calls["RemovePool"] +
		f.calls["StopVM"] + f.calls["AddNic"]
}

// Pool returns a copy of the stored pool, or nil.
func (f *Client) Pool(id string) *ovirt.Pool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.pools[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

// PoolCount returns the number of stored pools.
func (f *Client) PoolCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pools)
}

// Members returns the VMs whose pool reference equals poolID, without
// counting a call.
func (f *Client) Members(poolID string) []ovirt.VM {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ovirt.VM
	for _, id := range f.vmOrder {
		if vm := f.vms[id]; vm != nil && vm.PoolID == poolID {
			out = append(out, *vm)
		}
	}
	return out
}

// NicsOf returns the NICs attached to a VM.
func (f *Client) NicsOf(vmID string) []ovirt.Nic {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ovirt.Nic, 0, len(f.nics[vmID]))
	for _, n := range f.nics[vmID] {
		out = append(out, *n)
	}
	return out
}

// enter records a call and returns the injected error for op, if any.
// Callers must hold f.mu.
func (f *Client) enter(ctx context.Context, op string) error {
	f.calls[op]++
	if err := ctx.Err(); err != nil {
		return &ovirt.APIError{Op: op, Err: err}
	}
	if err, ok := f.errs[op]; ok {
		return &ovirt.APIError{Op: op, Err: err}
	}
	return nil
}

// GetPoolByID returns the pool with the given ID, or nil if not found.
func (f *Client) GetPoolByID(ctx context.Context, id string) (*ovirt.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GetPoolByID"); err != nil {
		return nil, err
	}
	if p, ok := f.pools[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// GetPoolByName returns the first pool with the exact given name, or nil.
func (f *Client) GetPoolByName(ctx context.Context, name string) (*ovirt.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GetPoolByName"); err != nil {
		return nil, err
	}
	for _, id := range f.poolOrder {
		if p := f.pools[id]; p != nil && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// CreatePool stores the pool and spawns its member VMs. Cluster and template
// references are resolved and stored by ID only, as the engine reports them.
func (f *Client) CreatePool(ctx context.Context, pool *ovirt.Pool) (*ovirt.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "CreatePool"); err != nil {
		return nil, err
	}

	stored := *pool
	stored.ID = uuid.NewString()
	if stored.Cluster != nil {
		c := f.clusterByRef(*stored.Cluster)
		if c == nil {
			return nil, &ovirt.APIError{Op: "CreatePool", Err: fmt.Errorf("cluster %q not found", stored.Cluster.Name)}
		}
		stored.Cluster = &ovirt.Ref{ID: c.ID}
	}
	if stored.Template != nil {
		t := f.templateByRef(*stored.Template)
		if t == nil {
			return nil, &ovirt.APIError{Op: "CreatePool", Err: fmt.Errorf("template %q not found", stored.Template.Name)}
		}
		stored.Template = &ovirt.Ref{ID: t.ID}
	}
	if stored.Size == nil {
		one := int64(1)
		stored.Size = &one
	}

	f.pools[stored.ID] = &stored
	f.poolOrder = append(f.poolOrder, stored.ID)
	f.spawnVMs(&stored, 0, *stored.Size)

	cp := stored
	return &cp, nil
}

// UpdatePool merges the non-nil fields of pool into the stored pool.
// Growing the size spawns additional VMs; the engine never shrinks a pool.
func (f *Client) UpdatePool(ctx context.Context, id string, pool *ovirt.Pool) (*ovirt.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "UpdatePool"); err != nil {
		return nil, err
	}
	stored, ok := f.pools[id]
	if !ok {
		return nil, &ovirt.APIError{Op: "UpdatePool", Err: fmt.Errorf("pool %s not found", id)}
	}

	if pool.Name != "" {
		stored.Name = pool.Name
	}
	if pool.Description != nil {
		stored.Description = pool.Description
	}
	if pool.Comment != nil {
		stored.Comment = pool.Comment
	}
	if pool.Cluster != nil {
		if c := f.clusterByRef(*pool.Cluster); c != nil {
			stored.Cluster = &ovirt.Ref{ID: c.ID}
		}
	}
	if pool.Type != nil {
		stored.Type = pool.Type
	}
	if pool.MaxUserVMs != nil {
		stored.MaxUserVMs = pool.MaxUserVMs
	}
	if pool.PrestartedVMs != nil {
		stored.PrestartedVMs = pool.PrestartedVMs
	}
	if pool.VM != nil {
		stored.VM = pool.VM
	}
	if pool.Size != nil {
		current := int64(0)
		if stored.Size != nil {
			current = *stored.Size
		}
		if *pool.Size > current {
			f.spawnVMs(stored, current, *pool.Size)
			stored.Size = pool.Size
		}
	}

	cp := *stored
	return &cp, nil
}

// RemovePool deletes the pool and cascades to its member VMs.
func (f *Client) RemovePool(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "RemovePool"); err != nil {
		return err
	}
	if _, ok := f.pools[id]; !ok {
		return &ovirt.APIError{Op: "RemovePool", Err: fmt.Errorf("pool %s not found", id)}
	}
	delete(f.pools, id)
	for i, pid := range f.poolOrder {
		if pid == id {
			f.poolOrder = append(f.poolOrder[:i], f.poolOrder[i+1:]...)
			break
		}
	}
	if f.RemovalPolls > 0 {
		f.lingers[id] = f.RemovalPolls
		return nil
	}
	f.dropVMs(id)
	return nil
}

// ListPoolVMs returns the member VMs of a pool in creation order.
func (f *Client) ListPoolVMs(ctx context.Context, poolID string) ([]*ovirt.VM, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "ListPoolVMs"); err != nil {
		return nil, err
	}

	var out []*ovirt.VM
	for _, id := range f.vmOrder {
		if vm := f.vms[id]; vm != nil && vm.PoolID == poolID {
			cp := *vm
			out = append(out, &cp)
		}
	}

	if n, ok := f.lingers[poolID]; ok {
		if n <= 1 {
			delete(f.lingers, poolID)
			f.dropVMs(poolID)
		} else {
			f.lingers[poolID] = n - 1
		}
	}
	return out, nil
}

// GetVM returns the VM with the given ID after applying any scripted status.
func (f *Client) GetVM(ctx context.Context, id string) (*ovirt.VM, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GetVM"); err != nil {
		return nil, err
	}
	vm, ok := f.vms[id]
	if !ok {
		return nil, nil
	}
	if queue := f.scripts[id]; len(queue) > 0 {
		vm.Status = queue[0]
		f.scripts[id] = queue[1:]
	}
	cp := *vm
	return &cp, nil
}

// StopVM powers the VM off.
func (f *Client) StopVM(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "StopVM"); err != nil {
		return err
	}
	vm, ok := f.vms[id]
	if !ok {
		return &ovirt.APIError{Op: "StopVM", Err: fmt.Errorf("vm %s not found", id)}
	}
	vm.Status = ovirt.VMStatusDown
	return nil
}

// ListNics returns the NICs attached to a VM.
func (f *Client) ListNics(ctx context.Context, vmID string) ([]*ovirt.Nic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "ListNics"); err != nil {
		return nil, err
	}
	out := make([]*ovirt.Nic, 0, len(f.nics[vmID]))
	for _, n := range f.nics[vmID] {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

// AddNic attaches a new NIC to a VM.
func (f *Client) AddNic(ctx context.Context, vmID string, nic *ovirt.Nic) (*ovirt.Nic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "AddNic"); err != nil {
		return nil, err
	}
	if _, ok := f.vms[vmID]; !ok {
		return nil, &ovirt.APIError{Op: "AddNic", Err: fmt.Errorf("vm %s not found", vmID)}
	}
	stored := *nic
	stored.ID = uuid.NewString()
	f.nics[vmID] = append(f.nics[vmID], &stored)
	cp := stored
	return &cp, nil
}

// ListVnicProfiles returns all profiles in insertion order.
func (f *Client) ListVnicProfiles(ctx context.Context) ([]*ovirt.VnicProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "ListVnicProfiles"); err != nil {
		return nil, err
	}
	out := make([]*ovirt.VnicProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// GetClusterByID returns the cluster with the given ID, or nil.
func (f *Client) GetClusterByID(ctx context.Context, id string) (*ovirt.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GetClusterByID"); err != nil {
		return nil, err
	}
	if c, ok := f.clusters[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

// GetClusterByName returns the cluster with the exact given name, or nil.
func (f *Client) GetClusterByName(ctx context.Context, name string) (*ovirt.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GetClusterByName"); err != nil {
		return nil, err
	}
	if c := f.clusterByRef(ovirt.Ref{Name: name}); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

// ListClusterNetworks returns the networks attached to a cluster.
func (f *Client) ListClusterNetworks(ctx context.Context, clusterID string) ([]*ovirt.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "ListClusterNetworks"); err != nil {
		return nil, err
	}
	out := make([]*ovirt.Network, 0, len(f.networks[clusterID]))
	for _, id := range f.networks[clusterID] {
		out = append(out, &ovirt.Network{ID: id, Name: id})
	}
	return out, nil
}

// GetTemplateByName returns the template with the exact given name, or nil.
func (f *Client) GetTemplateByName(ctx context.Context, name string) (*ovirt.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GetTemplateByName"); err != nil {
		return nil, err
	}
	if t := f.templateByRef(ovirt.Ref{Name: name}); t != nil {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

// Close marks the client closed.
func (f *Client) Close(bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

func (f *Client) clusterByRef(ref ovirt.Ref) *ovirt.Cluster {
	if ref.ID != "" {
		return f.clusters[ref.ID]
	}
	for _, c := range f.clusters {
		if c.Name == ref.Name {
			return c
		}
	}
	return nil
}

func (f *Client) templateByRef(ref ovirt.Ref) *ovirt.Template {
	if ref.ID != "" {
		return f.templates[ref.ID]
	}
	for _, t := range f.templates {
		if t.Name == ref.Name {
			return t
		}
	}
	return nil
}

// spawnVMs creates members numbered from+1..to. The first PrestartedVMs are up.
func (f *Client) spawnVMs(pool *ovirt.Pool, from, to int64) {
	prestarted := int64(0)
	if pool.PrestartedVMs != nil {
		prestarted = *pool.PrestartedVMs
	}
	for i := from; i < to; i++ {
		status := ovirt.VMStatusDown
		if i < prestarted {
			status = ovirt.VMStatusUp
		}
		vm := &ovirt.VM{
			ID:     uuid.NewString(),
			Name:   fmt.Sprintf("%s-%d", pool.Name, i+1),
			PoolID: pool.ID,
			Status: status,
		}
		f.vms[vm.ID] = vm
		f.vmOrder = append(f.vmOrder, vm.ID)
	}
}

func (f *Client) dropVMs(poolID string) {
	kept := f.vmOrder[:0]
	for _, id := range f.vmOrder {
		if vm := f.vms[id]; vm != nil && vm.PoolID == poolID {
			delete(f.vms, id)
			delete(f.nics, id)
			delete(f.scripts, id)
			continue
		}
		kept = append(kept, id)
	}
	f.vmOrder = kept
}
