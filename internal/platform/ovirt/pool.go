package ovirt

import (
	"context"
	"fmt"

	ovirtsdk4 "github.com/ovirt/go-ovirt"
)

func (c *RealClient) listPools(ctx context.Context) ([]*ovirtsdk4.VmPool, error) {
	var pools []*ovirtsdk4.VmPool
	err := c.read(ctx, "list pools", func() error {
		resp, err := c.conn.SystemService().VmPoolsService().List().Send()
		if err != nil {
			return err
		}
		pools = nil
		if slice, ok := resp.Pools(); ok {
			pools = slice.Slice()
		}
		return nil
	})
	return pools, err
}

// GetPoolByID returns the pool with the given ID, or nil if not found.
func (c *RealClient) GetPoolByID(ctx context.Context, id string) (*Pool, error) {
	return c.findPool(ctx, func(p *ovirtsdk4.VmPool) bool {
		got, _ := p.Id()
		return got == id
	})
}

// GetPoolByName returns the pool with the exact given name, or nil if not found.
func (c *RealClient) GetPoolByName(ctx context.Context, name string) (*Pool, error) {
	return c.findPool(ctx, func(p *ovirtsdk4.VmPool) bool {
		got, _ := p.Name()
		return got == name
	})
}

func (c *RealClient) findPool(ctx context.Context, match func(*ovirtsdk4.VmPool) bool) (*Pool, error) {
	pools, err := c.listPools(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pools {
		if match(p) {
			return poolFromSDK(p), nil
		}
	}
	return nil, nil
}

// CreatePool creates a pool and returns it as reported by the engine.
func (c *RealClient) CreatePool(ctx context.Context, pool *Pool) (*Pool, error) {
	sdkPool, err := poolToSDK(pool)
	if err != nil {
		return nil, wrap("create pool", fmt.Errorf("failed to build pool %s: %w", pool.Name, err))
	}

	var created *ovirtsdk4.VmPool
	err = c.write(ctx, "create pool", func() error {
		resp, err := c.conn.SystemService().VmPoolsService().Add().Pool(sdkPool).Send()
		if err != nil {
			return err
		}
		p, ok := resp.Pool()
		if !ok {
			return fmt.Errorf("engine returned no pool for %s", pool.Name)
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poolFromSDK(created), nil
}

// UpdatePool sends the full desired entity for the pool with the given ID.
func (c *RealClient) UpdatePool(ctx context.Context, id string, pool *Pool) (*Pool, error) {
	sdkPool, err := poolToSDK(pool)
	if err != nil {
		return nil, wrap("update pool", fmt.Errorf("failed to build pool %s: %w", pool.Name, err))
	}

	var updated *ovirtsdk4.VmPool
	err = c.write(ctx, "update pool", func() error {
		resp, err := c.conn.SystemService().VmPoolsService().PoolService(id).Update().Pool(sdkPool).Send()
		if err != nil {
			return err
		}
		p, ok := resp.Pool()
		if !ok {
			return fmt.Errorf("engine returned no pool for %s", id)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poolFromSDK(updated), nil
}

// RemovePool deletes the pool. The engine removes member VMs along with it.
func (c *RealClient) RemovePool(ctx context.Context, id string) error {
	return c.write(ctx, "remove pool", func() error {
		_, err := c.conn.SystemService().VmPoolsService().PoolService(id).Remove().Send()
		return err
	})
}

// ListPoolVMs returns every VM whose pool reference equals poolID.
func (c *RealClient) ListPoolVMs(ctx context.Context, poolID string) ([]*VM, error) {
	var vms []*ovirtsdk4.Vm
	err := c.read(ctx, "list vms", func() error {
		resp, err := c.conn.SystemService().VmsService().List().Send()
		if err != nil {
			return err
		}
		vms = nil
		if slice, ok := resp.Vms(); ok {
			vms = slice.Slice()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var members []*VM
	for _, v := range vms {
		vm := vmFromSDK(v)
		if vm.PoolID == poolID {
			members = append(members, vm)
		}
	}
	return members, nil
}
