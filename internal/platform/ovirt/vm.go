package ovirt

import (
	"context"

	ovirtsdk4 "github.com/ovirt/go-ovirt"
)

// GetVM returns the VM with the given ID, or nil if not found.
func (c *RealClient) GetVM(ctx context.Context, id string) (*VM, error) {
	var found *ovirtsdk4.Vm
	err := c.read(ctx, "get vm", func() error {
		resp, err := c.conn.SystemService().VmsService().List().Search("id=" + id).Send()
		if err != nil {
			return err
		}
		found = nil
		if slice, ok := resp.Vms(); ok {
			for _, v := range slice.Slice() {
				if got, _ := v.Id(); got == id {
					found = v
					break
				}
			}
		}
		return nil
	})
	if err != nil || found == nil {
		return nil, err
	}
	return vmFromSDK(found), nil
}

// StopVM powers the VM off.
func (c *RealClient) StopVM(ctx context.Context, id string) error {
	return c.write(ctx, "stop vm", func() error {
		_, err := c.conn.SystemService().VmsService().VmService(id).Stop().Send()
		return err
	})
}
