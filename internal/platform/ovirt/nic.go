package ovirt

import (
	"context"
	"fmt"

	ovirtsdk4 "github.com/ovirt/go-ovirt"
)

// ListNics returns the NICs attached to a VM.
func (c *RealClient) ListNics(ctx context.Context, vmID string) ([]*Nic, error) {
	var nics []*ovirtsdk4.Nic
	err := c.read(ctx, "list nics", func() error {
		resp, err := c.conn.SystemService().VmsService().VmService(vmID).NicsService().List().Send()
		if err != nil {
			return err
		}
		nics = nil
		if slice, ok := resp.Nics(); ok {
			nics = slice.Slice()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]*Nic, 0, len(nics))
	for _, n := range nics {
		result = append(result, nicFromSDK(n))
	}
	return result, nil
}

// AddNic attaches a new NIC to a VM.
func (c *RealClient) AddNic(ctx context.Context, vmID string, nic *Nic) (*Nic, error) {
	sdkNic, err := nicToSDK(nic)
	if err != nil {
		return nil, wrap("add nic", fmt.Errorf("failed to build nic %s: %w", nic.Name, err))
	}

	var added *ovirtsdk4.Nic
	err = c.write(ctx, "add nic", func() error {
		resp, err := c.conn.SystemService().VmsService().VmService(vmID).NicsService().Add().Nic(sdkNic).Send()
		if err != nil {
			return err
		}
		n, ok := resp.Nic()
		if !ok {
			return fmt.Errorf("engine returned no nic for %s", nic.Name)
		}
		added = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nicFromSDK(added), nil
}
