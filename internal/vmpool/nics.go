package vmpool

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/platform/ovirt"
)

// NicAttacher adds declared NICs that are missing from a VM.
type NicAttacher struct {
	client    ovirt.Client
	profiles  *ProfileResolver
	checkMode bool
	observer  Observer
	metrics   *Metrics
}

// NewNicAttacher creates an attacher. In check mode missing NICs are counted
// as changes but never added.
func NewNicAttacher(client ovirt.Client, profiles *ProfileResolver, checkMode bool, observer Observer, metrics *Metrics) *NicAttacher {
	if observer == nil {
		observer = NopObserver{}
	}
	return &NicAttacher{
		client:    client,
		profiles:  profiles,
		checkMode: checkMode,
		observer:  observer,
		metrics:   metrics,
	}
}

// Attach ensures every NIC in nics exists on vm, matching by name only.
// Existing NICs are never modified. Profiles are only resolved for NICs that
// are actually added. It reports whether anything was (or, in
// check mode, would have been) added.
func (a *NicAttacher) Attach(ctx context.Context, vm *ovirt.VM, nics []config.NicParams, clusterName string) (bool, error) {
	if len(nics) == 0 {
		return false, nil
	}
	logger := logr.FromContextOrDiscard(ctx).WithValues("vm", vm.Name)

	existing, err := a.client.ListNics(ctx, vm.ID)
	if err != nil {
		return false, fmt.Errorf("failed to list nics of vm %s: %w", vm.Name, err)
	}
	present := make(map[string]bool, len(existing))
	for _, n := range existing {
		present[n.Name] = true
	}

	changed := false
	for _, want := range nics {
		if present[want.Name] {
			logger.V(1).Info("nic already present", "nic", want.Name)
			continue
		}

		nic := &ovirt.Nic{
			Name:       want.Name,
			Interface:  want.Interface,
			MACAddress: want.MACAddress,
		}
		if nic.Interface == "" {
			nic.Interface = config.DefaultNicInterface
		}
		if nic.MACAddress != nil && *nic.MACAddress == "" {
			nic.MACAddress = nil
		}

		changed = true
		present[want.Name] = true
		if a.checkMode {
			logger.Info("would attach nic", "nic", want.Name)
			continue
		}

		if want.ProfileName != nil && *want.ProfileName != "" {
			id, err := a.profiles.Resolve(ctx, clusterName, *want.ProfileName)
			if err != nil {
				return changed, fmt.Errorf("failed to resolve profile for nic %s: %w", want.Name, err)
			}
			nic.VnicProfileID = &id
		}

		if _, err := a.client.AddNic(ctx, vm.ID, nic); err != nil {
			return changed, fmt.Errorf("failed to attach nic %s to vm %s: %w", want.Name, vm.Name, err)
		}
		LogNicAttached(a.observer, vm.Name, want.Name)
		a.metrics.nicAttached()
	}
	return changed, nil
}
