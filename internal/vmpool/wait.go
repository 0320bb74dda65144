package vmpool

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/vmpool/internal/platform/ovirt"
)

// DefaultPollInterval is the delay between status polls.
const DefaultPollInterval = 3 * time.Second

// VMPredicate reports whether a VM reached the awaited state.
// vm is nil when the VM no longer exists.
type VMPredicate func(vm *ovirt.VM) bool

// VMReady holds once a VM has settled in either down or up.
func VMReady(vm *ovirt.VM) bool {
	return vm != nil && (vm.Status == ovirt.VMStatusDown || vm.Status == ovirt.VMStatusUp)
}

// Poller waits for asynchronous VM state transitions.
type Poller struct {
	client   ovirt.Client
	interval time.Duration
}

// NewPoller creates a poller. A non-positive interval selects DefaultPollInterval.
func NewPoller(client ovirt.Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{client: client, interval: interval}
}

// WaitFor polls every VM in vmIDs until predicate holds for all of them.
// VMs that matched are not polled again. It returns a *TimeoutError naming
// the VMs still pending when timeout elapses.
func (p *Poller) WaitFor(ctx context.Context, vmIDs []string, predicate VMPredicate, timeout time.Duration) error {
	pending := append([]string(nil), vmIDs...)

	return p.until(ctx, timeout, func(ctx context.Context) ([]string, error) {
		remaining := make([]string, 0, len(pending))
		for _, id := range pending {
			vm, err := p.client.GetVM(ctx, id)
			if err != nil {
				return pending, fmt.Errorf("failed to get vm %s: %w", id, err)
			}
			if !predicate(vm) {
				remaining = append(remaining, id)
			}
		}
		pending = remaining
		return pending, nil
	})
}

// WaitForPoolEmpty polls until no VM references poolID any more.
func (p *Poller) WaitForPoolEmpty(ctx context.Context, poolID string, timeout time.Duration) error {
	return p.until(ctx, timeout, func(ctx context.Context) ([]string, error) {
		vms, err := p.client.ListPoolVMs(ctx, poolID)
		if err != nil {
			return nil, fmt.Errorf("failed to list vms of pool %s: %w", poolID, err)
		}
		ids := make([]string, 0, len(vms))
		for _, vm := range vms {
			ids = append(ids, vm.ID)
		}
		return ids, nil
	})
}

// until runs check immediately and then on every tick until it reports
// nothing pending, the timeout elapses or ctx is cancelled.
func (p *Poller) until(ctx context.Context, timeout time.Duration, check func(context.Context) ([]string, error)) error {
	logger := logr.FromContextOrDiscard(ctx)
	parent := ctx

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var pending []string
	for {
		current, err := check(ctx)
		switch {
		case err == nil:
			pending = current
			if len(pending) == 0 {
				return nil
			}
			logger.V(1).Info("waiting for vms", "pending", len(pending))
		case ctx.Err() == nil:
			return err
		}

		select {
		case <-ctx.Done():
			if parent.Err() != nil {
				return parent.Err()
			}
			return &TimeoutError{Pending: pending, Timeout: timeout}
		case <-ticker.C:
		}
	}
}
