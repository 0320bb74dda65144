package vmpool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/platform/ovirt"
	"github.com/imamik/vmpool/internal/util/ptr"
)

// Result is the outcome of one reconciliation.
type Result struct {
	Changed bool        `json:"changed" yaml:"changed"`
	ID      string      `json:"id,omitempty" yaml:"id,omitempty"`
	VMPool  *ovirt.Pool `json:"vmpool,omitempty" yaml:"vmpool,omitempty"`
}

// Pass holds what is computed once per reconciliation and shared by every
// consumer during it.
type Pass struct {
	Params         *config.PoolParams
	Initialization *ovirt.Initialization
}

// Reconciler drives a VM pool towards its declared state.
type Reconciler struct {
	client         ovirt.Client
	observer       Observer
	metrics        *Metrics
	pollInterval   time.Duration
	defaultTimeout time.Duration
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithObserver sets the event observer.
func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		r.observer = o
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// WithPollInterval sets the delay between VM status polls.
func WithPollInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		r.pollInterval = d
	}
}

// WithDefaultTimeout sets the wait bound used when params carry no timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		r.defaultTimeout = d
	}
}

// NewReconciler creates a Reconciler backed by client.
func NewReconciler(client ovirt.Client, opts ...Option) *Reconciler {
	r := &Reconciler{
		client:         client,
		observer:       NopObserver{},
		pollInterval:   DefaultPollInterval,
		defaultTimeout: config.DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile validates params and dispatches on the desired state.
func (r *Reconciler) Reconcile(ctx context.Context, params *config.PoolParams) (*Result, error) {
	start := time.Now()
	if err := params.Validate(); err != nil {
		r.metrics.recordReconcile(string(params.State), "error", time.Since(start))
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch params.State {
	case config.StateAbsent:
		res, err = r.EnsureAbsent(ctx, params)
	default:
		res, err = r.EnsurePresent(ctx, params)
	}

	outcome := "unchanged"
	switch {
	case err != nil:
		outcome = "error"
	case res.Changed:
		outcome = "changed"
	}
	r.metrics.recordReconcile(string(params.State), outcome, time.Since(start))
	return res, err
}

// NewPass resolves everything that must be computed exactly once per run.
func NewPass(ctx context.Context, params *config.PoolParams) (*Pass, error) {
	initialization, err := ResolveInitialization(ctx, params.VM)
	if err != nil {
		return nil, err
	}
	return &Pass{Params: params, Initialization: initialization}, nil
}

// EnsurePresent creates the pool or updates it when a compared field diverges.
// Declared NICs are attached to member VMs only right after creation.
func (r *Reconciler) EnsurePresent(ctx context.Context, params *config.PoolParams) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("pool", params.Name)
	ctx = logr.NewContext(ctx, logger)
	observer := r.observer.WithFields(map[string]string{"state": string(config.StatePresent)})

	pass, err := NewPass(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := r.validateReferences(ctx, params); err != nil {
		return nil, err
	}
	desired, err := BuildPool(params, pass.Initialization)
	if err != nil {
		return nil, err
	}

	existing, err := r.lookup(ctx, params)
	if err != nil {
		return nil, err
	}

	var res *Result
	if existing == nil {
		res, err = r.create(ctx, pass, desired, observer)
	} else {
		res, err = r.update(ctx, params, desired, existing, observer)
	}
	if err != nil {
		return nil, err
	}

	if params.WaitEnabled() && !params.CheckMode && res.ID != "" {
		if err := r.waitReady(ctx, res.ID, params, observer); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *Reconciler) create(ctx context.Context, pass *Pass, desired *ovirt.Pool, observer Observer) (*Result, error) {
	if pass.Params.CheckMode {
		LogCheckModeSkipped(observer, desired.Name, "create")
		return &Result{Changed: true}, nil
	}

	LogResourceCreating(observer, desired.Name)
	created, err := r.client.CreatePool(ctx, desired)
	if err != nil {
		return nil, fmt.Errorf("failed to create vm pool %s: %w", desired.Name, err)
	}
	LogResourceCreated(observer, created.Name, created.ID)

	if err := r.postCreate(ctx, pass, created, observer); err != nil {
		return nil, err
	}
	return &Result{Changed: true, ID: created.ID, VMPool: created}, nil
}

// postCreate attaches the declared NICs to every VM spawned for the pool.
func (r *Reconciler) postCreate(ctx context.Context, pass *Pass, pool *ovirt.Pool, observer Observer) error {
	nics := pass.Params.DeclaredNics()
	if len(nics) == 0 {
		return nil
	}

	vms, err := r.client.ListPoolVMs(ctx, pool.ID)
	if err != nil {
		return fmt.Errorf("failed to list vms of pool %s: %w", pool.Name, err)
	}

	attacher := NewNicAttacher(r.client, NewProfileResolver(r.client), pass.Params.CheckMode, observer, r.metrics)
	clusterName := ptr.Deref(pass.Params.Cluster, "")
	for _, vm := range vms {
		if _, err := attacher.Attach(ctx, vm, nics, clusterName); err != nil {
			return fmt.Errorf("failed to attach nics to pool %s (%s): %w", pool.Name, pool.ID, err)
		}
	}
	return nil
}

func (r *Reconciler) update(ctx context.Context, params *config.PoolParams, desired, existing *ovirt.Pool, observer Observer) (*Result, error) {
	upToDate, err := r.UpdateCheck(ctx, desired, existing)
	if err != nil {
		return nil, err
	}
	if upToDate {
		LogResourceExists(observer, existing.Name, existing.ID)
		return &Result{ID: existing.ID, VMPool: existing}, nil
	}

	if params.CheckMode {
		LogCheckModeSkipped(observer, existing.Name, "update")
		return &Result{Changed: true, ID: existing.ID, VMPool: existing}, nil
	}

	LogResourceUpdating(observer, existing.Name, existing.ID)
	updated, err := r.client.UpdatePool(ctx, existing.ID, desired)
	if err != nil {
		return nil, fmt.Errorf("failed to update vm pool %s: %w", existing.Name, err)
	}
	LogResourceUpdated(observer, updated.Name, updated.ID)
	return &Result{Changed: true, ID: updated.ID, VMPool: updated}, nil
}

// EnsureAbsent stops the member VMs and removes the pool. The engine deletes
// the VMs with the pool; with wait enabled the call blocks until none remain.
func (r *Reconciler) EnsureAbsent(ctx context.Context, params *config.PoolParams) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("pool", params.Name)
	ctx = logr.NewContext(ctx, logger)
	observer := r.observer.WithFields(map[string]string{"state": string(config.StateAbsent)})

	existing, err := r.lookup(ctx, params)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		logger.V(1).Info("vm pool not found, nothing to remove")
		return &Result{}, nil
	}

	if params.CheckMode {
		LogCheckModeSkipped(observer, existing.Name, "remove")
		return &Result{Changed: true, ID: existing.ID, VMPool: existing}, nil
	}

	vms, err := r.client.ListPoolVMs(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vms of pool %s: %w", existing.Name, err)
	}
	for _, vm := range vms {
		if vm.Status == ovirt.VMStatusDown {
			continue
		}
		logger.V(1).Info("stopping vm", "vm", vm.Name, "status", string(vm.Status))
		if err := r.client.StopVM(ctx, vm.ID); err != nil {
			return nil, fmt.Errorf("failed to stop vm %s: %w", vm.Name, err)
		}
	}

	LogResourceDeleting(observer, existing.Name, existing.ID)
	if err := r.client.RemovePool(ctx, existing.ID); err != nil {
		return nil, fmt.Errorf("failed to remove vm pool %s: %w", existing.Name, err)
	}
	LogResourceDeleted(observer, existing.Name, existing.ID)

	if params.WaitEnabled() {
		timeout := params.WaitTimeout(r.defaultTimeout)
		LogWaitStarted(observer, len(vms), timeout)
		start := time.Now()
		if err := NewPoller(r.client, r.pollInterval).WaitForPoolEmpty(ctx, existing.ID, timeout); err != nil {
			return nil, r.waitFailed(observer, existing.Name, err)
		}
		r.metrics.recordWait(time.Since(start))
		LogWaitCompleted(observer, time.Since(start))
	}

	return &Result{Changed: true, ID: existing.ID, VMPool: existing}, nil
}

// UpdateCheck reports whether actual already matches desired on name,
// cluster name, description, comment, max user VMs, prestarted VMs and size.
// Fields left unset in desired are not compared.
func (r *Reconciler) UpdateCheck(ctx context.Context, desired, actual *ovirt.Pool) (bool, error) {
	logger := logr.FromContextOrDiscard(ctx)
	differs := func(field string) (bool, error) {
		logger.V(1).Info("field differs", "field", field)
		return false, nil
	}

	if desired.Name != "" && desired.Name != actual.Name {
		return differs("name")
	}
	if desired.Cluster != nil && desired.Cluster.Name != "" {
		name, err := r.clusterName(ctx, actual.Cluster)
		if err != nil {
			return false, err
		}
		if name != desired.Cluster.Name {
			return differs("cluster")
		}
	}
	if !textMatches(desired.Description, actual.Description) {
		return differs("description")
	}
	if !textMatches(desired.Comment, actual.Comment) {
		return differs("comment")
	}
	if !countMatches(desired.MaxUserVMs, actual.MaxUserVMs) {
		return differs("max_user_vms")
	}
	if !countMatches(desired.PrestartedVMs, actual.PrestartedVMs) {
		return differs("prestarted_vms")
	}
	if !countMatches(desired.Size, actual.Size) {
		return differs("size")
	}
	return true, nil
}

// textMatches treats an unreported remote text field as empty.
func textMatches(desired, actual *string) bool {
	return desired == nil || *desired == ptr.Deref(actual, "")
}

func countMatches(desired, actual *int64) bool {
	return desired == nil || ptr.Equal(desired, actual)
}

// clusterName resolves a cluster reference that may carry only an ID.
func (r *Reconciler) clusterName(ctx context.Context, ref *ovirt.Ref) (string, error) {
	if ref == nil {
		return "", nil
	}
	if ref.Name != "" {
		return ref.Name, nil
	}
	cluster, err := r.client.GetClusterByID(ctx, ref.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get cluster %s: %w", ref.ID, err)
	}
	if cluster == nil {
		return "", nil
	}
	return cluster.Name, nil
}

// lookup finds the pool by ID when one is given, by name otherwise.
func (r *Reconciler) lookup(ctx context.Context, params *config.PoolParams) (*ovirt.Pool, error) {
	if params.ID != nil && *params.ID != "" {
		pool, err := r.client.GetPoolByID(ctx, *params.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get vm pool %s: %w", *params.ID, err)
		}
		return pool, nil
	}
	pool, err := r.client.GetPoolByName(ctx, params.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get vm pool %s: %w", params.Name, err)
	}
	return pool, nil
}

// validateReferences checks that named cluster and template exist before
// anything is mutated.
func (r *Reconciler) validateReferences(ctx context.Context, params *config.PoolParams) error {
	clusterName := ptr.Deref(params.Cluster, "")
	if clusterName != "" {
		cluster, err := r.client.GetClusterByName(ctx, clusterName)
		if err != nil {
			return fmt.Errorf("failed to get cluster %s: %w", clusterName, err)
		}
		if cluster == nil {
			return config.Invalid("cluster", "cluster %q does not exist", clusterName)
		}
	}

	if name := ptr.Deref(params.Template, ""); name != "" {
		template, err := r.client.GetTemplateByName(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to get template %s: %w", name, err)
		}
		if template == nil {
			return config.Invalid("template", "template %q does not exist", name)
		}
	}

	for i, nic := range params.DeclaredNics() {
		if ptr.Deref(nic.ProfileName, "") != "" && clusterName == "" {
			return config.Invalid(fmt.Sprintf("vm.nics[%d].profile_name", i), "requires cluster to be set")
		}
	}
	return nil
}

// waitReady blocks until every current member VM is down or up.
func (r *Reconciler) waitReady(ctx context.Context, poolID string, params *config.PoolParams, observer Observer) error {
	vms, err := r.client.ListPoolVMs(ctx, poolID)
	if err != nil {
		return fmt.Errorf("failed to list vms of pool %s: %w", params.Name, err)
	}
	ids := make([]string, 0, len(vms))
	for _, vm := range vms {
		ids = append(ids, vm.ID)
	}

	timeout := params.WaitTimeout(r.defaultTimeout)
	LogWaitStarted(observer, len(ids), timeout)
	start := time.Now()
	if err := NewPoller(r.client, r.pollInterval).WaitFor(ctx, ids, VMReady, timeout); err != nil {
		return r.waitFailed(observer, params.Name, err)
	}
	r.metrics.recordWait(time.Since(start))
	LogWaitCompleted(observer, time.Since(start))
	return nil
}

func (r *Reconciler) waitFailed(observer Observer, name string, err error) error {
	var te *TimeoutError
	if errors.As(err, &te) {
		LogWaitTimedOut(observer, te.Pending)
	}
	return fmt.Errorf("failed waiting for vm pool %s: %w", name, err)
}
