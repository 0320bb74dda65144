package ovirt

import "context"

// PoolManager defines the interface for managing VM pools.
type PoolManager interface {
	// GetPoolByID returns the pool with the given ID, or nil if not found.
	GetPoolByID(ctx context.Context, id string) (*Pool, error)
	// GetPoolByName returns the pool with the exact given name, or nil if not found.
	GetPoolByName(ctx context.Context, name string) (*Pool, error)
	CreatePool(ctx context.Context, pool *Pool) (*Pool, error)
	UpdatePool(ctx context.Context, id string, pool *Pool) (*Pool, error)
	RemovePool(ctx context.Context, id string) error
	// ListPoolVMs returns every VM whose pool reference equals poolID.
	ListPoolVMs(ctx context.Context, poolID string) ([]*VM, error)
}

// VMManager defines the interface for inspecting and powering VMs.
type VMManager interface {
	// GetVM returns the VM with the given ID, or nil if not found.
	GetVM(ctx context.Context, id string) (*VM, error)
	StopVM(ctx context.Context, id string) error
}

// NicManager defines the interface for managing VM NICs.
type NicManager interface {
	ListNics(ctx context.Context, vmID string) ([]*Nic, error)
	AddNic(ctx context.Context, vmID string, nic *Nic) (*Nic, error)
}

// VnicProfileManager defines the interface for listing VNIC profiles.
type VnicProfileManager interface {
	// ListVnicProfiles returns all profiles in engine listing order.
	ListVnicProfiles(ctx context.Context) ([]*VnicProfile, error)
}

// ClusterManager defines the interface for reading clusters.
type ClusterManager interface {
	GetClusterByID(ctx context.Context, id string) (*Cluster, error)
	GetClusterByName(ctx context.Context, name string) (*Cluster, error)
	ListClusterNetworks(ctx context.Context, clusterID string) ([]*Network, error)
}

// TemplateManager defines the interface for reading templates.
type TemplateManager interface {
	GetTemplateByName(ctx context.Context, name string) (*Template, error)
}

// Client combines all engine interfaces.
type Client interface {
	PoolManager
	VMManager
	NicManager
	VnicProfileManager
	ClusterManager
	TemplateManager

	// Close releases the connection. With logout the SSO token is revoked.
	Close(logout bool) error
}
