package config

import "time"

// State is the desired presence of the pool.
type State string

const (
	// StatePresent ensures the pool exists and matches the declared fields.
	StatePresent State = "present"
	// StateAbsent ensures the pool (and, remotely, its VMs) is removed.
	StateAbsent State = "absent"
)

// PoolType controls how VMs are returned to the pool.
type PoolType string

const (
	// PoolTypeAutomatic returns a VM to the pool when it is shut down.
	PoolTypeAutomatic PoolType = "automatic"
	// PoolTypeManual requires an administrator to return the VM.
	PoolTypeManual PoolType = "manual"
)

// DefaultNicInterface is the NIC model used when a NIC does not name one.
const DefaultNicInterface = "virtio"

// PoolParams is the desired state of one VM pool.
//
// Pointer fields are tri-state: nil means the caller did not mention the
// field, a non-nil pointer carries an explicit value (an empty string clears
// a text field).
type PoolParams struct {
	ID          *string   `yaml:"id"`
	Name        string    `yaml:"name"`
	State       State     `yaml:"state"`
	Template    *string   `yaml:"template"`
	Cluster     *string   `yaml:"cluster"`
	Description *string   `yaml:"description"`
	Comment     *string   `yaml:"comment"`
	VM          *VMParams `yaml:"vm"`
	VMPerUser   *int64    `yaml:"vm_per_user"`
	Prestarted  *int64    `yaml:"prestarted"`
	VMCount     *int64    `yaml:"vm_count"`
	Type        *PoolType `yaml:"type"`

	// Wait blocks until the pool VMs reach a ready state (or are gone on removal).
	Wait *bool `yaml:"wait"`
	// Timeout bounds Wait, in seconds.
	Timeout *int `yaml:"timeout"`

	// CheckMode reports what would change without mutating anything.
	CheckMode bool `yaml:"check_mode"`
}

// VMParams holds per-VM overrides applied to every VM spawned by the pool.
type VMParams struct {
	Comment          *string          `yaml:"comment"`
	Memory           *string          `yaml:"memory"`
	MemoryGuaranteed *string          `yaml:"memory_guaranteed"`
	MemoryMax        *string          `yaml:"memory_max"`
	CloudInit        map[string]any   `yaml:"cloud_init"`
	CloudInitNics    []map[string]any `yaml:"cloud_init_nics"`
	Sysprep          map[string]any   `yaml:"sysprep"`
	SmartcardEnabled *bool            `yaml:"smartcard_enabled"`
	SSO              *bool            `yaml:"sso"`
	Timezone         *string          `yaml:"timezone"`
	Nics             []NicParams      `yaml:"nics"`
}

// NicParams declares a NIC that must exist on every VM of the pool.
type NicParams struct {
	Name        string  `yaml:"name"`
	Interface   string  `yaml:"interface"`
	ProfileName *string `yaml:"profile_name"`
	MACAddress  *string `yaml:"mac_address"`
}

// ApplyDefaults fills in fields whose defaults are owned by this tool rather
// than by the engine.
func (p *PoolParams) ApplyDefaults() {
	if p.State == "" {
		p.State = StatePresent
	}
	if p.VM == nil {
		return
	}
	for i := range p.VM.Nics {
		if p.VM.Nics[i].Interface == "" {
			p.VM.Nics[i].Interface = DefaultNicInterface
		}
	}
}

// WaitEnabled reports whether the caller asked to wait for convergence.
func (p *PoolParams) WaitEnabled() bool {
	return p.Wait != nil && *p.Wait
}

// WaitTimeout returns the explicit timeout, or fallback when none was given.
func (p *PoolParams) WaitTimeout(fallback time.Duration) time.Duration {
	if p.Timeout == nil {
		return fallback
	}
	return time.Duration(*p.Timeout) * time.Second
}

// DeclaredNics returns the NICs to attach after creation, if any.
func (p *PoolParams) DeclaredNics() []NicParams {
	if p.VM == nil {
		return nil
	}
	return p.VM.Nics
}
