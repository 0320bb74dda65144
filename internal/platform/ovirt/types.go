package ovirt

// PoolType controls how VMs are returned to a pool.
type PoolType string

const (
	PoolTypeAutomatic PoolType = "automatic"
	PoolTypeManual    PoolType = "manual"
)

// VMStatus is the engine-reported state of a VM.
type VMStatus string

const (
	VMStatusDown        VMStatus = "down"
	VMStatusUp          VMStatus = "up"
	VMStatusPoweringUp  VMStatus = "powering_up"
	VMStatusImageLocked VMStatus = "image_locked"
	VMStatusUnknown     VMStatus = "unknown"
)

// BootProtocol is the address assignment mode of a guest NIC configuration.
type BootProtocol string

const (
	BootProtocolNone             BootProtocol = "none"
	BootProtocolDHCP             BootProtocol = "dhcp"
	BootProtocolStatic           BootProtocol = "static"
	BootProtocolAutoconf         BootProtocol = "autoconf"
	BootProtocolDHCPv6           BootProtocol = "dhcpv6"
	BootProtocolPolyDHCPAutoconf BootProtocol = "poly_dhcp_autoconf"
)

// ValidBootProtocols contains every boot protocol the engine accepts.
var ValidBootProtocols = map[BootProtocol]bool{
	BootProtocolNone:             true,
	BootProtocolDHCP:             true,
	BootProtocolStatic:           true,
	BootProtocolAutoconf:         true,
	BootProtocolDHCPv6:           true,
	BootProtocolPolyDHCPAutoconf: true,
}

// SSOMethod is a single sign-on mechanism for VM consoles.
type SSOMethod string

// SSOMethodGuestAgent signs users in through the guest agent.
const SSOMethodGuestAgent SSOMethod = "guest_agent"

// Ref points at another engine entity by ID and/or name.
type Ref struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Pool is a VM pool, either as desired (built locally) or as read back.
//
// Pointer fields are nil when unset. On a desired pool that means "leave the
// remote value alone"; on an observed pool it means the engine did not report
// the attribute.
type Pool struct {
	ID            string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string      `json:"name" yaml:"name"`
	Description   *string     `json:"description,omitempty" yaml:"description,omitempty"`
	Comment       *string     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Cluster       *Ref        `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Template      *Ref        `json:"template,omitempty" yaml:"template,omitempty"`
	Type          *PoolType   `json:"type,omitempty" yaml:"type,omitempty"`
	MaxUserVMs    *int64      `json:"max_user_vms,omitempty" yaml:"max_user_vms,omitempty"`
	PrestartedVMs *int64      `json:"prestarted_vms,omitempty" yaml:"prestarted_vms,omitempty"`
	Size          *int64      `json:"size,omitempty" yaml:"size,omitempty"`
	VM            *VMTemplate `json:"vm,omitempty" yaml:"vm,omitempty"`
}

// VMTemplate holds the per-VM overrides a pool applies to its instances.
type VMTemplate struct {
	Comment          *string         `json:"comment,omitempty" yaml:"comment,omitempty"`
	MemoryBytes      *int64          `json:"memory,omitempty" yaml:"memory,omitempty"`
	MemoryPolicy     *MemoryPolicy   `json:"memory_policy,omitempty" yaml:"memory_policy,omitempty"`
	Initialization   *Initialization `json:"initialization,omitempty" yaml:"initialization,omitempty"`
	SmartcardEnabled *bool           `json:"smartcard_enabled,omitempty" yaml:"smartcard_enabled,omitempty"`
	SSO              *SSO            `json:"sso,omitempty" yaml:"sso,omitempty"`
	TimeZone         *string         `json:"time_zone,omitempty" yaml:"time_zone,omitempty"`
}

// MemoryPolicy bounds guaranteed and maximum memory, in bytes.
type MemoryPolicy struct {
	Guaranteed *int64 `json:"guaranteed,omitempty" yaml:"guaranteed,omitempty"`
	Max        *int64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// SSO lists the enabled single sign-on methods. An empty list disables SSO.
type SSO struct {
	Methods []SSOMethod `json:"methods" yaml:"methods"`
}

// Initialization is the guest first-boot configuration (cloud-init or sysprep).
type Initialization struct {
	HostName          *string `json:"host_name,omitempty" yaml:"host_name,omitempty"`
	Domain            *string `json:"domain,omitempty" yaml:"domain,omitempty"`
	UserName          *string `json:"user_name,omitempty" yaml:"user_name,omitempty"`
	RootPassword      *string `json:"-" yaml:"-"`
	AuthorizedSSHKeys *string `json:"authorized_ssh_keys,omitempty" yaml:"authorized_ssh_keys,omitempty"`
	RegenerateSSHKeys *bool   `json:"regenerate_ssh_keys,omitempty" yaml:"regenerate_ssh_keys,omitempty"`
	CustomScript      *string `json:"custom_script,omitempty" yaml:"custom_script,omitempty"`
	DNSServers        *string `json:"dns_servers,omitempty" yaml:"dns_servers,omitempty"`
	DNSSearch         *string `json:"dns_search,omitempty" yaml:"dns_search,omitempty"`
	Timezone          *string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	InputLocale       *string `json:"input_locale,omitempty" yaml:"input_locale,omitempty"`
	UILanguage        *string `json:"ui_language,omitempty" yaml:"ui_language,omitempty"`
	SystemLocale      *string `json:"system_locale,omitempty" yaml:"system_locale,omitempty"`
	UserLocale        *string `json:"user_locale,omitempty" yaml:"user_locale,omitempty"`
	ActiveDirectoryOU *string `json:"active_directory_ou,omitempty" yaml:"active_directory_ou,omitempty"`
	OrgName           *string `json:"org_name,omitempty" yaml:"org_name,omitempty"`
	WindowsLicenseKey *string `json:"-" yaml:"-"`

	// NicConfigurations is nil when no cloud-init NIC fragments were supplied.
	NicConfigurations []NicConfiguration `json:"nic_configurations,omitempty" yaml:"nic_configurations,omitempty"`
}

// NicConfiguration is the guest-side network setup of one NIC.
type NicConfiguration struct {
	Name         *string       `json:"name,omitempty" yaml:"name,omitempty"`
	BootProtocol *BootProtocol `json:"boot_protocol,omitempty" yaml:"boot_protocol,omitempty"`
	OnBoot       *bool         `json:"on_boot,omitempty" yaml:"on_boot,omitempty"`
	IP           *IP           `json:"ip,omitempty" yaml:"ip,omitempty"`
}

// IP is a static IPv4 assignment.
type IP struct {
	Address *string `json:"address,omitempty" yaml:"address,omitempty"`
	Netmask *string `json:"netmask,omitempty" yaml:"netmask,omitempty"`
	Gateway *string `json:"gateway,omitempty" yaml:"gateway,omitempty"`
}

// VM is a virtual machine as reported by the engine.
type VM struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	PoolID string   `json:"pool_id,omitempty"`
	Status VMStatus `json:"status"`
}

// Nic is a network interface attached to a VM.
type Nic struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	Interface     string  `json:"interface,omitempty"`
	VnicProfileID *string `json:"vnic_profile_id,omitempty"`
	MACAddress    *string `json:"mac_address,omitempty"`
}

// VnicProfile is a named network attachment configuration bound to one network.
type VnicProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NetworkID string `json:"network_id"`
}

// Cluster is a group of hosts sharing networks and storage.
type Cluster struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Network is a logical network attached to clusters.
type Network struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Template is a VM image/configuration pools are cloned from.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
