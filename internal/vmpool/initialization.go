package vmpool

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/platform/ovirt"
)

// Keys of a cloud-init fragment that describe a guest NIC rather than the VM.
const (
	keyNicBootProtocol = "nic_boot_protocol"
	keyNicName         = "nic_name"
	keyNicOnBoot       = "nic_on_boot"
	keyNicIPAddress    = "nic_ip_address"
	keyNicNetmask      = "nic_netmask"
	keyNicGateway      = "nic_gateway"
)

var stringAttributes = map[string]func(*ovirt.Initialization) **string{
	"host_name":           func(i *ovirt.Initialization) **string { return &i.HostName },
	"domain":              func(i *ovirt.Initialization) **string { return &i.Domain },
	"user_name":           func(i *ovirt.Initialization) **string { return &i.UserName },
	"root_password":       func(i *ovirt.Initialization) **string { return &i.RootPassword },
	"authorized_ssh_keys": func(i *ovirt.Initialization) **string { return &i.AuthorizedSSHKeys },
	"custom_script":       func(i *ovirt.Initialization) **string { return &i.CustomScript },
	"dns_servers":         func(i *ovirt.Initialization) **string { return &i.DNSServers },
	"dns_search":          func(i *ovirt.Initialization) **string { return &i.DNSSearch },
	"timezone":            func(i *ovirt.Initialization) **string { return &i.Timezone },
	"input_locale":        func(i *ovirt.Initialization) **string { return &i.InputLocale },
	"ui_language":         func(i *ovirt.Initialization) **string { return &i.UILanguage },
	"system_locale":       func(i *ovirt.Initialization) **string { return &i.SystemLocale },
	"user_locale":         func(i *ovirt.Initialization) **string { return &i.UserLocale },
	"active_directory_ou": func(i *ovirt.Initialization) **string { return &i.ActiveDirectoryOU },
	"org_name":            func(i *ovirt.Initialization) **string { return &i.OrgName },
	"windows_license_key": func(i *ovirt.Initialization) **string { return &i.WindowsLicenseKey },
}

var boolAttributes = map[string]func(*ovirt.Initialization) **bool{
	"regenerate_ssh_keys": func(i *ovirt.Initialization) **bool { return &i.RegenerateSSHKeys },
}

// fragment is one cloud-init map read through claim-once accessors.
// Claimed keys are excluded from the initialization attributes, so NIC keys
// never leak into the VM-level configuration. The input map is not modified.
type fragment struct {
	field   string
	values  map[string]any
	claimed map[string]bool
}

func newFragment(field string, values map[string]any) *fragment {
	return &fragment{field: field, values: values, claimed: make(map[string]bool)}
}

func (f *fragment) claim(key string) (any, bool) {
	f.claimed[key] = true
	v, ok := f.values[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (f *fragment) claimString(key string) (*string, error) {
	v, ok := f.claim(key)
	if !ok {
		return nil, nil
	}
	switch s := v.(type) {
	case string:
		return &s, nil
	case int, int64, uint64, float64:
		str := fmt.Sprint(s)
		return &str, nil
	default:
		return nil, config.Invalid(f.field+"."+key, "expected a string, got %T", v)
	}
}

func (f *fragment) claimBool(key string) (*bool, error) {
	v, ok := f.claim(key)
	if !ok {
		return nil, nil
	}
	switch b := v.(type) {
	case bool:
		return &b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, config.Invalid(f.field+"."+key, "expected a boolean, got %q", b)
		}
		return &parsed, nil
	default:
		return nil, config.Invalid(f.field+"."+key, "expected a boolean, got %T", v)
	}
}

// unclaimed returns the keys nothing has read yet, sorted.
func (f *fragment) unclaimed() []string {
	var keys []string
	for k := range f.values {
		if !f.claimed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// nicConfiguration claims the NIC keys of f. It returns nil when none of
// address, netmask, gateway, boot protocol or on-boot is set; a name alone
// does not make a configuration.
func (f *fragment) nicConfiguration() (*ovirt.NicConfiguration, error) {
	bootProtocol, err := f.claimString(keyNicBootProtocol)
	if err != nil {
		return nil, err
	}
	name, err := f.claimString(keyNicName)
	if err != nil {
		return nil, err
	}
	onBoot, err := f.claimBool(keyNicOnBoot)
	if err != nil {
		return nil, err
	}
	address, err := f.claimString(keyNicIPAddress)
	if err != nil {
		return nil, err
	}
	netmask, err := f.claimString(keyNicNetmask)
	if err != nil {
		return nil, err
	}
	gateway, err := f.claimString(keyNicGateway)
	if err != nil {
		return nil, err
	}

	if address == nil && netmask == nil && gateway == nil && bootProtocol == nil && onBoot == nil {
		return nil, nil
	}

	nc := &ovirt.NicConfiguration{Name: name, OnBoot: onBoot}
	if bootProtocol != nil && *bootProtocol != "" {
		bp := ovirt.BootProtocol(strings.ToLower(*bootProtocol))
		if !ovirt.ValidBootProtocols[bp] {
			return nil, config.Invalid(f.field+"."+keyNicBootProtocol, "unsupported boot protocol %q", *bootProtocol)
		}
		nc.BootProtocol = &bp
	}
	if address != nil || netmask != nil || gateway != nil {
		nc.IP = &ovirt.IP{Address: address, Netmask: netmask, Gateway: gateway}
	}
	return nc, nil
}

// applyAttributes maps every unclaimed key of f onto dst.
func (f *fragment) applyAttributes(dst *ovirt.Initialization) error {
	for _, key := range f.unclaimed() {
		field := f.field + "." + key
		switch {
		case stringAttributes[key] != nil:
			v, err := f.claimString(key)
			if err != nil {
				return err
			}
			if v == nil {
				continue
			}
			if key == "authorized_ssh_keys" {
				if err := validateAuthorizedKeys(field, *v); err != nil {
					return err
				}
			}
			*stringAttributes[key](dst) = v
		case boolAttributes[key] != nil:
			v, err := f.claimBool(key)
			if err != nil {
				return err
			}
			*boolAttributes[key](dst) = v
		default:
			return config.Invalid(field, "unknown initialization attribute")
		}
	}
	return nil
}

// validateAuthorizedKeys checks every non-comment line is an OpenSSH public key.
func validateAuthorizedKeys(field, keys string) error {
	for i, line := range strings.Split(keys, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line)); err != nil {
			return config.Invalid(field, "line %d is not an authorized key: %v", i+1, err)
		}
	}
	return nil
}

// ResolveInitialization derives the guest initialization from the VM
// parameters. Cloud-init takes precedence over sysprep; when neither is
// given the result is nil.
//
// The singular cloud_init map is treated as the last NIC fragment, after
// every cloud_init_nics entry. Its remaining keys become initialization
// attributes. Entries of cloud_init_nics may only carry NIC keys.
func ResolveInitialization(ctx context.Context, vm *config.VMParams) (*ovirt.Initialization, error) {
	if vm == nil {
		return nil, nil
	}
	logger := logr.FromContextOrDiscard(ctx)

	if vm.CloudInit != nil || len(vm.CloudInitNics) > 0 {
		if len(vm.Sysprep) > 0 {
			logger.V(1).Info("cloud-init and sysprep both given, ignoring sysprep")
		}

		fragments := make([]*fragment, 0, len(vm.CloudInitNics)+1)
		for i, nic := range vm.CloudInitNics {
			fragments = append(fragments, newFragment(fmt.Sprintf("vm.cloud_init_nics[%d]", i), nic))
		}
		var top *fragment
		if vm.CloudInit != nil {
			top = newFragment("vm.cloud_init", vm.CloudInit)
			fragments = append(fragments, top)
		}

		initialization := &ovirt.Initialization{NicConfigurations: []ovirt.NicConfiguration{}}
		for _, f := range fragments {
			nc, err := f.nicConfiguration()
			if err != nil {
				return nil, err
			}
			if nc != nil {
				initialization.NicConfigurations = append(initialization.NicConfigurations, *nc)
			}
		}

		for _, f := range fragments[:len(vm.CloudInitNics)] {
			if left := f.unclaimed(); len(left) > 0 {
				return nil, config.Invalid(f.field+"."+left[0], "only nic_* keys are allowed in cloud_init_nics")
			}
		}

		if top != nil {
			if err := top.applyAttributes(initialization); err != nil {
				return nil, err
			}
		}

		logger.V(1).Info("resolved cloud-init initialization",
			"fragments", len(fragments), "nicConfigurations", len(initialization.NicConfigurations))
		return initialization, nil
	}

	if len(vm.Sysprep) > 0 {
		initialization := &ovirt.Initialization{}
		if err := newFragment("vm.sysprep", vm.Sysprep).applyAttributes(initialization); err != nil {
			return nil, err
		}
		logger.V(1).Info("resolved sysprep initialization")
		return initialization, nil
	}

	return nil, nil
}
