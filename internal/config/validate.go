package config

import (
	"fmt"
	"net"

	"github.com/google/uuid"
)

// ValidationError reports malformed or conflicting input. It is always raised
// before any remote mutation happens.
type ValidationError struct {
	Field   string // Parameter that failed validation
	Message string // Human-readable reason
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Message)
}

// Invalid builds a *ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidNicInterfaces contains the NIC models accepted by the engine.
var ValidNicInterfaces = map[string]bool{
	"virtio":          true,
	"e1000":           true,
	"rtl8139":         true,
	"rtl8139_virtio":  true,
	"pci_passthrough": true,
	"spapr_vlan":      true,
}

// Validate checks the parameters and returns the first *ValidationError found.
func (p *PoolParams) Validate() error {
	if p.Name == "" {
		return Invalid("name", "is required")
	}

	switch p.State {
	case StatePresent, StateAbsent:
	default:
		return Invalid("state", "must be one of present, absent (got %q)", p.State)
	}

	if p.ID != nil {
		if _, err := uuid.Parse(*p.ID); err != nil {
			return Invalid("id", "%q is not a UUID", *p.ID)
		}
	}

	if p.Type != nil {
		switch *p.Type {
		case PoolTypeAutomatic, PoolTypeManual:
		default:
			return Invalid("type", "must be one of automatic, manual (got %q)", *p.Type)
		}
	}

	for field, v := range map[string]*int64{
		"vm_per_user": p.VMPerUser,
		"prestarted":  p.Prestarted,
		"vm_count":    p.VMCount,
	} {
		if v != nil && *v < 0 {
			return Invalid(field, "must not be negative (got %d)", *v)
		}
	}

	if p.Timeout != nil && *p.Timeout <= 0 {
		return Invalid("timeout", "must be positive (got %d)", *p.Timeout)
	}

	if p.VM != nil {
		if err := p.VM.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (vm *VMParams) validate() error {
	for field, v := range map[string]*string{
		"vm.memory":            vm.Memory,
		"vm.memory_guaranteed": vm.MemoryGuaranteed,
		"vm.memory_max":        vm.MemoryMax,
	} {
		if v == nil {
			continue
		}
		if _, err := ParseSize(*v); err != nil {
			return Invalid(field, "%v", err)
		}
	}

	seen := make(map[string]bool, len(vm.Nics))
	for i, nic := range vm.Nics {
		field := fmt.Sprintf("vm.nics[%d]", i)
		if nic.Name == "" {
			return Invalid(field+".name", "is required")
		}
		if seen[nic.Name] {
			return Invalid(field+".name", "duplicate NIC name %q", nic.Name)
		}
		seen[nic.Name] = true

		if nic.Interface != "" && !ValidNicInterfaces[nic.Interface] {
			return Invalid(field+".interface", "unsupported interface %q", nic.Interface)
		}
		if nic.MACAddress != nil {
			if _, err := net.ParseMAC(*nic.MACAddress); err != nil {
				return Invalid(field+".mac_address", "%q is not a MAC address", *nic.MACAddress)
			}
		}
	}

	return nil
}
