package vmpool

import (
	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/platform/ovirt"
)

// BuildPool translates the parameters into the desired pool entity.
// Unset parameters stay unset so the engine keeps its own values for them.
// The initialization is resolved by the caller, once per pass.
func BuildPool(p *config.PoolParams, initialization *ovirt.Initialization) (*ovirt.Pool, error) {
	pool := &ovirt.Pool{
		Name:          p.Name,
		Description:   p.Description,
		Comment:       p.Comment,
		MaxUserVMs:    p.VMPerUser,
		PrestartedVMs: p.Prestarted,
		Size:          p.VMCount,
	}
	if p.ID != nil {
		pool.ID = *p.ID
	}
	if p.Cluster != nil && *p.Cluster != "" {
		pool.Cluster = &ovirt.Ref{Name: *p.Cluster}
	}
	if p.Template != nil && *p.Template != "" {
		pool.Template = &ovirt.Ref{Name: *p.Template}
	}
	if p.Type != nil {
		t := ovirt.PoolType(*p.Type)
		pool.Type = &t
	}
	if p.VM != nil {
		vm, err := buildVM(p.VM, initialization)
		if err != nil {
			return nil, err
		}
		pool.VM = vm
	}
	return pool, nil
}

func buildVM(vm *config.VMParams, initialization *ovirt.Initialization) (*ovirt.VMTemplate, error) {
	t := &ovirt.VMTemplate{
		Comment:          vm.Comment,
		Initialization:   initialization,
		SmartcardEnabled: vm.SmartcardEnabled,
	}

	memory, err := parseOptionalSize("vm.memory", vm.Memory)
	if err != nil {
		return nil, err
	}
	t.MemoryBytes = memory

	guaranteed, err := parseOptionalSize("vm.memory_guaranteed", vm.MemoryGuaranteed)
	if err != nil {
		return nil, err
	}
	maxMemory, err := parseOptionalSize("vm.memory_max", vm.MemoryMax)
	if err != nil {
		return nil, err
	}
	if guaranteed != nil || maxMemory != nil {
		t.MemoryPolicy = &ovirt.MemoryPolicy{Guaranteed: guaranteed, Max: maxMemory}
	}

	if vm.SSO != nil {
		methods := []ovirt.SSOMethod{}
		if *vm.SSO {
			methods = append(methods, ovirt.SSOMethodGuestAgent)
		}
		t.SSO = &ovirt.SSO{Methods: methods}
	}

	if vm.Timezone != nil && *vm.Timezone != "" {
		t.TimeZone = vm.Timezone
	}
	return t, nil
}

// parseOptionalSize converts a size string to bytes. Nil and empty strings stay unset.
func parseOptionalSize(field string, s *string) (*int64, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	n, err := config.ParseSize(*s)
	if err != nil {
		return nil, config.Invalid(field, "%v", err)
	}
	return &n, nil
}
