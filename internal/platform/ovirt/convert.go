package ovirt

import (
	ovirtsdk4 "github.com/ovirt/go-ovirt"
)

// opt converts an SDK (value, ok) getter result into a pointer.
func opt[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

func poolToSDK(p *Pool) (*ovirtsdk4.VmPool, error) {
	b := ovirtsdk4.NewVmPoolBuilder().Name(p.Name)
	if p.ID != "" {
		b.Id(p.ID)
	}
	if p.Description != nil {
		b.Description(*p.Description)
	}
	if p.Comment != nil {
		b.Comment(*p.Comment)
	}
	if p.Cluster != nil {
		cb := ovirtsdk4.NewClusterBuilder()
		if p.Cluster.ID != "" {
			cb.Id(p.Cluster.ID)
		}
		if p.Cluster.Name != "" {
			cb.Name(p.Cluster.Name)
		}
		cluster, err := cb.Build()
		if err != nil {
			return nil, err
		}
		b.Cluster(cluster)
	}
	if p.Template != nil {
		tb := ovirtsdk4.NewTemplateBuilder()
		if p.Template.ID != "" {
			tb.Id(p.Template.ID)
		}
		if p.Template.Name != "" {
			tb.Name(p.Template.Name)
		}
		template, err := tb.Build()
		if err != nil {
			return nil, err
		}
		b.Template(template)
	}
	if p.Type != nil {
		b.Type(ovirtsdk4.VmPoolType(*p.Type))
	}
	if p.MaxUserVMs != nil {
		b.MaxUserVms(*p.MaxUserVMs)
	}
	if p.PrestartedVMs != nil {
		b.PrestartedVms(*p.PrestartedVMs)
	}
	if p.Size != nil {
		b.Size(*p.Size)
	}
	if p.VM != nil {
		vm, err := vmTemplateToSDK(p.VM)
		if err != nil {
			return nil, err
		}
		b.Vm(vm)
	}
	return b.Build()
}

func vmTemplateToSDK(t *VMTemplate) (*ovirtsdk4.Vm, error) {
	b := ovirtsdk4.NewVmBuilder()
	if t.Comment != nil {
		b.Comment(*t.Comment)
	}
	if t.MemoryBytes != nil {
		b.Memory(*t.MemoryBytes)
	}
	if t.MemoryPolicy != nil {
		mb := ovirtsdk4.NewMemoryPolicyBuilder()
		if t.MemoryPolicy.Guaranteed != nil {
			mb.Guaranteed(*t.MemoryPolicy.Guaranteed)
		}
		if t.MemoryPolicy.Max != nil {
			mb.Max(*t.MemoryPolicy.Max)
		}
		policy, err := mb.Build()
		if err != nil {
			return nil, err
		}
		b.MemoryPolicy(policy)
	}
	if t.Initialization != nil {
		initialization, err := initializationToSDK(t.Initialization)
		if err != nil {
			return nil, err
		}
		b.Initialization(initialization)
	}
	if t.SmartcardEnabled != nil {
		display, err := ovirtsdk4.NewDisplayBuilder().SmartcardEnabled(*t.SmartcardEnabled).Build()
		if err != nil {
			return nil, err
		}
		b.Display(display)
	}
	if t.SSO != nil {
		methods := make([]*ovirtsdk4.Method, 0, len(t.SSO.Methods))
		for _, m := range t.SSO.Methods {
			method, err := ovirtsdk4.NewMethodBuilder().Id(ovirtsdk4.SsoMethod(m)).Build()
			if err != nil {
				return nil, err
			}
			methods = append(methods, method)
		}
		// An explicit empty slice disables SSO; nil would leave it untouched.
		slice := new(ovirtsdk4.MethodSlice)
		slice.SetSlice(methods)
		sso, err := ovirtsdk4.NewSsoBuilder().Methods(slice).Build()
		if err != nil {
			return nil, err
		}
		b.Sso(sso)
	}
	if t.TimeZone != nil {
		tz, err := ovirtsdk4.NewTimeZoneBuilder().Name(*t.TimeZone).Build()
		if err != nil {
			return nil, err
		}
		b.TimeZone(tz)
	}
	return b.Build()
}

func initializationToSDK(in *Initialization) (*ovirtsdk4.Initialization, error) {
	b := ovirtsdk4.NewInitializationBuilder()
	attrs := []struct {
		v   *string
		set func(string) *ovirtsdk4.InitializationBuilder
	}{
		{in.HostName, b.HostName},
		{in.Domain, b.Domain},
		{in.UserName, b.UserName},
		{in.RootPassword, b.RootPassword},
		{in.AuthorizedSSHKeys, b.AuthorizedSshKeys},
		{in.CustomScript, b.CustomScript},
		{in.DNSServers, b.DnsServers},
		{in.DNSSearch, b.DnsSearch},
		{in.Timezone, b.Timezone},
		{in.InputLocale, b.InputLocale},
		{in.UILanguage, b.UiLanguage},
		{in.SystemLocale, b.SystemLocale},
		{in.UserLocale, b.UserLocale},
		{in.ActiveDirectoryOU, b.ActiveDirectoryOu},
		{in.OrgName, b.OrgName},
		{in.WindowsLicenseKey, b.WindowsLicenseKey},
	}
	for _, s := range attrs {
		if s.v != nil {
			s.set(*s.v)
		}
	}
	if in.RegenerateSSHKeys != nil {
		b.RegenerateSshKeys(*in.RegenerateSSHKeys)
	}

	if in.NicConfigurations != nil {
		configs := make([]*ovirtsdk4.NicConfiguration, 0, len(in.NicConfigurations))
		for _, nc := range in.NicConfigurations {
			cfg, err := nicConfigurationToSDK(nc)
			if err != nil {
				return nil, err
			}
			configs = append(configs, cfg)
		}
		slice := new(ovirtsdk4.NicConfigurationSlice)
		slice.SetSlice(configs)
		b.NicConfigurations(slice)
	}
	return b.Build()
}

func nicConfigurationToSDK(nc NicConfiguration) (*ovirtsdk4.NicConfiguration, error) {
	b := ovirtsdk4.NewNicConfigurationBuilder()
	if nc.Name != nil {
		b.Name(*nc.Name)
	}
	if nc.BootProtocol != nil {
		b.BootProtocol(ovirtsdk4.BootProtocol(*nc.BootProtocol))
	}
	if nc.OnBoot != nil {
		b.OnBoot(*nc.OnBoot)
	}
	if nc.IP != nil {
		ib := ovirtsdk4.NewIpBuilder()
		if nc.IP.Address != nil {
			ib.Address(*nc.IP.Address)
		}
		if nc.IP.Netmask != nil {
			ib.Netmask(*nc.IP.Netmask)
		}
		if nc.IP.Gateway != nil {
			ib.Gateway(*nc.IP.Gateway)
		}
		ip, err := ib.Build()
		if err != nil {
			return nil, err
		}
		b.Ip(ip)
	}
	return b.Build()
}

func nicToSDK(n *Nic) (*ovirtsdk4.Nic, error) {
	b := ovirtsdk4.NewNicBuilder().Name(n.Name)
	if n.Interface != "" {
		b.Interface(ovirtsdk4.NicInterface(n.Interface))
	}
	if n.VnicProfileID != nil {
		profile, err := ovirtsdk4.NewVnicProfileBuilder().Id(*n.VnicProfileID).Build()
		if err != nil {
			return nil, err
		}
		b.VnicProfile(profile)
	}
	if n.MACAddress != nil {
		mac, err := ovirtsdk4.NewMacBuilder().Address(*n.MACAddress).Build()
		if err != nil {
			return nil, err
		}
		b.Mac(mac)
	}
	return b.Build()
}

func poolFromSDK(p *ovirtsdk4.VmPool) *Pool {
	if p == nil {
		return nil
	}
	id, _ := p.Id()
	name, _ := p.Name()
	pool := &Pool{
		ID:            id,
		Name:          name,
		Description:   opt(p.Description()),
		Comment:       opt(p.Comment()),
		MaxUserVMs:    opt(p.MaxUserVms()),
		PrestartedVMs: opt(p.PrestartedVms()),
		Size:          opt(p.Size()),
	}
	if cl, ok := p.Cluster(); ok {
		pool.Cluster = refOf(cl.Id())
		if n, ok := cl.Name(); ok {
			pool.Cluster.Name = n
		}
	}
	if t, ok := p.Template(); ok {
		pool.Template = refOf(t.Id())
		if n, ok := t.Name(); ok {
			pool.Template.Name = n
		}
	}
	if t, ok := p.Type(); ok {
		pt := PoolType(t)
		pool.Type = &pt
	}
	if vm, ok := p.Vm(); ok {
		pool.VM = vmTemplateFromSDK(vm)
	}
	return pool
}

func refOf(id string, _ bool) *Ref {
	return &Ref{ID: id}
}

func vmTemplateFromSDK(vm *ovirtsdk4.Vm) *VMTemplate {
	t := &VMTemplate{
		Comment:     opt(vm.Comment()),
		MemoryBytes: opt(vm.Memory()),
	}
	if mp, ok := vm.MemoryPolicy(); ok {
		t.MemoryPolicy = &MemoryPolicy{
			Guaranteed: opt(mp.Guaranteed()),
			Max:        opt(mp.Max()),
		}
	}
	if d, ok := vm.Display(); ok {
		t.SmartcardEnabled = opt(d.SmartcardEnabled())
	}
	if sso, ok := vm.Sso(); ok {
		t.SSO = &SSO{Methods: []SSOMethod{}}
		if methods, ok := sso.Methods(); ok {
			for _, m := range methods.Slice() {
				if id, ok := m.Id(); ok {
					t.SSO.Methods = append(t.SSO.Methods, SSOMethod(id))
				}
			}
		}
	}
	if tz, ok := vm.TimeZone(); ok {
		t.TimeZone = opt(tz.Name())
	}
	if *t == (VMTemplate{}) {
		return nil
	}
	return t
}

func vmFromSDK(v *ovirtsdk4.Vm) *VM {
	id, _ := v.Id()
	name, _ := v.Name()
	vm := &VM{ID: id, Name: name, Status: VMStatusUnknown}
	if s, ok := v.Status(); ok {
		vm.Status = VMStatus(s)
	}
	if p, ok := v.VmPool(); ok {
		vm.PoolID, _ = p.Id()
	}
	return vm
}

func nicFromSDK(n *ovirtsdk4.Nic) *Nic {
	id, _ := n.Id()
	name, _ := n.Name()
	nic := &Nic{ID: id, Name: name}
	if iface, ok := n.Interface(); ok {
		nic.Interface = string(iface)
	}
	if p, ok := n.VnicProfile(); ok {
		nic.VnicProfileID = opt(p.Id())
	}
	if m, ok := n.Mac(); ok {
		nic.MACAddress = opt(m.Address())
	}
	return nic
}

func profileFromSDK(p *ovirtsdk4.VnicProfile) *VnicProfile {
	id, _ := p.Id()
	name, _ := p.Name()
	profile := &VnicProfile{ID: id, Name: name}
	if n, ok := p.Network(); ok {
		profile.NetworkID, _ = n.Id()
	}
	return profile
}

func clusterFromSDK(c *ovirtsdk4.Cluster) *Cluster {
	id, _ := c.Id()
	name, _ := c.Name()
	return &Cluster{ID: id, Name: name}
}
