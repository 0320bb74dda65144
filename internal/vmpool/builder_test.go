package vmpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/platform/ovirt"
	"github.com/imamik/vmpool/internal/util/ptr"
)

func TestBuildPool_Minimal(t *testing.T) {
	t.Parallel()

	pool, err := BuildPool(&config.PoolParams{Name: "web"}, nil)
	require.NoError(t, err)

	assert.Equal(t, &ovirt.Pool{Name: "web"}, pool, "unset parameters stay unset")
}

func TestBuildPool_AllFields(t *testing.T) {
	t.Parallel()

	poolType := config.PoolTypeManual
	initialization := &ovirt.Initialization{HostName: ptr.To("web")}
	params := &config.PoolParams{
		ID:          ptr.To("6a1f0c5e-8a4b-4b0f-9d2c-0b0e0f6a1c11"),
		Name:        "web",
		Cluster:     ptr.To("prod"),
		Template:    ptr.To("rhel9"),
		Description: ptr.To(""),
		Comment:     ptr.To("managed"),
		VMPerUser:   ptr.To[int64](1),
		Prestarted:  ptr.To[int64](0),
		VMCount:     ptr.To[int64](4),
		Type:        &poolType,
		VM: &config.VMParams{
			Comment:          ptr.To("vm comment"),
			Memory:           ptr.To("2 GiB"),
			MemoryGuaranteed: ptr.To("1GiB"),
			SmartcardEnabled: ptr.Bool(false),
			SSO:              ptr.Bool(true),
			Timezone:         ptr.To("Etc/UTC"),
		},
	}

	pool, err := BuildPool(params, initialization)
	require.NoError(t, err)

	assert.Equal(t, "6a1f0c5e-8a4b-4b0f-9d2c-0b0e0f6a1c11", pool.ID)
	assert.Equal(t, &ovirt.Ref{Name: "prod"}, pool.Cluster)
	assert.Equal(t, &ovirt.Ref{Name: "rhel9"}, pool.Template)
	assert.Equal(t, ptr.To(""), pool.Description, "explicit empty string is kept")
	assert.Equal(t, ptr.To[int64](0), pool.PrestartedVMs, "explicit zero is kept")
	assert.Equal(t, ptr.To(ovirt.PoolTypeManual), pool.Type)

	require.NotNil(t, pool.VM)
	assert.Equal(t, ptr.To[int64](2<<30), pool.VM.MemoryBytes)
	require.NotNil(t, pool.VM.MemoryPolicy)
	assert.Equal(t, ptr.To[int64](1<<30), pool.VM.MemoryPolicy.Guaranteed)
	assert.Nil(t, pool.VM.MemoryPolicy.Max)
	assert.Equal(t, ptr.Bool(false), pool.VM.SmartcardEnabled)
	assert.Equal(t, &ovirt.SSO{Methods: []ovirt.SSOMethod{ovirt.SSOMethodGuestAgent}}, pool.VM.SSO)
	assert.Equal(t, ptr.To("Etc/UTC"), pool.VM.TimeZone)
	assert.Same(t, initialization, pool.VM.Initialization)
}

func TestBuildPool_VMOptionals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		vm    *config.VMParams
		check func(t *testing.T, vm *ovirt.VMTemplate)
	}{
		{
			name: "sso disabled maps to empty method list",
			vm:   &config.VMParams{SSO: ptr.Bool(false)},
			check: func(t *testing.T, vm *ovirt.VMTemplate) {
				require.NotNil(t, vm.SSO)
				assert.NotNil(t, vm.SSO.Methods)
				assert.Empty(t, vm.SSO.Methods)
			},
		},
		{
			name: "no memory policy without guaranteed or max",
			vm:   &config.VMParams{Memory: ptr.To("512MiB")},
			check: func(t *testing.T, vm *ovirt.VMTemplate) {
				assert.Nil(t, vm.MemoryPolicy)
				assert.Equal(t, ptr.To[int64](512<<20), vm.MemoryBytes)
			},
		},
		{
			name: "max only",
			vm:   &config.VMParams{MemoryMax: ptr.To("4GiB")},
			check: func(t *testing.T, vm *ovirt.VMTemplate) {
				require.NotNil(t, vm.MemoryPolicy)
				assert.Nil(t, vm.MemoryPolicy.Guaranteed)
				assert.Equal(t, ptr.To[int64](4<<30), vm.MemoryPolicy.Max)
			},
		},
		{
			name: "empty timezone is ignored",
			vm:   &config.VMParams{Timezone: ptr.To("")},
			check: func(t *testing.T, vm *ovirt.VMTemplate) {
				assert.Nil(t, vm.TimeZone)
			},
		},
		{
			name: "smartcard and sso untouched when unset",
			vm:   &config.VMParams{},
			check: func(t *testing.T, vm *ovirt.VMTemplate) {
				assert.Nil(t, vm.SmartcardEnabled)
				assert.Nil(t, vm.SSO)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool, err := BuildPool(&config.PoolParams{Name: "web", VM: tt.vm}, nil)
			require.NoError(t, err)
			require.NotNil(t, pool.VM)
			tt.check(t, pool.VM)
		})
	}
}

func TestBuildPool_BadMemory(t *testing.T) {
	t.Parallel()

	_, err := BuildPool(&config.PoolParams{Name: "web", VM: &config.VMParams{Memory: ptr.To("lots")}}, nil)

	var ve *config.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "vm.memory", ve.Field)
}
