package fake

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vmpool/internal/platform/ovirt"
	"github.com/imamik/vmpool/internal/util/ptr"
)

func TestClient_CreatePoolSpawnsMembers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New()
	cluster := f.AddCluster("prod")
	f.AddTemplate("rhel9")

	pool, err := f.CreatePool(ctx, &ovirt.Pool{
		Name:          "web",
		Cluster:       &ovirt.Ref{Name: "prod"},
		Template:      &ovirt.Ref{Name: "rhel9"},
		Size:          ptr.To[int64](3),
		PrestartedVMs: ptr.To[int64](1),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pool.ID)
	assert.Equal(t, &ovirt.Ref{ID: cluster.ID}, pool.Cluster, "references come back by ID only")

	vms, err := f.ListPoolVMs(ctx, pool.ID)
	require.NoError(t, err)
	require.Len(t, vms, 3)
	assert.Equal(t, "web-1", vms[0].Name)
	assert.Equal(t, ovirt.VMStatusUp, vms[0].Status)
	assert.Equal(t, ovirt.VMStatusDown, vms[2].Status)
}

func TestClient_RemovePoolCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New()
	pool, err := f.CreatePool(ctx, &ovirt.Pool{Name: "web", Size: ptr.To[int64](2)})
	require.NoError(t, err)
	vmID := f.Members(pool.ID)[0].ID
	f.AddVMNic(vmID, ovirt.Nic{Name: "nic1"})

	require.NoError(t, f.RemovePool(ctx, pool.ID))

	assert.Zero(t, f.PoolCount())
	assert.Empty(t, f.Members(pool.ID))
	assert.Empty(t, f.NicsOf(vmID))
}

func TestClient_RemovalPollsDelayCascade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New()
	f.RemovalPolls = 2
	pool, err := f.CreatePool(ctx, &ovirt.Pool{Name: "web", Size: ptr.To[int64](1)})
	require.NoError(t, err)
	require.NoError(t, f.RemovePool(ctx, pool.ID))

	for i := 0; i < 2; i++ {
		vms, err := f.ListPoolVMs(ctx, pool.ID)
		require.NoError(t, err)
		assert.Len(t, vms, 1, "poll %d", i)
	}
	vms, err := f.ListPoolVMs(ctx, pool.ID)
	require.NoError(t, err)
	assert.Empty(t, vms)
}

func TestClient_UpdatePoolMergesAndGrows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New()
	pool, err := f.CreatePool(ctx, &ovirt.Pool{
		Name:        "web",
		Description: ptr.To("old"),
		Size:        ptr.To[int64](1),
	})
	require.NoError(t, err)

	updated, err := f.UpdatePool(ctx, pool.ID, &ovirt.Pool{Name: "web", Size: ptr.To[int64](3)})
	require.NoError(t, err)

	assert.Equal(t, ptr.To("old"), updated.Description, "nil fields keep stored values")
	assert.Equal(t, ptr.To[int64](3), updated.Size)
	assert.Len(t, f.Members(pool.ID), 3)
}

func TestClient_ScriptStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New()
	pool, err := f.CreatePool(ctx, &ovirt.Pool{Name: "web"})
	require.NoError(t, err)
	vmID := f.Members(pool.ID)[0].ID

	f.ScriptStatus(vmID, ovirt.VMStatusImageLocked, ovirt.VMStatusUp)

	statuses := make([]ovirt.VMStatus, 0, 3)
	for i := 0; i < 3; i++ {
		vm, err := f.GetVM(ctx, vmID)
		require.NoError(t, err)
		statuses = append(statuses, vm.Status)
	}
	assert.Equal(t, []ovirt.VMStatus{ovirt.VMStatusImageLocked, ovirt.VMStatusUp, ovirt.VMStatusUp}, statuses)
	assert.Equal(t, 3, f.Calls("GetVM"))
}

func TestClient_FailOn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New()
	boom := errors.New("boom")
	f.FailOn("ListVnicProfiles", boom)

	_, err := f.ListVnicProfiles(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, ovirt.IsAPIError(err))

	f.FailOn("ListVnicProfiles", nil)
	_, err = f.ListVnicProfiles(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, f.Calls("ListVnicProfiles"))
}

func TestClient_Mutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New()
	_, _ = f.GetPoolByName(ctx, "web")
	assert.Zero(t, f.Mutations())

	pool, err := f.CreatePool(ctx, &ovirt.Pool{Name: "web"})
	require.NoError(t, err)
	require.NoError(t, f.StopVM(ctx, f.Members(pool.ID)[0].ID))
	assert.Equal(t, 2, f.Mutations())
}
