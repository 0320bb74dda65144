package vmpool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/platform/ovirt"
	"github.com/imamik/vmpool/internal/platform/ovirt/fake"
)

func TestProfileResolver_Resolve(t *testing.T) {
	t.Parallel()

	f := fake.New()
	f.AddCluster("prod", "net-prod", "net-shared")
	f.AddCluster("dev", "net-dev")
	f.AddProfile("ovirtmgmt", "net-dev")
	want := f.AddProfile("ovirtmgmt", "net-prod")
	f.AddProfile("ovirtmgmt", "net-shared")

	id, err := NewProfileResolver(f).Resolve(context.Background(), "prod", "ovirtmgmt")

	require.NoError(t, err)
	assert.Equal(t, want.ID, id, "first attached match in listing order wins")
}

func TestProfileResolver_ProfileOutsideCluster(t *testing.T) {
	t.Parallel()

	f := fake.New()
	f.AddCluster("prod", "net-prod")
	f.AddProfile("dmz", "net-other")

	_, err := NewProfileResolver(f).Resolve(context.Background(), "prod", "dmz")

	var pnf *ProfileNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, "dmz", pnf.Profile)
	assert.Equal(t, "prod", pnf.Cluster)
	assert.Equal(t, `profile "dmz" was not found in cluster "prod"`, err.Error())
}

func TestProfileResolver_UnknownProfile(t *testing.T) {
	t.Parallel()

	f := fake.New()
	f.AddCluster("prod", "net-prod")

	_, err := NewProfileResolver(f).Resolve(context.Background(), "prod", "missing")

	var pnf *ProfileNotFoundError
	assert.ErrorAs(t, err, &pnf)
	assert.Zero(t, f.Calls("GetClusterByName"), "cluster lookup is skipped without candidates")
}

func TestProfileResolver_UnknownCluster(t *testing.T) {
	t.Parallel()

	f := fake.New()
	f.AddProfile("ovirtmgmt", "net-prod")

	_, err := NewProfileResolver(f).Resolve(context.Background(), "ghost", "ovirtmgmt")

	var ve *config.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestProfileResolver_TransportError(t *testing.T) {
	t.Parallel()

	f := fake.New()
	boom := errors.New("engine unavailable")
	f.FailOn("ListVnicProfiles", boom)

	_, err := NewProfileResolver(f).Resolve(context.Background(), "prod", "ovirtmgmt")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, ovirt.IsAPIError(err))
}
