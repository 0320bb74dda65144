package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	p := &PoolParams{
		Name: "pool1",
		VM: &VMParams{Nics: []NicParams{
			{Name: "nic1"},
			{Name: "nic2", Interface: "e1000"},
		}},
	}
	p.ApplyDefaults()

	assert.Equal(t, StatePresent, p.State)
	assert.Equal(t, DefaultNicInterface, p.VM.Nics[0].Interface)
	assert.Equal(t, "e1000", p.VM.Nics[1].Interface)
}

func TestWaitSettings(t *testing.T) {
	t.Parallel()

	yes, no, timeout := true, false, 42

	assert.False(t, (&PoolParams{}).WaitEnabled())
	assert.False(t, (&PoolParams{Wait: &no}).WaitEnabled())
	assert.True(t, (&PoolParams{Wait: &yes}).WaitEnabled())

	assert.Equal(t, DefaultWaitTimeout, (&PoolParams{}).WaitTimeout(DefaultWaitTimeout))
	assert.Equal(t, 42*time.Second, (&PoolParams{Timeout: &timeout}).WaitTimeout(DefaultWaitTimeout))
}

func TestDeclaredNics(t *testing.T) {
	t.Parallel()

	assert.Nil(t, (&PoolParams{}).DeclaredNics())
	nics := []NicParams{{Name: "nic1"}}
	assert.Equal(t, nics, (&PoolParams{VM: &VMParams{Nics: nics}}).DeclaredNics())
}
