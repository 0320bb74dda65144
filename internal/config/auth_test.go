package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAuthEnv(t *testing.T, url, user, password string) {
	t.Helper()
	t.Setenv("OVIRT_URL", url)
	t.Setenv("OVIRT_USERNAME", user)
	t.Setenv("OVIRT_PASSWORD", password)
	t.Setenv("OVIRT_CAFILE", "")
	t.Setenv("OVIRT_INSECURE", "")
}

func TestLoadAuth(t *testing.T) {
	setAuthEnv(t, "https://engine.example.com/ovirt-engine/api", "admin@internal", "secret")
	t.Setenv("OVIRT_INSECURE", "true")
	t.Setenv("OVIRT_CAFILE", "/etc/pki/ovirt-engine/ca.pem")

	auth, err := LoadAuth()
	require.NoError(t, err)

	assert.Equal(t, "https://engine.example.com/ovirt-engine/api", auth.URL)
	assert.Equal(t, "admin@internal", auth.Username)
	assert.Equal(t, "secret", auth.Password)
	assert.Equal(t, "/etc/pki/ovirt-engine/ca.pem", auth.CAFile)
	assert.True(t, auth.Insecure)
}

func TestLoadAuth_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		user     string
		password string
		field    string
	}{
		{name: "missing url", user: "admin", password: "secret", field: "auth.url"},
		{name: "relative url", url: "engine/api", user: "admin", password: "secret", field: "auth.url"},
		{name: "missing user", url: "https://engine/api", password: "secret", field: "auth.username"},
		{name: "missing password", url: "https://engine/api", user: "admin", field: "auth.password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setAuthEnv(t, tt.url, tt.user, tt.password)

			_, err := LoadAuth()

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
