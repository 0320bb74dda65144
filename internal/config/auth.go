package config

import (
	"net/url"
	"os"
	"strconv"
)

// AuthConfig describes how to reach and authenticate against the engine API.
type AuthConfig struct {
	URL      string
	Username string
	Password string
	CAFile   string
	Insecure bool
}

// LoadAuth reads engine credentials from the environment:
// OVIRT_URL, OVIRT_USERNAME, OVIRT_PASSWORD, OVIRT_CAFILE and OVIRT_INSECURE.
func LoadAuth() (*AuthConfig, error) {
	insecure, _ := strconv.ParseBool(os.Getenv("OVIRT_INSECURE"))
	auth := &AuthConfig{
		URL:      os.Getenv("OVIRT_URL"),
		Username: os.Getenv("OVIRT_USERNAME"),
		Password: os.Getenv("OVIRT_PASSWORD"),
		CAFile:   os.Getenv("OVIRT_CAFILE"),
		Insecure: insecure,
	}
	if err := auth.Validate(); err != nil {
		return nil, err
	}
	return auth, nil
}

// Validate checks that the engine can be addressed and logged into.
func (a *AuthConfig) Validate() error {
	if a.URL == "" {
		return Invalid("auth.url", "is required (set OVIRT_URL)")
	}
	u, err := url.Parse(a.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Invalid("auth.url", "%q is not an absolute URL", a.URL)
	}
	if a.Username == "" {
		return Invalid("auth.username", "is required (set OVIRT_USERNAME)")
	}
	if a.Password == "" {
		return Invalid("auth.password", "is required (set OVIRT_PASSWORD)")
	}
	return nil
}
