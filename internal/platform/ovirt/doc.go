// Package ovirt provides a wrapper around the oVirt engine API with retry
// logic for reads, timeout management and error wrapping.
//
// # Architecture
//
// The package is organized into domain-specific modules:
//
//   - client.go: Manager interfaces combined into Client
//   - types.go: Domain entity types independent of the SDK
//   - real_client.go: Connection setup and the shared read helper
//   - pool.go: VM pool lookup, create, update and removal
//   - vm.go: Member VM listing and power operations
//   - nic.go: VM NIC listing and attachment
//   - network.go: Clusters, cluster networks, VNIC profiles and templates
//   - convert.go: Translation between domain types and SDK types
//   - errors.go: APIError and retry classification
//
// # Retry and Timeout Configuration
//
// Reads are idempotent and retried with exponential backoff. Mutations are
// issued exactly once. Parameters come from environment variables:
//
//   - OVIRT_TIMEOUT_REQUEST: Per-request timeout of the connection (default: 30s)
//   - OVIRT_RETRY_MAX_ATTEMPTS: Maximum retry attempts for reads (default: 3)
//   - OVIRT_RETRY_INITIAL_DELAY: Initial retry delay (default: 1s)
//
// # Example Usage
//
//	client, err := ovirt.Connect(ctx, auth)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = client.Close(true) }()
//
//	pool, err := client.GetPoolByName(ctx, "web")
package ovirt
