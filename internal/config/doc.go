// Package config defines the desired state of a VM pool as supplied by the
// caller, and the runtime settings used to reach the oVirt engine.
//
// The [PoolParams] struct is the canonical, validated representation of one
// reconciliation request. It is produced by loading a YAML file and applying
// command-line overrides, and is consumed by the vmpool reconciler. Fields the
// caller did not mention stay nil so that an update never overwrites remote
// defaults.
package config
