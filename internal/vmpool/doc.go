// Package vmpool reconciles a declared VM pool against the engine.
//
// A Reconciler reads the pool, decides between create, update, remove and
// no-op, attaches declared NICs to freshly spawned member VMs and optionally
// waits for those VMs to settle. All engine access goes through ovirt.Client,
// and every run re-reads remote state; nothing is persisted locally.
//
// Each call to EnsurePresent or EnsureAbsent is one Pass. The guest
// initialization is resolved once at the start of a pass and reused by every
// entity built during it.
package vmpool
