package vmpool

import (
	"fmt"
	"strings"
	"time"
)

// ProfileNotFoundError is returned when no VNIC profile with the requested
// name is bound to a network attached to the cluster.
type ProfileNotFoundError struct {
	Profile string
	Cluster string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile %q was not found in cluster %q", e.Profile, e.Cluster)
}

// TimeoutError is returned when VMs did not reach the awaited state in time.
type TimeoutError struct {
	Pending []string // IDs of VMs still not matching
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %d VM(s): %s",
		e.Timeout, len(e.Pending), strings.Join(e.Pending, ", "))
}
