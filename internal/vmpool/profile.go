package vmpool

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/platform/ovirt"
)

// ProfileResolver finds VNIC profile IDs by name within a cluster.
type ProfileResolver struct {
	client ovirt.Client
}

// NewProfileResolver creates a resolver backed by client.
func NewProfileResolver(client ovirt.Client) *ProfileResolver {
	return &ProfileResolver{client: client}
}

// Resolve returns the ID of the first profile, in engine listing order, that
// is named profileName and bound to a network attached to clusterName.
//
// Profile names are not unique across networks. When several qualifying
// profiles share a name the first one wins.
func (r *ProfileResolver) Resolve(ctx context.Context, clusterName, profileName string) (string, error) {
	profiles, err := r.client.ListVnicProfiles(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list vnic profiles: %w", err)
	}

	var candidates []*ovirt.VnicProfile
	for _, p := range profiles {
		if p.Name == profileName {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return "", &ProfileNotFoundError{Profile: profileName, Cluster: clusterName}
	}

	cluster, err := r.client.GetClusterByName(ctx, clusterName)
	if err != nil {
		return "", fmt.Errorf("failed to get cluster %s: %w", clusterName, err)
	}
	if cluster == nil {
		return "", config.Invalid("cluster", "cluster %q does not exist", clusterName)
	}

	networks, err := r.client.ListClusterNetworks(ctx, cluster.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list networks of cluster %s: %w", clusterName, err)
	}
	attached := make(map[string]bool, len(networks))
	for _, n := range networks {
		attached[n.ID] = true
	}

	for _, p := range candidates {
		if attached[p.NetworkID] {
			if len(candidates) > 1 {
				logr.FromContextOrDiscard(ctx).V(1).Info("vnic profile name is ambiguous, using first match",
					"profile", profileName, "cluster", clusterName, "candidates", len(candidates), "id", p.ID)
			}
			return p.ID, nil
		}
	}
	return "", &ProfileNotFoundError{Profile: profileName, Cluster: clusterName}
}
