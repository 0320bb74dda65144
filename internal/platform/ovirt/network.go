package ovirt

import (
	"context"

	ovirtsdk4 "github.com/ovirt/go-ovirt"
)

// ListVnicProfiles returns all profiles in engine listing order.
func (c *RealClient) ListVnicProfiles(ctx context.Context) ([]*VnicProfile, error) {
	var profiles []*ovirtsdk4.VnicProfile
	err := c.read(ctx, "list vnic profiles", func() error {
		resp, err := c.conn.SystemService().VnicProfilesService().List().Send()
		if err != nil {
			return err
		}
		profiles = nil
		if slice, ok := resp.Profiles(); ok {
			profiles = slice.Slice()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]*VnicProfile, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, profileFromSDK(p))
	}
	return result, nil
}

func (c *RealClient) searchClusters(ctx context.Context, query string) ([]*ovirtsdk4.Cluster, error) {
	var clusters []*ovirtsdk4.Cluster
	err := c.read(ctx, "list clusters", func() error {
		resp, err := c.conn.SystemService().ClustersService().List().Search(query).Send()
		if err != nil {
			return err
		}
		clusters = nil
		if slice, ok := resp.Clusters(); ok {
			clusters = slice.Slice()
		}
		return nil
	})
	return clusters, err
}

// GetClusterByID returns the cluster with the given ID, or nil if not found.
func (c *RealClient) GetClusterByID(ctx context.Context, id string) (*Cluster, error) {
	clusters, err := c.searchClusters(ctx, "id="+id)
	if err != nil {
		return nil, err
	}
	for _, cl := range clusters {
		if got, _ := cl.Id(); got == id {
			return clusterFromSDK(cl), nil
		}
	}
	return nil, nil
}

// GetClusterByName returns the cluster with the exact given name, or nil if not found.
// The engine search is a pattern match, so results are filtered again locally.
func (c *RealClient) GetClusterByName(ctx context.Context, name string) (*Cluster, error) {
	clusters, err := c.searchClusters(ctx, "name="+name)
	if err != nil {
		return nil, err
	}
	for _, cl := range clusters {
		if got, _ := cl.Name(); got == name {
			return clusterFromSDK(cl), nil
		}
	}
	return nil, nil
}

// ListClusterNetworks returns the networks attached to a cluster.
func (c *RealClient) ListClusterNetworks(ctx context.Context, clusterID string) ([]*Network, error) {
	var networks []*ovirtsdk4.Network
	err := c.read(ctx, "list cluster networks", func() error {
		resp, err := c.conn.SystemService().ClustersService().ClusterService(clusterID).NetworksService().List().Send()
		if err != nil {
			return err
		}
		networks = nil
		if slice, ok := resp.Networks(); ok {
			networks = slice.Slice()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]*Network, 0, len(networks))
	for _, n := range networks {
		id, _ := n.Id()
		name, _ := n.Name()
		result = append(result, &Network{ID: id, Name: name})
	}
	return result, nil
}

// GetTemplateByName returns the first template with the exact given name, or nil if not found.
func (c *RealClient) GetTemplateByName(ctx context.Context, name string) (*Template, error) {
	var found *ovirtsdk4.Template
	err := c.read(ctx, "list templates", func() error {
		resp, err := c.conn.SystemService().TemplatesService().List().Search("name=" + name).Send()
		if err != nil {
			return err
		}
		found = nil
		if slice, ok := resp.Templates(); ok {
			for _, t := range slice.Slice() {
				if got, _ := t.Name(); got == name {
					found = t
					break
				}
			}
		}
		return nil
	})
	if err != nil || found == nil {
		return nil, err
	}
	id, _ := found.Id()
	return &Template{ID: id, Name: name}, nil
}
