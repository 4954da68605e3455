// ABOUTME: Network endpoints: create, list, inspect, remove, prune and container attachment
// ABOUTME: Connect and disconnect send JSON bodies naming the container

package libpod

import (
	"context"

	"github.com/2389/podman-client/internal/podman"
)

// Networks binds /libpod/networks.
type Networks struct {
	c *podman.Client
}

func networkPath(name, action string) string {
	p := "/libpod/networks/" + segment(name)
	if action != "" {
		p += "/" + action
	}
	return p
}

// LeaseRange bounds the addresses handed out from a subnet.
type LeaseRange struct {
	StartIP string `json:"start_ip,omitempty"`
	EndIP   string `json:"end_ip,omitempty"`
}

// Subnet is one address range of a network.
type Subnet struct {
	Subnet     string      `json:"subnet"`
	Gateway    string      `json:"gateway,omitempty"`
	LeaseRange *LeaseRange `json:"lease_range,omitempty"`
}

// Network is both the create body and the inspect record.
type Network struct {
	Name             string            `json:"name,omitempty"`
	ID               string            `json:"id,omitempty"`
	Driver           string            `json:"driver,omitempty"`
	NetworkInterface string            `json:"network_interface,omitempty"`
	Created          string            `json:"created,omitempty"`
	Subnets          []Subnet          `json:"subnets,omitempty"`
	IPv6Enabled      bool              `json:"ipv6_enabled,omitempty"`
	Internal         bool              `json:"internal,omitempty"`
	DNSEnabled       bool              `json:"dns_enabled,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	Options          map[string]string `json:"options,omitempty"`
	IPAMOptions      map[string]string `json:"ipam_options,omitempty"`
}

// ListNetworksParams filters a network listing.
type ListNetworksParams struct {
	Filters podman.Filters `url:"filters,omitempty"`
}

// RemoveNetworkParams controls network removal. Force also removes
// containers attached to the network.
type RemoveNetworkParams struct {
	Force bool `url:"force,omitempty"`
}

// NetworkRemoveReport is one entry of a network removal answer.
type NetworkRemoveReport struct {
	Name string `json:"Name"`
	Err  string `json:"Err,omitempty"`
}

// NetworkPruneReport is one entry of a network prune answer.
type NetworkPruneReport struct {
	Name  string `json:"Name"`
	Error string `json:"Error,omitempty"`
}

// ConnectOptions attaches a container to a network.
type ConnectOptions struct {
	Container     string   `json:"container"`
	Aliases       []string `json:"aliases,omitempty"`
	InterfaceName string   `json:"interface_name,omitempty"`
	StaticIPs     []string `json:"static_ips,omitempty"`
	StaticMAC     string   `json:"static_mac,omitempty"`
}

// DisconnectOptions detaches a container from a network.
type DisconnectOptions struct {
	Container string `json:"Container"`
	Force     bool   `json:"Force,omitempty"`
}

// Create creates a network and returns it as the daemon stored it.
func (s *Networks) Create(ctx context.Context, spec Network) (Network, error) {
	call, err := podman.Post("/libpod/networks/create").WithJSON(spec)
	if err != nil {
		return Network{}, err
	}
	return podman.Fetch[Network](ctx, s.c, call)
}

// List returns networks matching params.
func (s *Networks) List(ctx context.Context, params ListNetworksParams) ([]Network, error) {
	return fetch[[]Network](ctx, s.c, podman.Get("/libpod/networks/json"), params)
}

// Inspect returns one network.
func (s *Networks) Inspect(ctx context.Context, name string) (Network, error) {
	return podman.Fetch[Network](ctx, s.c, podman.Get(networkPath(name, "json")))
}

// Exists reports whether a network with this name or ID exists.
func (s *Networks) Exists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, s.c, networkPath(name, "exists"))
}

// Remove deletes a network.
func (s *Networks) Remove(ctx context.Context, name string, params RemoveNetworkParams) ([]NetworkRemoveReport, error) {
	return fetch[[]NetworkRemoveReport](ctx, s.c, podman.Delete(networkPath(name, "")), params)
}

// Connect attaches a container to the network.
func (s *Networks) Connect(ctx context.Context, name string, opts ConnectOptions) error {
	call, err := podman.Post(networkPath(name, "connect")).WithJSON(opts)
	if err != nil {
		return err
	}
	return s.c.Exec(ctx, call)
}

// Disconnect detaches a container from the network.
func (s *Networks) Disconnect(ctx context.Context, name string, opts DisconnectOptions) error {
	call, err := podman.Post(networkPath(name, "disconnect")).WithJSON(opts)
	if err != nil {
		return err
	}
	return s.c.Exec(ctx, call)
}

// Prune removes unused networks.
func (s *Networks) Prune(ctx context.Context, filters podman.Filters) ([]NetworkPruneReport, error) {
	return fetch[[]NetworkPruneReport](ctx, s.c, podman.Post("/libpod/networks/prune"), pruneParams{Filters: filters})
}
