// ABOUTME: Volume endpoints: create, list, inspect, exists, remove and prune
// ABOUTME: Removal answers 204 with no body on success

package libpod

import (
	"context"

	"github.com/2389/podman-client/internal/podman"
)

// Volumes binds /libpod/volumes.
type Volumes struct {
	c *podman.Client
}

func volumePath(name, action string) string {
	p := "/libpod/volumes/" + segment(name)
	if action != "" {
		p += "/" + action
	}
	return p
}

// VolumeSpec is the volume create body.
type VolumeSpec struct {
	Name    string            `json:"Name,omitempty"`
	Driver  string            `json:"Driver,omitempty"`
	Labels  map[string]string `json:"Labels,omitempty"`
	Options map[string]string `json:"Options,omitempty"`
}

// Volume is a volume's configuration and state.
type Volume struct {
	Name       string            `json:"Name"`
	Driver     string            `json:"Driver"`
	Mountpoint string            `json:"Mountpoint"`
	CreatedAt  string            `json:"CreatedAt"`
	Scope      string            `json:"Scope"`
	Labels     map[string]string `json:"Labels"`
	Options    map[string]string `json:"Options"`
	Anonymous  bool              `json:"Anonymous,omitempty"`
	MountCount uint              `json:"MountCount"`
	UID        int               `json:"UID,omitempty"`
	GID        int               `json:"GID,omitempty"`
}

// ListVolumesParams filters a volume listing.
type ListVolumesParams struct {
	Filters podman.Filters `url:"filters,omitempty"`
}

// RemoveVolumeParams controls volume removal.
type RemoveVolumeParams struct {
	Force bool `url:"force,omitempty"`
}

// Create creates a volume. An empty name lets the daemon pick one.
func (s *Volumes) Create(ctx context.Context, spec VolumeSpec) (Volume, error) {
	call, err := podman.Post("/libpod/volumes/create").WithJSON(spec)
	if err != nil {
		return Volume{}, err
	}
	return podman.Fetch[Volume](ctx, s.c, call)
}

// List returns volumes matching params.
func (s *Volumes) List(ctx context.Context, params ListVolumesParams) ([]Volume, error) {
	return fetch[[]Volume](ctx, s.c, podman.Get("/libpod/volumes/json"), params)
}

// Inspect returns one volume.
func (s *Volumes) Inspect(ctx context.Context, name string) (Volume, error) {
	return podman.Fetch[Volume](ctx, s.c, podman.Get(volumePath(name, "json")))
}

// Exists reports whether a volume with this name exists.
func (s *Volumes) Exists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, s.c, volumePath(name, "exists"))
}

// Remove deletes a volume.
func (s *Volumes) Remove(ctx context.Context, name string, params RemoveVolumeParams) error {
	return exec(ctx, s.c, podman.Delete(volumePath(name, "")), params)
}

// Prune removes unused volumes.
func (s *Volumes) Prune(ctx context.Context, filters podman.Filters) ([]PruneReport, error) {
	return fetch[[]PruneReport](ctx, s.c, podman.Post("/libpod/volumes/prune"), pruneParams{Filters: filters})
}
