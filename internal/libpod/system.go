// ABOUTME: System endpoints: ping, version, info, disk usage and the event stream
// ABOUTME: Events is a long-lived JSON stream that the caller closes

package libpod

import (
	"context"
	"encoding/json"

	"github.com/2389/podman-client/internal/podman"
)

// System binds the /libpod system endpoints.
type System struct {
	c *podman.Client
}

// PingResult is the _ping answer plus the version headers the daemon sets.
type PingResult struct {
	Body           string
	APIVersion     string
	BuildahVersion string
}

// Ping checks that the service answers. The body is plain text ("OK").
func (s *System) Ping(ctx context.Context) (PingResult, error) {
	resp, err := s.c.Do(ctx, podman.Get("/libpod/_ping"))
	if err != nil {
		return PingResult{}, err
	}
	body, err := resp.Text()
	if err != nil {
		return PingResult{}, err
	}
	return PingResult{
		Body:           body,
		APIVersion:     resp.Header.Get("Libpod-API-Version"),
		BuildahVersion: resp.Header.Get("Buildah-Version"),
	}, nil
}

// ComponentVersion is one entry of VersionReport.Components.
type ComponentVersion struct {
	Name    string            `json:"Name"`
	Version string            `json:"Version"`
	Details map[string]string `json:"Details,omitempty"`
}

// VersionReport is the daemon's version document.
type VersionReport struct {
	Platform struct {
		Name string `json:"Name"`
	} `json:"Platform"`
	Components    []ComponentVersion `json:"Components"`
	Version       string             `json:"Version"`
	APIVersion    string             `json:"ApiVersion"`
	MinAPIVersion string             `json:"MinAPIVersion"`
	GitCommit     string             `json:"GitCommit"`
	GoVersion     string             `json:"GoVersion"`
	Os            string             `json:"Os"`
	Arch          string             `json:"Arch"`
	KernelVersion string             `json:"KernelVersion"`
	BuildTime     string             `json:"BuildTime"`
}

// Version returns component versions of the running service.
func (s *System) Version(ctx context.Context) (VersionReport, error) {
	return podman.Fetch[VersionReport](ctx, s.c, podman.Get("/libpod/version"))
}

// Info is the subset of /libpod/info callers usually need. Raw sections are
// kept for everything else.
type Info struct {
	Host struct {
		Arch           string `json:"arch"`
		Hostname       string `json:"hostname"`
		Kernel         string `json:"kernel"`
		OS             string `json:"os"`
		CPUs           int64  `json:"cpus"`
		MemTotal       int64  `json:"memTotal"`
		MemFree        int64  `json:"memFree"`
		CgroupVersion  string `json:"cgroupVersion"`
		NetworkBackend string `json:"networkBackend"`
		Security       struct {
			Rootless bool `json:"rootless"`
		} `json:"security"`
		RemoteSocket struct {
			Path   string `json:"path"`
			Exists bool   `json:"exists"`
		} `json:"remoteSocket"`
	} `json:"host"`
	Store struct {
		GraphDriverName string `json:"graphDriverName"`
		GraphRoot       string `json:"graphRoot"`
		RunRoot         string `json:"runRoot"`
		VolumePath      string `json:"volumePath"`
		ContainerStore  struct {
			Number  int64 `json:"number"`
			Paused  int64 `json:"paused"`
			Running int64 `json:"running"`
			Stopped int64 `json:"stopped"`
		} `json:"containerStore"`
		ImageStore struct {
			Number int64 `json:"number"`
		} `json:"imageStore"`
	} `json:"store"`
	Registries map[string]json.RawMessage `json:"registries"`
	Plugins    json.RawMessage            `json:"plugins,omitempty"`
	Version    struct {
		APIVersion string `json:"APIVersion"`
		Version    string `json:"Version"`
		GoVersion  string `json:"GoVersion"`
		OsArch     string `json:"OsArch"`
	} `json:"version"`
}

// Info returns host, store and version information.
func (s *System) Info(ctx context.Context) (Info, error) {
	return podman.Fetch[Info](ctx, s.c, podman.Get("/libpod/info"))
}

// DiskUsage is the /libpod/system/df report.
type DiskUsage struct {
	ImagesSize int64             `json:"ImagesSize"`
	Images     []json.RawMessage `json:"Images"`
	Containers []json.RawMessage `json:"Containers"`
	Volumes    []json.RawMessage `json:"Volumes"`
}

// DiskUsage reports storage used by images, containers and volumes.
func (s *System) DiskUsage(ctx context.Context) (DiskUsage, error) {
	return podman.Fetch[DiskUsage](ctx, s.c, podman.Get("/libpod/system/df"))
}

// EventsParams filters the event stream. Stream=false returns only past
// events and then ends.
type EventsParams struct {
	Since   string         `url:"since,omitempty"`
	Until   string         `url:"until,omitempty"`
	Stream  *bool          `url:"stream,omitempty"`
	Filters podman.Filters `url:"filters,omitempty"`
}

// EventActor identifies the object an event is about.
type EventActor struct {
	ID         string            `json:"ID"`
	Attributes map[string]string `json:"Attributes"`
}

// Event is one entry of the event stream.
type Event struct {
	Type     string     `json:"Type"`
	Action   string     `json:"Action"`
	Actor    EventActor `json:"Actor"`
	Status   string     `json:"status,omitempty"`
	ID       string     `json:"id,omitempty"`
	From     string     `json:"from,omitempty"`
	Scope    string     `json:"scope,omitempty"`
	Time     int64      `json:"time"`
	TimeNano int64      `json:"timeNano"`
}

// Events opens the event stream. It runs until ctx ends or the caller closes it.
func (s *System) Events(ctx context.Context, params EventsParams) *podman.Stream[Event] {
	call, err := podman.Get("/libpod/events").WithParams(params)
	if err != nil {
		return podman.FailedStream[Event](err)
	}
	return podman.JSONStream[Event](ctx, s.c, call)
}
