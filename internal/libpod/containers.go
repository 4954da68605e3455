// ABOUTME: Container lifecycle, inspection and streaming endpoints
// ABOUTME: Logs, stats, top, export and checkpoint open streams; the rest are buffered

package libpod

import (
	"context"
	"net/http"

	"github.com/2389/podman-client/internal/podman"
)

// Containers binds /libpod/containers.
type Containers struct {
	c *podman.Client
}

func containerPath(name, action string) string {
	p := "/libpod/containers/" + segment(name)
	if action != "" {
		p += "/" + action
	}
	return p
}

// Create creates a container from spec and returns its ID.
func (s *Containers) Create(ctx context.Context, spec ContainerSpec) (CreateResponse, error) {
	call, err := podman.Post("/libpod/containers/create").WithJSON(spec)
	if err != nil {
		return CreateResponse{}, err
	}
	return podman.Fetch[CreateResponse](ctx, s.c, call)
}

// List returns containers matching params.
func (s *Containers) List(ctx context.Context, params ListContainersParams) ([]ContainerSummary, error) {
	return fetch[[]ContainerSummary](ctx, s.c, podman.Get("/libpod/containers/json"), params)
}

// Inspect returns the full configuration and state of one container.
func (s *Containers) Inspect(ctx context.Context, name string, params InspectContainerParams) (ContainerInspect, error) {
	return fetch[ContainerInspect](ctx, s.c, podman.Get(containerPath(name, "json")), params)
}

// Exists reports whether a container with this name or ID exists.
func (s *Containers) Exists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, s.c, containerPath(name, "exists"))
}

// Start starts a created or stopped container.
func (s *Containers) Start(ctx context.Context, name string, params StartContainerParams) error {
	return exec(ctx, s.c, podman.Post(containerPath(name, "start")), params)
}

// Stop stops a running container.
func (s *Containers) Stop(ctx context.Context, name string, params StopContainerParams) error {
	return exec(ctx, s.c, podman.Post(containerPath(name, "stop")), params)
}

// Restart restarts a container.
func (s *Containers) Restart(ctx context.Context, name string, params RestartContainerParams) error {
	return exec(ctx, s.c, podman.Post(containerPath(name, "restart")), params)
}

// Kill sends a signal to the container's main process.
func (s *Containers) Kill(ctx context.Context, name string, params KillContainerParams) error {
	return exec(ctx, s.c, podman.Post(containerPath(name, "kill")), params)
}

// Pause freezes all processes in a container.
func (s *Containers) Pause(ctx context.Context, name string) error {
	return s.c.Exec(ctx, podman.Post(containerPath(name, "pause")))
}

// Unpause resumes a paused container.
func (s *Containers) Unpause(ctx context.Context, name string) error {
	return s.c.Exec(ctx, podman.Post(containerPath(name, "unpause")))
}

// Rename changes a container's name.
func (s *Containers) Rename(ctx context.Context, name, newName string) error {
	return exec(ctx, s.c, podman.Post(containerPath(name, "rename")), renameParams{Name: newName})
}

// Init prepares a container without starting it. 304 means it already was.
func (s *Containers) Init(ctx context.Context, name string) error {
	return s.c.Exec(ctx, podman.Post(containerPath(name, "init")), http.StatusNotModified)
}

// Delete removes a container. A 204 answer carries no reports and returns
// nil. Per-container failures may come back as reports with Err set, even
// under a non-2xx status, so callers should inspect them.
func (s *Containers) Delete(ctx context.Context, name string, params DeleteContainerParams) ([]RemoveReport, error) {
	call, err := podman.Delete(containerPath(name, "")).WithParams(params)
	if err != nil {
		return nil, err
	}
	resp, err := s.c.Do(ctx, call)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	return podman.Decode[[]RemoveReport](resp)
}

// Logs streams log lines. Stdout and stderr both default to on.
func (s *Containers) Logs(ctx context.Context, name string, params LogsParams) *podman.Stream[string] {
	if params.Stdout == nil && params.Stderr == nil {
		on := true
		params.Stdout, params.Stderr = &on, &on
	}
	call, err := podman.Get(containerPath(name, "logs")).WithParams(params)
	if err != nil {
		return podman.FailedStream[string](err)
	}
	return podman.LineStream(ctx, s.c, call)
}

// Stats returns one stats sample for the named containers, or all when none
// are named.
func (s *Containers) Stats(ctx context.Context, params StatsParams) (StatsReport, error) {
	params.Stream = false
	return fetch[StatsReport](ctx, s.c, podman.Get("/libpod/containers/stats"), params)
}

// StatsStream emits a stats sample every params.Interval seconds until
// closed.
func (s *Containers) StatsStream(ctx context.Context, params StatsParams) *podman.Stream[StatsReport] {
	params.Stream = true
	call, err := podman.Get("/libpod/containers/stats").WithParams(params)
	if err != nil {
		return podman.FailedStream[StatsReport](err)
	}
	return podman.JSONStream[StatsReport](ctx, s.c, call)
}

// Top lists the container's processes once.
func (s *Containers) Top(ctx context.Context, name string, params TopParams) (TopReport, error) {
	params.Stream = false
	return fetch[TopReport](ctx, s.c, podman.Get(containerPath(name, "top")), params)
}

// TopStream re-lists the container's processes every params.Delay seconds.
func (s *Containers) TopStream(ctx context.Context, name string, params TopParams) *podman.Stream[TopReport] {
	params.Stream = true
	call, err := podman.Get(containerPath(name, "top")).WithParams(params)
	if err != nil {
		return podman.FailedStream[TopReport](err)
	}
	return podman.JSONStream[TopReport](ctx, s.c, call)
}

// Export streams the container filesystem as a tar archive.
func (s *Containers) Export(ctx context.Context, name string) *podman.Stream[[]byte] {
	return podman.ChunkStream(ctx, s.c, podman.Get(containerPath(name, "export")))
}

// Checkpoint checkpoints a running container. With Export set the body is
// the checkpoint archive. Requires CRIU and root on the daemon side.
func (s *Containers) Checkpoint(ctx context.Context, name string, params CheckpointParams) *podman.Stream[[]byte] {
	call, err := podman.Post(containerPath(name, "checkpoint")).WithParams(params)
	if err != nil {
		return podman.FailedStream[[]byte](err)
	}
	return podman.ChunkStream(ctx, s.c, call)
}

// Mount mounts the container's root filesystem and returns the host path.
func (s *Containers) Mount(ctx context.Context, name string) (string, error) {
	resp, err := s.c.Do(ctx, podman.Post(containerPath(name, "mount")))
	if err != nil {
		return "", err
	}
	path, err := resp.Text()
	if err != nil {
		return "", err
	}
	return trimQuotedPath(path), nil
}

// Unmount unmounts the container's root filesystem.
func (s *Containers) Unmount(ctx context.Context, name string) error {
	return s.c.Exec(ctx, podman.Post(containerPath(name, "unmount")))
}

// Wait blocks until the container meets a condition and returns its exit code.
func (s *Containers) Wait(ctx context.Context, name string, params WaitParams) (int32, error) {
	return fetch[int32](ctx, s.c, podman.Post(containerPath(name, "wait")), params)
}

// Prune removes stopped containers.
func (s *Containers) Prune(ctx context.Context, filters podman.Filters) ([]PruneReport, error) {
	return fetch[[]PruneReport](ctx, s.c, podman.Post("/libpod/containers/prune"), pruneParams{Filters: filters})
}

// Healthcheck runs the container's configured health check.
func (s *Containers) Healthcheck(ctx context.Context, name string) (HealthCheckResult, error) {
	return podman.Fetch[HealthCheckResult](ctx, s.c, podman.Get(containerPath(name, "healthcheck")))
}
