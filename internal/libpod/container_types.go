// ABOUTME: Request parameters and response records for container endpoints
// ABOUTME: Query structs carry url tags; responses keep identifying fields typed

package libpod

import (
	"encoding/json"
	"strings"

	"github.com/2389/podman-client/internal/podman"
)

// ContainerSpec is the create body. Only commonly used fields are typed;
// the daemon fills defaults for the rest.
type ContainerSpec struct {
	Name         string            `json:"name,omitempty"`
	Image        string            `json:"image"`
	Command      []string          `json:"command,omitempty"`
	Entrypoint   []string          `json:"entrypoint,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Pod          string            `json:"pod,omitempty"`
	Hostname     string            `json:"hostname,omitempty"`
	User         string            `json:"user,omitempty"`
	WorkDir      string            `json:"work_dir,omitempty"`
	Remove       bool              `json:"remove,omitempty"`
	Terminal     bool              `json:"terminal,omitempty"`
	PortMappings []PortMapping     `json:"portmappings,omitempty"`
}

// PortMapping publishes a container port on the host.
type PortMapping struct {
	ContainerPort uint16 `json:"container_port"`
	HostPort      uint16 `json:"host_port,omitempty"`
	HostIP        string `json:"host_ip,omitempty"`
	Protocol      string `json:"protocol,omitempty"`
}

// CreateResponse is returned by container and pod creation.
type CreateResponse struct {
	ID       string   `json:"Id"`
	Warnings []string `json:"Warnings"`
}

// ListContainersParams filters a container listing.
type ListContainersParams struct {
	All     bool           `url:"all,omitempty"`
	Limit   int            `url:"limit,omitempty"`
	Pod     bool           `url:"pod,omitempty"`
	Size    bool           `url:"size,omitempty"`
	Sync    bool           `url:"sync,omitempty"`
	Filters podman.Filters `url:"filters,omitempty"`
}

// ContainerSummary is one entry of a container listing.
type ContainerSummary struct {
	ID         string            `json:"Id"`
	Names      []string          `json:"Names"`
	Image      string            `json:"Image"`
	ImageID    string            `json:"ImageID"`
	Command    []string          `json:"Command"`
	Created    json.RawMessage   `json:"Created"`
	State      string            `json:"State"`
	Status     string            `json:"Status"`
	Pod        string            `json:"Pod"`
	PodName    string            `json:"PodName"`
	Labels     map[string]string `json:"Labels"`
	ExitCode   int32             `json:"ExitCode"`
	Exited     bool              `json:"Exited"`
	Pid        int               `json:"Pid"`
	StartedAt  int64             `json:"StartedAt"`
	AutoRemove bool              `json:"AutoRemove"`
	IsInfra    bool              `json:"IsInfra"`
	Ports      json.RawMessage   `json:"Ports"`
}

// Name returns the first listed name, or the short ID when unnamed.
func (c ContainerSummary) Name() string {
	if len(c.Names) > 0 {
		return c.Names[0]
	}
	return shortID(c.ID)
}

// InspectContainerParams controls container inspection.
type InspectContainerParams struct {
	Size bool `url:"size,omitempty"`
}

// ContainerState is the State section of an inspect record.
type ContainerState struct {
	Status     string          `json:"Status"`
	Running    bool            `json:"Running"`
	Paused     bool            `json:"Paused"`
	Restarting bool            `json:"Restarting"`
	OOMKilled  bool            `json:"OOMKilled"`
	Dead       bool            `json:"Dead"`
	Pid        int             `json:"Pid"`
	ExitCode   int32           `json:"ExitCode"`
	Error      string          `json:"Error"`
	StartedAt  string          `json:"StartedAt"`
	FinishedAt string          `json:"FinishedAt"`
	Health     json.RawMessage `json:"Health,omitempty"`
}

// ContainerInspect is the inspect record of one container.
type ContainerInspect struct {
	ID              string          `json:"Id"`
	Name            string          `json:"Name"`
	Created         string          `json:"Created"`
	Path            string          `json:"Path"`
	Args            []string        `json:"Args"`
	Image           string          `json:"Image"`
	ImageName       string          `json:"ImageName"`
	Pod             string          `json:"Pod"`
	RestartCount    int32           `json:"RestartCount"`
	IsInfra         bool            `json:"IsInfra"`
	State           ContainerState  `json:"State"`
	Config          json.RawMessage `json:"Config,omitempty"`
	HostConfig      json.RawMessage `json:"HostConfig,omitempty"`
	NetworkSettings json.RawMessage `json:"NetworkSettings,omitempty"`
	Mounts          json.RawMessage `json:"Mounts,omitempty"`
	SizeRw          *int64          `json:"SizeRw,omitempty"`
	SizeRootFs      int64           `json:"SizeRootFs,omitempty"`
}

// StartContainerParams controls container start.
type StartContainerParams struct {
	DetachKeys string `url:"detachKeys,omitempty"`
}

// StopContainerParams controls container stop.
type StopContainerParams struct {
	All     bool  `url:"all,omitempty"`
	Ignore  bool  `url:"Ignore,omitempty"`
	Timeout *uint `url:"timeout,omitempty"`
}

// RestartContainerParams controls container restart. Timeout is in seconds.
type RestartContainerParams struct {
	Timeout *uint `url:"t,omitempty"`
}

// KillContainerParams selects the signal, SIGKILL by default on the daemon.
type KillContainerParams struct {
	Signal string `url:"signal,omitempty"`
}

type renameParams struct {
	Name string `url:"name"`
}

// DeleteContainerParams controls container removal.
type DeleteContainerParams struct {
	Depend  bool  `url:"depend,omitempty"`
	Force   bool  `url:"force,omitempty"`
	Ignore  bool  `url:"ignore,omitempty"`
	Timeout *uint `url:"timeout,omitempty"`
	Volumes bool  `url:"v,omitempty"`
}

// RemoveReport is one entry of a container removal answer.
type RemoveReport struct {
	ID       string `json:"Id"`
	Err      string `json:"Err,omitempty"`
	RawInput string `json:"RawInput,omitempty"`
}

// LogsParams selects which log output to stream.
type LogsParams struct {
	Follow     bool   `url:"follow,omitempty"`
	Since      string `url:"since,omitempty"`
	Until      string `url:"until,omitempty"`
	Tail       string `url:"tail,omitempty"`
	Timestamps bool   `url:"timestamps,omitempty"`
	Stdout     *bool  `url:"stdout,omitempty"`
	Stderr     *bool  `url:"stderr,omitempty"`
}

// StatsParams selects containers for a stats sample. Containers are sent as
// repeated containers= keys, the only array form the endpoint accepts.
type StatsParams struct {
	Containers []string `url:"containers,omitempty"`
	Interval   int      `url:"interval,omitempty"`
	Stream     bool     `url:"stream"`
}

// ContainerStats is one container's resource usage in a sample.
type ContainerStats struct {
	ContainerID string   `json:"ContainerID"`
	Name        string   `json:"Name"`
	PIDs        uint64   `json:"PIDs"`
	CPU         float64  `json:"CPU"`
	AvgCPU      float64  `json:"AvgCPU"`
	CPUNano     uint64   `json:"CPUNano"`
	MemUsage    uint64   `json:"MemUsage"`
	MemLimit    uint64   `json:"MemLimit"`
	MemPerc     float64  `json:"MemPerc"`
	NetInput    uint64   `json:"NetInput"`
	NetOutput   uint64   `json:"NetOutput"`
	BlockInput  uint64   `json:"BlockInput"`
	BlockOutput uint64   `json:"BlockOutput"`
	UpTime      int64    `json:"UpTime"`
	Duration    uint64   `json:"Duration"`
	SystemNano  uint64   `json:"SystemNano"`
	PerCPU      []uint64 `json:"PerCPU,omitempty"`
}

// StatsReport is one stats sample. Error is set when the daemon could not
// collect stats for some container.
type StatsReport struct {
	Error json.RawMessage  `json:"Error,omitempty"`
	Stats []ContainerStats `json:"Stats"`
}

// TopParams controls process listing. Delay is in seconds between samples.
type TopParams struct {
	PsArgs string `url:"ps_args,omitempty"`
	Delay  int    `url:"delay,omitempty"`
	Stream bool   `url:"stream"`
}

// TopReport is a ps-style process table.
type TopReport struct {
	Titles    []string   `json:"Titles"`
	Processes [][]string `json:"Processes"`
}

// CheckpointParams controls a checkpoint.
type CheckpointParams struct {
	Export         bool `url:"export,omitempty"`
	IgnoreRootFS   bool `url:"ignoreRootFS,omitempty"`
	Keep           bool `url:"keep,omitempty"`
	LeaveRunning   bool `url:"leaveRunning,omitempty"`
	PrintStats     bool `url:"printStats,omitempty"`
	TCPEstablished bool `url:"tcpEstablished,omitempty"`
}

// WaitParams selects the state to wait for, e.g. "stopped" or "healthy".
type WaitParams struct {
	Condition []string `url:"condition,omitempty"`
	Interval  string   `url:"interval,omitempty"`
}

type pruneParams struct {
	Filters podman.Filters `url:"filters,omitempty"`
}

// PruneReport is one entry of a container or image prune answer.
type PruneReport struct {
	ID   string `json:"Id"`
	Size uint64 `json:"Size"`
	Err  string `json:"Err,omitempty"`
}

// HealthCheckLog is one health check run.
type HealthCheckLog struct {
	Start    string `json:"Start"`
	End      string `json:"End"`
	ExitCode int    `json:"ExitCode"`
	Output   string `json:"Output"`
}

// HealthCheckResult is the outcome of a health check.
type HealthCheckResult struct {
	Status        string           `json:"Status"`
	FailingStreak int              `json:"FailingStreak"`
	Log           []HealthCheckLog `json:"Log"`
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// trimQuotedPath accepts the mount path either as plain text or as a JSON
// string, which is what newer daemons send.
func trimQuotedPath(body string) string {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, `"`) {
		var s string
		if err := json.Unmarshal([]byte(body), &s); err == nil {
			return s
		}
	}
	return body
}
