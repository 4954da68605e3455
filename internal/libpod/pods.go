// ABOUTME: Pod endpoints: creation, lifecycle actions, inspection and streams
// ABOUTME: Lifecycle actions return a report listing per-container errors

package libpod

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/2389/podman-client/internal/podman"
)

// Pods binds /libpod/pods.
type Pods struct {
	c *podman.Client
}

func podPath(name, action string) string {
	p := "/libpod/pods/" + segment(name)
	if action != "" {
		p += "/" + action
	}
	return p
}

// PodSpec is the pod create body.
type PodSpec struct {
	Name             string            `json:"name,omitempty"`
	Hostname         string            `json:"hostname,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	InfraImage       string            `json:"infra_image,omitempty"`
	NoInfra          bool              `json:"no_infra,omitempty"`
	SharedNamespaces []string          `json:"shared_namespaces,omitempty"`
	PortMappings     []PortMapping     `json:"portmappings,omitempty"`
	DNSServer        []string          `json:"dns_server,omitempty"`
	DNSSearch        []string          `json:"dns_search,omitempty"`
}

// PodContainer is a container entry inside a pod listing.
type PodContainer struct {
	ID     string `json:"Id"`
	Names  string `json:"Names"`
	Status string `json:"Status"`
}

// PodSummary is one entry of a pod listing.
type PodSummary struct {
	ID         string            `json:"Id"`
	Name       string            `json:"Name"`
	Status     string            `json:"Status"`
	Created    string            `json:"Created"`
	InfraID    string            `json:"InfraId"`
	Namespace  string            `json:"Namespace"`
	Cgroup     string            `json:"Cgroup"`
	Labels     map[string]string `json:"Labels"`
	Networks   []string          `json:"Networks"`
	Containers []PodContainer    `json:"Containers"`
}

// PodInspect is the inspect record of one pod.
type PodInspect struct {
	ID               string            `json:"Id"`
	Name             string            `json:"Name"`
	Namespace        string            `json:"Namespace"`
	Created          string            `json:"Created"`
	State            string            `json:"State"`
	Hostname         string            `json:"Hostname"`
	Labels           map[string]string `json:"Labels"`
	CreateInfra      bool              `json:"CreateInfra"`
	InfraContainerID string            `json:"InfraContainerID"`
	InfraConfig      json.RawMessage   `json:"InfraConfig,omitempty"`
	SharedNamespaces []string          `json:"SharedNamespaces"`
	NumContainers    uint              `json:"NumContainers"`
	Containers       []struct {
		ID    string `json:"Id"`
		Name  string `json:"Name"`
		State string `json:"State"`
	} `json:"Containers"`
}

// PodActionReport is returned by pod lifecycle actions. Errs lists failures
// of individual containers; the action as a whole may still have succeeded.
type PodActionReport struct {
	ID       string   `json:"Id"`
	Errs     []string `json:"Errs"`
	RawInput string   `json:"RawInput,omitempty"`
}

// Failed reports whether any container in the pod failed the action.
func (r PodActionReport) Failed() bool {
	return len(r.Errs) > 0
}

// Summary joins the per-container errors.
func (r PodActionReport) Summary() string {
	return strings.Join(r.Errs, "; ")
}

// PodRemoveReport is returned by pod removal and prune.
type PodRemoveReport struct {
	ID  string `json:"Id"`
	Err string `json:"Err,omitempty"`
}

// ListPodsParams filters a pod listing.
type ListPodsParams struct {
	Filters podman.Filters `url:"filters,omitempty"`
}

// StopPodParams controls pod stop. Timeout is in seconds.
type StopPodParams struct {
	Timeout *int `url:"t,omitempty"`
}

// KillPodParams selects the signal sent to every container in the pod.
type KillPodParams struct {
	Signal string `url:"signal,omitempty"`
}

// RemovePodParams controls pod removal.
type RemovePodParams struct {
	Force bool `url:"force,omitempty"`
}

// PodStatsParams selects pods for stats. NamesOrIDs are sent as repeated keys.
type PodStatsParams struct {
	All        bool     `url:"all,omitempty"`
	NamesOrIDs []string `url:"namesOrIDs,omitempty"`
}

// PodStats is one container's usage within a pod stats sample. The daemon
// preformats the values.
type PodStats struct {
	Pod      string `json:"Pod"`
	CID      string `json:"CID"`
	Name     string `json:"Name"`
	CPU      string `json:"CPU"`
	MemUsage string `json:"MemUsage"`
	MemPerc  string `json:"Mem"`
	NetIO    string `json:"NetIO"`
	BlockIO  string `json:"BlockIO"`
	PIDs     string `json:"PIDS"`
}

// Create creates a pod and returns its ID.
func (s *Pods) Create(ctx context.Context, spec PodSpec) (CreateResponse, error) {
	call, err := podman.Post("/libpod/pods/create").WithJSON(spec)
	if err != nil {
		return CreateResponse{}, err
	}
	return podman.Fetch[CreateResponse](ctx, s.c, call)
}

// List returns pods matching params.
func (s *Pods) List(ctx context.Context, params ListPodsParams) ([]PodSummary, error) {
	return fetch[[]PodSummary](ctx, s.c, podman.Get("/libpod/pods/json"), params)
}

// Inspect returns the inspect record of one pod.
func (s *Pods) Inspect(ctx context.Context, name string) (PodInspect, error) {
	return podman.Fetch[PodInspect](ctx, s.c, podman.Get(podPath(name, "json")))
}

// Exists reports whether a pod with this name or ID exists.
func (s *Pods) Exists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, s.c, podPath(name, "exists"))
}

// Start starts every container in the pod.
func (s *Pods) Start(ctx context.Context, name string) (PodActionReport, error) {
	return podman.Fetch[PodActionReport](ctx, s.c, podman.Post(podPath(name, "start")))
}

// Stop stops every container in the pod.
func (s *Pods) Stop(ctx context.Context, name string, params StopPodParams) (PodActionReport, error) {
	return fetch[PodActionReport](ctx, s.c, podman.Post(podPath(name, "stop")), params)
}

// Restart restarts every container in the pod.
func (s *Pods) Restart(ctx context.Context, name string) (PodActionReport, error) {
	return podman.Fetch[PodActionReport](ctx, s.c, podman.Post(podPath(name, "restart")))
}

// Pause pauses every container in the pod.
func (s *Pods) Pause(ctx context.Context, name string) (PodActionReport, error) {
	return podman.Fetch[PodActionReport](ctx, s.c, podman.Post(podPath(name, "pause")))
}

// Unpause resumes every container in the pod.
func (s *Pods) Unpause(ctx context.Context, name string) (PodActionReport, error) {
	return podman.Fetch[PodActionReport](ctx, s.c, podman.Post(podPath(name, "unpause")))
}

// Kill signals every container in the pod.
func (s *Pods) Kill(ctx context.Context, name string, params KillPodParams) (PodActionReport, error) {
	return fetch[PodActionReport](ctx, s.c, podman.Post(podPath(name, "kill")), params)
}

// Remove deletes a pod.
func (s *Pods) Remove(ctx context.Context, name string, params RemovePodParams) (PodRemoveReport, error) {
	return fetch[PodRemoveReport](ctx, s.c, podman.Delete(podPath(name, "")), params)
}

// Top lists the processes of every container in the pod once.
func (s *Pods) Top(ctx context.Context, name string, params TopParams) (TopReport, error) {
	params.Stream = false
	return fetch[TopReport](ctx, s.c, podman.Get(podPath(name, "top")), params)
}

// TopStream re-lists the pod's processes every params.Delay seconds.
func (s *Pods) TopStream(ctx context.Context, name string, params TopParams) *podman.Stream[TopReport] {
	params.Stream = true
	call, err := podman.Get(podPath(name, "top")).WithParams(params)
	if err != nil {
		return podman.FailedStream[TopReport](err)
	}
	return podman.JSONStream[TopReport](ctx, s.c, call)
}

// Stats streams usage samples, one array per sample.
func (s *Pods) Stats(ctx context.Context, params PodStatsParams) *podman.Stream[[]PodStats] {
	call, err := podman.Get("/libpod/pods/stats").WithParams(params)
	if err != nil {
		return podman.FailedStream[[]PodStats](err)
	}
	return podman.JSONStream[[]PodStats](ctx, s.c, call)
}

// Prune removes stopped pods.
func (s *Pods) Prune(ctx context.Context) ([]PodRemoveReport, error) {
	return podman.Fetch[[]PodRemoveReport](ctx, s.c, podman.Post("/libpod/pods/prune"))
}
