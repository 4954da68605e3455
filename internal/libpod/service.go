// ABOUTME: Service groups the typed libpod endpoint bindings over one client
// ABOUTME: Shared helpers for name escaping, existence probes and batch fan-out

package libpod

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/alitto/pond/v2"

	"github.com/2389/podman-client/internal/podman"
)

// DefaultBatchConcurrency bounds Batch when no concurrency is given.
const DefaultBatchConcurrency = 4

// Service exposes every resource group through one client.
type Service struct {
	Client     *podman.Client
	System     *System
	Containers *Containers
	Images     *Images
	Pods       *Pods
	Volumes    *Volumes
	Networks   *Networks
}

// New wires all resource groups to client.
func New(client *podman.Client) *Service {
	return &Service{
		Client:     client,
		System:     &System{c: client},
		Containers: &Containers{c: client},
		Images:     &Images{c: client},
		Pods:       &Pods{c: client},
		Volumes:    &Volumes{c: client},
		Networks:   &Networks{c: client},
	}
}

// segment escapes a user-supplied name or ID for use as one path element.
func segment(name string) string {
	return url.PathEscape(name)
}

// fetch encodes params into call and decodes the response into T.
func fetch[T any](ctx context.Context, c *podman.Client, call podman.Call, params any) (T, error) {
	call, err := call.WithParams(params)
	if err != nil {
		var zero T
		return zero, err
	}
	return podman.Fetch[T](ctx, c, call)
}

// exec encodes params into call and checks only the status.
func exec(ctx context.Context, c *podman.Client, call podman.Call, params any, extraOK ...int) error {
	call, err := call.WithParams(params)
	if err != nil {
		return err
	}
	return c.Exec(ctx, call, extraOK...)
}

// exists probes an .../exists endpoint: 204 means present, and a 404
// carrying the daemon's error envelope means absent. A bare 404, such as an
// unknown route under a wrong API version, is returned as an error.
func exists(ctx context.Context, c *podman.Client, path string) (bool, error) {
	resp, err := c.Do(ctx, podman.Get(path))
	if err != nil {
		return false, err
	}
	switch resp.StatusCode {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		err := podman.Disambiguate(resp)
		var de *podman.DaemonError
		if errors.As(err, &de) {
			return false, nil
		}
		return false, err
	}
	if err := resp.Check(); err != nil {
		return false, err
	}
	return true, nil
}

// BatchResult is the outcome of one name in a Batch run.
type BatchResult struct {
	Name string
	Err  error
}

// Batch runs op for every name on a bounded worker pool and returns one
// result per name, in input order. A canceled ctx marks unstarted names with
// ctx.Err().
func Batch(ctx context.Context, concurrency int, names []string, op func(context.Context, string) error) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	results := make([]BatchResult, len(names))
	if len(names) == 0 {
		return results
	}

	pool := pond.NewPool(concurrency)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for i, name := range names {
		group.Submit(func() {
			results[i].Name = name
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Err = op(ctx, name)
		})
	}
	_ = group.Wait()
	return results
}
