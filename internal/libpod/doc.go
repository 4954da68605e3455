// Package libpod binds the podman libpod endpoints to typed Go calls.
//
// Each resource group (system, containers, images, pods, volumes, networks)
// is a small struct wrapping a shared *podman.Client. Parameter structs use
// `url` tags and are encoded with go-querystring; Filters are sent as the
// JSON document the daemon expects. Response types keep the identifying
// fields typed and leave the long tail of the schema to callers through
// json.RawMessage.
//
//	svc := libpod.New(podman.New(socketPath))
//	list, err := svc.Containers.List(ctx, libpod.ListContainersParams{All: true})
//
// Errors are the podman package's closed set, so errors.Is(err,
// podman.ErrNotFound) works for every lookup.
package libpod
