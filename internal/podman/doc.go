// Package podman is the transport and response layer for the podman libpod
// REST API, reached over a Unix domain socket.
//
// # Calls
//
// A Call names the method, the path below the API version prefix, an encoded
// query, header overrides and an optional JSON body or tar upload:
//
//	call := podman.Get("/libpod/containers/json").WithQuery("all=true")
//
// # Response shapes
//
// Every call is materialized exactly once, in one of four shapes:
//
//   - Client.Do buffers the whole body (Fetch and Exec build on it)
//   - JSONStream decodes a sequence of JSON values
//   - LineStream yields text lines
//   - ChunkStream yields raw byte chunks
//
// The unconsumed body never leaves the package, so it cannot be read twice.
// Streams check the status before yielding anything: a failed call yields a
// single error and no items.
//
// # Errors
//
// Failures are one of four kinds, all implementing Error:
//
//   - *TransportError: the socket could not be dialed, written or read
//   - *CodecError: the body did not decode into the expected shape
//   - *DaemonError: the daemon's cause/message/response envelope
//   - *RequestError: a plain-text answer to a request the daemon could not route
//
// Decode tries the expected shape before looking at the status code, since
// the daemon sometimes pairs a non-2xx status with a success body and a 2xx
// status with an error envelope.
//
//	info, err := podman.Fetch[Info](ctx, client, podman.Get("/libpod/info"))
//	if errors.Is(err, podman.ErrNotFound) {
//		...
//	}
package podman
