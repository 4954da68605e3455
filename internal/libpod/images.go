// ABOUTME: Image endpoints: listing, inspection, removal, pull, export, load and import
// ABOUTME: Pull streams progress records and carries registry credentials in a header

package libpod

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/2389/podman-client/internal/podman"
)

// RegistryAuthHeader carries base64url-encoded registry credentials.
const RegistryAuthHeader = "X-Registry-Auth"

// Images binds /libpod/images.
type Images struct {
	c *podman.Client
}

func imagePath(name, action string) string {
	p := "/libpod/images/" + segment(name)
	if action != "" {
		p += "/" + action
	}
	return p
}

// RegistryCredentials are encoded into the X-Registry-Auth header.
type RegistryCredentials struct {
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	IdentityToken string `json:"identitytoken,omitempty"`
	ServerAddress string `json:"serveraddress,omitempty"`
}

// Encode returns the header value for these credentials.
func (r RegistryCredentials) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", &podman.TransportError{Op: "encode", Err: err}
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// ImageSummary is one entry of an image listing.
type ImageSummary struct {
	ID          string            `json:"Id"`
	ParentID    string            `json:"ParentId"`
	RepoTags    []string          `json:"RepoTags"`
	RepoDigests []string          `json:"RepoDigests"`
	Names       []string          `json:"Names,omitempty"`
	Digest      string            `json:"Digest"`
	Created     int64             `json:"Created"`
	Size        int64             `json:"Size"`
	SharedSize  int64             `json:"SharedSize"`
	VirtualSize int64             `json:"VirtualSize"`
	Labels      map[string]string `json:"Labels"`
	Containers  int               `json:"Containers"`
	Dangling    bool              `json:"Dangling,omitempty"`
	ReadOnly    bool              `json:"ReadOnly,omitempty"`
}

// ListImagesParams filters an image listing.
type ListImagesParams struct {
	All     bool           `url:"all,omitempty"`
	Filters podman.Filters `url:"filters,omitempty"`
}

// ImageInspect is the inspect record of one image.
type ImageInspect struct {
	ID           string            `json:"Id"`
	Digest       string            `json:"Digest"`
	RepoTags     []string          `json:"RepoTags"`
	RepoDigests  []string          `json:"RepoDigests"`
	Parent       string            `json:"Parent"`
	Created      string            `json:"Created"`
	Architecture string            `json:"Architecture"`
	Os           string            `json:"Os"`
	Author       string            `json:"Author"`
	User         string            `json:"User"`
	Size         int64             `json:"Size"`
	VirtualSize  int64             `json:"VirtualSize"`
	Labels       map[string]string `json:"Labels"`
	Annotations  map[string]string `json:"Annotations,omitempty"`
	Config       json.RawMessage   `json:"Config,omitempty"`
	RootFS       json.RawMessage   `json:"RootFS,omitempty"`
	History      json.RawMessage   `json:"History,omitempty"`
}

// RemoveImageParams controls image removal.
type RemoveImageParams struct {
	Force bool `url:"force,omitempty"`
}

// RemoveImageReport lists what an image removal untagged and deleted.
type RemoveImageReport struct {
	Untagged []string `json:"Untagged"`
	Deleted  []string `json:"Deleted"`
	Errors   []string `json:"Errors"`
	ExitCode int      `json:"ExitCode"`
}

// PullParams controls an image pull. Auth, when set, is sent as the
// X-Registry-Auth header rather than in the query.
type PullParams struct {
	Reference string `url:"reference"`
	Quiet     bool   `url:"quiet,omitempty"`
	TLSVerify *bool  `url:"tlsVerify,omitempty"`
	Policy    string `url:"policy,omitempty"`
	Arch      string `url:"Arch,omitempty"`
	OS        string `url:"OS,omitempty"`
	Variant   string `url:"Variant,omitempty"`
	AllTags   bool   `url:"allTags,omitempty"`

	// Credentials is "user:password" for the source registry.
	Credentials string `url:"credentials,omitempty"`
	Auth        string `url:"-"`
}

// PullProgress is one record of the pull stream. The final record carries
// the pulled image IDs; a failed pull ends with Error set.
type PullProgress struct {
	Stream string   `json:"stream,omitempty"`
	Error  string   `json:"error,omitempty"`
	Images []string `json:"images,omitempty"`
	ID     string   `json:"id,omitempty"`
}

// ExportImageParams controls image export.
type ExportImageParams struct {
	Format   string `url:"format,omitempty"`
	Compress bool   `url:"compress,omitempty"`
}

// LoadReport names the images a load produced.
type LoadReport struct {
	Names []string `json:"Names"`
}

// ImportParams controls importing a filesystem tarball as an image.
type ImportParams struct {
	Changes   []string `url:"changes,omitempty"`
	Message   string   `url:"message,omitempty"`
	Reference string   `url:"reference,omitempty"`
	URL       string   `url:"url,omitempty"`
}

// ImportReport is the ID of an imported image.
type ImportReport struct {
	ID string `json:"Id"`
}

// PruneImagesParams controls image pruning.
type PruneImagesParams struct {
	All      bool           `url:"all,omitempty"`
	External bool           `url:"external,omitempty"`
	Filters  podman.Filters `url:"filters,omitempty"`
}

// SearchParams controls a registry search.
type SearchParams struct {
	Term      string         `url:"term"`
	Limit     int            `url:"limit,omitempty"`
	ListTags  bool           `url:"listTags,omitempty"`
	TLSVerify *bool          `url:"tlsVerify,omitempty"`
	Filters   podman.Filters `url:"filters,omitempty"`
}

// SearchResult is one registry search hit.
type SearchResult struct {
	Index       string `json:"Index"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Stars       int    `json:"Stars"`
	Official    string `json:"Official"`
	Automated   string `json:"Automated"`
	Tag         string `json:"Tag"`
}

// List returns local images.
func (s *Images) List(ctx context.Context, params ListImagesParams) ([]ImageSummary, error) {
	return fetch[[]ImageSummary](ctx, s.c, podman.Get("/libpod/images/json"), params)
}

// Inspect returns the inspect record of one image.
func (s *Images) Inspect(ctx context.Context, name string) (ImageInspect, error) {
	return podman.Fetch[ImageInspect](ctx, s.c, podman.Get(imagePath(name, "json")))
}

// Exists reports whether an image with this name or ID is present locally.
func (s *Images) Exists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, s.c, imagePath(name, "exists"))
}

// Remove deletes an image.
func (s *Images) Remove(ctx context.Context, name string, params RemoveImageParams) (RemoveImageReport, error) {
	return fetch[RemoveImageReport](ctx, s.c, podman.Delete(imagePath(name, "")), params)
}

// Pull streams progress while the daemon pulls params.Reference.
func (s *Images) Pull(ctx context.Context, params PullParams) *podman.Stream[PullProgress] {
	call, err := podman.Post("/libpod/images/pull").WithParams(params)
	if err != nil {
		return podman.FailedStream[PullProgress](err)
	}
	if params.Auth != "" {
		call = call.WithHeader(RegistryAuthHeader, params.Auth)
	}
	return podman.JSONStream[PullProgress](ctx, s.c, call)
}

// Export streams an image archive.
func (s *Images) Export(ctx context.Context, name string, params ExportImageParams) *podman.Stream[[]byte] {
	call, err := podman.Get(imagePath(name, "get")).WithParams(params)
	if err != nil {
		return podman.FailedStream[[]byte](err)
	}
	return podman.ChunkStream(ctx, s.c, call)
}

// Load uploads an image archive, as produced by Export.
func (s *Images) Load(ctx context.Context, archive io.Reader) (LoadReport, error) {
	return podman.Fetch[LoadReport](ctx, s.c, podman.Post("/libpod/images/load").WithUpload(archive))
}

// Import creates an image from a root filesystem tarball.
func (s *Images) Import(ctx context.Context, archive io.Reader, params ImportParams) (ImportReport, error) {
	return fetch[ImportReport](ctx, s.c, podman.Post("/libpod/images/import").WithUpload(archive), params)
}

// Prune removes unused images.
func (s *Images) Prune(ctx context.Context, params PruneImagesParams) ([]PruneReport, error) {
	return fetch[[]PruneReport](ctx, s.c, podman.Post("/libpod/images/prune"), params)
}

// Search queries the configured registries.
func (s *Images) Search(ctx context.Context, params SearchParams) ([]SearchResult, error) {
	return fetch[[]SearchResult](ctx, s.c, podman.Get("/libpod/images/search"), params)
}
