// Package config handles configuration loading for podctl.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Empty fields receive defaults, so a missing file at the default
// location is equivalent to an empty one.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from the PODCTL_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/podctl/config.yaml (or ~/.config/podctl/config.yaml)
//
// Files ending in .toml are parsed as TOML; anything else as YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	registry:
//	  auth: "${PODCTL_REGISTRY_AUTH}"
//
// Syntax: ${VAR_NAME}
//
// # Socket Resolution
//
// When socket.path is empty it resolves to $PODMAN_SOCKET (a leading
// unix:// is stripped), then $XDG_RUNTIME_DIR/podman/podman.sock for
// rootless podman, then /run/podman/podman.sock.
//
// # Configuration Sections
//
//	socket:
//	  path: "/run/user/1000/podman/podman.sock"
//	  api_version: "v4.2.0"
//
//	client:
//	  timeout: "30s"        # bounds buffered calls, never streams
//	  max_idle_conns: 10
//
//	logging:
//	  level: "info"         # debug, info, warn, error
//	  format: "text"        # text or json
//
//	metrics:
//	  enabled: false
//	  addr: "127.0.0.1:9464"
//	  path: "/metrics"
//
//	registry:
//	  auth: ""              # base64 X-Registry-Auth value used by pull
package config
