// docker.go wraps the Docker Engine SDK client for daemon detection.
// Detection is deliberately one-shot: the wrapper serves batch pipelines
// where a silent fallback between runtimes would change mount semantics
// mid-pipeline, so a missing daemon fails fast with a diagnostic.

package runtime

import (
	"context"
	"fmt"
	"net"
	"os"
	goruntime "runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// defaultPingTimeout is the maximum duration to wait for a Docker daemon
// response during a Ping operation. 5 seconds is generous enough for most
// environments, including Docker Desktop on macOS which can be slower
// than native Linux Docker.
const defaultPingTimeout = 5 * time.Second

// DockerClient wraps the Docker Engine SDK client for daemon detection.
// A reachable daemon — not merely a docker binary on PATH — is what makes
// the docker exec method viable, so auto-detection pings the daemon
// rather than just probing the search path.
type DockerClient struct {
	// inner is the underlying Docker SDK client. We wrap it rather than
	// embedding it to keep the exposed surface down to what the planner
	// needs (Ping and Close).
	inner *client.Client
}

// NewDockerClient creates a Docker client with automatic socket detection.
//
// The detection strategy follows this priority order:
//  1. DOCKER_HOST environment variable (if set, used as-is)
//  2. Platform-specific default socket paths:
//     - Linux: /var/run/docker.sock
//     - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//     - Windows: npipe:////./pipe/docker_engine (Docker Named Pipe)
//
// Returns a model.CLIError with ExitGeneralError if no Docker socket
// is found or the client cannot be created.
func NewDockerClient() (*DockerClient, error) {
	// Respect an explicit DOCKER_HOST unconditionally and let the SDK
	// handle the connection string parsing.
	dockerHost := os.Getenv("DOCKER_HOST")
	if dockerHost != "" {
		return newDockerClientWithHost(dockerHost)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitGeneralError,
			"Docker socket not found",
			err,
		)
	}

	return newDockerClientWithHost(host)
}

// newDockerClientWithHost creates a Docker client connected to the given
// host connection string (e.g. "unix:///var/run/docker.sock").
func newDockerClientWithHost(host string) (*DockerClient, error) {
	// WithAPIVersionNegotiation enables automatic API version negotiation,
	// which keeps the probe compatible across daemon versions without
	// hardcoding a specific API version.
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitGeneralError,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}

	return &DockerClient{inner: c}, nil
}

// detectDockerHost determines the Docker socket path for the current
// platform. It probes known socket paths and returns the first that
// exists. Existence checks are used rather than connection attempts
// because they are fast and need no running daemon; Ping handles
// connectivity verification afterward.
func detectDockerHost() (string, error) {
	switch goruntime.GOOS {
	case "linux":
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
		})

	case "darwin":
		// macOS has two possible socket locations: the standard path
		// (Docker Desktop creates a symlink there) and the per-user path
		// used by newer Docker Desktop versions when the symlink is absent.
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return detectUnixSocket([]string{
				"/var/run/docker.sock",
			})
		}
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
			homeDir + "/.docker/run/docker.sock",
		})

	case "windows":
		// Windows uses Named Pipes for Docker communication. os.Stat does
		// not work on named pipes, so reachability is checked with a brief
		// dial instead.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err == nil {
			conn.Close()
			return "npipe://" + pipePath, nil
		}
		return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)

	default:
		return "", fmt.Errorf("unsupported platform: %s", goruntime.GOOS)
	}
}

// detectUnixSocket probes a list of Unix socket paths and returns the
// Docker host URI for the first socket that exists on the filesystem.
// Paths are checked in order, most-preferred first.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		// A successful Stat confirms the socket file exists, though not
		// that a daemon is listening on it.
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf(
		"Docker socket not found at any of: %v — is Docker running?",
		paths,
	)
}

// Ping verifies that the Docker daemon is reachable and responsive.
// Returns a model.CLIError with ExitGeneralError if the daemon does
// not respond within defaultPingTimeout.
func (c *DockerClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	_, err := c.inner.Ping(pingCtx)
	if err != nil {
		return model.WrapCLIError(
			model.ExitGeneralError,
			"Docker daemon is not responding — is Docker running?",
			err,
		)
	}
	return nil
}

// Close releases all resources held by the Docker client.
// Safe to call multiple times.
func (c *DockerClient) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// ProbeDockerDaemon is the planner's Docker availability check: create a
// client with socket auto-detection, ping the daemon, and release the
// client. Any step failing means the docker exec method is not viable
// on this host.
func ProbeDockerDaemon(ctx context.Context) error {
	c, err := NewDockerClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return c.Ping(ctx)
}
