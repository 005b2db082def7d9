// Package deploy provisions and tears down a local test deployment of
// a built image: one container on an isolated network with a persistent
// volume. Secrets are injected as runtime env, never baked in.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sirupsen/logrus"

	"jbc/internal/config"
)

// Spec describes one test deployment. Container, network, and volume
// are independently destructible; the only ordering rule is that the
// container goes first on teardown.
type Spec struct {
	Image         string
	ContainerName string
	Network       string // empty means: do not create a network
	Volume        config.VolumeSpec
	Env           map[string]string
}

// DeploymentError reports a name collision or a provisioning failure.
type DeploymentError struct {
	Resource string // "container", "network", "volume"
	Name     string
	Err      error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment failed (%s %q): %v", e.Resource, e.Name, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }

// API is the slice of the Docker client the manager uses. Narrow on
// purpose so tests can fake it.
type API interface {
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	ContainerCreate(ctx context.Context, cfg *container.Config, hostCfg *container.HostConfig,
		netCfg *network.NetworkingConfig, platform *specs.Platform, name string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error
	ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error
	NetworkCreate(ctx context.Context, name string, options types.NetworkCreate) (types.NetworkCreateResponse, error)
	NetworkRemove(ctx context.Context, networkID string) error
	VolumeCreate(ctx context.Context, options volume.CreateOptions) (volume.Volume, error)
	VolumeRemove(ctx context.Context, volumeID string, force bool) error
}

type Manager struct {
	c   API
	log *logrus.Logger
}

func New(c API, log *logrus.Logger) *Manager {
	return &Manager{c: c, log: log}
}

// NewFromEnv connects to the host Docker daemon the usual way
// (DOCKER_HOST et al).
func NewFromEnv(log *logrus.Logger) (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return New(cli, log), nil
}

// Jenkins listens on 8080 (web) and 50000 (inbound agents).
var jenkinsPorts = []string{"8080/tcp", "50000/tcp"}

// Deploy creates the network (when requested), the named volume, and
// the container, then starts it. An existing container under the same
// name running the same image is left alone; a different configuration
// is a DeploymentError.
func (m *Manager) Deploy(ctx context.Context, spec Spec) error {
	existing, err := m.c.ContainerInspect(ctx, spec.ContainerName)
	switch {
	case err == nil:
		if existing.Config != nil && existing.Config.Image == spec.Image {
			m.log.WithField("container", spec.ContainerName).Info("container already deployed with this image")
			return nil
		}
		return &DeploymentError{
			Resource: "container",
			Name:     spec.ContainerName,
			Err:      fmt.Errorf("name already in use by a different configuration"),
		}
	case !errdefs.IsNotFound(err):
		return &DeploymentError{Resource: "container", Name: spec.ContainerName, Err: err}
	}

	if spec.Network != "" {
		if _, err := m.c.NetworkCreate(ctx, spec.Network, types.NetworkCreate{Driver: "bridge"}); err != nil {
			if !errdefs.IsConflict(err) {
				return &DeploymentError{Resource: "network", Name: spec.Network, Err: err}
			}
			m.log.WithField("network", spec.Network).Debug("network already exists")
		}
	}

	if _, err := m.c.VolumeCreate(ctx, volume.CreateOptions{Name: spec.Volume.Name}); err != nil {
		return &DeploymentError{Resource: "volume", Name: spec.Volume.Name, Err: err}
	}

	exposed := make(map[nat.Port]struct{}, len(jenkinsPorts))
	bindings := make(nat.PortMap, len(jenkinsPorts))
	for _, p := range jenkinsPorts {
		port := nat.Port(p)
		exposed[port] = struct{}{}
		bindings[port] = []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: port.Port()}}
	}

	var netCfg *network.NetworkingConfig
	if spec.Network != "" {
		netCfg = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{
				spec.Network: {},
			},
		}
	}

	created, err := m.c.ContainerCreate(ctx, &container.Config{
		Image:        spec.Image,
		Env:          envList(spec.Env),
		ExposedPorts: exposed,
	}, &container.HostConfig{
		PortBindings: bindings,
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeVolume,
				Source: spec.Volume.Name,
				Target: spec.Volume.MountPath,
			},
		},
	}, netCfg, nil, spec.ContainerName)
	if err != nil {
		return &DeploymentError{Resource: "container", Name: spec.ContainerName, Err: err}
	}

	if err := m.c.ContainerStart(ctx, created.ID, types.ContainerStartOptions{}); err != nil {
		return &DeploymentError{Resource: "container", Name: spec.ContainerName, Err: err}
	}

	m.log.WithFields(logrus.Fields{
		"container": spec.ContainerName,
		"network":   spec.Network,
		"volume":    spec.Volume.Name,
	}).Info("test deployment created")
	return nil
}

// Dismantle removes the container (forced), then the network, then the
// volume. Missing resources are fine; real failures are collected and
// reported together so a stuck resource never leaks the others.
func (m *Manager) Dismantle(ctx context.Context, spec Spec) error {
	var errs []error

	err := m.c.ContainerRemove(ctx, spec.ContainerName, types.ContainerRemoveOptions{Force: true})
	if err != nil && !errdefs.IsNotFound(err) {
		m.log.WithField("container", spec.ContainerName).WithError(err).Warn("container removal failed")
		errs = append(errs, fmt.Errorf("remove container %q: %w", spec.ContainerName, err))
	}

	if spec.Network != "" {
		if err := m.c.NetworkRemove(ctx, spec.Network); err != nil && !errdefs.IsNotFound(err) {
			m.log.WithField("network", spec.Network).WithError(err).Warn("network removal failed")
			errs = append(errs, fmt.Errorf("remove network %q: %w", spec.Network, err))
		}
	}

	if err := m.c.VolumeRemove(ctx, spec.Volume.Name, false); err != nil && !errdefs.IsNotFound(err) {
		m.log.WithField("volume", spec.Volume.Name).WithError(err).Warn("volume removal failed")
		errs = append(errs, fmt.Errorf("remove volume %q: %w", spec.Volume.Name, err))
	}

	return errors.Join(errs...)
}

// envList renders the env map as KEY=VALUE pairs in stable order.
func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
