// internal/config/config.go
//
// All environment handling lives here. The rest of the pipeline takes an
// immutable Config constructed once at process start; no stage reads the
// environment directly.

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// JenkinsEnvVars are the runtime variables forwarded into the deployed
// container. They are consumed by the Jenkins process resolving the
// configuration-as-code placeholders; this tool only passes them through.
var JenkinsEnvVars = []string{
	"JENKINS_ADMIN_ID",
	"JENKINS_ADMIN_FULLNAME",
	"JENKINS_ADMIN_PASSWORD",
	"JENKINS_ADMIN_EMAIL",
	"JENKINS_ADMIN_EMAIL_SECRET",
	"JENKINS_GITHUB_CREDENTIAL_ID",
	"JENKINS_GITHUB_CREDENTIAL_USERNAME",
	"JENKINS_GITHUB_CREDENTIAL_SECRET",
	"SMTP_SERVER_ADDR",
	"JENKINS_URL",
}

// VolumeSpec is a named volume plus its mount path inside the container.
type VolumeSpec struct {
	Name      string
	MountPath string
}

func (v VolumeSpec) String() string {
	return v.Name + ":" + v.MountPath
}

// ParseVolumeSpec parses the CONTAINER_VOLUME form "name:/mount/path".
func ParseVolumeSpec(s string) (VolumeSpec, error) {
	name, mount, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || name == "" || mount == "" {
		return VolumeSpec{}, fmt.Errorf("invalid volume spec %q (want name:/mount/path)", s)
	}
	if !strings.HasPrefix(mount, "/") {
		return VolumeSpec{}, fmt.Errorf("invalid volume spec %q: mount path must be absolute", s)
	}
	return VolumeSpec{Name: name, MountPath: mount}, nil
}

// Config holds everything the pipeline stages need. Built once, never
// mutated.
type Config struct {
	// Image build
	Repo         string // e.g. "acme/jenkins-base"
	BaseImage    string
	Dockerfile   string
	BuildContext string
	PluginsFile  string
	CascFile     string
	SourceURL    string // provenance label value

	// Tagging
	ReleaseBuild    bool
	VersionOverride string // DOCKER_LATEST_VERSION_TAG, short-circuits git history

	// Registry
	Registry         string
	RegistryUser     string
	RegistryPassword string
	Push             bool

	// Test deployment
	ContainerName string
	Network       string
	Volume        VolumeSpec

	DryRun bool

	// Runtime env forwarded to the deployed container.
	JenkinsEnv map[string]string
}

// Load builds the Config from the environment. A local .env is applied
// first when present; real environment variables win.
func Load() (*Config, error) {
	// Local overrides for dev runs; harmless in CI.
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("docker_repo", "acme/jenkins-base")
	v.SetDefault("jbc_base_image", "jenkins/jenkins:lts")
	v.SetDefault("jbc_dockerfile", "Dockerfile")
	v.SetDefault("jbc_build_context", ".")
	v.SetDefault("jbc_plugins_file", "plugins.txt")
	v.SetDefault("jbc_casc_file", "casc.yaml")
	v.SetDefault("jbc_source_url", "https://github.com/acme/jenkins-base-container")
	v.SetDefault("docker_registry", "registry-1.docker.io")
	v.SetDefault("container_name", "jenkins-base")
	v.SetDefault("container_network", "jbc1")
	v.SetDefault("container_volume", "jenkins_home:/var/jenkins_home")

	vol, err := ParseVolumeSpec(v.GetString("container_volume"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Repo:             v.GetString("docker_repo"),
		BaseImage:        v.GetString("jbc_base_image"),
		Dockerfile:       v.GetString("jbc_dockerfile"),
		BuildContext:     v.GetString("jbc_build_context"),
		PluginsFile:      v.GetString("jbc_plugins_file"),
		CascFile:         v.GetString("jbc_casc_file"),
		SourceURL:        v.GetString("jbc_source_url"),
		ReleaseBuild:     v.GetBool("image_release_build"),
		VersionOverride:  strings.TrimSpace(v.GetString("docker_latest_version_tag")),
		Registry:         v.GetString("docker_registry"),
		RegistryUser:     v.GetString("docker_registry_user"),
		RegistryPassword: v.GetString("docker_registry_password"),
		Push:             v.GetBool("jbc_push"),
		ContainerName:    v.GetString("container_name"),
		Network:          v.GetString("container_network"),
		Volume:           vol,
		DryRun:           v.GetBool("jbc_dry_run"),
		JenkinsEnv:       jenkinsEnv(),
	}

	if strings.TrimSpace(cfg.Repo) == "" {
		return nil, fmt.Errorf("DOCKER_REPO is empty")
	}

	return cfg, nil
}

// jenkinsEnv snapshots the forwarded runtime variables that are set.
// Unset variables are omitted so the container falls back to its own
// defaults.
func jenkinsEnv() map[string]string {
	out := make(map[string]string, len(JenkinsEnvVars))
	for _, k := range JenkinsEnvVars {
		if val, ok := os.LookupEnv(k); ok {
			out[k] = val
		}
	}
	return out
}
