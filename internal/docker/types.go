// internal/docker/types.go
package docker

import "context"

// ImageSpec describes one build invocation. Immutable once constructed.
type ImageSpec struct {
	BaseImage      string // build arg BASE_IMAGE
	Branch         string // build arg BRANCH
	Commit         string // build arg COMMIT (short hash)
	PluginManifest string // newline-delimited plugin list, copied into the image
	CascFile       string // configuration-as-code artifact, copied into the image
	SourceURL      string // provenance label value
}

// BuildOptions is everything the build runner needs.
type BuildOptions struct {
	Dockerfile  string // default: "Dockerfile"
	ContextPath string // default: "."
	Spec        ImageSpec

	Refs []string // e.g. ["acme/jenkins-base:latest", "acme/jenkins-base:v1.2.3"]

	Pull    bool // docker build --pull
	NoCache bool // docker build --no-cache
	DryRun  bool // print only
}

// Runner executes external commands. Satisfied by executil.Exec; tests
// substitute a recorder.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	RunRedacted(ctx context.Context, display []string, name string, args ...string) error
}

// RegistryAuth carries credentials for a push.
type RegistryAuth struct {
	Registry string
	Username string
	Password string
}
