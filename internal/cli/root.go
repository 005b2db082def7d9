// Package cli defines the jbc command surface: setup, image, deploy,
// dismantle, clean. Configuration is environment-driven; flags exist
// only for the handful of toggles an operator flips per-invocation.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"jbc/internal/config"
	"jbc/internal/deploy"
	"jbc/internal/docker"
	"jbc/internal/gitrepo"
	"jbc/internal/logging"
	"jbc/internal/pipeline"
	"jbc/internal/tags"
	"jbc/pkg/registry"
)

// app carries the state shared by every subcommand.
type app struct {
	cfg *config.Config
	log *logrus.Logger

	// per-invocation flag overrides
	dryRun  bool
	release bool
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "jbc",
		Short:         "Build, tag, test-deploy, and publish the Jenkins base container image",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.log = logging.New()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dry-run") {
				cfg.DryRun = a.dryRun
			}
			if cmd.Flags().Changed("release") {
				cfg.ReleaseBuild = a.release
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "print commands instead of executing them")
	root.PersistentFlags().BoolVar(&a.release, "release", false, "treat this as a release build (overrides IMAGE_RELEASE_BUILD)")

	root.AddCommand(
		newSetupCmd(a),
		newImageCmd(a),
		newDeployCmd(a),
		newDismantleCmd(a),
		newCleanCmd(a),
	)

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("jbc failed")
		return 1
	}
	return 0
}

// resolver builds the tag resolver, backed by the local git history
// when one is available.
func (a *app) resolver() *tags.Resolver {
	r := &tags.Resolver{Override: a.cfg.VersionOverride}
	repo, err := gitrepo.Open(".")
	if err != nil {
		a.log.WithError(err).Warn("no git repository found; tag history unavailable")
		return r
	}
	r.History = repo
	return r
}

// headRef returns branch and short commit for build args, empty when
// not in a git repository.
func (a *app) headRef() (branch, commit string) {
	repo, err := gitrepo.Open(".")
	if err != nil {
		return "", ""
	}
	branch, _, err = repo.Head()
	if err != nil {
		return "", ""
	}
	commit, _ = repo.ShortCommit()
	return branch, commit
}

// newPipeline assembles the build pipeline with the registry attached
// when credentials are present.
func (a *app) newPipeline() *pipeline.Pipeline {
	branch, commit := a.headRef()
	builder := docker.NewExecBuilder(a.cfg.DryRun)
	p := pipeline.New(a.cfg, a.log, a.resolver(), builder, branch, commit)

	if a.cfg.Push && a.cfg.RegistryUser != "" {
		client, err := registry.NewClient(registry.Options{
			Host:     a.cfg.Registry,
			Username: a.cfg.RegistryUser,
			Password: a.cfg.RegistryPassword,
		})
		if err != nil {
			a.log.WithError(err).Warn("registry client unavailable; skipping auth preflight")
		} else {
			p.WithRegistry(client, client.Tags)
		}
	}

	return p
}

// deploySpec maps the config onto a deployment of the given image ref.
func (a *app) deploySpec(imageRef string) deploy.Spec {
	return deploy.Spec{
		Image:         imageRef,
		ContainerName: a.cfg.ContainerName,
		Network:       a.cfg.Network,
		Volume:        a.cfg.Volume,
		Env:           a.cfg.JenkinsEnv,
	}
}

// imageRef resolves the single ref the test deployment runs: the
// context-tagged image of the current build mode.
func (a *app) imageRef() (string, error) {
	ts, err := a.resolver().Resolve(a.cfg.ReleaseBuild)
	if err != nil {
		return "", err
	}
	refs := docker.RefsFor(a.cfg.Repo, tags.TagSet{Context: ts.Context})
	return refs[0], nil
}
