// Package pipeline wires the stages together: resolve tags, build the
// image, and (for release builds that push) publish to the registry.
// One invocation, strictly sequential, no retries.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"jbc/internal/config"
	"jbc/internal/docker"
	"jbc/internal/tags"
)

// ImageBuilder is the build/push surface the pipeline drives.
// *docker.Builder satisfies it.
type ImageBuilder interface {
	BuildImage(ctx context.Context, opts *docker.BuildOptions) error
	PushImage(ctx context.Context, auth docker.RegistryAuth, refs []string) error
}

// Pinger checks registry reachability/credentials before any push.
type Pinger interface {
	Ping() error
}

// Verifier confirms a pushed tag landed. Best effort only.
type Verifier interface {
	HasTag(repo, tag string) (bool, error)
}

type Pipeline struct {
	cfg      *config.Config
	log      *logrus.Logger
	resolver *tags.Resolver
	builder  ImageBuilder

	// nil disables the respective registry interaction
	pinger   Pinger
	verifier Verifier

	branch string
	commit string
}

func New(cfg *config.Config, log *logrus.Logger, resolver *tags.Resolver, builder ImageBuilder, branch, commit string) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		resolver: resolver,
		builder:  builder,
		branch:   branch,
		commit:   commit,
	}
}

// WithRegistry attaches the auth preflight and post-push verification.
func (p *Pipeline) WithRegistry(pinger Pinger, verifier Verifier) *Pipeline {
	p.pinger = pinger
	p.verifier = verifier
	return p
}

// Resolve computes the TagSet for this invocation.
func (p *Pipeline) Resolve() (tags.TagSet, error) {
	return p.resolver.Resolve(p.cfg.ReleaseBuild)
}

// Run executes the build (and push, when enabled) and returns the refs
// applied to the built image.
//
// A build that succeeds but whose push fails is a fatal, whole-pipeline
// error: the message names the locally built refs so the operator knows
// the partial state, but the exit is non-zero either way. Nothing is
// rolled back.
func (p *Pipeline) Run(ctx context.Context) ([]string, error) {
	ts, err := p.Resolve()
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"context": ts.Context,
		"version": ts.Version,
	}).Info("tags resolved")

	refs := docker.RefsFor(p.cfg.Repo, ts)
	if len(refs) == 0 {
		return nil, &docker.BuildError{Reason: fmt.Sprintf("no refs produced for repo %q", p.cfg.Repo)}
	}

	opts := &docker.BuildOptions{
		Dockerfile:  p.cfg.Dockerfile,
		ContextPath: p.cfg.BuildContext,
		Spec: docker.ImageSpec{
			BaseImage:      p.cfg.BaseImage,
			Branch:         p.branch,
			Commit:         p.commit,
			PluginManifest: p.cfg.PluginsFile,
			CascFile:       p.cfg.CascFile,
			SourceURL:      p.cfg.SourceURL,
		},
		Refs:   refs,
		DryRun: p.cfg.DryRun,
	}

	if err := p.builder.BuildImage(ctx, opts); err != nil {
		return nil, err
	}

	if !p.cfg.Push {
		p.log.Info("push disabled; image available locally")
		return refs, nil
	}

	if err := p.publish(ctx, ts, refs); err != nil {
		return refs, fmt.Errorf("image built locally as %v but not published: %w", refs, err)
	}

	return refs, nil
}

func (p *Pipeline) publish(ctx context.Context, ts tags.TagSet, refs []string) error {
	if p.pinger != nil {
		if err := p.pinger.Ping(); err != nil {
			return &docker.PublishError{Stage: "auth", Err: err}
		}
	}

	auth := docker.RegistryAuth{
		Registry: p.cfg.Registry,
		Username: p.cfg.RegistryUser,
		Password: p.cfg.RegistryPassword,
	}
	if err := p.builder.PushImage(ctx, auth, refs); err != nil {
		return err
	}

	if p.verifier != nil && !p.cfg.DryRun {
		for _, tag := range ts.List() {
			ok, err := p.verifier.HasTag(p.cfg.Repo, tag)
			if err != nil {
				p.log.WithField("tag", tag).WithError(err).Warn("tag verification skipped")
				continue
			}
			if !ok {
				p.log.WithField("tag", tag).Warn("pushed tag not visible in registry yet")
			}
		}
	}

	return nil
}
