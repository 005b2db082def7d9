// internal/docker/build.go
package docker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jbc/internal/executil"
)

// BuildImage runs docker build, applying every ref in opts.Refs plus
// the provenance label. A non-zero exit from the build is fatal and
// surfaces as a BuildError; nothing here retries.
func (b *Builder) BuildImage(ctx context.Context, opts *BuildOptions) error {
	if opts == nil {
		return &BuildError{Reason: "nil build options"}
	}
	if len(opts.Refs) == 0 {
		return &BuildError{Reason: "no refs to apply (TagSet produced nothing)"}
	}

	df := strings.TrimSpace(opts.Dockerfile)
	if df == "" {
		df = "Dockerfile"
	}
	ctxPath := strings.TrimSpace(opts.ContextPath)
	if ctxPath == "" {
		ctxPath = "."
	}

	// Only validate the filesystem when not in dry-run.
	if !opts.DryRun {
		if err := statFile(df, "Dockerfile"); err != nil {
			return &BuildError{Reason: err.Error()}
		}
		if st, err := os.Stat(ctxPath); err != nil || !st.IsDir() {
			return &BuildError{Reason: fmt.Sprintf("build context %q not found or not a directory", ctxPath)}
		}
		if err := statFile(opts.Spec.PluginManifest, "plugin manifest"); err != nil {
			return &BuildError{Reason: err.Error()}
		}
		if err := statFile(opts.Spec.CascFile, "configuration-as-code file"); err != nil {
			return &BuildError{Reason: err.Error()}
		}
	}

	refs := dedupRefs(opts.Refs)
	for _, r := range refs {
		// Docker refs must be lowercase, no spaces
		if strings.ToLower(r) != r || strings.ContainsAny(r, " \t\n") {
			return &BuildError{Reason: fmt.Sprintf("invalid ref %q (must be lowercase, no spaces)", r)}
		}
	}

	args := []string{"build", "--progress=plain"}
	for _, r := range refs {
		args = append(args, "-t", r)
	}
	args = append(args, "-f", df)
	if opts.Pull {
		args = append(args, "--pull")
	}
	if opts.NoCache {
		args = append(args, "--no-cache")
	}

	if opts.Spec.SourceURL != "" {
		args = append(args, "--label", "org.opencontainers.image.source="+opts.Spec.SourceURL)
	}
	if opts.Spec.Commit != "" {
		args = append(args, "--label", "org.opencontainers.image.revision="+opts.Spec.Commit)
	}

	buildArgs := [][2]string{
		{"BASE_IMAGE", opts.Spec.BaseImage},
		{"BRANCH", opts.Spec.Branch},
		{"COMMIT", opts.Spec.Commit},
	}
	for _, kv := range buildArgs {
		if kv[0] != "" && kv[1] != "" {
			args = append(args, "--build-arg", kv[0]+"="+kv[1])
		}
	}
	args = append(args, ctxPath)

	fmt.Println("— Build Plan —")
	for _, r := range refs {
		fmt.Printf("  tag: %s\n", r)
	}
	fmt.Printf("Dockerfile: %s\n", absOr(df, df))
	fmt.Printf("Context   : %s\n", absOr(ctxPath, ctxPath))

	if err := b.run.Run(ctx, "docker", args...); err != nil {
		return &BuildError{Reason: "docker build exited non-zero", Err: err}
	}
	return nil
}

// Builder wraps a Runner so build and push share one invocation style.
type Builder struct {
	run Runner
}

func NewBuilder(run Runner) *Builder {
	return &Builder{run: run}
}

// NewExecBuilder returns a Builder backed by the real docker CLI.
func NewExecBuilder(dryRun bool) *Builder {
	return NewBuilder(executil.Exec{DryRun: dryRun})
}

func statFile(path, what string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%s path is empty", what)
	}
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return fmt.Errorf("%s %q not found or not a file", what, path)
	}
	return nil
}

func absOr(p, fallback string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return fallback
}
