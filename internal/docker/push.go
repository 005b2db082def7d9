// internal/docker/push.go
//
// Registry side of the flow: login, push each ref, logout. Building and
// tagging live in build.go.

package docker

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// PushImage logs into the registry and pushes every ref. Auth failure
// is fatal; transport failures surface as PublishError and are left to
// the invoking CI to re-run.
func (b *Builder) PushImage(ctx context.Context, auth RegistryAuth, refs []string) error {
	refs = dedupRefs(refs)
	if len(refs) == 0 {
		return &PublishError{Stage: "push", Err: fmt.Errorf("no refs to push")}
	}

	if auth.Registry == "" || auth.Username == "" {
		return &PublishError{Stage: "auth", Err: fmt.Errorf("missing registry or username")}
	}
	if auth.Password == "" {
		return &PublishError{Stage: "auth", Err: fmt.Errorf("missing registry password")}
	}

	if err := b.login(ctx, auth); err != nil {
		return &PublishError{Stage: "auth", Err: err}
	}
	defer b.logout(ctx, auth.Registry)

	for _, r := range refs {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		fmt.Printf("Pushing image: %s\n", r)
		if err := b.run.Run(ctx, "docker", "push", r); err != nil {
			return &PublishError{Stage: "push", Ref: r, Err: err}
		}
	}
	return nil
}

// login masks the password in anything printed.
func (b *Builder) login(ctx context.Context, auth RegistryAuth) error {
	display := []string{"login", "-u", auth.Username, "-p", "[REDACTED]", auth.Registry}
	return b.run.RunRedacted(ctx, display, "docker",
		"login", "-u", auth.Username, "-p", auth.Password, auth.Registry)
}

// logout never fails the pipeline.
func (b *Builder) logout(ctx context.Context, registry string) {
	if err := b.run.Run(ctx, "docker", "logout", registry); err != nil {
		fmt.Fprintf(os.Stderr, "warning: docker logout failed: %v\n", err)
	}
}

// RemoveImages untags the given refs locally. Absent refs are not an
// error; clean has to be idempotent.
func (b *Builder) RemoveImages(ctx context.Context, refs []string) {
	for _, r := range dedupRefs(refs) {
		if err := b.run.Run(ctx, "docker", "rmi", r); err != nil {
			fmt.Fprintf(os.Stderr, "warning: remove image %s: %v\n", r, err)
		}
	}
}
