// internal/docker/errors.go
package docker

import "fmt"

// BuildError reports a failed image build. Fatal; the pipeline does not
// retry.
type BuildError struct {
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("image build failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("image build failed: %s", e.Reason)
}

func (e *BuildError) Unwrap() error { return e.Err }

// PublishError reports a failed registry push. Stage distinguishes auth
// failures (fatal, no retry) from transport failures (retry policy is
// the CI system's call, not ours).
type PublishError struct {
	Stage string // "auth" or "push"
	Ref   string // ref being pushed, when applicable
	Err   error
}

func (e *PublishError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("publish failed (%s) for %s: %v", e.Stage, e.Ref, e.Err)
	}
	return fmt.Sprintf("publish failed (%s): %v", e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
