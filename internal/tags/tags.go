// Package tags decides which tags a built image carries. A test build
// gets only the "test" context tag; a release build gets "latest" plus
// the highest version tag reachable in history.
package tags

import (
	"fmt"

	"jbc/internal/version"
)

const (
	ContextTest   = "test"
	ContextLatest = "latest"
)

// TagSet is the set of tags applied to one built image.
type TagSet struct {
	Context string // "test" or "latest"
	Version string // e.g. "v1.2.3"; release builds only
}

// List returns the tags in application order: context first, then
// version when present.
func (ts TagSet) List() []string {
	out := []string{ts.Context}
	if ts.Version != "" {
		out = append(out, ts.Version)
	}
	return out
}

// ResolutionError reports that a release build was requested but no
// version tag could be resolved from history.
type ResolutionError struct {
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tag resolution failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("tag resolution failed: %s", e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// TagLister lists version-control tag names reachable from HEAD.
type TagLister interface {
	VersionTags() ([]string, error)
}

// Resolver computes the TagSet for a build. Override, when set, wins
// over history lookup (DOCKER_LATEST_VERSION_TAG).
type Resolver struct {
	History  TagLister
	Override string
}

// Resolve returns the TagSet for the build. Non-release builds never
// touch history.
func (r *Resolver) Resolve(isRelease bool) (TagSet, error) {
	if !isRelease {
		return TagSet{Context: ContextTest}, nil
	}

	if r.Override != "" {
		if _, err := version.ParseTag(r.Override); err != nil {
			return TagSet{}, &ResolutionError{
				Reason: fmt.Sprintf("version override %q is not a semantic version", r.Override),
				Err:    err,
			}
		}
		return TagSet{Context: ContextLatest, Version: r.Override}, nil
	}

	if r.History == nil {
		return TagSet{}, &ResolutionError{Reason: "no tag history available"}
	}

	names, err := r.History.VersionTags()
	if err != nil {
		return TagSet{}, &ResolutionError{Reason: "listing tags", Err: err}
	}

	latest, ok := version.Latest(names)
	if !ok {
		return TagSet{}, &ResolutionError{Reason: "no version tag found in history"}
	}

	return TagSet{Context: ContextLatest, Version: latest}, nil
}
