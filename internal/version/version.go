package version

import (
	"fmt"
	"strconv"
	"strings"
)

// BumpType represents a semantic version bump level.
type BumpType string

const (
	Patch BumpType = "Patch"
	Minor BumpType = "Minor"
	Major BumpType = "Major"
)

func (bt BumpType) String() string {
	return string(bt)
}

type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Parse parses a version string in the format "X.Y.Z".
func Parse(versionStr string) (Version, error) {
	parts := strings.Split(versionStr, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version format: expected X.Y.Z, got %s", versionStr)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major version: %w", err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor version: %w", err)
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return Version{}, fmt.Errorf("invalid patch version: %w", err)
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// ParseTag parses a version-control tag into a Version. Unlike Parse it
// tolerates the common "v" prefix (e.g. "v1.2.3"), which is how release
// tags are written in this repo's history.
func ParseTag(tag string) (Version, error) {
	return Parse(strings.TrimPrefix(strings.TrimSpace(tag), "v"))
}

// Increment returns a new Version bumped at the given level. Lower
// levels reset to zero, per semver.
func (v Version) Increment(bump BumpType) Version {
	switch bump {
	case Major:
		return Version{Major: v.Major + 1, Minor: 0, Patch: 0}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1, Patch: 0}
	case Patch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}

func (v Version) LessThan(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// ParseBumpType converts a string like "major" into a BumpType.
func ParseBumpType(s string) (BumpType, error) {
	switch strings.ToLower(s) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	default:
		return "", fmt.Errorf("invalid bump type: %q. Must be one of: major, minor, patch", s)
	}
}

// Latest returns the highest semver tag from the given tag names, in its
// original spelling (prefix preserved). Non-semver tags are skipped. The
// second return reports whether any parseable tag was found.
func Latest(tagNames []string) (string, bool) {
	var (
		best    Version
		bestRaw string
		found   bool
	)
	for _, raw := range tagNames {
		v, err := ParseTag(raw)
		if err != nil {
			continue
		}
		if !found || best.LessThan(v) {
			best = v
			bestRaw = strings.TrimSpace(raw)
			found = true
		}
	}
	return bestRaw, found
}

// ForecastNext takes the latest tag (e.g. "v1.2.3" or "1.2.3") and the
// desired bump, and returns the next version preserving any "v" prefix.
func ForecastNext(latestTag string, bump BumpType) (string, error) {
	latestTag = strings.TrimSpace(latestTag)

	hasV := strings.HasPrefix(latestTag, "v")
	core := latestTag
	if hasV {
		core = strings.TrimPrefix(latestTag, "v")
	}

	// No latest -> treat as 0.0.0 and bump
	if core == "" {
		base := (Version{}).Increment(bump)
		if hasV {
			return "v" + base.String(), nil
		}
		return base.String(), nil
	}

	v, err := Parse(core)
	if err != nil {
		return "", fmt.Errorf("unable to parse latest tag %q: %w", latestTag, err)
	}
	next := v.Increment(bump).String()
	if hasV {
		return "v" + next, nil
	}
	return next, nil
}
