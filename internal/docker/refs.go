// internal/docker/refs.go
package docker

import (
	"fmt"
	"regexp"
	"strings"

	"jbc/internal/tags"
)

var tagAllowed = regexp.MustCompile(`^[a-z0-9_.-]{1,128}$`)

// RefsFor maps a TagSet onto fully-qualified repo:tag refs, in
// application order (context tag first).
func RefsFor(repo string, ts tags.TagSet) []string {
	base := strings.TrimRight(strings.TrimSpace(repo), "/")
	if base == "" {
		return nil
	}

	var refs []string
	for _, tag := range ts.List() {
		tag = cleanTag(tag)
		if tag == "" || !validateTag(tag) {
			continue
		}
		refs = append(refs, fmt.Sprintf("%s:%s", base, tag))
	}
	return dedupRefs(refs)
}

func cleanTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, " ", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	// Docker's max tag length
	if len(s) > 128 {
		s = s[:128]
	}
	return s
}

func validateTag(tag string) bool {
	return tagAllowed.MatchString(tag)
}

// dedupRefs preserves insertion order.
func dedupRefs(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
