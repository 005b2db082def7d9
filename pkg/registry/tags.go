package registry

import (
	"encoding/json"
	"fmt"
)

type TagsService interface {
	ListRepositoryTags(repo string) ([]string, error)
	HasTag(repo, tag string) (bool, error)
}

type tagsService struct {
	client *Client
}

type tagListResponse struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// ListRepositoryTags retrieves the tags currently present for a
// repository. A repository that exists but has no tags returns an
// empty slice.
func (s *tagsService) ListRepositoryTags(repo string) ([]string, error) {
	path := fmt.Sprintf("/%s/tags/list", pathEncode(repo))
	respData, err := s.client.doRequest("GET", path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tags for %q: %w", repo, err)
	}

	var parsed tagListResponse
	if err := json.Unmarshal(respData, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse tag list for %q: %w", repo, err)
	}
	return parsed.Tags, nil
}

// HasTag reports whether the repository currently carries the tag.
func (s *tagsService) HasTag(repo, tag string) (bool, error) {
	tags, err := s.ListRepositoryTags(repo)
	if err != nil {
		return false, err
	}
	for _, t := range tags {
		if t == tag {
			return true, nil
		}
	}
	return false, nil
}
