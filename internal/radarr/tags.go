package radarr

import (
	"fmt"
	"strings"
)

type Tag struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

func (c *Client) GetTags() ([]Tag, error) {
	var tags []Tag
	if err := c.get("/api/v3/tag", &tags); err != nil {
		return nil, fmt.Errorf("getting tags: %w", err)
	}
	return tags, nil
}

func (c *Client) CreateTag(label string) (*Tag, error) {
	var tag Tag
	if err := c.post("/api/v3/tag", Tag{Label: label}, &tag); err != nil {
		return nil, fmt.Errorf("creating tag %q: %w", label, err)
	}
	return &tag, nil
}

// EnsureTag returns the id of the tag with the given label, creating the
// tag when it does not exist. Label matching is case-insensitive, which is
// how Radarr treats labels.
func (c *Client) EnsureTag(label string) (int, error) {
	tags, err := c.GetTags()
	if err != nil {
		return 0, err
	}

	for _, tag := range tags {
		if strings.EqualFold(tag.Label, label) {
			return tag.ID, nil
		}
	}

	tag, err := c.CreateTag(label)
	if err != nil {
		return 0, err
	}
	return tag.ID, nil
}
