package plex

import (
	"fmt"
	"net/url"
	"strings"
)

// movieSectionKey resolves the configured movie library to its section key,
// caching the result for the lifetime of the client.
func (c *Client) movieSectionKey() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sectionKey != "" {
		return c.sectionKey, nil
	}

	var sections container
	if err := c.get("/library/sections", nil, &sections); err != nil {
		return "", fmt.Errorf("listing library sections: %w", err)
	}

	for _, dir := range sections.MediaContainer.Directory {
		if dir.Type == "movie" && strings.EqualFold(dir.Title, c.library) {
			c.sectionKey = dir.Key
			return c.sectionKey, nil
		}
	}

	return "", fmt.Errorf("movie library %q not found on server", c.library)
}

// FindMovie searches the movie section for an exact (case-insensitive)
// title match and returns nil when the library has no such movie.
//
// When the title matches several entries (re-releases under different
// years), yearHint selects the exact year if one matches; otherwise the
// first result in Plex's ordering wins. Pass 0 for no hint.
func (c *Client) FindMovie(title string, yearHint int) (*Movie, error) {
	key, err := c.movieSectionKey()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("type", "1")
	query.Set("title", title)

	var results container
	endpoint := fmt.Sprintf("/library/sections/%s/all", key)
	if err := c.get(endpoint, query, &results); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", title, err)
	}

	var matches []Movie
	for _, m := range results.MediaContainer.Metadata {
		if strings.EqualFold(m.Title, title) {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}

	if yearHint != 0 {
		for i := range matches {
			if matches[i].Year == yearHint {
				return &matches[i], nil
			}
		}
	}
	return &matches[0], nil
}
