package plex

import (
	"fmt"
	"net/url"
	"strings"
)

// findCollection returns the rating key of the named collection in the
// movie section, or "" when the collection does not exist yet.
func (c *Client) findCollection(name string) (string, error) {
	key, err := c.movieSectionKey()
	if err != nil {
		return "", err
	}

	var result container
	endpoint := fmt.Sprintf("/library/sections/%s/collections", key)
	if err := c.get(endpoint, nil, &result); err != nil {
		return "", fmt.Errorf("listing collections: %w", err)
	}

	for _, m := range result.MediaContainer.Metadata {
		if strings.EqualFold(m.Title, name) {
			return m.RatingKey, nil
		}
	}
	return "", nil
}

// CollectionItems lists the items currently in the named collection.
// A collection that does not exist yet lists as empty.
func (c *Client) CollectionItems(name string) ([]Movie, error) {
	collectionKey, err := c.findCollection(name)
	if err != nil {
		return nil, err
	}
	if collectionKey == "" {
		return nil, nil
	}

	var result container
	endpoint := fmt.Sprintf("/library/collections/%s/children", url.PathEscape(collectionKey))
	if err := c.get(endpoint, nil, &result); err != nil {
		return nil, fmt.Errorf("listing collection %q: %w", name, err)
	}
	return result.MediaContainer.Metadata, nil
}

// AddToCollection tags an item with the named collection. Plex creates
// the collection on first use.
func (c *Client) AddToCollection(name, ratingKey string) error {
	key, err := c.movieSectionKey()
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("type", "1")
	query.Set("id", ratingKey)
	query.Set("collection[0].tag.tag", name)
	query.Set("collection.locked", "0")

	endpoint := fmt.Sprintf("/library/sections/%s/all", key)
	if err := c.put(endpoint, query); err != nil {
		return fmt.Errorf("adding %s to collection %q: %w", ratingKey, name, err)
	}
	return nil
}

// RemoveFromCollection removes the named collection tag from an item.
func (c *Client) RemoveFromCollection(name, ratingKey string) error {
	key, err := c.movieSectionKey()
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("type", "1")
	query.Set("id", ratingKey)
	query.Set("collection[].tag.tag-", name)
	query.Set("collection.locked", "0")

	endpoint := fmt.Sprintf("/library/sections/%s/all", key)
	if err := c.put(endpoint, query); err != nil {
		return fmt.Errorf("removing %s from collection %q: %w", ratingKey, name, err)
	}
	return nil
}
