package main

import (
	"context"
	"fmt"

	"tastekeeper/internal/collection"
	"tastekeeper/internal/config"
	"tastekeeper/internal/plex"
	"tastekeeper/internal/radarr"
)

// plexLibrary adapts the Plex client to the collection package's library
// contracts.
type plexLibrary struct {
	client *plex.Client
}

func (p *plexLibrary) FindMovie(ctx context.Context, title string) (*collection.LibraryMovie, error) {
	movie, err := p.client.FindMovie(title, 0)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, nil
	}
	return &collection.LibraryMovie{
		RatingKey: movie.RatingKey,
		Title:     movie.Title,
		Year:      movie.Year,
	}, nil
}

func (p *plexLibrary) AddToCollection(ctx context.Context, name, ratingKey string) error {
	return p.client.AddToCollection(name, ratingKey)
}

func (p *plexLibrary) RemoveFromCollection(ctx context.Context, name, ratingKey string) error {
	return p.client.RemoveFromCollection(name, ratingKey)
}

func (p *plexLibrary) CollectionItems(ctx context.Context, name string) ([]collection.CollectionItem, error) {
	movies, err := p.client.CollectionItems(name)
	if err != nil {
		return nil, err
	}
	items := make([]collection.CollectionItem, len(movies))
	for i, m := range movies {
		items[i] = collection.CollectionItem{
			RatingKey: m.RatingKey,
			Title:     m.Title,
			Type:      m.Type,
		}
	}
	return items, nil
}

// radarrAcquirer adapts the Radarr client to the collection package's
// acquisition contract. Tracked but unmonitored movies are switched back
// to monitored and searched; untracked ones are added with the configured
// root folder and profile, tagged, and searched.
type radarrAcquirer struct {
	client           *radarr.Client
	rootFolder       string
	qualityProfileID int
	baseTag          string // applied to every acquisition alongside the collection tag
}

func newRadarrAcquirer(client *radarr.Client, cfg config.RadarrConfig) *radarrAcquirer {
	return &radarrAcquirer{
		client:           client,
		rootFolder:       cfg.RootFolder,
		qualityProfileID: cfg.QualityProfileID,
		baseTag:          cfg.TagName,
	}
}

func (r *radarrAcquirer) Acquire(ctx context.Context, title, tag string) error {
	existing, err := r.client.FindByTitle(title)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.Monitored {
			return nil
		}
		if err := r.client.SetMonitored(existing.ID, true); err != nil {
			return err
		}
		if _, err := r.client.TriggerMovieSearch(existing.ID); err != nil {
			return err
		}
		return nil
	}

	results, err := r.client.LookupMovie(title)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no lookup results for %q", title)
	}
	candidate := results[0]

	// The library may track this movie under a different title variant.
	if tracked, err := r.client.FindByTmdbID(candidate.TmdbID); err != nil {
		return err
	} else if tracked != nil {
		if tracked.Monitored {
			return nil
		}
		if err := r.client.SetMonitored(tracked.ID, true); err != nil {
			return err
		}
		_, err := r.client.TriggerMovieSearch(tracked.ID)
		return err
	}

	tags, err := r.tagIDs(tag)
	if err != nil {
		return err
	}

	_, err = r.client.AddMovie(radarr.AddMovieRequest{
		Title:            candidate.Title,
		TmdbID:           candidate.TmdbID,
		Year:             candidate.Year,
		QualityProfileID: r.qualityProfileID,
		RootFolderPath:   r.rootFolder,
		Monitored:        true,
		Tags:             tags,
		AddOptions:       radarr.AddOptions{SearchForMovie: true},
	})
	return err
}

func (r *radarrAcquirer) tagIDs(collectionTag string) ([]int, error) {
	var ids []int
	for _, label := range []string{r.baseTag, collectionTag} {
		if label == "" {
			continue
		}
		id, err := r.client.EnsureTag(label)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
