package radarr

import (
	"fmt"
	"net/url"
	"strings"
)

type Movie struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	SortTitle        string `json:"sortTitle,omitempty"`
	Year             int    `json:"year"`
	TmdbID           int    `json:"tmdbId"`
	ImdbID           string `json:"imdbId,omitempty"`
	TitleSlug        string `json:"titleSlug,omitempty"`
	QualityProfileID int    `json:"qualityProfileId"`
	RootFolderPath   string `json:"rootFolderPath,omitempty"`
	Monitored        bool   `json:"monitored"`
	HasFile          bool   `json:"hasFile"`
	Status           string `json:"status,omitempty"`
	Tags             []int  `json:"tags"`
}

// AddOptions controls Radarr's behavior when a movie is added.
type AddOptions struct {
	SearchForMovie bool `json:"searchForMovie"`
}

// AddMovieRequest is the POST /api/v3/movie payload.
type AddMovieRequest struct {
	Title            string     `json:"title"`
	TmdbID           int        `json:"tmdbId"`
	Year             int        `json:"year,omitempty"`
	QualityProfileID int        `json:"qualityProfileId"`
	RootFolderPath   string     `json:"rootFolderPath"`
	Monitored        bool       `json:"monitored"`
	Tags             []int      `json:"tags,omitempty"`
	AddOptions       AddOptions `json:"addOptions"`
}

func (c *Client) GetMovies() ([]Movie, error) {
	var movies []Movie
	if err := c.get("/api/v3/movie", &movies); err != nil {
		return nil, fmt.Errorf("getting movies: %w", err)
	}
	return movies, nil
}

// FindByTitle scans the Radarr library for an exact case-insensitive title
// match. Returns nil when the title is not tracked.
func (c *Client) FindByTitle(title string) (*Movie, error) {
	movies, err := c.GetMovies()
	if err != nil {
		return nil, err
	}

	for i := range movies {
		if strings.EqualFold(movies[i].Title, title) {
			return &movies[i], nil
		}
	}
	return nil, nil
}

// FindByTmdbID scans the Radarr library for a TMDB id. Returns nil when
// the movie is not tracked.
func (c *Client) FindByTmdbID(tmdbID int) (*Movie, error) {
	movies, err := c.GetMovies()
	if err != nil {
		return nil, err
	}

	for i := range movies {
		if movies[i].TmdbID == tmdbID {
			return &movies[i], nil
		}
	}
	return nil, nil
}

// LookupMovie resolves a free-text term through Radarr's metadata lookup.
// The first result carries the canonical title, year, and tmdbId.
func (c *Client) LookupMovie(term string) ([]Movie, error) {
	endpoint := fmt.Sprintf("/api/v3/movie/lookup?term=%s", url.QueryEscape(term))
	var movies []Movie
	if err := c.get(endpoint, &movies); err != nil {
		return nil, fmt.Errorf("looking up movie %q: %w", term, err)
	}
	return movies, nil
}

// AddMovie adds a movie to Radarr.
func (c *Client) AddMovie(req AddMovieRequest) (*Movie, error) {
	var movie Movie
	if err := c.post("/api/v3/movie", req, &movie); err != nil {
		return nil, fmt.Errorf("adding movie %q: %w", req.Title, err)
	}
	return &movie, nil
}

// SetMonitored flips the monitored flag on an existing movie. Radarr
// requires the full movie object on PUT, so the current record is fetched
// as-is and round-tripped with only the flag changed.
func (c *Client) SetMonitored(id int, monitored bool) error {
	var movie map[string]interface{}
	if err := c.get(fmt.Sprintf("/api/v3/movie/%d", id), &movie); err != nil {
		return fmt.Errorf("fetching movie %d: %w", id, err)
	}

	movie["monitored"] = monitored
	if err := c.put(fmt.Sprintf("/api/v3/movie/%d", id), movie, nil); err != nil {
		return fmt.Errorf("updating movie %d: %w", id, err)
	}
	return nil
}
