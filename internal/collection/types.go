// Package collection maintains the two Plex collections driven by watch
// events: their persisted membership records, the reconcile pipeline that
// grows them, and the refresher that reshuffles their presentation order.
package collection

import "strings"

// MovieRef identifies one movie tracked inside a collection. RatingKey is
// the Plex identifier when the movie was matched in the library; Year is
// recorded when Plex reported one.
type MovieRef struct {
	Title     string `json:"title"`
	RatingKey string `json:"rating_key,omitempty"`
	Year      *int   `json:"year,omitempty"`
}

// Record is the persisted membership of one collection, stored on disk as
// a bare JSON array of MovieRef. Order is first-added order; the refresher
// only shuffles Plex-side presentation, never the record itself.
type Record struct {
	Movies []MovieRef
}

// Contains reports whether a title is already tracked. Matching is
// case-insensitive so LLM casing drift does not create duplicates.
func (r *Record) Contains(title string) bool {
	for _, m := range r.Movies {
		if strings.EqualFold(m.Title, title) {
			return true
		}
	}
	return false
}

// Append adds a movie unless an equivalent title is already present.
// It reports whether the record changed.
func (r *Record) Append(ref MovieRef) bool {
	if r.Contains(ref.Title) {
		return false
	}
	r.Movies = append(r.Movies, ref)
	return true
}

// Titles returns the tracked titles in record order.
func (r *Record) Titles() []string {
	titles := make([]string, 0, len(r.Movies))
	for _, m := range r.Movies {
		titles = append(titles, m.Title)
	}
	return titles
}

// Spec describes one of the two managed collections.
type Spec struct {
	Name      string // Plex collection name
	StateFile string // JSON file name under the data dir
	RadarrTag string // tag applied to movies sent to Radarr for this collection
}

// Slug is the collection's file-system-safe short name, used for lock files.
func (s Spec) Slug() string {
	base := strings.TrimSuffix(s.StateFile, ".json")
	return strings.ReplaceAll(base, "_", "-")
}

// The two collections the pipeline manages. Similar receives movies in
// the orbit of the watched one, Contrasting receives deliberate
// palate cleansers.
var (
	Similar = Spec{
		Name:      "Based on your recently watched movie",
		StateFile: "recently_watched_collection.json",
		RadarrTag: "due-to-previously-watched",
	}

	Contrasting = Spec{
		Name:      "Change of Taste",
		StateFile: "change_of_taste_collection.json",
		RadarrTag: "change-of-taste",
	}
)

// Specs lists both managed collections in pipeline order.
func Specs() []Spec {
	return []Spec{Similar, Contrasting}
}
