package radarr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRadarrServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/api/v3/system/status":
			json.NewEncoder(w).Encode(SystemStatus{AppName: "Radarr", Version: "5.0.0"})

		case r.URL.Path == "/api/v3/movie" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]Movie{
				{ID: 1, Title: "Heat", Year: 1995, TmdbID: 949, Monitored: true},
				{ID: 2, Title: "Collateral", Year: 2004, TmdbID: 1538, Monitored: false},
			})

		case r.URL.Path == "/api/v3/movie" && r.Method == http.MethodPost:
			var req AddMovieRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(Movie{
				ID:        3,
				Title:     req.Title,
				TmdbID:    req.TmdbID,
				Monitored: req.Monitored,
				Tags:      req.Tags,
			})

		case r.URL.Path == "/api/v3/movie/2" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": 2, "title": "Collateral", "monitored": false,
				"path": "/movies/Collateral (2004)",
			})

		case r.URL.Path == "/api/v3/movie/2" && r.Method == http.MethodPut:
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, true, body["monitored"])
			// The untouched fields must survive the round trip.
			assert.Equal(t, "/movies/Collateral (2004)", body["path"])
			json.NewEncoder(w).Encode(body)

		case r.URL.Path == "/api/v3/movie/lookup":
			// The term must arrive as a query parameter, not as part of
			// an escaped path.
			assert.Equal(t, "Se7en", r.URL.Query().Get("term"))
			json.NewEncoder(w).Encode([]Movie{
				{Title: "Se7en", Year: 1995, TmdbID: 807},
			})

		case r.URL.Path == "/api/v3/tag" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]Tag{{ID: 7, Label: "tastekeeper"}})

		case r.URL.Path == "/api/v3/tag" && r.Method == http.MethodPost:
			var tag Tag
			require.NoError(t, json.NewDecoder(r.Body).Decode(&tag))
			tag.ID = 8
			json.NewEncoder(w).Encode(tag)

		case r.URL.Path == "/api/v3/command":
			var cmd Command
			require.NoError(t, json.NewDecoder(r.Body).Decode(&cmd))
			json.NewEncoder(w).Encode(CommandResponse{ID: 42, Name: cmd.Name, Status: "queued"})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(url string) *Client {
	return NewClient(Config{URL: url, APIKey: "test-key"})
}

func TestPing(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()

	require.NoError(t, newTestClient(server.URL).Ping())
}

func TestFindByTitle(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := newTestClient(server.URL)

	movie, err := client.FindByTitle("heat")
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, 1, movie.ID)

	missing, err := client.FindByTitle("Se7en")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByTmdbID(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := newTestClient(server.URL)

	movie, err := client.FindByTmdbID(1538)
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, "Collateral", movie.Title)

	missing, err := client.FindByTmdbID(807)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLookupMovie(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := newTestClient(server.URL)

	results, err := client.LookupMovie("Se7en")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 807, results[0].TmdbID)
}

func TestLookupMovieTrailingSlashURL(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := NewClient(Config{URL: server.URL + "/", APIKey: "test-key"})

	results, err := client.LookupMovie("Se7en")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestAddMovie(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := newTestClient(server.URL)

	movie, err := client.AddMovie(AddMovieRequest{
		Title:            "Se7en",
		TmdbID:           807,
		Year:             1995,
		QualityProfileID: 1,
		RootFolderPath:   "/movies",
		Monitored:        true,
		Tags:             []int{7},
		AddOptions:       AddOptions{SearchForMovie: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, movie.ID)
	assert.Equal(t, []int{7}, movie.Tags)
}

func TestSetMonitored(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := newTestClient(server.URL)

	require.NoError(t, client.SetMonitored(2, true))
}

func TestEnsureTagExisting(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := newTestClient(server.URL)

	id, err := client.EnsureTag("Tastekeeper")
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestEnsureTagCreates(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := newTestClient(server.URL)

	id, err := client.EnsureTag("change-of-taste")
	require.NoError(t, err)
	assert.Equal(t, 8, id)
}

func TestTriggerMovieSearch(t *testing.T) {
	server := newMockRadarrServer(t)
	defer server.Close()
	client := newTestClient(server.URL)

	resp, err := client.TriggerMovieSearch(3)
	require.NoError(t, err)
	assert.Equal(t, "MoviesSearch", resp.Name)
	assert.Equal(t, "queued", resp.Status)
}
