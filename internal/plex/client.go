// Package plex is a minimal Plex Media Server client covering the
// operations tastekeeper needs: title lookup in a movie section and
// collection membership edits.
package plex

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type Config struct {
	URL        string
	Token      string
	Library    string // movie section name, e.g. "Movies"
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	library    string
	httpClient *http.Client

	mu         sync.Mutex
	sectionKey string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		library:    cfg.Library,
		httpClient: httpClient,
	}
}

func (c *Client) request(method, endpoint string, query url.Values) (*http.Response, error) {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("plex API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	return resp, nil
}

func (c *Client) get(endpoint string, query url.Values, result interface{}) error {
	resp, err := c.request(http.MethodGet, endpoint, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func (c *Client) put(endpoint string, query url.Values) error {
	resp, err := c.request(http.MethodPut, endpoint, query)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Movie is a movie item in a Plex library section.
type Movie struct {
	RatingKey string `json:"ratingKey"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Type      string `json:"type"`
}

type directory struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// container mirrors the MediaContainer envelope Plex wraps every
// response in when asked for JSON.
type container struct {
	MediaContainer struct {
		FriendlyName string      `json:"friendlyName"`
		Directory    []directory `json:"Directory"`
		Metadata     []Movie     `json:"Metadata"`
	} `json:"MediaContainer"`
}

// Ping verifies connectivity and returns the server's friendly name.
func (c *Client) Ping() (string, error) {
	var root container
	if err := c.get("/", nil, &root); err != nil {
		return "", fmt.Errorf("ping failed: %w", err)
	}
	return root.MediaContainer.FriendlyName, nil
}
