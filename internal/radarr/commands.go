package radarr

import "fmt"

type Command struct {
	Name     string `json:"name"`
	MovieIDs []int  `json:"movieIds,omitempty"`
}

type CommandResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	CommandName string `json:"commandName"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
}

func (c *Client) ExecuteCommand(cmd Command) (*CommandResponse, error) {
	var response CommandResponse
	if err := c.post("/api/v3/command", cmd, &response); err != nil {
		return nil, fmt.Errorf("executing command %s: %w", cmd.Name, err)
	}
	return &response, nil
}

// TriggerMovieSearch asks Radarr to search its indexers for the movie.
func (c *Client) TriggerMovieSearch(movieID int) (*CommandResponse, error) {
	cmd := Command{
		Name:     "MoviesSearch",
		MovieIDs: []int{movieID},
	}
	return c.ExecuteCommand(cmd)
}
