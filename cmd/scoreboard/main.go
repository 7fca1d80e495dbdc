// Command scoreboard renders a live terminal view of the blue-team
// scoreboard served by the engine's HTTP API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "base URL of the scoring engine API")
	interval := flag.Duration("interval", 5*time.Second, "refresh interval")
	flag.Parse()

	p := tea.NewProgram(initialModel(*apiURL, *interval))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "scoreboard failed: %v\n", err)
		os.Exit(1)
	}
}

type teamScore struct {
	TeamID       int    `json:"team_id"`
	TeamName     string `json:"team_name"`
	Availability int    `json:"availability"`
	RedPenalty   int    `json:"red_penalty"`
	Adjustment   int    `json:"adjustment"`
	Total        int    `json:"total"`
}

type scoreboardResponse struct {
	Data []teamScore `json:"data"`
}

type scoresMsg struct {
	scores []teamScore
	err    error
}

func fetchScores(apiURL string) tea.Cmd {
	return func() tea.Msg {
		resp, err := http.Get(apiURL + "/api/scoreboard")
		if err != nil {
			return scoresMsg{err: err}
		}
		defer resp.Body.Close()
		var body scoreboardResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return scoresMsg{err: err}
		}
		return scoresMsg{scores: body.Data}
	}
}

type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
