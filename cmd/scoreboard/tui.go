package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	baseStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

type model struct {
	apiURL   string
	interval time.Duration
	table    table.Model
	lastErr  error
	updated  time.Time
}

func initialModel(apiURL string, interval time.Duration) model {
	columns := []table.Column{
		{Title: "Team", Width: 20},
		{Title: "Availability", Width: 12},
		{Title: "Red Penalty", Width: 12},
		{Title: "Adjustment", Width: 12},
		{Title: "Total", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return model{
		apiURL:   apiURL,
		interval: interval,
		table:    t,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(fetchScores(m.apiURL), tick(m.interval))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, fetchScores(m.apiURL)
		}
	case tickMsg:
		return m, tea.Batch(fetchScores(m.apiURL), tick(m.interval))
	case scoresMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.lastErr = nil
		m.updated = time.Now()
		rows := make([]table.Row, 0, len(msg.scores))
		for _, score := range msg.scores {
			rows = append(rows, table.Row{
				score.TeamName,
				strconv.Itoa(score.Availability),
				strconv.Itoa(-score.RedPenalty),
				strconv.Itoa(score.Adjustment),
				strconv.Itoa(score.Total),
			})
		}
		m.table.SetRows(rows)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	s := titleStyle.Render("Defend-the-Flag Scoreboard") + "\n\n"
	s += baseStyle.Render(m.table.View()) + "\n"
	if m.lastErr != nil {
		s += errStyle.Render(fmt.Sprintf("fetch error: %v", m.lastErr)) + "\n"
	} else if !m.updated.IsZero() {
		s += fmt.Sprintf("updated %s\n", m.updated.Format("15:04:05"))
	}
	s += "\nPress r to refresh, q to quit.\n"
	return s
}
