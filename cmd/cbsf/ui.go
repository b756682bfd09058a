// # cmd/cbsf/ui.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cbsf/internal/metrics"
	"cbsf/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	result     *metrics.Result
	warnings   []pipeline.Warning
	lastUpdate time.Time
}

type updateMsg struct {
	result   *metrics.Result
	warnings []pipeline.Warning
}

func newUpdateMsg(rep *pipeline.GenerateReport, result *metrics.Result) updateMsg {
	msg := updateMsg{result: result}
	if rep != nil {
		msg.warnings = rep.Warnings
	}
	return msg
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.result = msg.result
		m.warnings = msg.warnings
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for i, community := range m.result.Communities {
			if len(community) < 2 {
				continue
			}
			items = append(items, item{
				title: fmt.Sprintf("Community %d (%d modules)", i+1, len(community)),
				desc:  strings.Join(community, ", "),
			})
		}
		for _, w := range m.warnings {
			items = append(items, item{
				title: "Skipped Module",
				desc:  fmt.Sprintf("%s: %s", w.Path, w.Reason),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.result == nil {
		return docStyle.Render(titleStyle("Module Summary Monitor") + "\n\nwaiting for first scan...")
	}

	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d modules | %d dependencies",
		m.lastUpdate.Format("15:04:05"), m.result.NodeCount, m.result.EdgeCount))

	ratio := "ratio undefined"
	if m.result.CompressionRatioDefined {
		ratio = fmt.Sprintf("ratio %.5f", m.result.CompressionRatio)
	}
	line := fmt.Sprintf("%s | density %.3f | %d communities (Q %.3f) | entropy %.3f",
		ratio, m.result.Density, m.result.CommunityCount, m.result.Modularity, m.result.AggregateEntropy)

	var summary string
	if len(m.warnings) == 0 {
		summary = successStyle.Render("all modules resolved")
	} else {
		summary = warningStyle.Render(fmt.Sprintf("%d modules skipped", len(m.warnings)))
	}

	header := fmt.Sprintf("%s\n%s\n%s | %s\n", titleStyle("Module Summary Monitor"), status, line, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Communities & Warnings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
