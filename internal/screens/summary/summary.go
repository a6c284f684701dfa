package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/revise/internal/screen"
	"github.com/abhisek/revise/internal/session"
	"github.com/abhisek/revise/internal/ui/layout"
	"github.com/abhisek/revise/internal/ui/theme"
)

// SummaryScreen displays the outcome of a review session.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")

	heading := "Session complete"
	if sum.Cancelled {
		heading = "Session stopped"
	}
	if sum.Reviewed == 0 && !sum.Cancelled {
		heading = "Nothing due"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(heading))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(theme.Hint.Render(fmt.Sprintf("Duration: %d:%02d", mins, secs))))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Reviewed: %d        Recalled: %d        Accuracy: %.0f%%",
		sum.Reviewed, sum.Success, sum.Accuracy()*100)
	b.WriteString(center(theme.Body.Render(stats)))
	b.WriteString("\n")
	if sum.Dropped > 0 {
		b.WriteString(center(theme.Hint.Render(fmt.Sprintf("%d cards left for later", sum.Dropped))))
		b.WriteString("\n")
	}

	if len(sum.Topics) == 0 {
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(0, min(width-8, 60))))
	b.WriteString("\n")
	b.WriteString(center(theme.Hint.Render("Topics")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	for _, tr := range sum.Topics {
		line := fmt.Sprintf("%s    %d/%d recalled", tr.Topic, tr.Success, tr.Reviewed)
		style := theme.Body
		if tr.Success == tr.Reviewed {
			style = theme.Correct
		}
		b.WriteString(center(style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
