package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/revise/internal/router"
	"github.com/abhisek/revise/internal/screen"
	"github.com/abhisek/revise/internal/screens/review"
	"github.com/abhisek/revise/internal/session"
	"github.com/abhisek/revise/internal/ui/layout"
)

// Model is the root Bubble Tea model.
type Model struct {
	router *router.Router
	width  int
	height int
}

// New creates a Model showing root.
func New(root screen.Screen) Model {
	return Model{router: router.New(root)}
}

func (m Model) Init() tea.Cmd {
	return m.router.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width > 0 && m.height > 0 {
		v.SetContent(m.render())
	}
	return v
}

// render draws the full frame for the current terminal size.
func (m Model) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = append(kp.KeyHints(), footerHints...)
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// RunReview runs an interactive review of rs until the learner finishes or
// quits, and returns the session summary. Quitting mid-session cancels it.
func RunReview(ctx context.Context, rs *session.ReviewSession) (*session.Summary, error) {
	scr := review.New(ctx, rs)
	if _, err := tea.NewProgram(New(scr)).Run(); err != nil {
		return nil, fmt.Errorf("run review: %w", err)
	}
	if err := scr.Err(); err != nil {
		return nil, err
	}
	rs.Cancel()
	return rs.Summary(), nil
}
