package review

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/revise/internal/ui/components"
	"github.com/abhisek/revise/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.err != nil {
		return renderError(width, height, s.err)
	}
	p, ok := s.session.Prompt()
	if !ok {
		return ""
	}

	cardWidth := min(width-8, 72)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(components.NewProgressBar("", p.Index, p.Total, cardWidth).View()))
	b.WriteString("\n\n")
	b.WriteString(center(theme.Hint.Render(p.Card.Topic)))
	b.WriteString("\n")
	b.WriteString(center(theme.Card.Width(cardWidth).Render(theme.Body.Render(p.Card.Front))))
	b.WriteString("\n")

	if !s.revealed {
		b.WriteString("\n")
		b.WriteString(center(theme.Subtitle.Render("Recall the answer, then press space")))
		return b.String()
	}

	b.WriteString(center(theme.Card.Width(cardWidth).BorderForeground(theme.Secondary).
		Render(theme.Body.Render(p.Card.Back))))
	b.WriteString("\n\n")

	lo, _ := p.Policy.RatingRange()
	for i, label := range p.Policy.Labels() {
		line := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d", lo+i)) +
			"  " + theme.Body.Render(label)
		b.WriteString(center(lipgloss.NewStyle().Width(cardWidth).Render(line)))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(center(theme.Incorrect.Render(s.notice)))
	}
	return b.String()
}

func renderError(width, height int, err error) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.Incorrect.Render("Could not start review") + "\n\n" + theme.Hint.Render(err.Error()))
}
