// Package router owns the active screen of the terminal program.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/revise/internal/screen"
)

// ReplaceScreenMsg makes Screen the active screen. The previous screen is
// discarded; a finished review hands over to its summary this way.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router forwards messages to the active screen and applies screen
// transitions.
type Router struct {
	active screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{active: initial}
}

func (r *Router) Init() tea.Cmd {
	if r.active == nil {
		return nil
	}
	return r.active.Init()
}

func (r *Router) Active() screen.Screen { return r.active }

// Replace switches to s and returns its Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.active = s
	return r.Init()
}

func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(ReplaceScreenMsg); ok {
		return r.Replace(m.Screen)
	}
	if r.active == nil {
		return nil
	}
	next, cmd := r.active.Update(msg)
	r.active = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
