// Package review is the interactive flashcard review screen.
package review

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/revise/internal/router"
	"github.com/abhisek/revise/internal/screen"
	"github.com/abhisek/revise/internal/screens/summary"
	sess "github.com/abhisek/revise/internal/session"
	"github.com/abhisek/revise/internal/ui/layout"
)

type keyMap struct {
	Reveal key.Binding
	Stop   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Reveal: key.NewBinding(key.WithKeys("space", " ", "enter"), key.WithHelp("Space", "Show answer")),
	Stop:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("Q", "Stop")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "enter"), key.WithHelp("Q", "Quit")),
}

func hint(b key.Binding) layout.KeyHint {
	h := b.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}

// Screen shows one due card at a time: the front first, the back once
// revealed, then takes a rating from the number keys.
type Screen struct {
	ctx      context.Context
	session  *sess.ReviewSession
	revealed bool
	notice   string // last rejected rating or failed save
	err      error
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)

// New creates a review screen over rs. An idle session is started when the
// screen initialises.
func New(ctx context.Context, rs *sess.ReviewSession) *Screen {
	return &Screen{ctx: ctx, session: rs}
}

// Err returns the error that stopped the session from starting, if any.
func (s *Screen) Err() error {
	return s.err
}

func (s *Screen) Init() tea.Cmd {
	if s.session.Phase() == sess.PhaseIdle {
		if err := s.session.Start(s.ctx, time.Now()); err != nil {
			s.err = err
			return nil
		}
	}
	return s.finishIfDone()
}

func (s *Screen) Title() string {
	return "Review"
}

func (s *Screen) Status() string {
	p, ok := s.session.Prompt()
	if !ok {
		return ""
	}
	return fmt.Sprintf("card %d/%d  ", p.Index+1, p.Total)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.err != nil {
		return []layout.KeyHint{hint(keys.Quit)}
	}
	if !s.revealed {
		return []layout.KeyHint{hint(keys.Reveal), hint(keys.Stop)}
	}
	lo, hi := s.session.Policy().RatingRange()
	return []layout.KeyHint{
		{Key: fmt.Sprintf("%d-%d", lo, hi), Description: "Rate"},
		hint(keys.Stop),
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if s.err != nil {
		if key.Matches(kmsg, keys.Quit) {
			return s, tea.Quit
		}
		return s, nil
	}

	if key.Matches(kmsg, keys.Stop) {
		s.session.Cancel()
		return s, s.finishIfDone()
	}

	if !s.revealed {
		if key.Matches(kmsg, keys.Reveal) {
			s.revealed = true
			s.notice = ""
		}
		return s, nil
	}

	pressed := kmsg.String()
	if len(pressed) != 1 {
		return s, nil
	}
	rating, err := strconv.Atoi(pressed)
	if err != nil {
		return s, nil
	}
	if _, err := s.session.Rate(s.ctx, rating); err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.revealed = false
	s.notice = ""
	return s, s.finishIfDone()
}

// finishIfDone swaps in the summary once the session has ended.
func (s *Screen) finishIfDone() tea.Cmd {
	if !s.session.Phase().Done() {
		return nil
	}
	sum := summary.New(s.session.Summary())
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
}
