// Package tui is a terminal browser for the portfolio. It lays the page out
// as lines and drives the same section scroll controller the site uses.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/folio/internal/scroll"
)

const (
	frameInterval = 16 * time.Millisecond
	sidebarWidth  = 16
	// wheelStep is one wheel notch, three rows.
	wheelStep = 3 * lineHeight
)

var (
	navStyle       = lipgloss.NewStyle().Width(sidebarWidth).PaddingLeft(1)
	navActiveStyle = navStyle.Copy().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type frameMsg time.Time

// Model is the bubbletea model.
type Model struct {
	content Content
	doc     *document
	surface *Surface
	loop    *scroll.Loop
	ctrl    *scroll.Controller

	width, height int
	ticking       bool
	now           func() time.Time
}

// New returns a model for c. opts tune the scroll controller.
func New(c Content, opts ...scroll.Option) *Model {
	m := &Model{content: c, width: 80, height: 24, now: time.Now}
	m.doc = layout(c, m.contentWidth(), m.viewportRows())
	m.surface = NewSurface(m.doc, m.viewportRows())
	m.loop = scroll.NewLoop(time.Now())
	m.ctrl = scroll.NewController(m.surface, m.loop, opts...)
	return m
}

// Run starts the browser on the terminal and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, c Content, opts ...scroll.Option) error {
	p := tea.NewProgram(New(c, opts...),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

// Controller exposes the scroll controller.
func (m *Model) Controller() *scroll.Controller { return m.ctrl }

func (m *Model) Init() tea.Cmd {
	m.ctrl.Attach()
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.doc = layout(m.content, m.contentWidth(), m.viewportRows())
		m.surface.Resize(m.doc, m.viewportRows())
		m.ctrl.Rediscover()

	case tea.MouseMsg:
		m.syncClock()
		switch msg.Type {
		case tea.MouseWheelUp:
			m.surface.Wheel(-wheelStep)
		case tea.MouseWheelDown:
			m.surface.Wheel(wheelStep)
		}

	case tea.KeyMsg:
		m.syncClock()
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			m.ctrl.Detach()
			return m, tea.Quit
		case "up", "k":
			m.surface.ScrollBy(-lineHeight)
		case "down", "j":
			m.surface.ScrollBy(lineHeight)
		case "pgup", "b":
			m.surface.Wheel(-m.pageStep())
		case "pgdown", " ", "f":
			m.surface.Wheel(m.pageStep())
		case "home", "g":
			m.navigate(0)
		case "end", "G":
			m.navigate(len(m.doc.sections) - 1)
		case "tab":
			m.navigate((m.ctrl.Current() + 1) % len(m.doc.sections))
		case "shift+tab":
			n := len(m.doc.sections)
			m.navigate((m.ctrl.Current() + n - 1) % n)
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				m.navigate(int(key[0] - '1'))
			}
		}

	case frameMsg:
		m.loop.Tick(time.Time(msg))
		if m.loop.Busy() {
			return m, tick()
		}
		m.ticking = false
		return m, nil
	}

	return m, m.schedule()
}

func (m *Model) navigate(index int) {
	if index < 0 || index >= len(m.doc.sections) {
		return
	}
	if m.ctrl.NavigateTo(index) {
		m.surface.SetFragment(m.doc.sections[index].ID)
	}
}

// syncClock brings an idle loop up to the wall clock so an animation started
// by this input measures its duration from now.
func (m *Model) syncClock() {
	if !m.loop.Busy() {
		m.loop.Advance(m.now())
	}
}

// schedule starts the frame ticker when the loop has pending work.
func (m *Model) schedule() tea.Cmd {
	if m.ticking || !m.loop.Busy() {
		return nil
	}
	m.ticking = true
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) View() string {
	var nav strings.Builder
	current := m.ctrl.Current()
	for i, title := range m.doc.titles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if i == current {
			nav.WriteString(navActiveStyle.Render(label))
		} else {
			nav.WriteString(navStyle.Render(label))
		}
		nav.WriteString("\n")
	}

	body := strings.Join(m.surface.Visible(), "\n")
	page := lipgloss.JoinHorizontal(lipgloss.Top, nav.String(), body)

	location := "/"
	if f := m.surface.Fragment(); f != "" {
		location += "#" + f
	}
	status := statusStyle.Render(fmt.Sprintf("%s  ·  1-%d jump · tab next · wheel/pgdn snap · ↑↓ scroll · q quit",
		location, len(m.doc.sections)))
	return page + "\n" + status
}

func (m *Model) contentWidth() int {
	return max(m.width-sidebarWidth-2, 20)
}

func (m *Model) viewportRows() int {
	return max(m.height-1, 1)
}

func (m *Model) pageStep() float64 {
	return float64(m.viewportRows()-1) * lineHeight
}
