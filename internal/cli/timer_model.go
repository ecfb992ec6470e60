package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/grove/internal/cli/formatter"
	"github.com/alexanderramin/grove/internal/domain"
	"github.com/alexanderramin/grove/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tickMsg refreshes the displayed clock once a second. Display only:
// award settlement happens in the controller's own tick loop.
type tickMsg time.Time

// awardMsg is pushed into the program by the controller's award
// listener when live ticking mints new badges.
type awardMsg struct {
	minted []domain.Badge
	points int
}

// timerModel is the full-screen live timer shown while a session runs.
type timerModel struct {
	app      *App
	snap     service.Snapshot
	flash    string
	flashAge int
	keys     timerKeyMap
	showHelp bool
	quitting bool
	err      error
}

func newTimerModel(app *App) timerModel {
	return timerModel{
		app:  app,
		snap: app.Controller.Snapshot(),
		keys: newTimerKeyMap(),
	}
}

// runTimer drives the timer TUI until the user stops or suspends the
// session. The controller keeps ticking underneath; the TUI is a pure
// observer plus key handler.
func runTimer(app *App) error {
	p := tea.NewProgram(newTimerModel(app), tea.WithAltScreen())

	app.Controller.SetAwardListener(func(minted []domain.Badge, points int) {
		p.Send(awardMsg{minted: minted, points: points})
	})
	defer app.Controller.SetAwardListener(nil)

	m, err := p.Run()
	if err != nil {
		return err
	}
	if final, ok := m.(timerModel); ok && final.err != nil {
		return final.err
	}
	return nil
}

func scheduleTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m timerModel) Init() tea.Cmd {
	return scheduleTick()
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = m.app.Controller.Snapshot()
		if m.flash != "" {
			m.flashAge++
			if m.flashAge > 4 {
				m.flash = ""
				m.flashAge = 0
			}
		}
		if !m.snap.Active {
			m.quitting = true
			return m, tea.Quit
		}
		return m, scheduleTick()

	case awardMsg:
		m.snap = m.app.Controller.Snapshot()
		m.flash = fmt.Sprintf("%s  +%d", formatter.BadgeShelf(msg.minted), len(msg.minted))
		m.flashAge = 0
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Stop):
			if _, err := m.app.Controller.Stop(context.Background()); err != nil {
				m.err = err
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Suspend):
			if err := m.app.Controller.Suspend(context.Background()); err != nil {
				m.err = err
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}
	return m, nil
}

var (
	timerFaceStyle = lipgloss.NewStyle().
			Foreground(formatter.ColorFg).
			Bold(true).
			Padding(0, 2)
	timerFlashStyle = lipgloss.NewStyle().
			Foreground(formatter.ColorYellow).
			Bold(true)
)

func (m timerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.ModeLabel(m.snap.Mode))
	b.WriteString("\n\n")
	b.WriteString(timerFaceStyle.Render(formatter.FormatClock(m.snap.Elapsed)))
	b.WriteString("\n\n")
	b.WriteString(formatter.Points(m.snap.Points))
	if m.snap.Session != nil {
		b.WriteString("\n")
		b.WriteString(formatter.BadgeShelf(m.snap.Session.Badges))
	}
	if m.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(timerFlashStyle.Render(m.flash))
	}
	b.WriteString("\n\n")
	if m.showHelp {
		b.WriteString(m.keys.fullHelp())
	} else {
		b.WriteString(m.keys.shortHelp())
	}

	return formatter.RenderBox("grove", b.String())
}
