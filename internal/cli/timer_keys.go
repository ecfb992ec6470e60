package cli

import (
	"strings"

	"github.com/alexanderramin/grove/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
)

// timerKeyMap defines the key bindings for the live timer view.
type timerKeyMap struct {
	Stop    key.Binding
	Suspend key.Binding
	Help    key.Binding
}

func newTimerKeyMap() timerKeyMap {
	return timerKeyMap{
		Stop: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "stop & bank rewards"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "suspend & exit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k timerKeyMap) shortHelp() string {
	return formatter.StyleDim.Render("q stop · esc suspend · ? help")
}

func (k timerKeyMap) fullHelp() string {
	rows := []key.Binding{k.Stop, k.Suspend, k.Help}
	var parts []string
	for _, b := range rows {
		h := b.Help()
		parts = append(parts, formatter.StyleFg.Render(h.Key)+" "+formatter.StyleDim.Render(h.Desc))
	}
	return strings.Join(parts, "\n")
}
