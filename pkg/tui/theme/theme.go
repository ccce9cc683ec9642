package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Board  BoardTheme
	Modal  ModalTheme
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	Pending             lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
	CommandSelectedDesc lipgloss.Style
}

// BoardTheme styles the stage columns and the cards inside them.
type BoardTheme struct {
	Header    lipgloss.Style
	Count     lipgloss.Style
	OverLimit lipgloss.Style
	Card      lipgloss.Style
	Cursor    lipgloss.Style
	Ghost     lipgloss.Style
	Indicator lipgloss.Style
	Empty     lipgloss.Style

	accents []lipgloss.Color
}

// StageAccent returns the accent color for the column at index i. Columns past
// the end of the ramp wrap around.
func (b BoardTheme) StageAccent(i int) lipgloss.Color {
	if len(b.accents) == 0 {
		return lipgloss.Color("212")
	}
	if i < 0 {
		i = 0
	}
	return b.accents[i%len(b.accents)]
}

// ModalTheme styles centered modal overlays (e.g., help).
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	commandName := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)
	commandDesc := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	commandSelectedName := commandName.Reverse(true)
	commandSelectedDesc := commandDesc.Reverse(true)

	rampFrom, rampTo := "#5fd7ff", "#ff87d7"
	if !termenv.HasDarkBackground() {
		rampFrom, rampTo = "#005f87", "#af0087"
	}

	return Theme{
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:              lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Pending:             lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			CommandName:         commandName,
			CommandDescription:  commandDesc,
			CommandSelectedName: commandSelectedName,
			CommandSelectedDesc: commandSelectedDesc,
		},
		Board: BoardTheme{
			Header:    lipgloss.NewStyle().Bold(true),
			Count:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			OverLimit: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Card:      lipgloss.NewStyle(),
			Cursor:    lipgloss.NewStyle().Bold(true),
			Ghost:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Indicator: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			accents:   accentRamp(rampFrom, rampTo, 6),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}

// accentRamp blends between two hex anchors in Luv space and returns n evenly
// spaced stops.
func accentRamp(from, to string, n int) []lipgloss.Color {
	a, errA := colorful.Hex(from)
	b, errB := colorful.Hex(to)
	if errA != nil || errB != nil || n < 1 {
		return []lipgloss.Color{lipgloss.Color("212")}
	}
	out := make([]lipgloss.Color, 0, n)
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out = append(out, lipgloss.Color(a.BlendLuv(b, t).Hex()))
	}
	return out
}
