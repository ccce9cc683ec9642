// Package bottombar renders the footer line for the board TUI: a passive
// status segment in normal mode and a filtered command prompt with
// suggestions in command mode.
package bottombar

import (
	"strings"

	"tableflip.dev/standup/pkg/tui/theme"
)

// Mode selects how the footer renders.
type Mode int

const (
	// ModePassive shows the help/status segments.
	ModePassive Mode = iota
	// ModeInput shows the status segments plus the pending-kind segment.
	ModeInput
	// ModeCommand shows the command prompt with filtered suggestions.
	ModeCommand
)

// CommandOption describes one completable command for the prompt.
type CommandOption struct {
	Name        string
	Description string
}

const maxSuggestions = 6

// Model holds the footer state.
type Model struct {
	theme theme.FooterTheme

	mode    Mode
	help    string
	status  string
	pending string

	prefix      string
	definitions []CommandOption
	filtered    []CommandOption
	input       string
	commandView string
	selected    int
}

// New returns a footer in passive mode.
func New(th theme.FooterTheme) Model {
	return Model{
		theme:    th,
		mode:     ModePassive,
		selected: -1,
	}
}

// SetMode switches the footer rendering mode. Leaving command mode drops the
// prompt state.
func (m *Model) SetMode(mode Mode) {
	if m.mode == ModeCommand && mode != ModeCommand {
		m.input = ""
		m.commandView = ""
		m.filtered = nil
		m.selected = -1
	}
	m.mode = mode
}

// SetHelp updates the persistent help segment.
func (m *Model) SetHelp(text string) { m.help = text }

// SetStatus updates the transient status segment.
func (m *Model) SetStatus(text string) { m.status = text }

// SetPendingKind updates the pending-kind segment shown while inserting.
func (m *Model) SetPendingKind(text string) { m.pending = text }

// SetCommandPrefix sets the literal prefix echoed before the prompt.
func (m *Model) SetCommandPrefix(prefix string) { m.prefix = prefix }

// SetCommandDefinitions replaces the completable command set.
func (m *Model) SetCommandDefinitions(defs []CommandOption) {
	m.definitions = defs
	m.filtered = filterSuggestions(defs, m.input)
	m.selected = -1
}

// UpdateCommandInput records the typed value and its rendered view, then
// refilters the suggestions.
func (m *Model) UpdateCommandInput(value, view string) {
	m.input = value
	m.commandView = m.prefix + view
	m.filtered = filterSuggestions(m.definitions, value)
	m.selected = -1
}

// UpdateCommandPreview refreshes only the rendered prompt line. The filtered
// suggestions and the current selection stay as they are, so stepping through
// suggestions does not collapse the list.
func (m *Model) UpdateCommandPreview(view string) {
	m.commandView = m.prefix + view
}

// StepSuggestion advances the suggestion selection by delta and returns the
// newly selected option. It reports false when there is nothing to select.
func (m *Model) StepSuggestion(delta int) (CommandOption, bool) {
	if m.mode != ModeCommand || len(m.filtered) == 0 {
		return CommandOption{}, false
	}
	total := len(m.filtered)
	next := m.selected + delta
	if m.selected < 0 {
		if delta > 0 {
			next = 0
		} else {
			next = total - 1
		}
	}
	next = ((next % total) + total) % total
	m.selected = next
	return m.filtered[next], true
}

// ClearSuggestion drops the current suggestion selection.
func (m *Model) ClearSuggestion() { m.selected = -1 }

// Height reports how many terminal rows the footer occupies.
func (m *Model) Height() int {
	if m.mode == ModeCommand {
		n := len(m.filtered)
		if n > maxSuggestions {
			n = maxSuggestions
		}
		return n + 1
	}
	return 1
}

// ExtraHeight reports the rows beyond the single baseline footer row.
func (m *Model) ExtraHeight() int {
	if h := m.Height() - 1; h > 0 {
		return h
	}
	return 0
}

// View renders the footer and reports the number of rows rendered.
func (m *Model) View() (string, int) {
	if m.mode == ModeCommand {
		return m.renderCommandMode()
	}
	return m.renderStatusLine(), 1
}

func (m *Model) renderStatusLine() string {
	var segments []string
	if m.help != "" {
		segments = append(segments, m.theme.Help.Render(m.help))
	}
	if m.status != "" {
		segments = append(segments, m.theme.Status.Render(m.status))
	}
	if m.mode == ModeInput && m.pending != "" {
		segments = append(segments, m.theme.Pending.Render(m.pending))
	}
	if len(segments) == 0 {
		return " "
	}
	return strings.Join(segments, " │ ")
}

func (m *Model) renderCommandMode() (string, int) {
	var lines []string
	for i, opt := range m.filtered {
		if i >= maxSuggestions {
			break
		}
		marker := "  "
		name := m.theme.CommandName
		desc := m.theme.CommandDescription
		if i == m.selected {
			marker = "→ "
			name = m.theme.CommandSelectedName
			desc = m.theme.CommandSelectedDesc
		}
		lines = append(lines, marker+name.Render(opt.Name)+"  "+desc.Render(opt.Description))
	}
	commandLine := m.commandView
	if commandLine == "" {
		commandLine = m.prefix
	}
	lines = append(lines, commandLine)
	return strings.Join(lines, "\n"), len(lines)
}

func filterSuggestions(defs []CommandOption, input string) []CommandOption {
	prefix := strings.ToLower(strings.TrimSpace(input))
	if prefix == "" {
		out := make([]CommandOption, len(defs))
		copy(out, defs)
		return out
	}
	var out []CommandOption
	for _, opt := range defs {
		if strings.HasPrefix(strings.ToLower(opt.Name), prefix) {
			out = append(out, opt)
		}
	}
	return out
}
