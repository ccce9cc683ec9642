package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/item"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// ChangeType enumerates supported change actions across components.
type ChangeType string

const (
	// ChangeCreate indicates a new resource was created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates an existing resource changed.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete indicates a resource was removed.
	ChangeDelete ChangeType = "delete"
	// ChangeMove indicates a resource changed stage or position.
	ChangeMove ChangeType = "move"
)

// ItemRef captures the metadata required to identify an item in
// cross-component events.
type ItemRef struct {
	ID    string
	Title string
	Kind  glyph.Kind
	Flag  glyph.Flag
}

// Label returns a human-friendly identifier for the item.
func (r ItemRef) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

// RefFromItem converts a stored item into an event reference.
func RefFromItem(it *item.Item) ItemRef {
	if it == nil {
		return ItemRef{}
	}
	return ItemRef{
		ID:    it.ID,
		Title: it.Title,
		Kind:  it.Kind,
		Flag:  it.Flag,
	}
}

// ItemChangeMsg announces lifecycle changes to items (create, edit, delete,
// move) regardless of their origin (user action, watcher, CLI, etc).
type ItemChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Stage     string
	Item      ItemRef
}

// Describe renders the change in a human-friendly format for logs.
func (m ItemChangeMsg) Describe() string {
	return fmt.Sprintf(`action:%q stage:%q item:%q`, m.Action, m.Stage, m.Item.Label())
}

// ItemChangeCmd wraps ItemChangeMsg into a tea.Cmd for callers that want to
// emit the event as part of an Update result.
func ItemChangeCmd(component ComponentID, action ChangeType, stage string, ref ItemRef) tea.Cmd {
	return func() tea.Msg {
		return ItemChangeMsg{
			Component: component,
			Action:    action,
			Stage:     stage,
			Item:      ref,
		}
	}
}

// StageChangeMsg announces structural updates to the stage list (create,
// rename, limit change, delete).
type StageChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Stage     string
	Previous  string
}

// Describe renders the stage change in a human-friendly format for logs.
func (m StageChangeMsg) Describe() string {
	if m.Previous != "" {
		return fmt.Sprintf(`action:%q stage:%q prev:%q`, m.Action, m.Stage, m.Previous)
	}
	return fmt.Sprintf(`action:%q stage:%q`, m.Action, m.Stage)
}

// StageChangeCmd wraps StageChangeMsg in a tea.Cmd.
func StageChangeCmd(component ComponentID, action ChangeType, stage, previous string) tea.Cmd {
	return func() tea.Msg {
		return StageChangeMsg{
			Component: component,
			Action:    action,
			Stage:     stage,
			Previous:  previous,
		}
	}
}
