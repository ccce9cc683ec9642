package teaui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/standup/pkg/board"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/store"
)

func pressKey(t *testing.T, m *Model, key string) *Model {
	t.Helper()
	var msg tea.KeyPressMsg
	switch key {
	case "space":
		msg = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	default:
		msg = tea.KeyPressMsg{Text: key, Code: rune(key[0])}
	}
	next, _ := m.Update(msg)
	return assertAppModel(t, next)
}

func TestBoardLoadedMsgSeedsEngine(t *testing.T) {
	m := New(nil)
	metas := []stage.Meta{
		{Name: "Todo", Order: 1},
		{Name: "Doing", Order: 2},
	}
	items := []*item.Item{
		newTestItem("a", "Todo", 0, "One"),
		newTestItem("b", "Doing", 0, "Two"),
	}

	next, cmd := m.Update(boardLoadedMsg{metas: metas, items: items})
	m = assertAppModel(t, next)
	if cmd != nil {
		t.Fatalf("expected no follow-up command, got %T", cmd)
	}
	if got := len(m.engine.Items()); got != 2 {
		t.Fatalf("expected 2 items in the working copy, got %d", got)
	}
	stages := m.engine.Stages()
	if len(stages) != 2 || stages[0] != "Todo" || stages[1] != "Doing" {
		t.Fatalf("unexpected engine stages %v", stages)
	}
}

func TestDragReorderWithinStage(t *testing.T) {
	m := New(nil)
	seedBoard(m)

	m = pressKey(t, m, "space")
	if !m.engine.Dragging() {
		t.Fatalf("expected a drag session after grab")
	}
	if m.engine.DraggedID() != "t1" {
		t.Fatalf("expected t1 grabbed, got %q", m.engine.DraggedID())
	}

	m = pressKey(t, m, "j")
	ind := m.engine.Indicator()
	if ind == nil {
		t.Fatalf("expected a drop indicator while hovering")
	}
	if ind.Kind != board.TargetItem || ind.TargetID != "t2" || ind.Placement != board.PlaceAfter {
		t.Fatalf("unexpected indicator %+v", ind)
	}

	m = pressKey(t, m, "space")
	if m.engine.Dragging() {
		t.Fatalf("expected the drag session to end on drop")
	}
	got := m.engine.ItemsIn("Todo")
	if len(got) != 2 || got[0].ID != "t2" || got[1].ID != "t1" {
		t.Fatalf("expected t1 to land after t2, got %v", itemIDs(got))
	}
	if got[0].Position != 0 || got[1].Position != board.Gap {
		t.Fatalf("expected renumbered positions, got %d and %d", got[0].Position, got[1].Position)
	}
}

func TestDragAcrossStagesFollowsHover(t *testing.T) {
	m := New(nil)
	seedBoard(m)

	m = pressKey(t, m, "space")
	m = pressKey(t, m, "l")

	ind := m.engine.Indicator()
	if ind == nil || ind.Kind != board.TargetStage || ind.TargetID != "Doing" || ind.Placement != board.PlaceEnd {
		t.Fatalf("expected end-of-stage indicator for Doing, got %+v", ind)
	}
	doing := m.engine.ItemsIn("Doing")
	if len(doing) != 2 || doing[len(doing)-1].ID != "t1" {
		t.Fatalf("expected the ghost to preview at the end of Doing, got %v", itemIDs(doing))
	}
	if m.cursor.Stage != 1 || m.cursor.Item != 1 {
		t.Fatalf("expected the cursor to follow the ghost, got %+v", m.cursor)
	}

	m = pressKey(t, m, "space")
	if m.engine.Dragging() {
		t.Fatalf("expected the drag session to end on drop")
	}
	doing = m.engine.ItemsIn("Doing")
	if len(doing) != 2 || doing[1].ID != "t1" {
		t.Fatalf("expected t1 committed at the end of Doing, got %v", itemIDs(doing))
	}
	if m.engine.OverrideCount() != 1 {
		t.Fatalf("expected one pending stage override, got %d", m.engine.OverrideCount())
	}
}

func TestDropOnSelfIsANoOp(t *testing.T) {
	m := New(nil)
	seedBoard(m)

	m = pressKey(t, m, "space")
	m = pressKey(t, m, "space")

	if m.engine.Dragging() {
		t.Fatalf("expected the session to clear")
	}
	got := m.engine.ItemsIn("Todo")
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t2" {
		t.Fatalf("expected the order to stay put, got %v", itemIDs(got))
	}
	if m.engine.OverrideCount() != 0 {
		t.Fatalf("expected no overrides after a self drop, got %d", m.engine.OverrideCount())
	}
}

func TestEscCancelsDrag(t *testing.T) {
	m := New(nil)
	seedBoard(m)

	m = pressKey(t, m, "space")
	m = pressKey(t, m, "l")
	m = pressKey(t, m, "esc")

	if m.engine.Dragging() {
		t.Fatalf("expected the drag session to end on esc")
	}
	if m.hoverID != "" {
		t.Fatalf("expected the hover target to clear, got %q", m.hoverID)
	}
}

func TestDispatcherBuffersAndDrains(t *testing.T) {
	d := &dispatcher{}
	d.RequestStageChange("a", "Doing")
	d.RequestPositionUpdate("Doing", []board.PositionUpdate{{ItemID: "a", Position: 0}})

	moves, reorders := d.drain()
	if len(moves) != 1 || moves[0].itemID != "a" || moves[0].stage != "Doing" {
		t.Fatalf("unexpected moves %+v", moves)
	}
	if len(reorders) != 1 || len(reorders[0].updates) != 1 {
		t.Fatalf("unexpected reorders %+v", reorders)
	}

	moves, reorders = d.drain()
	if len(moves) != 0 || len(reorders) != 0 {
		t.Fatalf("expected drain to empty the buffers")
	}
}

func TestWatchLifecycleRearms(t *testing.T) {
	m := New(nil)
	ch := make(chan store.Event, 1)

	next, cmd := m.Update(watchStartedMsg{ch: ch, cancel: func() {}})
	m = assertAppModel(t, next)
	if cmd == nil {
		t.Fatalf("expected a wait command after the watch starts")
	}

	ch <- store.Event{Type: store.EventStageChanged, Stage: "Todo"}
	msg := cmd()
	ev, ok := msg.(watchEventMsg)
	if !ok {
		t.Fatalf("expected watchEventMsg, got %T", msg)
	}
	if ev.event.Stage != "Todo" {
		t.Fatalf("unexpected event %+v", ev.event)
	}

	next, cmd = m.Update(ev)
	m = assertAppModel(t, next)
	if cmd == nil {
		t.Fatalf("expected the watch to re-arm after an event")
	}

	close(ch)
	msg = cmd()
	if _, ok := msg.(watchStoppedMsg); !ok {
		t.Fatalf("expected watchStoppedMsg after the channel closed, got %T", msg)
	}

	next, cmd = m.Update(watchStoppedMsg{})
	m = assertAppModel(t, next)
	if m.watchCh != nil {
		t.Fatalf("expected the watch channel to clear")
	}
	if cmd != nil {
		t.Fatalf("expected no restart without a service, got %T", cmd)
	}
}

func TestWatchStartErrorSurfacesOnStatusBar(t *testing.T) {
	m := New(nil)
	next, cmd := m.Update(watchStartedMsg{err: errors.New("boom")})
	m = assertAppModel(t, next)
	if cmd != nil {
		t.Fatalf("expected no follow-up command on watch failure")
	}
	if m.watchCh != nil {
		t.Fatalf("expected no watch channel on failure")
	}
}

func itemIDs(items []*item.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
