package board

import (
	"testing"

	"tableflip.dev/standup/pkg/item"
)

type stageChange struct {
	itemID string
	stage  string
}

type positionCall struct {
	stage   string
	updates []PositionUpdate
}

type recordingDispatcher struct {
	stageChanges  []stageChange
	positionCalls []positionCall
}

func (d *recordingDispatcher) RequestStageChange(itemID, stage string) {
	d.stageChanges = append(d.stageChanges, stageChange{itemID: itemID, stage: stage})
}

func (d *recordingDispatcher) RequestPositionUpdate(stage string, updates []PositionUpdate) {
	call := positionCall{stage: stage}
	call.updates = append(call.updates, updates...)
	d.positionCalls = append(d.positionCalls, call)
}

func testItem(id, stage string, pos int) *item.Item {
	return &item.Item{ID: id, Stage: stage, Position: pos}
}

// newTestEngine seeds a board with a and b in Todo, c in Doing, and an
// empty Done column.
func newTestEngine() (*Engine, *recordingDispatcher) {
	d := &recordingDispatcher{}
	e := New(d)
	e.SetStages([]string{"Todo", "Doing", "Done"})
	e.ApplySnapshot([]*item.Item{
		testItem("a", "Todo", 0),
		testItem("b", "Todo", 10),
		testItem("c", "Doing", 0),
	})
	return e, d
}

func stageOrder(e *Engine, stage string) []string {
	var ids []string
	for _, it := range e.ItemsIn(stage) {
		ids = append(ids, it.ID)
	}
	return ids
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestDragStartRecordsOrigin(t *testing.T) {
	e, _ := newTestEngine()

	if !e.DragStart("a") {
		t.Fatalf("expected drag to start")
	}
	if e.State() != StateDragging || !e.Dragging() {
		t.Fatalf("expected dragging state, got %v", e.State())
	}
	if e.DraggedID() != "a" {
		t.Fatalf("expected dragged id a, got %q", e.DraggedID())
	}
	if e.DragStart("b") {
		t.Fatalf("second session must not start while one is active")
	}
	if e.DraggedID() != "a" {
		t.Fatalf("active session replaced: %q", e.DraggedID())
	}
}

func TestDragStartUnknownItem(t *testing.T) {
	e, _ := newTestEngine()
	if e.DragStart("missing") {
		t.Fatalf("unknown item must not open a session")
	}
	if e.Dragging() {
		t.Fatalf("no session should be active")
	}
}

func TestGesturesWhileIdleAreNoops(t *testing.T) {
	e, d := newTestEngine()

	e.DragOver("b")
	if e.Indicator() != nil {
		t.Fatalf("hover while idle must not resolve an indicator")
	}
	if e.Drop("b") {
		t.Fatalf("drop while idle must be a no-op")
	}
	if len(d.stageChanges) != 0 || len(d.positionCalls) != 0 {
		t.Fatalf("idle gestures dispatched commands")
	}
}

func TestHoverSpeculatesAcrossStages(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")

	e.DragOver("Doing")
	if !sameIDs(stageOrder(e, "Doing"), []string{"c", "a"}) {
		t.Fatalf("expected a appended to Doing, got %v", stageOrder(e, "Doing"))
	}
	if !sameIDs(stageOrder(e, "Todo"), []string{"b"}) {
		t.Fatalf("expected a out of Todo, got %v", stageOrder(e, "Todo"))
	}

	// Hovering an item back home restores the original slot.
	e.DragOver("b")
	if !sameIDs(stageOrder(e, "Todo"), []string{"a", "b"}) {
		t.Fatalf("expected a restored above b, got %v", stageOrder(e, "Todo"))
	}
}

func TestSameStageReorderCommit(t *testing.T) {
	e, d := newTestEngine()
	e.DragStart("a")
	e.DragOver("b")

	if !e.Drop("b") {
		t.Fatalf("expected drop to commit")
	}

	if len(d.stageChanges) != 0 {
		t.Fatalf("reorder within a stage must not announce a stage change: %+v", d.stageChanges)
	}
	if len(d.positionCalls) != 1 {
		t.Fatalf("expected one bulk position update, got %d", len(d.positionCalls))
	}
	call := d.positionCalls[0]
	if call.stage != "Todo" {
		t.Fatalf("expected update for Todo, got %q", call.stage)
	}
	want := []PositionUpdate{{ItemID: "b", Position: 0}, {ItemID: "a", Position: 10}}
	if len(call.updates) != len(want) {
		t.Fatalf("expected %d updates, got %d", len(want), len(call.updates))
	}
	for i, u := range want {
		if call.updates[i] != u {
			t.Fatalf("update %d: expected %+v, got %+v", i, u, call.updates[i])
		}
	}
	if !sameIDs(stageOrder(e, "Todo"), []string{"b", "a"}) {
		t.Fatalf("working copy order wrong: %v", stageOrder(e, "Todo"))
	}
	if e.Dragging() || e.State() != StateIdle {
		t.Fatalf("engine should be idle after commit")
	}
	if !e.skipSync {
		t.Fatalf("commit must arm the refresh skip")
	}
}

func TestMoveToEmptyStageCommit(t *testing.T) {
	e, d := newTestEngine()
	e.DragStart("a")
	e.DragOver("Done")

	if !e.Drop("Done") {
		t.Fatalf("expected drop to commit")
	}

	if len(d.stageChanges) != 1 || d.stageChanges[0] != (stageChange{itemID: "a", stage: "Done"}) {
		t.Fatalf("expected one stage change for a to Done, got %+v", d.stageChanges)
	}
	if len(d.positionCalls) != 1 || d.positionCalls[0].stage != "Done" {
		t.Fatalf("expected position update for Done, got %+v", d.positionCalls)
	}
	if len(d.positionCalls[0].updates) != 1 || d.positionCalls[0].updates[0] != (PositionUpdate{ItemID: "a", Position: 0}) {
		t.Fatalf("expected a at position 0, got %+v", d.positionCalls[0].updates)
	}
	if e.OverrideCount() != 1 {
		t.Fatalf("expected a pending override, got %d", e.OverrideCount())
	}
	if ov, ok := e.overrides["a"]; !ok || ov.Stage == nil || *ov.Stage != "Done" {
		t.Fatalf("override should pin a to Done: %+v", ov)
	}
	if !sameIDs(stageOrder(e, "Done"), []string{"a"}) {
		t.Fatalf("expected a in Done, got %v", stageOrder(e, "Done"))
	}
}

func TestDropOntoItemInOtherStage(t *testing.T) {
	e, d := newTestEngine()
	e.DragStart("a")

	if !e.Drop("c") {
		t.Fatalf("expected drop to commit")
	}

	if !sameIDs(stageOrder(e, "Doing"), []string{"c", "a"}) {
		t.Fatalf("expected a after c in Doing, got %v", stageOrder(e, "Doing"))
	}
	if len(d.stageChanges) != 1 {
		t.Fatalf("expected a stage change, got %+v", d.stageChanges)
	}
	got := d.positionCalls[0].updates
	want := []PositionUpdate{{ItemID: "c", Position: 0}, {ItemID: "a", Position: 10}}
	for i, u := range want {
		if got[i] != u {
			t.Fatalf("update %d: expected %+v, got %+v", i, u, got[i])
		}
	}
}

func TestHoverAwayAndBackCommitsWithoutStageChange(t *testing.T) {
	e, d := newTestEngine()
	e.DragStart("a")

	e.DragOver("Doing")
	e.DragOver("b")
	if !e.Drop("b") {
		t.Fatalf("expected drop to commit")
	}

	if len(d.stageChanges) != 0 {
		t.Fatalf("returning to the origin stage must not announce a change: %+v", d.stageChanges)
	}
	if len(d.positionCalls) != 1 || d.positionCalls[0].stage != "Todo" {
		t.Fatalf("expected a Todo position update, got %+v", d.positionCalls)
	}
	if e.OverrideCount() != 0 {
		t.Fatalf("no override expected for a same-stage drop")
	}
}

func TestDropUnresolvedTargetCancels(t *testing.T) {
	e, d := newTestEngine()
	e.DragStart("a")

	if e.Drop("missing") {
		t.Fatalf("unresolvable drop must not commit")
	}
	if e.Dragging() {
		t.Fatalf("session should be discarded")
	}
	if len(d.stageChanges) != 0 || len(d.positionCalls) != 0 {
		t.Fatalf("cancelled drop dispatched commands")
	}
	if e.skipSync {
		t.Fatalf("cancelled drop must not arm the refresh skip")
	}
}

func TestCancelSendsNothingAndRefreshReverts(t *testing.T) {
	e, d := newTestEngine()
	e.DragStart("a")
	e.DragOver("Doing")
	e.Cancel()

	if len(d.stageChanges) != 0 || len(d.positionCalls) != 0 {
		t.Fatalf("cancel dispatched commands")
	}
	if e.OverrideCount() != 0 || e.skipSync {
		t.Fatalf("cancel left optimistic state behind")
	}
	// Speculation stays visible until the next authoritative refresh.
	if !sameIDs(stageOrder(e, "Doing"), []string{"c", "a"}) {
		t.Fatalf("expected speculative placement to linger, got %v", stageOrder(e, "Doing"))
	}

	e.ApplySnapshot([]*item.Item{
		testItem("a", "Todo", 0),
		testItem("b", "Todo", 10),
		testItem("c", "Doing", 0),
	})
	if !sameIDs(stageOrder(e, "Todo"), []string{"a", "b"}) {
		t.Fatalf("refresh should revert speculation, got %v", stageOrder(e, "Todo"))
	}
}

func TestCommitSkipsExactlyOneRefresh(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")
	e.DragOver("b")
	e.Drop("b")

	stale := []*item.Item{
		testItem("a", "Todo", 0),
		testItem("b", "Todo", 10),
		testItem("c", "Doing", 0),
	}

	e.ApplySnapshot(stale)
	if !sameIDs(stageOrder(e, "Todo"), []string{"b", "a"}) {
		t.Fatalf("first refresh after commit must be skipped, got %v", stageOrder(e, "Todo"))
	}

	e.ApplySnapshot(stale)
	if !sameIDs(stageOrder(e, "Todo"), []string{"a", "b"}) {
		t.Fatalf("second refresh must apply, got %v", stageOrder(e, "Todo"))
	}
}

func TestRefreshIgnoredWhileDragging(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")
	e.DragOver("Doing")

	e.ApplySnapshot([]*item.Item{
		testItem("a", "Todo", 0),
		testItem("b", "Todo", 10),
		testItem("c", "Doing", 0),
	})

	if !sameIDs(stageOrder(e, "Doing"), []string{"c", "a"}) {
		t.Fatalf("refresh during drag must be ignored, got %v", stageOrder(e, "Doing"))
	}
}

func TestOverrideShieldsStaleRefreshes(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")
	e.DragOver("Done")
	e.Drop("Done")

	stale := []*item.Item{
		testItem("a", "Todo", 0),
		testItem("b", "Todo", 10),
		testItem("c", "Doing", 0),
	}

	// First refresh is the echo of our own write.
	e.ApplySnapshot(stale)
	// A second stale refresh still must not snap the item back.
	e.ApplySnapshot(stale)
	if !sameIDs(stageOrder(e, "Done"), []string{"a"}) {
		t.Fatalf("override should keep a in Done, got %v", stageOrder(e, "Done"))
	}
	if e.OverrideCount() != 1 {
		t.Fatalf("override should survive disagreement, got %d", e.OverrideCount())
	}

	// Once the store agrees the override is retired.
	e.ApplySnapshot([]*item.Item{
		testItem("a", "Done", 0),
		testItem("b", "Todo", 0),
		testItem("c", "Doing", 0),
	})
	if e.OverrideCount() != 0 {
		t.Fatalf("override should be deleted on agreement, got %d", e.OverrideCount())
	}
	if !sameIDs(stageOrder(e, "Done"), []string{"a"}) {
		t.Fatalf("expected a confirmed in Done, got %v", stageOrder(e, "Done"))
	}
}

func TestMergeNeverDuplicatesOrDrops(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")
	e.DragOver("Done")
	e.Drop("Done")

	// Refresh with a new item and without the echo suppression.
	e.ApplySnapshot(nil) // consume the skip
	e.ApplySnapshot([]*item.Item{
		testItem("a", "Todo", 0),
		testItem("b", "Todo", 10),
		testItem("c", "Doing", 0),
		testItem("d", "Doing", 10),
	})

	seen := map[string]int{}
	for _, it := range e.Items() {
		seen[it.ID]++
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if seen[id] != 1 {
			t.Fatalf("item %s appears %d times", id, seen[id])
		}
	}
	if len(e.Items()) != 4 {
		t.Fatalf("expected 4 items, got %d", len(e.Items()))
	}
	if got := stageOrder(e, "Done"); !sameIDs(got, []string{"a"}) {
		t.Fatalf("a must live in exactly one stage, Done has %v", got)
	}
}

func TestCommitRenumbersWholeStage(t *testing.T) {
	d := &recordingDispatcher{}
	e := New(d)
	e.SetStages([]string{"Todo", "Doing"})
	e.ApplySnapshot([]*item.Item{
		testItem("a", "Todo", 0),
		testItem("x", "Doing", 3),
		testItem("y", "Doing", 4),
		testItem("z", "Doing", 9),
	})

	// Hover appends the preview to Doing, so the drop on y resolves to a
	// same-stage placement above it.
	e.DragStart("a")
	e.DragOver("y")
	e.Drop("y")

	got := e.ItemsIn("Doing")
	for i, it := range got {
		if it.Position != i*Gap {
			t.Fatalf("position %d: expected %d, got %d", i, i*Gap, it.Position)
		}
	}
	if !sameIDs(stageOrder(e, "Doing"), []string{"x", "a", "y", "z"}) {
		t.Fatalf("unexpected order after drop: %v", stageOrder(e, "Doing"))
	}
}

func TestSnapshotItemsAreCloned(t *testing.T) {
	e, _ := newTestEngine()
	src := testItem("z", "Todo", 20)
	e.ApplySnapshot([]*item.Item{src})

	e.DragStart("z")
	e.DragOver("Doing")
	if src.Stage != "Todo" {
		t.Fatalf("engine mutated the caller's item: %q", src.Stage)
	}
}
