// Package board implements the reorder engine behind the standup board:
// a single drag session state machine, a drop target resolver, the position
// allocator used at commit time, and a reconciler that merges authoritative
// item snapshots with optimistic local state so a committed move never
// snaps back while the backing store catches up.
package board

import (
	"tableflip.dev/standup/pkg/item"
)

// State identifies the engine lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// Dispatcher receives the commands a commit emits. Implementations run them
// asynchronously; the engine never waits for or observes their outcome.
type Dispatcher interface {
	RequestStageChange(itemID, stage string)
	RequestPositionUpdate(stage string, updates []PositionUpdate)
}

// session tracks one in-flight drag. originStage is frozen at drag start;
// hovering never rewrites it.
type session struct {
	itemID      string
	originStage string
	originPos   int
	indicator   *Indicator
}

// Engine owns the working copy the UI renders. All methods must be called
// from a single goroutine (the UI event loop); the engine holds no locks.
type Engine struct {
	dispatch Dispatcher

	items     []*item.Item
	stages    []string
	stageSet  map[string]bool
	session   *session
	overrides map[string]Override
	skipSync  bool
	state     State
}

func New(d Dispatcher) *Engine {
	return &Engine{
		dispatch:  d,
		stageSet:  map[string]bool{},
		overrides: map[string]Override{},
	}
}

// SetStages declares the stage ids drop targets may name, in column order.
func (e *Engine) SetStages(names []string) {
	e.stages = append(e.stages[:0], names...)
	e.stageSet = make(map[string]bool, len(names))
	for _, n := range names {
		e.stageSet[n] = true
	}
}

// Stages returns the known stage ids in column order.
func (e *Engine) Stages() []string {
	return e.stages
}

// Items exposes the working copy in render order. Callers must treat the
// slice and its items as read-only.
func (e *Engine) Items() []*item.Item {
	return e.items
}

// ItemsIn filters the working copy to one stage, preserving render order.
func (e *Engine) ItemsIn(stage string) []*item.Item {
	out := make([]*item.Item, 0, len(e.items))
	for _, it := range e.items {
		if it.Stage == stage {
			out = append(out, it)
		}
	}
	return out
}

// Indicator returns the current drop indicator, nil when unresolved.
func (e *Engine) Indicator() *Indicator {
	if e.session == nil {
		return nil
	}
	return e.session.indicator
}

func (e *Engine) Dragging() bool {
	return e.session != nil
}

// DraggedID returns the id of the item being dragged, or "".
func (e *Engine) DraggedID() string {
	if e.session == nil {
		return ""
	}
	return e.session.itemID
}

func (e *Engine) State() State {
	return e.state
}

// OverrideCount reports how many optimistic patches await confirmation.
func (e *Engine) OverrideCount() int {
	return len(e.overrides)
}

// DragStart opens a drag session for the item. It records the item's
// current stage as the origin and clears any stale indicator. Starting
// while a session is active, or naming an unknown item, does nothing.
func (e *Engine) DragStart(id string) bool {
	if e.session != nil {
		return false
	}
	it := e.find(id)
	if it == nil {
		return false
	}
	e.session = &session{
		itemID:      id,
		originStage: it.Stage,
		originPos:   it.Position,
	}
	e.state = StateDragging
	return true
}

// DragOver resolves the hovered target into a drop indicator and, when the
// target names a different stage, immediately reassigns the dragged item in
// the working copy so the preview tracks the pointer. The final index is
// decided only at commit; previews append.
func (e *Engine) DragOver(targetID string) {
	if e.session == nil {
		return
	}
	ind := e.resolve(targetID)
	e.session.indicator = ind
	if ind == nil {
		return
	}
	e.speculate(e.targetStage(ind))
}

// Drop resolves the final candidate target and commits. An unresolvable
// target cancels the session instead.
func (e *Engine) Drop(targetID string) bool {
	if e.session == nil {
		return false
	}
	ind := e.resolve(targetID)
	if ind == nil {
		e.Cancel()
		return false
	}
	e.commit(ind)
	return true
}

// Cancel discards the session without sending commands or setting the skip
// flag. Speculative stage flips stay in the working copy; the next
// authoritative refresh reverts them.
func (e *Engine) Cancel() {
	e.session = nil
	e.state = StateIdle
}

// ApplySnapshot merges an authoritative item list into the working copy.
// A snapshot following a commit is skipped once (the store echoing our own
// writes), snapshots during a drag are ignored outright, and otherwise
// pending overrides are laid over stale fields until the store agrees.
func (e *Engine) ApplySnapshot(items []*item.Item) {
	if e.skipSync {
		e.skipSync = false
		return
	}
	if e.session != nil {
		return
	}

	merged := make([]*item.Item, 0, len(items))
	for _, src := range items {
		it := src.Clone()
		if ov, ok := e.overrides[it.ID]; ok {
			if ov.Agrees(src) {
				delete(e.overrides, it.ID)
			} else {
				ov.Apply(it)
			}
		}
		merged = append(merged, it)
	}
	item.Sort(merged)
	e.items = merged
}

// commit runs the allocator and emits commands for the drop described by
// the indicator, then returns the engine to idle.
func (e *Engine) commit(ind *Indicator) {
	e.state = StateCommitting
	s := e.session

	dragged := e.find(s.itemID)
	if dragged == nil {
		e.Cancel()
		return
	}

	target := e.targetStage(ind)
	rest := e.stageItemsWithout(target, dragged.ID)

	insert := len(rest)
	if ind.Kind == TargetItem {
		if i := indexOfID(rest, ind.TargetID); i >= 0 {
			insert = i
			if ind.Placement == PlaceAfter {
				insert++
			}
		}
	}

	dragged.Stage = target
	ordered := Splice(rest, dragged, insert)
	updates := Renumber(ordered)

	if target != s.originStage {
		if e.dispatch != nil {
			e.dispatch.RequestStageChange(dragged.ID, target)
		}
		e.overrides[dragged.ID] = Override{Stage: &target}
	}
	if e.dispatch != nil {
		e.dispatch.RequestPositionUpdate(target, updates)
	}

	e.skipSync = true
	e.session = nil
	item.Sort(e.items)
	e.state = StateIdle
}

// speculate moves the dragged item's preview into stage. Returning to the
// origin stage restores the original position; any other stage appends.
func (e *Engine) speculate(stage string) {
	it := e.find(e.session.itemID)
	if it == nil || it.Stage == stage {
		return
	}
	it.Stage = stage
	if stage == e.session.originStage {
		it.Position = e.session.originPos
	} else {
		it.Position = e.tailPosition(stage, it.ID)
	}
	item.Sort(e.items)
}

// targetStage maps an indicator to the stage it lands in.
func (e *Engine) targetStage(ind *Indicator) string {
	if ind.Kind == TargetStage {
		return ind.TargetID
	}
	if over := e.find(ind.TargetID); over != nil {
		return over.Stage
	}
	return ""
}

func (e *Engine) find(id string) *item.Item {
	for _, it := range e.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (e *Engine) stageItemsWithout(stage, excludeID string) []*item.Item {
	out := make([]*item.Item, 0, len(e.items))
	for _, it := range e.items {
		if it.Stage == stage && it.ID != excludeID {
			out = append(out, it)
		}
	}
	return out
}

// tailPosition returns a position sorting after every item in stage,
// ignoring excludeID.
func (e *Engine) tailPosition(stage, excludeID string) int {
	pos := 0
	for _, it := range e.stageItemsWithout(stage, excludeID) {
		if it.Position+Gap > pos {
			pos = it.Position + Gap
		}
	}
	return pos
}

func indexOfID(items []*item.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
