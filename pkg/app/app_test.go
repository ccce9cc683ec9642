package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"tableflip.dev/standup/pkg/board"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/store"
)

type memoryPersistence struct {
	mu      sync.Mutex
	counter int
	stages  map[string]stage.Meta
	items   map[string]map[string]*item.Item
}

func newMemoryPersistence(items ...*item.Item) *memoryPersistence {
	mp := &memoryPersistence{
		stages: make(map[string]stage.Meta),
		items:  make(map[string]map[string]*item.Item),
	}
	for _, i := range items {
		if i == nil {
			continue
		}
		if i.ID == "" {
			i.ID = mp.newID()
		}
		if mp.items[i.Stage] == nil {
			mp.items[i.Stage] = make(map[string]*item.Item)
		}
		cp := i.Clone()
		mp.items[i.Stage][cp.ID] = cp
	}
	return mp
}

func (m *memoryPersistence) newID() string {
	m.counter++
	return fmt.Sprintf("id%d", m.counter)
}

func (m *memoryPersistence) MapAll(_ context.Context) map[string][]*item.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]*item.Item, len(m.items))
	for name, bucket := range m.items {
		for _, i := range bucket {
			out[name] = append(out[name], i.Clone())
		}
	}
	for name := range out {
		item.Sort(out[name])
	}
	return out
}

func (m *memoryPersistence) ListAll(_ context.Context) []*item.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*item.Item
	for _, bucket := range m.items {
		for _, i := range bucket {
			out = append(out, i.Clone())
		}
	}
	item.Sort(out)
	return out
}

func (m *memoryPersistence) List(_ context.Context, stageName string) []*item.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.items[stageName]
	out := make([]*item.Item, 0, len(bucket))
	for _, i := range bucket {
		out = append(out, i.Clone())
	}
	item.Sort(out)
	return out
}

func (m *memoryPersistence) Stages(ctx context.Context) []string {
	return stage.Names(m.StagesMeta(ctx))
}

func (m *memoryPersistence) StagesMeta(_ context.Context) []stage.Meta {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make(map[string]stage.Meta, len(m.stages))
	maxOrder := -1
	for name, meta := range m.stages {
		all[name] = meta
		if meta.Order > maxOrder {
			maxOrder = meta.Order
		}
	}
	var discovered []string
	for name := range m.items {
		if _, ok := all[name]; !ok {
			discovered = append(discovered, name)
		}
	}
	sort.Strings(discovered)
	for _, name := range discovered {
		maxOrder++
		all[name] = stage.Meta{Name: name, Order: maxOrder}
	}
	list := make([]stage.Meta, 0, len(all))
	for _, meta := range all {
		list = append(list, meta)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func (m *memoryPersistence) Store(i *item.Item) error {
	if i == nil {
		return errors.New("nil item")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i.Stage == "" {
		return errors.New("missing stage")
	}
	if i.ID == "" {
		i.ID = m.newID()
	}
	if m.items[i.Stage] == nil {
		m.items[i.Stage] = make(map[string]*item.Item)
	}
	m.items[i.Stage][i.ID] = i.Clone()
	return nil
}

func (m *memoryPersistence) Delete(i *item.Item) error {
	if i == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.items[i.Stage]
	if bucket == nil {
		return nil
	}
	delete(bucket, i.ID)
	return nil
}

func (m *memoryPersistence) EnsureStage(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("stage required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stages[name]; ok {
		return nil
	}
	next := 0
	for _, meta := range m.stages {
		if meta.Order >= next {
			next = meta.Order + 1
		}
	}
	m.stages[name] = stage.Meta{Name: name, Order: next}
	if m.items[name] == nil {
		m.items[name] = make(map[string]*item.Item)
	}
	return nil
}

func (m *memoryPersistence) SetStageMeta(meta stage.Meta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[meta.Name] = meta
	if m.items[meta.Name] == nil {
		m.items[meta.Name] = make(map[string]*item.Item)
	}
	return nil
}

func (m *memoryPersistence) RemoveStage(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items[name]) > 0 {
		return store.ErrStageNotEmpty
	}
	delete(m.items, name)
	delete(m.stages, name)
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

func TestAddAppendsToStageTail(t *testing.T) {
	a := &item.Item{ID: "a", Stage: "Todo", Position: 0, Title: "first"}
	b := &item.Item{ID: "b", Stage: "Todo", Position: 10, Title: "second"}
	mp := newMemoryPersistence(a, b)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	added, err := svc.Add(ctx, "Todo", glyph.Task, "third", glyph.None)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatal("expected add to assign an id")
	}
	if added.Position != 20 {
		t.Fatalf("expected tail position 20, got %d", added.Position)
	}

	todo := mp.List(ctx, "Todo")
	if len(todo) != 3 {
		t.Fatalf("expected 3 items in Todo, got %d", len(todo))
	}
	if todo[2].Title != "third" {
		t.Fatalf("expected new item last, got %q", todo[2].Title)
	}
}

func TestResolveByPrefix(t *testing.T) {
	a := &item.Item{ID: "8f14e45fceea000000000000", Stage: "Todo", Title: "alpha"}
	b := &item.Item{ID: "8f2200aa11bb000000000000", Stage: "Todo", Title: "beta"}
	mp := newMemoryPersistence(a, b)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	got, err := svc.Resolve(ctx, "8f14")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Title != "alpha" {
		t.Fatalf("expected alpha, got %q", got.Title)
	}

	if _, err := svc.Resolve(ctx, "8f"); !errors.Is(err, ErrAmbiguousID) {
		t.Fatalf("expected ErrAmbiguousID, got %v", err)
	}
	if _, err := svc.Resolve(ctx, "dead"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Resolve(ctx, "  "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank prefix, got %v", err)
	}
}

func TestMoveItemRekeysStage(t *testing.T) {
	a := &item.Item{ID: "a", Stage: "Todo", Position: 0, Title: "task"}
	mp := newMemoryPersistence(a)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	moved, err := svc.MoveItem(ctx, "a", "Doing")
	if err != nil {
		t.Fatalf("move item: %v", err)
	}
	if moved.Stage != "Doing" {
		t.Fatalf("expected stage Doing, got %q", moved.Stage)
	}
	if len(mp.List(ctx, "Todo")) != 0 {
		t.Fatal("expected item gone from Todo")
	}
	doing := mp.List(ctx, "Doing")
	if len(doing) != 1 {
		t.Fatalf("expected 1 item in Doing, got %d", len(doing))
	}
	rec := doing[0].History
	if len(rec) == 0 || rec[len(rec)-1].Action != item.HistoryActionMoved {
		t.Fatalf("expected a move history record, got %+v", rec)
	}
	if rec[len(rec)-1].From != "Todo" || rec[len(rec)-1].To != "Doing" {
		t.Fatalf("move record wrong: %+v", rec[len(rec)-1])
	}

	// Moving to the current stage must not grow history.
	before := len(doing[0].History)
	if _, err := svc.MoveItem(ctx, "a", "Doing"); err != nil {
		t.Fatalf("same-stage move: %v", err)
	}
	after := mp.List(ctx, "Doing")[0].History
	if len(after) != before {
		t.Fatalf("expected history unchanged, got %d records", len(after))
	}
}

func TestMoveItemNotFound(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}

	if _, err := svc.MoveItem(context.Background(), "missing", "Doing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorderAppliesBulkPositions(t *testing.T) {
	a := &item.Item{ID: "a", Stage: "Todo", Position: 0}
	b := &item.Item{ID: "b", Stage: "Todo", Position: 10}
	c := &item.Item{ID: "c", Stage: "Todo", Position: 20}
	mp := newMemoryPersistence(a, b, c)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	err := svc.Reorder(ctx, []board.PositionUpdate{
		{ItemID: "c", Position: 0},
		{ItemID: "a", Position: 10},
		{ItemID: "b", Position: 20},
		{ItemID: "ghost", Position: 30},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}

	todo := mp.List(ctx, "Todo")
	want := []string{"c", "a", "b"}
	for n, i := range todo {
		if i.ID != want[n] {
			t.Fatalf("position %d: expected %q, got %q", n, want[n], i.ID)
		}
	}
}

func TestToggleFlagClearsWhenSame(t *testing.T) {
	a := &item.Item{ID: "a", Stage: "Todo", Flag: glyph.None}
	mp := newMemoryPersistence(a)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	toggled, err := svc.ToggleFlag(ctx, "a", glyph.Priority)
	if err != nil {
		t.Fatalf("toggle flag: %v", err)
	}
	if toggled.Flag != glyph.Priority {
		t.Fatalf("expected Priority, got %v", toggled.Flag)
	}

	toggled, err = svc.ToggleFlag(ctx, "a", glyph.Priority)
	if err != nil {
		t.Fatalf("toggle flag: %v", err)
	}
	if toggled.Flag != glyph.None {
		t.Fatalf("expected None after second toggle, got %v", toggled.Flag)
	}
}

func TestDeleteNotFound(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenameStagePreservesOrderAndItems(t *testing.T) {
	mp := newMemoryPersistence(
		&item.Item{ID: "a", Stage: "Doing", Position: 0, Title: "task"},
	)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	for _, name := range []string{"Todo", "Doing", "Done"} {
		if err := mp.EnsureStage(name); err != nil {
			t.Fatalf("ensure stage: %v", err)
		}
	}

	if err := svc.RenameStage(ctx, "Doing", "Active"); err != nil {
		t.Fatalf("rename stage: %v", err)
	}

	metas, err := svc.Stages(ctx)
	if err != nil {
		t.Fatalf("stages: %v", err)
	}
	names := stage.Names(metas)
	want := []string{"Todo", "Active", "Done"}
	for n, name := range names {
		if name != want[n] {
			t.Fatalf("stage %d: expected %q, got %q", n, want[n], name)
		}
	}

	if len(mp.List(ctx, "Doing")) != 0 {
		t.Fatal("expected old stage emptied")
	}
	active := mp.List(ctx, "Active")
	if len(active) != 1 || active[0].ID != "a" {
		t.Fatalf("expected item re-keyed into Active, got %+v", active)
	}

	if err := svc.RenameStage(ctx, "Todo", "Active"); !errors.Is(err, ErrStageExists) {
		t.Fatalf("expected ErrStageExists, got %v", err)
	}
	if err := svc.RenameStage(ctx, "Missing", "Elsewhere"); !errors.Is(err, ErrStageNotFound) {
		t.Fatalf("expected ErrStageNotFound, got %v", err)
	}
}

func TestSetStageLimit(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	if err := mp.EnsureStage("Doing"); err != nil {
		t.Fatalf("ensure stage: %v", err)
	}
	if err := svc.SetStageLimit(ctx, "Doing", 3); err != nil {
		t.Fatalf("set stage limit: %v", err)
	}
	metas, err := svc.Stages(ctx)
	if err != nil {
		t.Fatalf("stages: %v", err)
	}
	if metas[0].Limit != 3 {
		t.Fatalf("expected limit 3, got %d", metas[0].Limit)
	}

	if err := svc.SetStageLimit(ctx, "Missing", 3); !errors.Is(err, ErrStageNotFound) {
		t.Fatalf("expected ErrStageNotFound, got %v", err)
	}
	if err := svc.SetStageLimit(ctx, "Doing", -1); err == nil {
		t.Fatal("expected negative limit error")
	}
}

func TestRemoveStageRefusesNonEmpty(t *testing.T) {
	mp := newMemoryPersistence(&item.Item{ID: "a", Stage: "Done"})
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	if err := svc.RemoveStage(ctx, "Done"); !errors.Is(err, store.ErrStageNotEmpty) {
		t.Fatalf("expected ErrStageNotEmpty, got %v", err)
	}
	if err := svc.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := svc.RemoveStage(ctx, "Done"); err != nil {
		t.Fatalf("remove empty stage: %v", err)
	}
}
