package board

import (
	"testing"

	"tableflip.dev/standup/pkg/item"
)

func TestRenumberAssignsGappedPositions(t *testing.T) {
	items := []*item.Item{
		testItem("a", "Todo", 7),
		testItem("b", "Todo", 7),
		testItem("c", "Todo", 3),
	}
	updates := Renumber(items)

	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	for i, it := range items {
		if it.Position != i*Gap {
			t.Fatalf("item %d: expected position %d, got %d", i, i*Gap, it.Position)
		}
		if updates[i].ItemID != it.ID || updates[i].Position != it.Position {
			t.Fatalf("update %d does not mirror the item: %+v", i, updates[i])
		}
	}
}

func TestNextPosition(t *testing.T) {
	if got := NextPosition(nil); got != 0 {
		t.Fatalf("empty stage should start at 0, got %d", got)
	}
	items := []*item.Item{
		testItem("a", "Todo", 0),
		testItem("b", "Todo", 10),
	}
	if got := NextPosition(items); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
	ragged := []*item.Item{testItem("a", "Todo", 7)}
	if got := NextPosition(ragged); got != 17 {
		t.Fatalf("expected 17, got %d", got)
	}
}

func TestSpliceClampsIndex(t *testing.T) {
	base := []*item.Item{
		testItem("a", "Todo", 0),
		testItem("b", "Todo", 10),
	}
	n := testItem("n", "Todo", 0)

	front := Splice(base, n, -5)
	if front[0].ID != "n" || len(front) != 3 {
		t.Fatalf("negative index should clamp to front: %v", front[0].ID)
	}
	back := Splice(base, n, 99)
	if back[2].ID != "n" {
		t.Fatalf("oversized index should clamp to back: %v", back[2].ID)
	}
	mid := Splice(base, n, 1)
	if mid[0].ID != "a" || mid[1].ID != "n" || mid[2].ID != "b" {
		t.Fatalf("middle insert wrong: %v %v %v", mid[0].ID, mid[1].ID, mid[2].ID)
	}
	if len(base) != 2 {
		t.Fatalf("input slice was modified: %d", len(base))
	}
}
