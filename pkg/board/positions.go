package board

import "tableflip.dev/standup/pkg/item"

// Gap is the spacing between consecutive positions after a renumber.
// Commits rewrite the whole stage, so the gap only needs to leave room for
// out-of-band writers between two renumbers.
const Gap = 10

// PositionUpdate names one item's new position within a stage.
type PositionUpdate struct {
	ItemID   string
	Position int
}

// Renumber assigns dense gapped positions (0, Gap, 2*Gap, ...) to items in
// their current order, mutating them and returning the update list to send.
func Renumber(items []*item.Item) []PositionUpdate {
	updates := make([]PositionUpdate, 0, len(items))
	for i, it := range items {
		it.Position = i * Gap
		updates = append(updates, PositionUpdate{ItemID: it.ID, Position: it.Position})
	}
	return updates
}

// NextPosition returns a position sorting after every given item.
func NextPosition(items []*item.Item) int {
	pos := 0
	for _, it := range items {
		if it.Position+Gap > pos {
			pos = it.Position + Gap
		}
	}
	return pos
}

// Splice inserts it into items at index, clamping the index to the slice
// bounds. The input slice is not modified.
func Splice(items []*item.Item, it *item.Item, index int) []*item.Item {
	if index < 0 {
		index = 0
	}
	if index > len(items) {
		index = len(items)
	}
	out := make([]*item.Item, 0, len(items)+1)
	out = append(out, items[:index]...)
	out = append(out, it)
	out = append(out, items[index:]...)
	return out
}
