package board

import "tableflip.dev/standup/pkg/item"

// Override is an optimistic partial patch for one item, held until the
// store confirms it. Commits register the stage; Position exists for
// callers that also pin an exact slot. There is no expiry: only an
// agreeing snapshot deletes an override.
type Override struct {
	Stage    *string
	Position *int
}

// Agrees reports whether the snapshot item matches every field the
// override carries.
func (o Override) Agrees(it *item.Item) bool {
	if o.Stage != nil && it.Stage != *o.Stage {
		return false
	}
	if o.Position != nil && it.Position != *o.Position {
		return false
	}
	return true
}

// Apply lays the override's fields over the item.
func (o Override) Apply(it *item.Item) {
	if o.Stage != nil {
		it.Stage = *o.Stage
	}
	if o.Position != nil {
		it.Position = *o.Position
	}
}
