package item

import (
	"fmt"

	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/timeutil"
)

func (i *Item) String() string {
	return fmt.Sprintf("%s %s  %s", i.Flag.String(), i.Kind.String(), i.Title)
}

// Row returns the flag, kind, title, and age columns for table output.
func (i *Item) Row() (string, string, string, string) {
	return i.Flag.String(), i.Kind.String(), i.Title, i.Age()
}

// Age renders a compact age since the item entered its current stage.
func (i *Item) Age() string {
	moved, ok := i.LastMoveTime()
	if !ok {
		return ""
	}
	return timeutil.Age(moved)
}
