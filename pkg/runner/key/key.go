// Package key provides CLI helpers to display the board legend.
package key

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/standup/pkg/glyph"
)

// Key prints a glyph legend describing kinds and flags, and the board key
// bindings.
type Key struct{}

// Do renders the kind, flag, and gesture keys to stdout.
func (k *Key) Do(ctx context.Context) error {
	_, _ = fmt.Fprintln(color.Output, "")

	glyphs := glyph.DefaultGlyphs()
	kinds := make([]glyph.Glyph, 0, len(glyphs))
	flags := make([]glyph.Glyph, 0, len(glyphs))
	for _, v := range glyphs {
		if strings.TrimSpace(v.Symbol) == "" {
			continue
		}
		if v.Flag {
			flags = append(flags, v)
		} else {
			kinds = append(kinds, v)
		}
	}

	k.Key(ctx, kinds, false)
	_, _ = fmt.Fprintln(color.Output, "")

	k.Key(ctx, flags, true)
	_, _ = fmt.Fprintln(color.Output, "")

	k.Gestures(ctx)

	fmt.Println("")
	return nil
}

// Key renders a glyph table; when flag is true, flags are shown.
func (k *Key) Key(_ context.Context, glyfs []glyph.Glyph, flag bool) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	if flag {
		tbl.AddRow(bold.Sprint(" Flags"), bold.Sprint("Meaning"))
	} else {
		tbl.AddRow(bold.Sprint(" Kinds"), bold.Sprint("Meaning"))
	}
	for _, v := range glyfs {
		tbl.AddRow(fmt.Sprintf("%s %s", v.Symbol, v.Key), v.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Gestures renders the board key bindings used by the ui command.
func (k *Key) Gestures(_ context.Context) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("       Board"), bold.Sprint("Action"))
	for _, row := range [][2]string{
		{"j / k", "cursor down / up, hover while dragging"},
		{"h / l", "cursor across stages, hover while dragging"},
		{"space, enter", "grab the item under the cursor, drop it again"},
		{"esc", "cancel a drag without moving anything"},
		{"a", "add an item to the current stage"},
		{"e", "edit the current item's title"},
		{"d d", "delete the current item"},
		{"b", "cycle the current item's kind"},
		{"*", "toggle the priority flag"},
		{"!", "toggle the blocked flag"},
		{"r", "refresh from storage"},
		{":", "command mode"},
		{"?", "help"},
		{"q", "quit"},
	} {
		tbl.AddRow(row[0], row[1])
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(color.Output, tbl)
}
