package columns

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/muesli/reflow/ansi"

	"tableflip.dev/standup/pkg/board"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/tui/theme"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func makeItem(id, stageName, title string) *item.Item {
	return &item.Item{
		ID:     id,
		Stage:  stageName,
		Kind:   glyph.Task,
		Flag:   glyph.None,
		Title:  title,
		Schema: item.CurrentSchema,
	}
}

func TestViewRendersColumnHeadersAndCards(t *testing.T) {
	model := New(theme.Default().Board)
	model.SetSize(100, 12)
	model.SetColumns([]Column{
		{Meta: stage.Meta{Name: "Todo", Order: 1}, Items: []*item.Item{
			makeItem("a1", "Todo", "Fix login redirect"),
			makeItem("a2", "Todo", "Write release notes"),
		}},
		{Meta: stage.Meta{Name: "Doing", Order: 2, Limit: 1}, Items: []*item.Item{
			makeItem("b1", "Doing", "Refactor watcher"),
			makeItem("b2", "Doing", "Spike retry budget"),
		}},
		{Meta: stage.Meta{Name: "Done", Order: 3}},
	})

	plain := stripANSIString(model.View())
	for _, want := range []string{
		"Todo (2)",
		"Doing (2/1)",
		"Done (0)",
		"Fix login redirect",
		"Write release notes",
		"Refactor watcher",
		"<empty>",
	} {
		if !strings.Contains(plain, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, plain)
		}
	}
}

func TestViewKeepsCursorVisibleWhenColumnScrolls(t *testing.T) {
	items := make([]*item.Item, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, makeItem(
			fmt.Sprintf("card-%02d", i),
			"Todo",
			fmt.Sprintf("Backlog grooming pass%02d", i),
		))
	}

	model := New(theme.Default().Board)
	model.SetSize(40, 8)
	model.SetColumns([]Column{{Meta: stage.Meta{Name: "Todo"}, Items: items}})
	model.SetCursor(Cursor{Stage: 0, Item: 11})

	plain := stripANSIString(model.View())
	if !strings.Contains(plain, "→") {
		t.Fatalf("expected cursor marker in view, got:\n%s", plain)
	}
	if !strings.Contains(plain, "pass11") {
		t.Fatalf("expected focused card to be visible, got:\n%s", plain)
	}
	if strings.Contains(plain, "pass00") {
		t.Fatalf("expected the first card to scroll off, got:\n%s", plain)
	}
	if model.scroll[0] == 0 {
		t.Fatalf("expected the column to scroll, scroll=%d", model.scroll[0])
	}
}

func TestViewRendersDropIndicatorAndGhost(t *testing.T) {
	todo := []*item.Item{
		makeItem("t1", "Todo", "Charter draft"),
		makeItem("t2", "Todo", "Interview notes"),
	}
	doing := []*item.Item{makeItem("d1", "Doing", "Prototype sync")}

	model := New(theme.Default().Board)
	model.SetSize(60, 10)
	model.SetColumns([]Column{
		{Meta: stage.Meta{Name: "Todo"}, Items: todo},
		{Meta: stage.Meta{Name: "Doing"}, Items: doing},
	})

	model.SetDrag("t2", &board.Indicator{
		Kind:      board.TargetItem,
		TargetID:  "d1",
		Placement: board.PlaceBefore,
	})
	plain := stripANSIString(model.View())
	line := strings.Repeat("╌", model.colWidth)
	if !strings.Contains(plain, line) {
		t.Fatalf("expected a drop indicator line, got:\n%s", plain)
	}
	if !strings.Contains(plain, "Interview notes") {
		t.Fatalf("expected the grabbed card to stay listed, got:\n%s", plain)
	}

	model.SetDrag("t2", &board.Indicator{
		Kind:      board.TargetStage,
		TargetID:  "Doing",
		Placement: board.PlaceEnd,
	})
	plain = stripANSIString(model.View())
	if !strings.Contains(plain, line) {
		t.Fatalf("expected an end-of-column indicator line, got:\n%s", plain)
	}
}

func TestCardRowShowsCompactAge(t *testing.T) {
	it := item.New("Todo", glyph.Task, "Ship the changelog")
	it.History[0].Timestamp = item.Timestamp{Time: time.Now().Add(-48 * time.Hour)}

	model := New(theme.Default().Board)
	model.SetSize(40, 8)
	model.SetColumns([]Column{{Meta: stage.Meta{Name: "Todo"}, Items: []*item.Item{it}}})

	plain := stripANSIString(model.View())
	if !strings.Contains(plain, "2d") {
		t.Fatalf("expected the card age column, got:\n%s", plain)
	}
}
