package printers

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/stage"
)

type PrettyPrint struct {
	ShowID bool
}

// NewPretty returns a printer that degrades to plain text when stdout is not
// a color-capable terminal.
func NewPretty() *PrettyPrint {
	if termenv.EnvColorProfile() == termenv.Ascii || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return &PrettyPrint{}
}

var (
	spacing = strings.Repeat(" ", len("8f14e45fceea  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" item")
	default:
		_, _ = c.Println(" items")
	}
}

// StageTitle prints a stage heading with its item count, marking stages over
// their advisory limit.
func (pp *PrettyPrint) StageTitle(meta stage.Meta, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)
	w := color.New(color.FgHiRed, color.Bold)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(meta.Name)
	_, _ = c.Printf(" - %d", count)
	switch count {
	case 1:
		_, _ = c.Print(" item")
	default:
		_, _ = c.Print(" items")
	}
	if meta.Limit > 0 && count > meta.Limit {
		_, _ = w.Printf(" over limit %d", meta.Limit)
	}
	fmt.Println("")
}

func (pp *PrettyPrint) Stage(items ...*item.Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	t := color.New()
	f := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, i := range items {
		if pp.ShowID {
			id := shortID(i.ID)
			_, _ = y.Print(id)
			_, _ = y.Print(strings.Repeat(" ", len(spacing)-len(id)))
		}
		flag, kind, title, age := i.Row()
		_, _ = t.Printf("%s %s %s", flag, kind, title)
		if age != "" {
			_, _ = f.Printf("  %s", age)
		}
		_, _ = t.Println("")
	}
	_, _ = t.Println("")
}

// shortID trims ids for listings; commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
