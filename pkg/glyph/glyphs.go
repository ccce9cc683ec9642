package glyph

import "fmt"

type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
	Flag    bool
}

const (
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	italicCode    = 3
	underlineCode = 4
	strikeCode    = 9
)

func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underlineCode, in, escape, resetCode)
}

func DefaultGlyphs() []Glyph {
	g := make([]Glyph, 0, 9)

	g = append(g, Glyph{
		Key:     "+",
		Symbol:  "●",
		Meaning: "task",
		Flag:    false,
	}, Glyph{
		Key:     "x",
		Symbol:  "✘",
		Meaning: "bug",
		Flag:    false,
	}, Glyph{
		Key:     "-",
		Symbol:  "⁃",
		Meaning: "chore",
	}, Glyph{
		Key:     "o",
		Symbol:  "○",
		Meaning: "spike",
	}, Glyph{
		Key:     "",
		Symbol:  "",
		Meaning: "any",
	}, Glyph{
		Key:     "*",
		Symbol:  "✷",
		Meaning: "priority",
		Flag:    true,
	}, Glyph{
		Key:     "!",
		Symbol:  "!",
		Meaning: "blocked",
		Flag:    true,
	}, Glyph{
		Key:     "?",
		Symbol:  "?",
		Meaning: "question",
		Flag:    true,
	}, Glyph{
		Key:     " ",
		Symbol:  " ",
		Meaning: "none",
		Flag:    true,
	})

	return g
}

func (g Glyph) String() string {
	return g.Symbol
}

type Kind int
type Flag int

const (
	Task Kind = iota
	Bug
	Chore
	Spike
	Any
	Priority Flag = iota
	Blocked
	Question
	None
)

func (k Kind) Glyph() Glyph {
	return DefaultGlyphs()[k]
}

func (k Kind) String() string {
	return k.Glyph().String()
}

func (f Flag) Glyph() Glyph {
	return DefaultGlyphs()[f]
}

func (f Flag) String() string {
	return f.Glyph().String()
}

// ParseKind maps a kind name or key ("task", "+") to its Kind.
func ParseKind(v string) (Kind, error) {
	for _, k := range []Kind{Task, Bug, Chore, Spike} {
		g := k.Glyph()
		if v == g.Meaning || v == g.Key {
			return k, nil
		}
	}
	return Task, fmt.Errorf("unknown kind %q", v)
}

// ParseFlag maps a flag name or key ("priority", "*") to its Flag.
func ParseFlag(v string) (Flag, error) {
	if v == "" {
		return None, nil
	}
	for _, f := range []Flag{Priority, Blocked, Question, None} {
		g := f.Glyph()
		if v == g.Meaning || v == g.Key {
			return f, nil
		}
	}
	return None, fmt.Errorf("unknown flag %q", v)
}
