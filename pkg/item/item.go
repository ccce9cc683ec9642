package item

import (
	"sort"
	"time"

	"tableflip.dev/standup/pkg/glyph"
)

// CurrentSchema marks the newest on-disk item shape. Items read with an
// older or empty schema are normalized on load.
const CurrentSchema = "2"

type HistoryAction string

const (
	HistoryActionAdded HistoryAction = "added"
	HistoryActionMoved HistoryAction = "moved"
)

// HistoryRecord captures one lifecycle event of an item.
type HistoryRecord struct {
	Timestamp Timestamp     `json:"timestamp"`
	Action    HistoryAction `json:"action"`
	From      string        `json:"from,omitempty"`
	To        string        `json:"to,omitempty"`
}

// Item is a single card on the board. Stage names the column it lives in
// and Position is its sort key within that stage.
type Item struct {
	ID       string          `json:"id"`
	Stage    string          `json:"stage"`
	Position int             `json:"position"`
	Kind     glyph.Kind      `json:"kind,omitempty"`
	Flag     glyph.Flag      `json:"flag,omitempty"`
	Title    string          `json:"title,omitempty"`
	Notes    string          `json:"notes,omitempty"`
	Created  Timestamp       `json:"created,omitempty"`
	History  []HistoryRecord `json:"history,omitempty"`
	Schema   string          `json:"schema,omitempty"`
}

func New(stage string, kind glyph.Kind, title string) *Item {
	now := Timestamp{Time: time.Now()}
	i := &Item{
		Stage:   stage,
		Kind:    kind,
		Flag:    glyph.None,
		Title:   title,
		Created: now,
		Schema:  CurrentSchema,
	}
	i.History = append(i.History, HistoryRecord{
		Timestamp: now,
		Action:    HistoryActionAdded,
		To:        stage,
	})
	return i
}

// Clone returns a deep copy. The board engine and caches mutate their
// copies freely without aliasing stored items.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if len(i.History) > 0 {
		c.History = append([]HistoryRecord(nil), i.History...)
	}
	return &c
}

// RecordMove appends a move record so age-in-stage survives restarts.
func (i *Item) RecordMove(from, to string) {
	i.History = append(i.History, HistoryRecord{
		Timestamp: Timestamp{Time: time.Now()},
		Action:    HistoryActionMoved,
		From:      from,
		To:        to,
	})
}

// LastMoveTime reports when the item last changed stage (or was added).
func (i *Item) LastMoveTime() (time.Time, bool) {
	for idx := len(i.History) - 1; idx >= 0; idx-- {
		rec := i.History[idx]
		if rec.Action == HistoryActionMoved || rec.Action == HistoryActionAdded {
			return rec.Timestamp.Time, true
		}
	}
	return time.Time{}, false
}

// Normalize repairs items read from older schemas: a zero Flag predates the
// flag glyph block and must become None, and missing Created falls back to
// the first history record.
func (i *Item) Normalize() {
	if i.Schema == CurrentSchema {
		return
	}
	if int(i.Flag) < int(glyph.Priority) {
		i.Flag = glyph.None
	}
	if i.Created.IsZero() && len(i.History) > 0 {
		i.Created = i.History[0].Timestamp
	}
	i.Schema = CurrentSchema
}

// Sort orders items by stage then position, keeping the incoming order for
// equal keys.
func Sort(items []*Item) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Stage != items[b].Stage {
			return items[a].Stage < items[b].Stage
		}
		return items[a].Position < items[b].Position
	})
}
