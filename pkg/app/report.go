package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/standup/pkg/item"
)

// ReportItem captures an item that changed stage and when it landed there.
type ReportItem struct {
	Item    *item.Item
	MovedAt time.Time
}

// ReportSection groups moved items by their current stage.
type ReportSection struct {
	Stage string
	Items []ReportItem
}

// ReportResult encapsulates a board activity report for a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
}

// Report returns items that entered their current stage between the provided
// bounds, grouped by stage in board order. Newly added items count as having
// entered their first stage.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	all, err := s.listAll(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	grouped := make(map[string][]ReportItem)
	total := 0
	for _, i := range all {
		if i == nil {
			continue
		}
		movedAt, ok := i.LastMoveTime()
		if !ok {
			continue
		}
		if movedAt.Before(since) || movedAt.After(until) {
			continue
		}
		grouped[i.Stage] = append(grouped[i.Stage], ReportItem{Item: i, MovedAt: movedAt})
		total++
	}

	if len(grouped) == 0 {
		return ReportResult{
			Since: since,
			Until: until,
		}, nil
	}

	ordered := make([]string, 0, len(grouped))
	seen := make(map[string]bool, len(grouped))
	for _, meta := range s.Persistence.StagesMeta(ctx) {
		if _, ok := grouped[meta.Name]; ok {
			ordered = append(ordered, meta.Name)
			seen[meta.Name] = true
		}
	}
	// Stages that fell out of the catalog still report, after the board.
	leftovers := make([]string, 0)
	for name := range grouped {
		if !seen[name] {
			leftovers = append(leftovers, name)
		}
	}
	sort.Strings(leftovers)
	ordered = append(ordered, leftovers...)

	sections := make([]ReportSection, 0, len(ordered))
	for _, name := range ordered {
		items := grouped[name]
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].MovedAt.After(items[b].MovedAt)
		})
		sections = append(sections, ReportSection{
			Stage: name,
			Items: items,
		})
	}

	return ReportResult{
		Since:    since,
		Until:    until,
		Sections: sections,
		Total:    total,
	}, nil
}
