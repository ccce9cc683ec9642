package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"tableflip.dev/standup/pkg/item"
)

// StaleItem represents an item that has sat in its stage past the review
// cutoff and deserves a mention in standup.
type StaleItem struct {
	Item        *item.Item
	LastTouched time.Time
}

// Stale returns items whose last stage change predates cutoff, oldest first.
// Items in the final stage are excluded: finished work is allowed to sit.
// LastTouched reflects the most recent history record (or creation time).
func (s *Service) Stale(ctx context.Context, cutoff time.Time) ([]StaleItem, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}

	all, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	finalStage := ""
	if metas := s.Persistence.StagesMeta(ctx); len(metas) > 0 {
		finalStage = metas[len(metas)-1].Name
	}

	results := make([]StaleItem, 0, len(all))
	for _, i := range all {
		if i == nil || i.ID == "" {
			continue
		}
		if finalStage != "" && i.Stage == finalStage {
			continue
		}
		last := lastTouchedAt(i)
		if last.IsZero() || !last.Before(cutoff) {
			continue
		}
		results = append(results, StaleItem{
			Item:        i,
			LastTouched: last,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		la := results[a].LastTouched
		lb := results[b].LastTouched
		if la.Equal(lb) {
			return strings.Compare(results[a].Item.Stage, results[b].Item.Stage) < 0
		}
		return la.Before(lb)
	})

	return results, nil
}

func lastTouchedAt(i *item.Item) time.Time {
	if i == nil {
		return time.Time{}
	}
	latest := i.Created.Time
	for _, record := range i.History {
		ts := record.Timestamp.Time
		if ts.IsZero() {
			continue
		}
		if latest.IsZero() || ts.After(latest) {
			latest = ts
		}
	}
	return latest
}
