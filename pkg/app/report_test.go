package app

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/standup/pkg/item"
)

func recordAt(ts time.Time, action item.HistoryAction, from, to string) item.HistoryRecord {
	return item.HistoryRecord{
		Timestamp: item.Timestamp{Time: ts},
		Action:    action,
		From:      from,
		To:        to,
	}
}

func TestReportGroupsByBoardOrder(t *testing.T) {
	now := time.Now()
	a := &item.Item{ID: "a", Stage: "Done", Title: "shipped", History: []item.HistoryRecord{
		recordAt(now.Add(-30*time.Hour), item.HistoryActionAdded, "", "Todo"),
		recordAt(now.Add(-1*time.Hour), item.HistoryActionMoved, "Doing", "Done"),
	}}
	b := &item.Item{ID: "b", Stage: "Doing", Title: "started", History: []item.HistoryRecord{
		recordAt(now.Add(-2*time.Hour), item.HistoryActionMoved, "Todo", "Doing"),
	}}
	c := &item.Item{ID: "c", Stage: "Todo", Title: "old news", History: []item.HistoryRecord{
		recordAt(now.Add(-50*time.Hour), item.HistoryActionAdded, "", "Todo"),
	}}
	mp := newMemoryPersistence(a, b, c)
	for _, name := range []string{"Todo", "Doing", "Done"} {
		if err := mp.EnsureStage(name); err != nil {
			t.Fatalf("ensure stage: %v", err)
		}
	}
	svc := &Service{Persistence: mp}

	result, err := svc.Report(context.Background(), now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 moved items, got %d", result.Total)
	}
	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}
	if result.Sections[0].Stage != "Doing" || result.Sections[1].Stage != "Done" {
		t.Fatalf("expected board order Doing, Done; got %s, %s",
			result.Sections[0].Stage, result.Sections[1].Stage)
	}
	if result.Sections[0].Items[0].Item.ID != "b" {
		t.Fatalf("expected item b in Doing section, got %q", result.Sections[0].Items[0].Item.ID)
	}
}

func TestReportSwapsBounds(t *testing.T) {
	now := time.Now()
	a := &item.Item{ID: "a", Stage: "Doing", History: []item.HistoryRecord{
		recordAt(now.Add(-time.Hour), item.HistoryActionMoved, "Todo", "Doing"),
	}}
	mp := newMemoryPersistence(a)
	svc := &Service{Persistence: mp}

	result, err := svc.Report(context.Background(), now, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected swapped bounds to still match, got total %d", result.Total)
	}
	if !result.Since.Before(result.Until) {
		t.Fatal("expected normalized bounds")
	}
}

func TestStaleOldestFirstExcludesFinalStage(t *testing.T) {
	now := time.Now()
	a := &item.Item{ID: "a", Stage: "Doing", Title: "stuck", History: []item.HistoryRecord{
		recordAt(now.Add(-10*24*time.Hour), item.HistoryActionAdded, "", "Doing"),
	}}
	b := &item.Item{ID: "b", Stage: "Todo", Title: "waiting", History: []item.HistoryRecord{
		recordAt(now.Add(-3*24*time.Hour), item.HistoryActionAdded, "", "Todo"),
	}}
	c := &item.Item{ID: "c", Stage: "Done", Title: "finished long ago", History: []item.HistoryRecord{
		recordAt(now.Add(-30*24*time.Hour), item.HistoryActionAdded, "", "Done"),
	}}
	d := &item.Item{ID: "d", Stage: "Doing", Title: "fresh", History: []item.HistoryRecord{
		recordAt(now.Add(-time.Hour), item.HistoryActionAdded, "", "Doing"),
	}}
	mp := newMemoryPersistence(a, b, c, d)
	for _, name := range []string{"Todo", "Doing", "Done"} {
		if err := mp.EnsureStage(name); err != nil {
			t.Fatalf("ensure stage: %v", err)
		}
	}
	svc := &Service{Persistence: mp}

	stale, err := svc.Stale(context.Background(), now.Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("stale: %v", err)
	}
	if len(stale) != 2 {
		t.Fatalf("expected 2 stale items, got %d", len(stale))
	}
	if stale[0].Item.ID != "a" {
		t.Fatalf("expected oldest item first, got %q", stale[0].Item.ID)
	}
	if stale[1].Item.ID != "b" {
		t.Fatalf("expected item b second, got %q", stale[1].Item.ID)
	}
}
