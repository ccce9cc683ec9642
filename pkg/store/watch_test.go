package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/item"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func (t testConfig) Stages() []string {
	return []string{"Todo", "Doing", "Done"}
}

func TestPersistenceWatchEmitsStageChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	i := item.New("Todo", glyph.Task, "hello world")
	if err := p.Store(i); err != nil {
		t.Fatalf("store item: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventStagesInvalidated {
				return
			}
			if evt.Type == EventStageChanged {
				if evt.Stage != "Todo" {
					t.Fatalf("expected stage 'Todo', got %q", evt.Stage)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for stage change event")
		}
	}
}
