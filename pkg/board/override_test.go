package board

import (
	"testing"

	"tableflip.dev/standup/pkg/item"
)

func TestOverrideAgreement(t *testing.T) {
	stage := "Done"
	pos := 10
	o := Override{Stage: &stage, Position: &pos}

	if o.Agrees(&item.Item{Stage: "Done", Position: 0}) {
		t.Fatalf("differing position must not agree")
	}
	if o.Agrees(&item.Item{Stage: "Todo", Position: 10}) {
		t.Fatalf("differing stage must not agree")
	}
	if !o.Agrees(&item.Item{Stage: "Done", Position: 10}) {
		t.Fatalf("matching item must agree")
	}
}

func TestOverrideApplyPartial(t *testing.T) {
	stage := "Doing"
	o := Override{Stage: &stage}
	it := &item.Item{Stage: "Todo", Position: 30}
	o.Apply(it)

	if it.Stage != "Doing" {
		t.Fatalf("stage not applied: %q", it.Stage)
	}
	if it.Position != 30 {
		t.Fatalf("unset position must not change, got %d", it.Position)
	}
}
