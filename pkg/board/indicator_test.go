package board

import "testing"

func TestResolveStageTarget(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")

	e.DragOver("Done")
	ind := e.Indicator()
	if ind == nil || ind.Kind != TargetStage || ind.TargetID != "Done" || ind.Placement != PlaceEnd {
		t.Fatalf("unexpected indicator: %+v", ind)
	}
}

func TestResolveItemInOtherStage(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")

	e.DragOver("c")
	ind := e.Indicator()
	if ind == nil || ind.Kind != TargetItem || ind.TargetID != "c" || ind.Placement != PlaceAfter {
		t.Fatalf("unexpected indicator: %+v", ind)
	}
}

func TestResolveSameStagePlacement(t *testing.T) {
	e, _ := newTestEngine()

	e.DragStart("a")
	e.DragOver("b")
	if ind := e.Indicator(); ind == nil || ind.Placement != PlaceAfter {
		t.Fatalf("dragging down should place after, got %+v", ind)
	}
	e.Cancel()

	e.DragStart("b")
	e.DragOver("a")
	if ind := e.Indicator(); ind == nil || ind.Placement != PlaceBefore {
		t.Fatalf("dragging up should place before, got %+v", ind)
	}
}

func TestResolveSelfAndUnknownAreNil(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")

	e.DragOver("a")
	if e.Indicator() != nil {
		t.Fatalf("hovering the dragged item must clear the indicator")
	}
	e.DragOver("nope")
	if e.Indicator() != nil {
		t.Fatalf("unknown target must clear the indicator")
	}
	e.DragOver("")
	if e.Indicator() != nil {
		t.Fatalf("empty target must clear the indicator")
	}
}

func TestIndicatorSurvivesUntilNextHover(t *testing.T) {
	e, _ := newTestEngine()
	e.DragStart("a")

	e.DragOver("b")
	first := e.Indicator()
	e.DragOver("c")
	second := e.Indicator()
	if first == nil || second == nil || first.TargetID == second.TargetID {
		t.Fatalf("indicator should track the latest hover: %+v then %+v", first, second)
	}
}
