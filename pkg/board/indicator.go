package board

// TargetKind says what a drop indicator points at.
type TargetKind int

const (
	TargetItem TargetKind = iota
	TargetStage
)

// Placement positions the drop relative to the target.
type Placement int

const (
	PlaceBefore Placement = iota
	PlaceAfter
	PlaceEnd
)

func (p Placement) String() string {
	switch p {
	case PlaceBefore:
		return "before"
	case PlaceAfter:
		return "after"
	default:
		return "end"
	}
}

// Indicator describes where the dragged item would land if dropped now.
type Indicator struct {
	Kind      TargetKind
	TargetID  string
	Placement Placement
}

// resolve maps a hovered target id to a drop indicator against the current
// working copy. Hovering a stage lands at its end; an item in another stage
// lands after it; an item in the dragged item's own stage lands after it
// when the dragged item sits above it and before it otherwise. The dragged
// item itself and unknown ids resolve to nil.
func (e *Engine) resolve(targetID string) *Indicator {
	s := e.session
	if s == nil || targetID == "" || targetID == s.itemID {
		return nil
	}

	if e.stageSet[targetID] {
		return &Indicator{Kind: TargetStage, TargetID: targetID, Placement: PlaceEnd}
	}

	over := e.find(targetID)
	if over == nil {
		return nil
	}
	dragged := e.find(s.itemID)
	if dragged == nil {
		return nil
	}

	if over.Stage != dragged.Stage {
		return &Indicator{Kind: TargetItem, TargetID: targetID, Placement: PlaceAfter}
	}

	peers := e.ItemsIn(over.Stage)
	activeIndex := indexOfID(peers, dragged.ID)
	overIndex := indexOfID(peers, over.ID)
	placement := PlaceBefore
	if activeIndex < overIndex {
		placement = PlaceAfter
	}
	return &Indicator{Kind: TargetItem, TargetID: targetID, Placement: placement}
}
