package move

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/standup/pkg/app"
	"tableflip.dev/standup/pkg/board"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/printers"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/store"
)

type Move struct {
	ID     string
	Stage  string
	Before string
	After  string
	Top    bool
	Bottom bool

	ShowID bool

	Persistence store.Persistence
}

func (n *Move) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not move, no persistence")
	}

	svc := app.Service{Persistence: n.Persistence}
	i, err := svc.Resolve(ctx, n.ID)
	if err != nil {
		return err
	}

	target := n.Stage
	if target == "" {
		target = i.Stage
	}
	if target != i.Stage {
		if i, err = svc.MoveItem(ctx, i.ID, target); err != nil {
			return err
		}
	} else if n.Before == "" && n.After == "" && !n.Top && !n.Bottom {
		return errors.New("can not move, need a stage or a placement")
	}

	all := n.Persistence.List(ctx, target)
	rest := make([]*item.Item, 0, len(all))
	for _, a := range all {
		if a.ID != i.ID {
			rest = append(rest, a)
		}
	}

	// A cross-stage move without a placement keeps the tail slot MoveItem
	// assigned.
	idx := len(rest)
	switch {
	case n.Top:
		idx = 0
	case n.Bottom:
		idx = len(rest)
	case n.Before != "":
		if idx, err = n.anchor(ctx, svc, rest, target, n.Before); err != nil {
			return err
		}
	case n.After != "":
		if idx, err = n.anchor(ctx, svc, rest, target, n.After); err != nil {
			return err
		}
		idx++
	}

	ordered := board.Splice(rest, i, idx)
	if err := svc.Reorder(ctx, board.Renumber(ordered)); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")
	final := n.Persistence.List(ctx, target)
	pp.StageTitle(stage.MetaFor(n.Persistence.StagesMeta(ctx), target), len(final))
	pp.Stage(final...)

	return nil
}

// anchor resolves an id prefix to its index within rest, requiring the
// referenced item to live in the target stage.
func (n *Move) anchor(ctx context.Context, svc app.Service, rest []*item.Item, target, prefix string) (int, error) {
	ref, err := svc.Resolve(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if ref.Stage != target {
		return 0, fmt.Errorf("item %s is in %q, not %q", prefix, ref.Stage, target)
	}
	for at, a := range rest {
		if a.ID == ref.ID {
			return at, nil
		}
	}
	return len(rest), nil
}
