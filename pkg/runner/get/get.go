package get

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/standup/pkg/app"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/printers"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/store"
	"tableflip.dev/standup/pkg/timeutil"
)

type Get struct {
	ShowID bool
	Kind   glyph.Kind
	Stage  string

	// Since narrows output to items that changed stage inside the window,
	// Stale to items that have not moved since the window opened. Both take
	// values like "24h" or "1w".
	Since string
	Stale string

	Persistence store.Persistence
}

func (n *Get) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not get, no persistence")
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")

	if n.Since != "" {
		return n.report(ctx, pp)
	}
	if n.Stale != "" {
		return n.stale(ctx, pp)
	}

	metas := n.Persistence.StagesMeta(ctx)

	if n.Stage != "" {
		all := n.filtered(n.Persistence.List(ctx, n.Stage))
		pp.StageTitle(stage.MetaFor(metas, n.Stage), len(all))
		pp.Stage(all...)
		return nil
	}

	for _, m := range metas {
		all := n.filtered(n.Persistence.List(ctx, m.Name))
		pp.StageTitle(m, len(all))
		pp.Stage(all...)
	}

	return nil
}

func (n *Get) report(ctx context.Context, pp printers.PrettyPrint) error {
	window, canonical, err := timeutil.ParseWindow(n.Since)
	if err != nil {
		return err
	}

	svc := app.Service{Persistence: n.Persistence}
	until := time.Now()
	res, err := svc.Report(ctx, until.Add(-window), until)
	if err != nil {
		return err
	}

	pp.TitleWithCount(fmt.Sprintf("moved in the last %s", canonical), res.Total)
	pp.NewLine()
	for _, sec := range res.Sections {
		items := make([]*item.Item, 0, len(sec.Items))
		for _, ri := range sec.Items {
			items = append(items, ri.Item)
		}
		items = n.filtered(items)
		pp.Title(sec.Stage)
		pp.Stage(items...)
	}

	return nil
}

func (n *Get) stale(ctx context.Context, pp printers.PrettyPrint) error {
	window, canonical, err := timeutil.ParseWindow(n.Stale)
	if err != nil {
		return err
	}

	svc := app.Service{Persistence: n.Persistence}
	found, err := svc.Stale(ctx, time.Now().Add(-window))
	if err != nil {
		return err
	}

	items := make([]*item.Item, 0, len(found))
	for _, si := range found {
		items = append(items, si.Item)
	}
	items = n.filtered(items)

	pp.TitleWithCount(fmt.Sprintf("untouched for %s or more", canonical), len(items))
	pp.Stage(items...)

	return nil
}

func (n *Get) filtered(all []*item.Item) []*item.Item {
	c := make([]*item.Item, 0, len(all))
	for _, a := range all {
		if n.Kind == glyph.Any || n.Kind == a.Kind {
			c = append(c, a)
		}
	}
	return c
}
