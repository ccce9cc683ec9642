package add

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/standup/pkg/app"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/printers"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/store"
)

type Add struct {
	Kind     glyph.Kind
	Stage    string
	Title    string
	Priority bool
	Blocked  bool
	Question bool

	ShowID bool

	Persistence store.Persistence
}

func (n *Add) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not add, no persistence")
	}

	stageName := strings.TrimSpace(n.Stage)
	if stageName == "" {
		metas := n.Persistence.StagesMeta(ctx)
		if len(metas) == 0 {
			return errors.New("can not add, the board has no stages")
		}
		stageName = metas[0].Name
	}

	flag := glyph.None
	switch {
	case n.Priority:
		flag = glyph.Priority
	case n.Blocked:
		flag = glyph.Blocked
	case n.Question:
		flag = glyph.Question
	}

	svc := app.Service{Persistence: n.Persistence}
	added, err := svc.Add(ctx, stageName, n.Kind, n.Title, flag)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")
	all := n.Persistence.List(ctx, added.Stage)
	pp.StageTitle(stage.MetaFor(n.Persistence.StagesMeta(ctx), added.Stage), len(all))
	pp.Stage(all...)

	return nil
}
