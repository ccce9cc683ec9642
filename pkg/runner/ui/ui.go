// Package ui launches the interactive board.
package ui

import (
	"context"
	"errors"

	"tableflip.dev/standup/pkg/app"
	"tableflip.dev/standup/pkg/store"
	tuiapp "tableflip.dev/standup/pkg/tui/app"
)

type UI struct {
	// Stages seeds the board columns on first run.
	Stages []string

	Persistence store.Persistence
}

func (n *UI) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not open the board, no persistence")
	}

	svc := &app.Service{Persistence: n.Persistence}
	if len(n.Stages) > 0 {
		if err := svc.EnsureStages(ctx, n.Stages); err != nil {
			return err
		}
	}

	return tuiapp.Run(svc)
}
