// Package stages contains runners for stage management commands.
package stages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/standup/pkg/app"
	"tableflip.dev/standup/pkg/store"
)

// List prints the stage catalog in board order.
type List struct {
	Persistence store.Persistence
}

func (l *List) Do(ctx context.Context) error {
	if l.Persistence == nil {
		return errors.New("can not list stages, no persistence")
	}

	bold := color.New(color.Bold)

	table := uitable.New()
	table.Separator = "  "
	table.AddRow(bold.Sprint("STAGE"), bold.Sprint("ITEMS"), bold.Sprint("LIMIT"))
	for _, m := range l.Persistence.StagesMeta(ctx) {
		limit := "-"
		if m.Limit > 0 {
			limit = fmt.Sprintf("%d", m.Limit)
		}
		table.AddRow(m.Name, fmt.Sprintf("%d", len(l.Persistence.List(ctx, m.Name))), limit)
	}

	fmt.Println("")
	fmt.Println(table)
	return nil
}

// Add configures the parameters for `standup stages add`.
type Add struct {
	Name        string
	Limit       int
	Persistence store.Persistence
}

func (a *Add) Do(ctx context.Context) error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return errors.New("stage name is required")
	}
	if a.Persistence == nil {
		return errors.New("can not add stage, no persistence")
	}

	svc := app.Service{Persistence: a.Persistence}
	if err := svc.EnsureStage(ctx, name); err != nil {
		return err
	}
	if a.Limit > 0 {
		if err := svc.SetStageLimit(ctx, name, a.Limit); err != nil {
			return err
		}
	}

	fmt.Printf("Stage %q added to the board\n", name)
	return nil
}

// Rename configures the parameters for `standup stages rename`.
type Rename struct {
	From        string
	To          string
	Persistence store.Persistence
}

func (r *Rename) Do(ctx context.Context) error {
	from := strings.TrimSpace(r.From)
	to := strings.TrimSpace(r.To)
	if from == "" || to == "" {
		return errors.New("old and new stage names are required")
	}
	if r.Persistence == nil {
		return errors.New("can not rename stage, no persistence")
	}

	svc := app.Service{Persistence: r.Persistence}
	if err := svc.RenameStage(ctx, from, to); err != nil {
		return err
	}

	fmt.Printf("Stage %q renamed to %q\n", from, to)
	return nil
}

// Remove configures the parameters for `standup stages rm`.
type Remove struct {
	Name        string
	Persistence store.Persistence
}

func (r *Remove) Do(ctx context.Context) error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("stage name is required")
	}
	if r.Persistence == nil {
		return errors.New("can not remove stage, no persistence")
	}

	svc := app.Service{Persistence: r.Persistence}
	if err := svc.RemoveStage(ctx, name); err != nil {
		if errors.Is(err, store.ErrStageNotEmpty) {
			return fmt.Errorf("stage %q still has items, move them first", name)
		}
		return err
	}

	fmt.Printf("Stage %q removed from the board\n", name)
	return nil
}

// Limit configures the parameters for `standup stages limit`.
type Limit struct {
	Name        string
	Limit       int
	Persistence store.Persistence
}

func (l *Limit) Do(ctx context.Context) error {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return errors.New("stage name is required")
	}
	if l.Persistence == nil {
		return errors.New("can not set limit, no persistence")
	}

	svc := app.Service{Persistence: l.Persistence}
	if err := svc.SetStageLimit(ctx, name, l.Limit); err != nil {
		return err
	}

	if l.Limit == 0 {
		fmt.Printf("Stage %q limit cleared\n", name)
	} else {
		fmt.Printf("Stage %q limited to %d items\n", name, l.Limit)
	}
	return nil
}
