// Package activity provides runners that summarize board movement over time.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/standup/pkg/printers"
	"tableflip.dev/standup/pkg/store"
)

// Activity renders a calendar of stage changes from item history.
type Activity struct {
	Year bool
	Demo bool

	Persistence store.Persistence
}

func (n *Activity) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if n.Demo {
		fmt.Println("")
		pp.PrintMonthDemo(time.Now())
		return nil
	}

	if n.Persistence == nil {
		return errors.New("can not get activity, no persistence")
	}
	fmt.Println("")

	all := n.Persistence.ListAll(ctx)
	if n.Year {
		pp.ActivityYear(all...)
		return nil
	}
	pp.Activity(time.Now(), all...)

	return nil
}
