package options

import (
	"github.com/spf13/cobra"
)

// MoveOptions
type MoveOptions struct {
	Stage  string
	Before string
	After  string
	Top    bool
	Bottom bool
}

func AddMoveArgs(cmd *cobra.Command, o *MoveOptions) {
	cmd.Flags().StringVar(&o.Before, "before", "",
		"Place the item before another item, by id.")
	cmd.Flags().StringVar(&o.After, "after", "",
		"Place the item after another item, by id.")
	cmd.Flags().BoolVar(&o.Top, "top", false,
		"Place the item at the top of the stage.")
	cmd.Flags().BoolVar(&o.Bottom, "bottom", false,
		"Place the item at the bottom of the stage.")
}
