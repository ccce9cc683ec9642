package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/standup/pkg/timeutil"
)

// WindowOptions
type WindowOptions struct {
	Since string
	Stale string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVar(&o.Since, "since", "",
		`Only show items that changed stage inside the window, example: --since=24h.`)
	cmd.Flags().StringVar(&o.Stale, "stale", "",
		`Only show items that have not moved for the window, example: --stale=2w.`)
	cmd.Flags().Lookup("stale").NoOptDefVal = timeutil.DefaultWindow
}
