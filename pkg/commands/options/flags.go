package options

import (
	"github.com/spf13/cobra"
)

// FlagOptions
type FlagOptions struct {
	Priority bool
	Blocked  bool
	Question bool
}

func AddFlagArgs(cmd *cobra.Command, o *FlagOptions) {
	cmd.Flags().BoolVarP(&o.Priority, "priority", "*", false,
		"Flag the item as priority.")
	cmd.Flags().BoolVarP(&o.Blocked, "blocked", "!", false,
		"Flag the item as blocked.")
	cmd.Flags().BoolVarP(&o.Question, "question", "?", false,
		"Flag the item as an open question.")
}
