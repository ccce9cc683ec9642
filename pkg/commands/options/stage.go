// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/standup/pkg/glyph"
)

// StageOptions captures common stage selection flags for commands.
type StageOptions struct {
	Kind  glyph.Kind
	Stage string
}

// AddStageArgs wires stage-related flags on the provided command.
func AddStageArgs(cmd *cobra.Command, o *StageOptions) {
	cmd.Flags().StringVarP(&o.Stage, "stage", "s", "",
		"Specify the stage.")
}
