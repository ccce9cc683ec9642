package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/standup/pkg/runner/activity"
	"tableflip.dev/standup/pkg/store"
)

func addActivity(topLevel *cobra.Command) {
	year := false
	demo := false
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show a calendar of days the board moved",
		Example: `
standup activity
standup activity --year
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			a := activity.Activity{
				Year:        year,
				Demo:        demo,
				Persistence: p,
			}
			err = a.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().BoolVarP(&year, "year", "y", false, "Show every month of the year.")
	cmd.Flags().BoolVar(&demo, "demo", false, "Show a month of random activity.")

	topLevel.AddCommand(cmd)
}
