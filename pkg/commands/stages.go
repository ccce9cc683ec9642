package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/standup/pkg/runner/stages"
	"tableflip.dev/standup/pkg/store"
)

func addStages(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stages",
		Short: "Manage the stages of the board",
		Example: `
standup stages
standup stages add Review --limit 3
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			persist, err := store.Load(nil)
			if err != nil {
				return err
			}

			r := stages.List{Persistence: persist}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.AddCommand(newStagesAddCmd())
	cmd.AddCommand(newStagesRenameCmd())
	cmd.AddCommand(newStagesRemoveCmd())
	cmd.AddCommand(newStagesLimitCmd())

	topLevel.AddCommand(cmd)
}

func newStagesAddCmd() *cobra.Command {
	var limit int
	addCmd := &cobra.Command{
		Use:   "add <stage>",
		Short: "Add a stage to the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			persist, err := store.Load(nil)
			if err != nil {
				return err
			}

			r := stages.Add{
				Name:        args[0],
				Limit:       limit,
				Persistence: persist,
			}
			return r.Do(cmd.Context())
		},
	}
	addCmd.Flags().IntVar(&limit, "limit", 0, "advisory item limit for the stage, 0 for none")
	return addCmd
}

func newStagesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a stage, keeping its items and board slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			persist, err := store.Load(nil)
			if err != nil {
				return err
			}

			r := stages.Rename{
				From:        args[0],
				To:          args[1],
				Persistence: persist,
			}
			return r.Do(cmd.Context())
		},
	}
}

func newStagesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <stage>",
		Short: "Remove an empty stage from the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			persist, err := store.Load(nil)
			if err != nil {
				return err
			}

			r := stages.Remove{
				Name:        args[0],
				Persistence: persist,
			}
			return r.Do(cmd.Context())
		},
	}
}

func newStagesLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limit <stage> <n>",
		Short: "Set the advisory item limit for a stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			persist, err := store.Load(nil)
			if err != nil {
				return err
			}

			r := stages.Limit{
				Name:        args[0],
				Limit:       n,
				Persistence: persist,
			}
			return r.Do(cmd.Context())
		},
	}
}
