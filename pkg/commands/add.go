package commands

import (
	"context"
	"fmt"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/standup/pkg/commands/options"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/runner/add"
	"tableflip.dev/standup/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add something to the board",
		Example: `
standup add task fix the flaky deploy
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addKind(cmd, glyph.Task, "Add a task")
	addKind(cmd, glyph.Bug, "Add a bug")
	addKind(cmd, glyph.Chore, "Add a chore")
	addKind(cmd, glyph.Spike, "Add a spike")

	topLevel.AddCommand(cmd)
}

func addKind(topLevel *cobra.Command, kind glyph.Kind, short string) {
	no := &options.TitleOptions{}
	fo := &options.FlagOptions{}
	so := &options.StageOptions{}
	io := &options.IDOptions{}

	noun := kind.Glyph().Meaning

	cmd := &cobra.Command{
		Use:   noun,
		Short: short,
		Example: fmt.Sprintf(`
standup add %s do this thing
`, noun),
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return fmt.Errorf("requires a %s title", noun)
			}
			no.Title = strings.Join(args, " ")

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			p, err := store.Load(nil)
			if err != nil {
				return err
			}

			s := add.Add{
				Kind:        kind,
				Persistence: p,
				Title:       no.Title,
				Stage:       so.Stage,
				Priority:    fo.Priority,
				Blocked:     fo.Blocked,
				Question:    fo.Question,
				ShowID:      io.ShowID,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddFlagArgs(cmd, fo)
	options.AddStageArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)

	flagName := "stage"
	_ = cmd.RegisterFlagCompletionFunc(flagName, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return stageCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
