package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/standup/pkg/commands/options"
	"tableflip.dev/standup/pkg/runner/move"
	"tableflip.dev/standup/pkg/store"
)

func addMove(topLevel *cobra.Command) {
	mo := &options.MoveOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "move <id> [stage]",
		Short: "Move an item to another stage or slot",
		Example: `
standup move 8f14e45f Doing
standup move 8f14e45f --top
standup move 8f14e45f Done --after 6512bd43
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires an item id")
			}
			io.ID = args[0]
			if len(args) > 1 {
				mo.Stage = strings.Join(args[1:], " ")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			p, err := store.Load(nil)
			if err != nil {
				return err
			}

			s := move.Move{
				ID:          io.ID,
				Stage:       mo.Stage,
				Before:      mo.Before,
				After:       mo.After,
				Top:         mo.Top,
				Bottom:      mo.Bottom,
				ShowID:      io.ShowID,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddMoveArgs(cmd, mo)
	options.AddShowIDArgs(cmd, io)

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
