package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/standup/pkg/commands/options"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/runner/get"
	"tableflip.dev/standup/pkg/store"
)

func addGet(topLevel *cobra.Command) {
	so := &options.StageOptions{}
	io := &options.IDOptions{}
	wo := &options.WindowOptions{}

	long := strings.Builder{}
	long.WriteString("Get the board, or a filtered view of it.\n\n")
	long.WriteString("Kind and key:\n")

	validArgs := make([]string, 0, 0)

	for _, g := range glyph.DefaultGlyphs() {
		if g.Flag || strings.TrimSpace(g.Symbol) == "" {
			continue
		}
		long.WriteString(fmt.Sprintf("%s: %s, %s\n", g.Symbol, g.Meaning, g.Key))
		validArgs = append(validArgs, g.Meaning)
	}

	cmd := &cobra.Command{
		Use:   "get [kind]",
		Short: "get the board or a filtered view of it",
		Long:  long.String(),
		Example: `
standup get
standup get bugs --stage Doing
standup get --since 24h
standup get --stale 2w
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				so.Kind = glyph.Any
				return nil
			}
			if len(args) > 1 {
				return errors.New("too many arguments, expected one kind")
			}
			var err error
			so.Kind, err = glyph.ParseKind(strings.TrimSuffix(args[0], "s"))
			return err
		},
		ValidArgs: validArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:      io.ShowID,
				Kind:        so.Kind,
				Stage:       so.Stage,
				Since:       wo.Since,
				Stale:       wo.Stale,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddStageArgs(cmd, so)
	flagName := "stage"
	_ = cmd.RegisterFlagCompletionFunc(flagName, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return stageCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	options.AddWindowArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
