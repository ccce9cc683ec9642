package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/standup/pkg/runner/ui"
	"tableflip.dev/standup/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive board",
		Example: `
standup ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			p, err := store.Load(cfg)
			if err != nil {
				return err
			}
			i := ui.UI{Persistence: p, Stages: cfg.Stages()}
			return i.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
