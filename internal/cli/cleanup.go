package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCleanupCommand runs one janitor pass: expired sessions and stale
// comment cooldowns.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired sessions and stale cooldowns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := rootOpts.load()
			if err != nil {
				return err
			}
			a, err := openApp(contextOf(cmd), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			sessions, cooldowns, err := a.janitor().RunOnce(contextOf(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d sessions, %d cooldowns\n", sessions, cooldowns)
			return nil
		},
	}
}
