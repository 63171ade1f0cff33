package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// UserCreateOptions holds flags for user create.
type UserCreateOptions struct {
	*RootOptions
	Username string
	Email    string
	Password string
}

// NewUserCommand groups member administration.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage members",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			a, err := openApp(contextOf(cmd), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.auth.Register(contextOf(cmd), opts.Username, opts.Email, opts.Password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", u.ID, u.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "", "username (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
