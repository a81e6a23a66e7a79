package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and print the session token",
		Long: `Log in with the configured credentials and print the session token.

Export it as PUTER_TOKEN to skip the login step on later runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.newClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.close()

			if err := c.session.Login(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.session.Token())
			return nil
		},
	}
}
