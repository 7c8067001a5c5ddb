package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Provision the isolated environment and print its state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := c.app.Provision(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println("interpreter: " + snapshot.InterpreterID)
			cmd.Println("fingerprint: " + snapshot.Fingerprint())
			cmd.Println(fmt.Sprintf("packages: %d", len(snapshot.Packages)))
			return nil
		},
	}
}
