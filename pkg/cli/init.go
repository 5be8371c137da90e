package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/welschmorgan/mocker/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter route file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(configPath, config.Default(), initForce); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", configPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}
