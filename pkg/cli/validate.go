package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/welschmorgan/mocker/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a route file without starting the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return printResult(map[string]any{
			"config": configPath,
			"valid":  true,
			"routes": len(cfg.Routes),
		}, func() error {
			fmt.Printf("%s: OK (%d routes)\n", configPath, len(cfg.Routes))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
