package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/welschmorgan/mocker/pkg/config"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes declared in the route file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		rows := make([]map[string]any, 0, len(cfg.Routes))
		for _, spec := range cfg.Routes {
			format := spec.Format
			if format == "" {
				format = "json"
			}
			rows = append(rows, map[string]any{
				"method": spec.Method,
				"path":   spec.Path,
				"status": spec.Status,
				"format": format,
			})
		}

		return printResult(rows, func() error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tSTATUS\tFORMAT")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", row["method"], row["path"], row["status"], row["format"])
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
