package cmd

import (
	"github.com/spf13/cobra"

	"ely.by/appearance/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts HTTP handler for the appearances storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer(di.ModuleSkinsystem, di.ModuleApi)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
