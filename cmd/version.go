package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags "-X ...cmd.version=v1.2.3".
var version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the webscan version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("webscan %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
