package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/iqcapture"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of iqcapture",
	Run: func(cmd *cobra.Command, args []string) {
		skipPause = true
		fmt.Fprintf(cmd.OutOrStdout(), "iqcapture version %s\n", strings.TrimSpace(iqcapture.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
