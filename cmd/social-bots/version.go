package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of social-bots",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("social-bots %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
