package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Println(version.Get())
			return
		}
		fmt.Println(version.Build())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}
