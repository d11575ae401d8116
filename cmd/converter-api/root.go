package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "converter-api",
	Short: "CAD conversion service",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}
