package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quaver",
	Short: "Symbolic music toolkit",
	Long:  `Convert, validate and tokenize symbolic music files.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
