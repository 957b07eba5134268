package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quaverlab/quaver/file"
	"github.com/quaverlab/quaver/validate"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Reports semantic problems in a music file",
	Long:  `Reports semantic problems in a music file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := file.Read(args[0])
		if err != nil {
			return err
		}
		vs, err := validate.Check(m)
		if err != nil {
			return err
		}
		if len(vs) == 0 {
			fmt.Println("OK")
			return nil
		}
		for _, v := range vs {
			fmt.Println(v)
		}
		return fmt.Errorf("%d violations", len(vs))
	},
}
