package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quaverlab/quaver/file"
	"github.com/quaverlab/quaver/validate"
)

var convertResolution int

func init() {
	convertCmd.Flags().IntVar(&convertResolution, "resolution", 0, "rescale to this resolution before writing")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Converts a music file between formats",
	Long:  `Converts a music file between formats, picked by file extension.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convert(args[0], args[1])
	},
}

func convert(in, out string) error {
	m, err := file.Read(in)
	if err != nil {
		return err
	}
	vs, err := validate.Check(m)
	if err != nil {
		return err
	}
	if len(vs) > 0 {
		fmt.Printf("Dropping %v invalid entries from %v\n", len(vs), in)
		if _, err := validate.RemoveInvalid(m); err != nil {
			return err
		}
	}
	if convertResolution > 0 {
		if err := m.AdjustResolution(convertResolution); err != nil {
			return err
		}
	}
	return file.Write(m, out)
}
