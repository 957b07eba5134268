package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quaverlab/quaver/dataset"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <dir> [maxNum]",
	Short: "Creates a dataset manifest",
	Long:  `Scans a directory for music files and writes a dataset manifest into it.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 2 {
			arg1, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			maxNum = arg1
		}
		return Index(args[0], maxNum)
	},
}

// Index scans dir and saves a manifest; exported for the e2e tests.
func Index(dir string, maxNum int) error {
	m, err := dataset.Scan(dir, maxNum)
	if err != nil {
		return err
	}
	if err := m.Save(); err != nil {
		return err
	}
	fmt.Printf("Indexed %v files under %v\n", m.Len(), dir)
	return nil
}
