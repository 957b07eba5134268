package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quaverlab/quaver/file"
	"github.com/quaverlab/quaver/music"
	"github.com/quaverlab/quaver/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Prints a summary of a music file",
	Long:  `Prints a summary of a music file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := file.Read(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("title: %v\n", m.Metadata.Title)
		fmt.Printf("source format: %v\n", m.Metadata.SourceFormat)
		fmt.Printf("resolution: %v\n", m.Resolution)
		fmt.Printf("end time: %v\n", m.EndTime())
		fmt.Printf("tempos: %v\n", len(m.Tempos))
		fmt.Printf("key signatures: %v\n", len(m.KeySignatures))
		fmt.Printf("time signatures: %v\n", len(m.TimeSignatures))
		fmt.Printf("lyrics: %v\n", len(m.Lyrics))
		fmt.Printf("tracks: %v\n", len(m.Tracks))
		for i, t := range m.Tracks {
			drum := ""
			if t.IsDrum {
				drum = " (drums)"
			}
			fmt.Printf("  [%v] program=%v%v notes=%v chords=%v name=%q%v\n",
				i, t.Program, drum, len(t.Notes), len(t.Chords), t.Name, pitchRange(t))
		}
		return nil
	},
}

// pitchRange formats the lowest and highest pitch in the track, or "" when
// it has no notes.
func pitchRange(t music.Track) string {
	if len(t.Notes) == 0 {
		return ""
	}
	lo, hi := t.Notes[0].Pitch, t.Notes[0].Pitch
	for _, n := range t.Notes[1:] {
		lo = util.Min(lo, n.Pitch)
		hi = util.Max(hi, n.Pitch)
	}
	return fmt.Sprintf(" pitches=%d-%d", lo, hi)
}
