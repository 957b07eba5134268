package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quaverlab/quaver/file"
	"github.com/quaverlab/quaver/music"
	"github.com/quaverlab/quaver/repr"
)

var (
	encodeRepr       string
	encodeOut        string
	encodeHold       bool
	encodeVelocity   bool
	encodeStartEnd   bool
	encodeSingleOff  bool
	encodeEOS        bool
	encodeTimeShifts int
	encodeVelBins    int
)

func init() {
	encodeCmd.Flags().StringVar(&encodeRepr, "repr", "note", "representation: pitch, event, pianoroll or note")
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output file (stdout if empty)")
	encodeCmd.Flags().BoolVar(&encodeHold, "hold", false, "pitch: use a hold token for sustained steps")
	encodeCmd.Flags().BoolVar(&encodeVelocity, "velocity", false, "pianoroll: paint velocities instead of ones")
	encodeCmd.Flags().BoolVar(&encodeStartEnd, "start-end", false, "note: emit (pitch,start,end,velocity) rows")
	encodeCmd.Flags().BoolVar(&encodeSingleOff, "single-note-off", false, "event: one note-off code for all pitches")
	encodeCmd.Flags().BoolVar(&encodeEOS, "eos", false, "event: append an end-of-sequence code")
	encodeCmd.Flags().IntVar(&encodeTimeShifts, "time-shifts", 0, "event: number of time-shift codes")
	encodeCmd.Flags().IntVar(&encodeVelBins, "velocity-bins", 0, "event: number of velocity buckets")
	rootCmd.AddCommand(encodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Encodes a music file as a token array",
	Long:  `Encodes a music file as a token array, written as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := file.Read(args[0])
		if err != nil {
			return err
		}
		out, err := encodeMusic(m, encodeRepr)
		if err != nil {
			return err
		}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if encodeOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		return os.WriteFile(encodeOut, data, 0644)
	},
}

func encodeMusic(m *music.Music, name string) (any, error) {
	switch name {
	case "pitch":
		return repr.EncodePitch[int](m, repr.PitchConfig{UseHoldState: encodeHold})
	case "event":
		return repr.EncodeEvent[int](m, repr.EventConfig{
			UseSingleNoteOffEvent: encodeSingleOff,
			UseEndOfSequenceEvent: encodeEOS,
			NumTimeShifts:         encodeTimeShifts,
			NumVelocityBins:       encodeVelBins,
		})
	case "pianoroll":
		return repr.EncodePianoRoll[int](m, repr.PianoRollConfig{EncodeVelocity: encodeVelocity})
	case "note":
		return repr.EncodeNote[int](m, repr.NoteConfig{UseStartEnd: encodeStartEnd})
	default:
		return nil, fmt.Errorf("unknown representation %q", name)
	}
}
