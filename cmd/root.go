package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lyscore/frac"
	"lyscore/midi"
	"lyscore/model"
	"lyscore/parse"
	"lyscore/pitch"
	"lyscore/score"
)

var (
	flagKey   string
	flagScale string
	flagStart string
	flagEnd   string
)

var rootCmd = &cobra.Command{
	Use:   "lyscore",
	Short: "Render MIDI files as LilyPond scores",
	Long: `lyscore reads standard MIDI files and converts them into
LilyPond source text: notes, chords, tuplets, ties and notation
markings, split into measures per the file's time signatures.`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagKey, "key", "c", "key signature tonic (c, cis, des, ...)")
	pf.StringVar(&flagScale, "scale", "major", "key signature scale (major, minor)")
	pf.StringVar(&flagStart, "start", "0", "range start in whole notes (e.g. 4 or 7/2)")
	pf.StringVar(&flagEnd, "end", "", "range end in whole notes, defaults to end of file")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func renderSettings() (score.RenderSettings, error) {
	key, err := pitch.ParseKey(flagKey, flagScale)
	if err != nil {
		return score.RenderSettings{}, err
	}
	return score.RenderSettings{Key: key}, nil
}

// loadPart runs the full pipeline on one midi file with the range
// taken from the flags.
func loadPart(path string) (*score.Part, error) {
	smfFile, err := midi.ReadFile(path)
	if err != nil {
		return nil, err
	}
	events, err := midi.ExtractEvents(smfFile)
	if err != nil {
		return nil, err
	}

	start, err := frac.Parse(flagStart)
	if err != nil {
		return nil, fmt.Errorf("bad --start: %w", err)
	}
	end := events.End
	if flagEnd != "" {
		if end, err = frac.Parse(flagEnd); err != nil {
			return nil, fmt.Errorf("bad --end: %w", err)
		}
	}
	return parse.Part(events, model.TimeRange{Start: start, End: end})
}
