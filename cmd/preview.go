package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lyscore/constants"
	"lyscore/render"
)

var (
	flagOut    string
	flagWidth  uint32
	flagHeight uint32
	flagDPI    uint32
)

func init() {
	f := previewCmd.Flags()
	f.StringVarP(&flagOut, "out", "o", "", "output png path (default: temp file)")
	f.Uint32Var(&flagWidth, "width", 300, "preview width in pixels")
	f.Uint32Var(&flagHeight, "height", 100, "preview height in pixels")
	f.Uint32Var(&flagDPI, "dpi", 101, "preview resolution")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <file.mid>",
	Short: "Render a midi file to a png via lilypond",
	Long:  `Render a midi file to a png via lilypond`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := renderSettings()
		if err != nil {
			return err
		}
		part, err := loadPart(args[0])
		if err != nil {
			return err
		}
		opts := render.Options{
			WidthPx:  flagWidth,
			HeightPx: flagHeight,
			DPI:      flagDPI,
			Binary:   constants.GetLilypondBinary(),
		}
		png, err := render.Preview(part.RenderLilypond(settings), flagOut, opts)
		if err != nil {
			return err
		}
		fmt.Println(png)
		return nil
	},
}
