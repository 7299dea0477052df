package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lyscore/render"
)

var flagDocument bool

func init() {
	renderCmd.Flags().BoolVar(&flagDocument, "document", false,
		"wrap the output in a complete .ly document")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <file.mid>",
	Short: "Render a midi file as LilyPond text on stdout",
	Long:  `Render a midi file as LilyPond text on stdout`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := renderFile(args[0])
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func renderFile(path string) (string, error) {
	settings, err := renderSettings()
	if err != nil {
		return "", err
	}
	part, err := loadPart(path)
	if err != nil {
		return "", err
	}
	text := part.RenderLilypond(settings)
	if flagDocument {
		text = render.Document(text, render.DefaultOptions())
	}
	return text, nil
}
