package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/spf13/cobra"
)

var flagInterval time.Duration

func init() {
	watchCmd.Flags().DurationVar(&flagInterval, "interval", 250*time.Millisecond,
		"how often to poll the file for changes")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <file.mid>",
	Short: "Re-render a midi file to .ly whenever it changes",
	Long:  `Re-render a midi file to .ly whenever it changes`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watch(args[0])
	},
}

func lyPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".ly"
}

func rerender(path string) {
	text, err := renderFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		return
	}
	out := lyPath(path)
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "could not write %v: %v\n", out, err)
		return
	}
	fmt.Printf("wrote %v\n", out)
}

// watch polls the file's mtime. Editors often touch the file several
// times per save, so renders go through a debouncer.
func watch(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()
	rerender(path)

	debounced := debounce.New(500 * time.Millisecond)
	ticker := time.NewTicker(flagInterval)
	defer ticker.Stop()

	for range ticker.C {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "stat failed: %v\n", err)
			continue
		}
		if info.ModTime().After(lastMod) {
			lastMod = info.ModTime()
			debounced(func() { rerender(path) })
		}
	}
	return nil
}
