// Package render wraps rendered score text into a complete LilyPond
// document and drives the external lilypond binary for previews.
package render

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Version pins the \version statement of emitted documents.
const Version = "2.24"

// Options size the preview image.
type Options struct {
	// WidthPx and HeightPx of the preview, converted to paper size.
	WidthPx  uint32
	HeightPx uint32
	DPI      uint32
	// Binary is the lilypond executable. Empty means "lilypond" from
	// PATH.
	Binary string
}

func DefaultOptions() Options {
	return Options{WidthPx: 300, HeightPx: 100, DPI: 101}
}

func (o Options) binary() string {
	if o.Binary == "" {
		return "lilypond"
	}
	return o.Binary
}

// pixelsToMM converts a pixel size to paper millimeters at the given
// dpi. Very low dpi values fall back to a 10 dots/mm screen.
func pixelsToMM(w, h, dpi uint32) (uint32, uint32) {
	dpm := uint32(10)
	if dpi > 50 {
		dpm = dpi * 100 / 254
	}
	return w * 10 / dpm, h * 10 / dpm
}

// Document wraps score text into a minimal headless .ly document.
func Document(body string, opts Options) string {
	w, h := pixelsToMM(opts.WidthPx, opts.HeightPx, opts.DPI)
	var b strings.Builder
	fmt.Fprintf(&b, "\\version %q\n", Version)
	b.WriteString("\\paper{\n")
	b.WriteString("  indent=0\\mm\n")
	b.WriteString("  oddFooterMarkup=##f\n")
	b.WriteString("  oddHeaderMarkup=##f\n")
	b.WriteString("  bookTitleMarkup = ##f\n")
	b.WriteString("  scoreTitleMarkup = ##f\n")
	fmt.Fprintf(&b, "  #(set-paper-size '(cons (* %d mm) (* %d mm)))\n", w, h)
	b.WriteString("}\n")
	fmt.Fprintf(&b, "{%s}\n", body)
	return b.String()
}

// Preview renders the document to a png next to outPath (extension
// replaced). The document is piped through lilypond's stdin; a fresh
// name under the temp dir is used when outPath is empty.
func Preview(body string, outPath string, opts Options) (string, error) {
	if outPath == "" {
		outPath = filepath.Join(os.TempDir(), "lyscore-"+uuid.NewString())
	}
	output := strings.TrimSuffix(outPath, filepath.Ext(outPath))

	cmd := exec.Command(
		opts.binary(),
		"--output="+output,
		"--png",
		"-dbackend=eps",
		"-dno-gs-load-fonts",
		"-dinclude-eps-fonts",
		"-ddelete-intermediate-files",
		fmt.Sprintf("-dresolution=%d", opts.DPI),
		"-s",
		"-",
	)
	cmd.Stdin = strings.NewReader(Document(body, opts))
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		fmt.Fprint(os.Stderr, string(out))
	}
	if err != nil {
		return "", fmt.Errorf("lilypond failed: %w", err)
	}
	return output + ".png", nil
}
