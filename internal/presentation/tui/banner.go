package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art title to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Apple-pie reds fading to orange.
	lines := []struct {
		text  string
		color string
	}{
		{` ___                  _         _ `, "#f87171"},
		{`| __|__ __ _  _  ___ (_) __ _ (_)`, "#fb923c"},
		{`| _| \ \ /| || |(_-< | |/ _' || |`, "#fbbf24"},
		{`|___|/_\_\ \_,_|/__/ |_|\__,_||_|`, "#facc15"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
