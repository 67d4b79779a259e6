package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the formflow banner to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text  string
		color string
	}{
		{"  __                      __ _", "#818cf8"},
		{" / _| ___  _ __ _ __ ___ / _| | _____      __", "#a78bfa"},
		{"| |_ / _ \\| '__| '_ ` _ \\ |_| |/ _ \\ \\ /\\ / /", "#c084fc"},
		{"|  _| (_) | |  | | | | | |  _| | (_) \\ V  V /", "#e879f9"},
		{"|_|  \\___/|_|  |_| |_| |_|_| |_|\\___/ \\_/\\_/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
