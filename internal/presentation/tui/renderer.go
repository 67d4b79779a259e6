package tui

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/aretw0/formflow/pkg/domain"
)

// Renderer turns markdown into terminal output.
type Renderer func(string) (string, error)

// NewRenderer returns a renderer that styles markdown using glamour.
func NewRenderer() Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return PlainRenderer
	}
	return r.Render
}

// PlainRenderer returns markdown unchanged.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}

// RendererFor picks glamour when w is a terminal and the plain renderer otherwise.
func RendererFor(w io.Writer) Renderer {
	if IsTerminal(w) {
		return NewRenderer()
	}
	return PlainRenderer
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// StateMarkdown describes a session record as markdown.
func StateMarkdown(key string, state domain.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Session `%s`\n\n", key)
	fmt.Fprintf(&sb, "Initialized: **%t**\n\n", state.Initialized)

	sb.WriteString("## Variables\n\n")
	if len(state.Variables) == 0 {
		sb.WriteString("_none_\n\n")
	} else {
		sb.WriteString("| Name | Value |\n|---|---|\n")
		for _, k := range sortedKeys(state.Variables) {
			fmt.Fprintf(&sb, "| %s | %s |\n", k, cell(fmt.Sprint(state.Variables[k])))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Form\n\n")
	if len(state.Form) == 0 {
		sb.WriteString("_none_\n")
	} else {
		sb.WriteString("| Field | Value |\n|---|---|\n")
		for _, k := range sortedKeys(state.Form) {
			fmt.Fprintf(&sb, "| %s | %s |\n", k, cell(state.Form[k]))
		}
	}
	return sb.String()
}

// TitlesMarkdown describes an archive list as markdown.
func TitlesMarkdown(titles []domain.Title) string {
	if len(titles) == 0 {
		return "_The archive is empty._\n"
	}
	var sb strings.Builder
	sb.WriteString("| # | Title | ID |\n|---|---|---|\n")
	for i, t := range titles {
		title := t.Title
		if t.Subtitle != "" {
			title += " (" + t.Subtitle + ")"
		}
		fmt.Fprintf(&sb, "| %d | %s | `%s` |\n", i+1, cell(title), t.ID)
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// cell keeps a value on one table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
