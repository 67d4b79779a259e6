package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/formflow/pkg/domain"
)

// entryNode stands for the landing page, which has no file of its own in the config.
const entryNode = "landing"

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	CurrentPage string
}

// GenerateMermaid produces a Mermaid flowchart of the statically known page graph:
// the landing page's start_page, each step's next_step_fallback and the archive summary page.
// Webhook-provided next_step values are decided at runtime and cannot be drawn.
// Shapes:
// - Landing: ((Circle))
// - Summary page: [[Subroutine]]
// - Page with request variables: [/Parallelogram/]
// - Default: [Rectangle]
func GenerateMermaid(cfg *domain.FlowConfig, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if cfg == nil {
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", entryNode, entryNode))

	pages := make([]string, 0, len(cfg.StepsByPage))
	for page := range cfg.StepsByPage {
		pages = append(pages, page)
	}
	slices.Sort(pages)

	declared := make(map[string]bool, len(pages))
	for _, page := range pages {
		declared[page] = true
		opener, closer := "[", "]"
		if len(cfg.StepsByPage[page].RequestVariables) > 0 {
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(page), opener, page, closer))
	}

	if start := cfg.Initialization.StartPage; start != "" {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", entryNode, sanitizeMermaidID(start)))
	}

	for _, page := range pages {
		fallback := cfg.StepsByPage[page].NextStepFallback
		if fallback == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -. \"fallback\" .-> %s\n", sanitizeMermaidID(page), sanitizeMermaidID(fallback)))
	}

	if summary := cfg.Archive.SummaryPage; summary != "" {
		safe := sanitizeMermaidID(summary)
		if !declared[summary] {
			sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", safe, summary))
		}
		sb.WriteString(fmt.Sprintf("    archive{{\"archive\"}} -. \"select\" .-> %s\n", safe))
	}

	if overlay != nil && overlay.CurrentPage != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentPage)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
