package graph

import (
	"fmt"
	"strings"

	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// Overlay contains dynamic data to visualize on the graph.
type Overlay struct {
	// Highlight lists node paths (as returned by PathString) to emphasize,
	// e.g. the branch of the last pull.
	Highlight []string
}

// sized is implemented by leaf payloads that hold several outcomes.
type sized interface {
	Len() int
}

// GenerateMermaid produces a Mermaid flowchart of the tree rooted at root.
// It applies semantic styling:
// - Root: ((Circle))
// - Leaf: [[Subroutine]]
// - Branch: [Rectangle]
// Edges are labelled with the child's probability.
func GenerateMermaid(root *probtree.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root.Walk(func(depth int, node *probtree.Node) bool {
		id := sanitizeMermaidID(node.PathString())
		label := node.Name()
		if label == "" {
			label = node.PathString()
		}
		if s, ok := node.Value().(sized); ok && node.IsLeaf() {
			label = fmt.Sprintf("%s (%d)", label, s.Len())
		}
		label = strings.ReplaceAll(label, "\"", "'")

		opener, closer := "[", "]"
		switch {
		case depth == 0:
			opener, closer = "((", "))"
		case node.IsLeaf():
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

		if parent := node.Parent(); parent != nil && depth > 0 {
			arrow := fmt.Sprintf("-- \"%s\" -->", node.Probability())
			if node.Probability().IsZero() {
				arrow = fmt.Sprintf("-. \"%s\" .->", node.Probability())
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(parent.PathString()), arrow, id)
		}
		return true
	})

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, p := range overlay.Highlight {
			id := sanitizeMermaidID(p)
			if !seen[id] {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s highlight;\n", id)
			}
		}
	}

	return sb.String()
}

// sanitizeMermaidID turns a node path into an identifier. The root path
// "/" becomes "root"; "/6/up" becomes "n_6_up".
func sanitizeMermaidID(path string) string {
	if path == "/" || path == "" {
		return "root"
	}
	s := strings.ReplaceAll(path, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "#", "i")
	s = strings.ReplaceAll(s, " ", "_")
	return "n" + s
}
