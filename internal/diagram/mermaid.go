package diagram

import (
	"fmt"
	"strings"
)

// Mermaid renders the export as a top-down Mermaid flowchart with one
// edge per "uses" relation whose target is known.
func Mermaid(export *Export) string {
	lines := []string{"graph TD;"}
	ids := map[string]string{}

	for i, obj := range export.Objects {
		ids[obj.Name] = fmt.Sprintf("obj_%d", i+1)
	}

	unresolved := 0
	for _, name := range export.Unresolved {
		if name == "" {
			continue
		}
		if _, ok := ids[name]; ok {
			continue
		}
		unresolved++
		id := fmt.Sprintf("unresolved_%d", unresolved)
		ids[name] = id
		lines = append(lines, fmt.Sprintf(`%s["%s (Unresolved)"]`, id, label(name)))
	}

	for _, obj := range export.Objects {
		id := ids[obj.Name]
		lines = append(lines, fmt.Sprintf(`%s["%s"]`, id, label(obj.Name)))
		for _, target := range append(append([]string{}, obj.Uses...), obj.Unresolved...) {
			if to, ok := ids[target]; ok {
				lines = append(lines, id+" --> "+to)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// label escapes the characters Mermaid cannot take inside a quoted label.
func label(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
