package plan

import (
	"strings"

	"github.com/flarebyte/fencerun/internal/directive"
)

// StripDirective drops every line that starts with `#<id>` once trimmed and
// returns the remaining code, trimmed.
func StripDirective(content, id string) string {
	lines := directive.SplitLines(content)
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if directive.IsDirectiveLine(l, id) {
			continue
		}
		kept = append(kept, l)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
