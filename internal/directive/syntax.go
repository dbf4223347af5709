package directive

import (
	"sort"
	"strings"
)

// matchDirective reports whether trimmed is `#<spaces><id>` followed by end
// of line or a `[...]` parameter list. The character after id must be `[`
// or nothing, so `gmFoo` never matches `gm`. Text after the closing bracket
// is ignored.
func matchDirective(trimmed, id string) (inner string, hasBracket bool, ok bool) {
	if id == "" || !strings.HasPrefix(trimmed, CommentMarker) {
		return "", false, false
	}
	rest := strings.TrimLeft(trimmed[len(CommentMarker):], " \t")
	if !strings.HasPrefix(rest, id) {
		return "", false, false
	}
	rest = rest[len(id):]
	if rest == "" {
		return "", false, true
	}
	if rest[0] != '[' {
		return "", false, false
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		// `id[` without a closing bracket: identifier still matches.
		return "", false, true
	}
	return rest[1:end], true, true
}

// parseBracket splits bracket content on commas. A part with `=` becomes a
// param (split at the first `=`, last key wins); otherwise a positional arg.
func parseBracket(inner string) ([]string, map[string]string) {
	args := []string{}
	params := map[string]string{}
	if strings.TrimSpace(inner) == "" {
		return args, params
	}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, found := strings.Cut(part, "="); found {
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
			continue
		}
		args = append(args, part)
	}
	return args, params
}

// IsDirectiveLine reports whether a line's trimmed form starts with
// `#<spaces><id>`. Unlike matchDirective it is a plain prefix test; it is
// what the command builder uses to strip directive lines from code.
func IsDirectiveLine(line, id string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, CommentMarker) {
		return false
	}
	rest := strings.TrimLeft(trimmed[len(CommentMarker):], " \t")
	return strings.HasPrefix(rest, id)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
