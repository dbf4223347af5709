// Package directive finds fenced code regions in Markdown text and parses the
// run directive embedded in them.
package directive

// DefaultOpenFence opens a region when a trimmed line starts with it.
const DefaultOpenFence = "```python"

// CloseFence closes a region when a trimmed line is exactly it.
const CloseFence = "```"

// CommentMarker prefixes a directive line.
const CommentMarker = "#"

// Region is a contiguous run of content lines between an open and a close
// fence. StartLine and EndLine are 0-based and inclusive.
type Region struct {
	Content   string `json:"content"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// Directive is the parsed run annotation found inside a Region.
type Directive struct {
	Identifier string            `json:"identifier"`
	Line       int               `json:"line"`
	Args       []string          `json:"args"`
	Params     map[string]string `json:"params"`
	StartLine  int               `json:"startLine"`
	EndLine    int               `json:"endLine"`
}

// Block pairs a region with the directive that makes it runnable.
type Block struct {
	Region    Region    `json:"region"`
	Directive Directive `json:"directive"`
}

// ArgString renders positional args then params as `--key=value`, all space
// separated. Params are emitted in sorted key order.
func (d Directive) ArgString() string {
	return joinArgs(d.ArgList())
}

// ArgList is ArgString before joining.
func (d Directive) ArgList() []string {
	out := make([]string, 0, len(d.Args)+len(d.Params))
	out = append(out, d.Args...)
	for _, k := range sortedKeys(d.Params) {
		out = append(out, "--"+k+"="+d.Params[k])
	}
	return out
}

// Direct reports whether the directive asks for direct interpreter execution.
func (d Directive) Direct() bool {
	if d.Params["direct"] == "true" {
		return true
	}
	for _, a := range d.Args {
		if a == "direct" {
			return true
		}
	}
	return false
}
