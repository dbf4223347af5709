package directive

import "strings"

// Parser scans documents for runnable blocks.
type Parser struct {
	// OpenFence defaults to DefaultOpenFence when empty.
	OpenFence string
}

// Parse scans text with the default fence.
func Parse(text string, identifiers []string) []Block {
	return Parser{}.Parse(text, identifiers)
}

// Parse returns every region carrying a recognized directive, in document
// order. Regions without a directive and unterminated regions are dropped.
// An open fence seen while already inside a region is kept as content.
func (p Parser) Parse(text string, identifiers []string) []Block {
	if len(identifiers) == 0 {
		return nil
	}
	open := p.OpenFence
	if open == "" {
		open = DefaultOpenFence
	}
	lines := SplitLines(text)
	var blocks []Block
	inside := false
	start := 0
	var content []string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inside && strings.HasPrefix(trimmed, open):
			inside = true
			start = i + 1
			content = content[:0]
		case inside && trimmed == CloseFence:
			inside = false
			if len(content) == 0 {
				continue
			}
			region := Region{
				Content:   strings.Join(content, "\n"),
				StartLine: start,
				EndLine:   i - 1,
			}
			if d, ok := findDirective(content, start, identifiers); ok {
				d.StartLine = region.StartLine
				d.EndLine = region.EndLine
				blocks = append(blocks, Block{Region: region, Directive: d})
			}
		case inside:
			content = append(content, line)
		}
	}
	return blocks
}

// SplitLines splits on "\n" and drops a trailing "\r" from each line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// findDirective returns the first directive line in content, scanning top to
// bottom and trying identifiers in order on each line.
func findDirective(content []string, startLine int, identifiers []string) (Directive, bool) {
	for i, line := range content {
		trimmed := strings.TrimSpace(line)
		for _, id := range identifiers {
			inner, hasBracket, ok := matchDirective(trimmed, id)
			if !ok {
				continue
			}
			d := Directive{
				Identifier: id,
				Line:       startLine + i,
				Args:       []string{},
				Params:     map[string]string{},
			}
			if hasBracket {
				d.Args, d.Params = parseBracket(inner)
			}
			return d, true
		}
	}
	return Directive{}, false
}
