package plan

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

const (
	phScriptPath = "{scriptPath}"
	phArgs       = "{args}"
	phCode       = "{code}"
)

type templateValues struct {
	scriptPath string
	code       string
	args       []string
}

// expandTemplate splits the template into shell words first and substitutes
// placeholders inside each word afterwards, so substituted values are never
// re-parsed. A word that is exactly {args} becomes one argv entry per
// argument; a word left empty by substitution is dropped. Environment
// references in the template ($HOME) are expanded from the process env.
func expandTemplate(tpl string, v templateValues) ([]string, error) {
	words, err := shell.Fields(tpl, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid command template %q: %w", tpl, err)
	}
	argv := make([]string, 0, len(words)+len(v.args))
	for _, w := range words {
		if w == phArgs {
			argv = append(argv, v.args...)
			continue
		}
		hadPlaceholder := strings.Contains(w, phScriptPath) || strings.Contains(w, phArgs) || strings.Contains(w, phCode)
		w = strings.ReplaceAll(w, phScriptPath, v.scriptPath)
		w = strings.ReplaceAll(w, phCode, v.code)
		w = strings.ReplaceAll(w, phArgs, strings.Join(v.args, " "))
		if w == "" && hadPlaceholder {
			continue
		}
		argv = append(argv, w)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

// commandLine renders argv for display, quoting words that need it.
func commandLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(a)
		}
		parts[i] = q
	}
	return strings.Join(parts, " ")
}
