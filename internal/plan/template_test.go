package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTemplate(t *testing.T) {
	cases := []struct {
		name string
		tpl  string
		vals templateValues
		want []string
	}{
		{
			name: "default template",
			tpl:  "python {scriptPath} {args}",
			vals: templateValues{scriptPath: "gm.py", args: []string{"a", "--k=v"}},
			want: []string{"python", "gm.py", "a", "--k=v"},
		},
		{
			name: "quoted script path keeps spaces",
			tpl:  `python "{scriptPath}" {args}`,
			vals: templateValues{scriptPath: "my tools/gm.py"},
			want: []string{"python", "my tools/gm.py"},
		},
		{
			name: "argument values are never re-parsed",
			tpl:  "run {args}",
			vals: templateValues{args: []string{"{code}", "a b", "$HOME"}},
			want: []string{"run", "{code}", "a b", "$HOME"},
		},
		{
			name: "embedded args placeholder joins",
			tpl:  "run --flags={args}",
			vals: templateValues{args: []string{"a", "b"}},
			want: []string{"run", "--flags=a b"},
		},
		{
			name: "empty script path dropped",
			tpl:  "python {scriptPath} {code}",
			vals: templateValues{},
			want: []string{"python"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := expandTemplate(tc.tpl, tc.vals)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExpandTemplate_Empty(t *testing.T) {
	_, err := expandTemplate("{scriptPath} {args}", templateValues{})
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestCommandLine_QuotesWhenNeeded(t *testing.T) {
	got := commandLine([]string{"python", "my file.py"})
	assert.Equal(t, "python 'my file.py'", got)
}
