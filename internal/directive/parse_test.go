package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = "# Title\n" +
	"\n" +
	"```python\n" +
	"#mygm[x, y=1]\n" +
	"print(1)\n" +
	"```\n" +
	"\n" +
	"```python\n" +
	"print('no directive')\n" +
	"```\n" +
	"```python\n" +
	"import os\n" +
	"# other[direct]\n" +
	"#mygm\n" +
	"print(os.getcwd())\n" +
	"```\n"

func TestParse_FindsAnnotatedRegions(t *testing.T) {
	blocks := Parse(sampleDoc, []string{"mygm", "other"})
	require.Len(t, blocks, 2)

	first := blocks[0]
	assert.Equal(t, 3, first.Region.StartLine)
	assert.Equal(t, 4, first.Region.EndLine)
	assert.Equal(t, "#mygm[x, y=1]\nprint(1)", first.Region.Content)
	assert.Equal(t, "mygm", first.Directive.Identifier)
	assert.Equal(t, 3, first.Directive.Line)
	assert.Equal(t, []string{"x"}, first.Directive.Args)
	assert.Equal(t, map[string]string{"y": "1"}, first.Directive.Params)
	assert.Equal(t, 3, first.Directive.StartLine)
	assert.Equal(t, 4, first.Directive.EndLine)

	second := blocks[1]
	assert.Equal(t, "other", second.Directive.Identifier, "first matching line wins, not first identifier")
	assert.Equal(t, 12, second.Directive.Line)
	assert.Equal(t, []string{"direct"}, second.Directive.Args)
}

func TestParse_RegionLineCountMatchesBounds(t *testing.T) {
	for _, b := range Parse(sampleDoc, []string{"mygm", "other"}) {
		n := len(SplitLines(b.Region.Content))
		assert.Equal(t, b.Region.EndLine-b.Region.StartLine+1, n)
		assert.LessOrEqual(t, b.Region.StartLine, b.Region.EndLine)
	}
}

func TestParse_Idempotent(t *testing.T) {
	ids := []string{"mygm", "other"}
	assert.Equal(t, Parse(sampleDoc, ids), Parse(sampleDoc, ids))
}

func TestParse_NoIdentifiersYieldsNothing(t *testing.T) {
	assert.Empty(t, Parse(sampleDoc, nil))
}

func TestParse_UnmatchedRegionDropped(t *testing.T) {
	doc := "```python\n#unknown[a]\nprint(1)\n```\n"
	assert.Empty(t, Parse(doc, []string{"mygm"}))
}

func TestParse_UnterminatedRegionDiscarded(t *testing.T) {
	doc := "```python\n#mygm\nprint(1)\n"
	assert.Empty(t, Parse(doc, []string{"mygm"}))
}

func TestParse_CloseOutsideIgnored(t *testing.T) {
	doc := "```\n```python\n#mygm\nprint(1)\n```\n"
	blocks := Parse(doc, []string{"mygm"})
	require.Len(t, blocks, 1)
	assert.Equal(t, 2, blocks[0].Region.StartLine)
}

func TestParse_NestedOpenKeptAsContent(t *testing.T) {
	doc := "```python\n#mygm\n```python\nprint(1)\n```\n"
	blocks := Parse(doc, []string{"mygm"})
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].Region.StartLine)
	assert.Equal(t, 3, blocks[0].Region.EndLine)
	assert.Equal(t, "#mygm\n```python\nprint(1)", blocks[0].Region.Content)
}

func TestParse_CRLF(t *testing.T) {
	doc := "```python\r\n#mygm[a]\r\nprint(1)\r\n```\r\n"
	blocks := Parse(doc, []string{"mygm"})
	require.Len(t, blocks, 1)
	assert.Equal(t, "#mygm[a]\nprint(1)", blocks[0].Region.Content)
}

func TestParse_CustomFence(t *testing.T) {
	doc := "```py\n#mygm\nprint(1)\n```\n"
	assert.Empty(t, Parse(doc, []string{"mygm"}))
	assert.Len(t, Parser{OpenFence: "```py"}.Parse(doc, []string{"mygm"}), 1)
}
