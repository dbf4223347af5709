package lens

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/directive"
)

const oneBlock = "intro\n```python\n#mygm[a]\nprint(1)\n```\n"

func TestLenses_OnePerDirective(t *testing.T) {
	blocks := directive.Parse(oneBlock+"```python\n#mygm\nprint(2)\n```\n", []string{"mygm"})
	ls := Lenses("doc.md", blocks)
	require.Len(t, ls, 2)
	assert.Equal(t, 2, ls[0].Line)
	assert.Equal(t, 6, ls[1].Line)
	assert.Equal(t, RunTitle, ls[0].Title)
	assert.Equal(t, "doc.md", ls[0].Path)
	assert.Equal(t, []string{"a"}, ls[0].Block.Directive.Args)

	l, ok := At(ls, 6)
	require.True(t, ok)
	assert.Equal(t, "#mygm\nprint(2)", l.Block.Region.Content)
	_, ok = At(ls, 3)
	assert.False(t, ok)
}

func TestLoad_UsesStoreIdentifiers(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte(oneBlock), 0o644))

	ls, err := Load(doc, config.MapStore{Runners: map[string]config.Runner{"mygm": {}}})
	require.NoError(t, err)
	assert.Len(t, ls, 1)

	ls, err = Load(doc, config.MapStore{Runners: map[string]config.Runner{"other": {}}})
	require.NoError(t, err)
	assert.Empty(t, ls)
}

func TestWatcher_ReemitsOnDocumentChange(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte(oneBlock), 0o644))
	store := config.MapStore{Runners: map[string]config.Runner{"mygm": {}}}

	w, err := NewWatcher(func() ([]Lens, error) { return Load(doc, store) }, doc)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	first := waitUpdate(t, w)
	require.NoError(t, first.Err)
	assert.Len(t, first.Lenses, 1)

	require.NoError(t, os.WriteFile(doc, []byte(oneBlock+"```python\n#mygm\nprint(2)\n```\n"), 0o644))
	deadline := time.After(5 * time.Second)
	for {
		select {
		case u := <-w.Updates():
			if len(u.Lenses) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("no update with the new block")
		}
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(func() ([]Lens, error) { return nil, nil }, filepath.Join(t.TempDir(), "doc.md"))
	require.NoError(t, err)
	w.Stop()
	_, ok := <-w.Updates()
	assert.False(t, ok)
}

func waitUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u := <-w.Updates():
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	return Update{}
}
