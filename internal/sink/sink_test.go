package sink

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_ClearAndShow(t *testing.T) {
	var b Buffer
	b.AppendLine("old")
	b.Clear()
	b.Show()
	b.Append("a")
	b.AppendLine("b")
	assert.Equal(t, "ab\n", b.String())
	assert.Equal(t, 1, b.Shown())
}

func TestWriter_ConcurrentAppendsStayWhole(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.AppendLine("chunk")
		}()
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, lines, 20)
	for _, l := range lines {
		assert.Equal(t, "chunk", l)
	}
}
