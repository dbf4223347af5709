package watch

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/flarebyte/fencerun/internal/directive"
	"github.com/flarebyte/fencerun/internal/lens"
)

func sampleLenses() []lens.Lens {
	b := directive.Block{Directive: directive.Directive{Identifier: "gm", Line: 4, Args: []string{"fast"}}}
	return lens.Lenses("doc.md", []directive.Block{b})
}

func TestWriteUpdateText(t *testing.T) {
	var buf bytes.Buffer
	if err := writeUpdate(&buf, lens.Update{Lenses: sampleLenses()}, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "1 runnable block(s)\n") {
		t.Fatalf("unexpected header: %q", got)
	}
	if !strings.Contains(got, "line 5: gm fast") {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestWriteUpdateJSONError(t *testing.T) {
	var buf bytes.Buffer
	if err := writeUpdate(&buf, lens.Update{Err: errors.New("boom")}, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"lenses":[],"error":"boom"}` {
		t.Fatalf("unexpected json: %q", got)
	}
}
