package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	dferrors "github.com/matzehuels/dotforge/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"SVG", FormatSVG, false},
		{"png", FormatPNG, false},
		{"pdf", FormatPDF, false},
		{"dot", FormatDOT, false},
		{"jpeg", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tt.in)
			}
			if !dferrors.Is(err, dferrors.ErrCodeInvalidFormat) {
				t.Errorf("ParseFormat(%q): expected INVALID_FORMAT, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEngine(t *testing.T) {
	if e, err := ParseEngine("NEATO"); err != nil || e != EngineNeato {
		t.Errorf("ParseEngine(NEATO) = %q, %v", e, err)
	}
	if _, err := ParseEngine("sfdp"); !dferrors.Is(err, dferrors.ErrCodeInvalidEngine) {
		t.Errorf("expected INVALID_ENGINE, got %v", err)
	}
}

func TestDefaultEngine(t *testing.T) {
	if got := DefaultEngine(true); got != EngineDot {
		t.Errorf("DefaultEngine(directed) = %q, want dot", got)
	}
	if got := DefaultEngine(false); got != EngineNeato {
		t.Errorf("DefaultEngine(undirected) = %q, want neato", got)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatSVG, "image/svg+xml"},
		{FormatPNG, "image/png"},
		{FormatPDF, "application/pdf"},
		{FormatDOT, "text/vnd.graphviz"},
	}
	for _, tt := range tests {
		if got := tt.format.ContentType(); got != tt.want {
			t.Errorf("%s.ContentType() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := "digraph G {\n    a -> b;\n}\n"
	out, err := Render(context.Background(), dot, FormatDOT, EngineDot)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != dot {
		t.Errorf("dot passthrough changed the text:\n%s", out)
	}
}

func TestConvertErrorCoded(t *testing.T) {
	// Whether rsvg-convert is missing from PATH or rejects the input, the
	// failure surfaces as a render error.
	_, err := ToPNG([]byte("not an svg document"), 2.0)
	if err == nil {
		t.Skip("rsvg-convert accepted invalid input")
	}
	if !dferrors.Is(err, dferrors.ErrCodeRenderFailed) {
		t.Errorf("error code = %v, want %v", dferrors.GetCode(err), dferrors.ErrCodeRenderFailed)
	}
}

func TestProcessError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ProcessError{Cmd: "dot -Tsvg -o out.svg in.dot", Output: "syntax error near line 3", Err: cause}

	msg := err.Error()
	for _, want := range []string{"dot -Tsvg", "exit status 1", "syntax error near line 3"} {
		if !strings.Contains(msg, want) {
			t.Errorf("ProcessError message missing %q: %s", want, msg)
		}
	}
	if !errors.Is(err, cause) {
		t.Error("ProcessError should unwrap to its cause")
	}
}
