// Package render turns serialized DOT text into visual artifacts.
//
// Rendering is in-process via go-graphviz by default. An external-binary
// path is also available for installations where the system `dot` is
// preferred, see [RenderFile]. SVG output can be converted to PDF or PNG
// with rsvg-convert, see [ToPDF] and [ToPNG].
//
// Rendering never retries. A failed render is reported once and left to the
// caller.
package render

import (
	"bytes"
	"context"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dotforge/pkg/errors"
)

// Format identifies an output artifact format.
type Format string

// Supported output formats.
const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/vnd.graphviz"
	}
}

// Engine identifies a Graphviz layout engine.
type Engine string

// Supported layout engines.
const (
	EngineDot   Engine = "dot"
	EngineNeato Engine = "neato"
)

// ParseEngine validates an engine name.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(strings.ToLower(s)); e {
	case EngineDot, EngineNeato:
		return e, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidEngine, "unknown layout engine: %s", s)
	}
}

// DefaultEngine picks the layout engine for a graph: dot for directed
// graphs, neato for undirected ones.
func DefaultEngine(directed bool) Engine {
	if directed {
		return EngineDot
	}
	return EngineNeato
}

func (e Engine) layout() graphviz.Layout {
	if e == EngineNeato {
		return graphviz.NEATO
	}
	return graphviz.DOT
}

// Render lays out DOT text and produces an artifact in the given format.
//
// FormatDOT is a passthrough: the input text is returned unchanged.
// FormatPDF renders to SVG first and converts with rsvg-convert.
func Render(ctx context.Context, dotText string, format Format, engine Engine) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dotText), nil
	case FormatSVG:
		return renderGraphviz(ctx, dotText, graphviz.SVG, engine)
	case FormatPNG:
		return renderGraphviz(ctx, dotText, graphviz.PNG, engine)
	case FormatPDF:
		svg, err := renderGraphviz(ctx, dotText, graphviz.SVG, engine)
		if err != nil {
			return nil, err
		}
		return ToPDF(svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
}

// RenderScaledPNG produces a PNG at the given scale factor. The graph is
// laid out to SVG first and rasterized with rsvg-convert, which honors
// fractional scale factors where the native rasterizer cannot.
func RenderScaledPNG(ctx context.Context, dotText string, engine Engine, scale float64) ([]byte, error) {
	svg, err := renderGraphviz(ctx, dotText, graphviz.SVG, engine)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}

func renderGraphviz(ctx context.Context, dotText string, format graphviz.Format, engine Engine) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(engine.layout())

	g, err := graphviz.ParseBytes([]byte(dotText))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
