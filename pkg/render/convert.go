package render

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/dotforge/pkg/errors"
)

// rsvgBinary is the external converter used for SVG rasterization. Provided
// by librsvg (apt install librsvg2-bin, brew install librsvg).
const rsvgBinary = "rsvg-convert"

// ToPDF converts an SVG artifact to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG rasterizes an SVG artifact to PNG at the given scale factor. Scale
// 2.0 doubles the pixel dimensions, suitable for high-DPI displays.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

// rsvgConvert pipes the SVG through rsvg-convert, capturing stderr so a
// conversion failure surfaces with the converter's own diagnostics.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(rsvgBinary); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err,
			"%s conversion needs %s (librsvg) on PATH", format, rsvgBinary)
	}

	cmd := exec.Command(rsvgBinary, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err,
			"%s %s: %s", rsvgBinary, format, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
