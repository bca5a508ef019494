package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotforge/pkg/cache"
	"github.com/matzehuels/dotforge/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path; derived from input when empty
	format   string  // output format: "svg", "png", "pdf", "dot"
	engine   string  // layout engine: "dot" or "neato"; empty picks by directedness
	scale    float64 // PNG scale factor; anything but 1.0 rasterizes via rsvg-convert
	external bool    // shell out to the system graphviz binary instead of rendering in-process
	noCache  bool    // skip the artifact cache
}

// newRenderCmd creates the render command for producing visual artifacts
// from a graph blob.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph blob to SVG, PNG, PDF, or DOT text",
		Long: `Render reads a graph blob (JSON), serializes it to DOT text, and produces
a visual artifact. Use "-" as the file argument to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, pdf, dot")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: dot, neato (default: by graph directedness)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1.0, "PNG scale factor, e.g. 2.0 for high-DPI output")
	cmd.Flags().BoolVar(&opts.external, "external", false, "use the system graphviz binary instead of rendering in-process")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the artifact cache")

	return cmd
}

// runRender loads the graph, serializes it, and writes the rendered artifact.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	g, err := readGraphFile(input)
	if err != nil {
		return err
	}
	nodes, edges := graphStats(g)
	logger.Debugf("Loaded graph: %d nodes, %d edges", nodes, edges)

	formatStr := opts.format
	if formatStr == "" {
		formatStr = cfg.Format
	}
	format, err := render.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	engine := render.DefaultEngine(g.Directed())
	if e := firstNonEmpty(opts.engine, cfg.Engine); e != "" {
		if engine, err = render.ParseEngine(e); err != nil {
			return err
		}
	}

	dotText, err := g.Serialize()
	if err != nil {
		return err
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = outputFor(input, string(format))
	}

	if format == render.FormatDOT {
		if err := os.WriteFile(outputPath, []byte(dotText), 0644); err != nil {
			return err
		}
		printSuccess("Wrote DOT text")
		printFile(outputPath)
		return nil
	}

	if opts.external {
		return renderExternal(ctx, dotText, outputPath, format, engine)
	}

	data, cached, err := renderCached(ctx, cfg, dotText, format, engine, opts.scale, opts.noCache)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return err
	}

	status := "rendered"
	if cached {
		status = "cached"
	}
	prog.done(fmt.Sprintf("Generated %s (%s, %s)", outputPath, engine, status))
	printFile(outputPath)
	return nil
}

// renderCached renders through the configured artifact cache.
func renderCached(ctx context.Context, cfg *Config, dotText string, format render.Format, engine render.Engine, scale float64, noCache bool) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)

	var c cache.Cache = cache.NewNullCache()
	if !noCache {
		var err error
		if c, err = openCache(ctx, cfg); err != nil {
			return nil, false, err
		}
	}
	defer c.Close()

	key := artifactKeyFor(dotText, format, engine, scale)
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		logger.Debugf("Cache hit for %s", key)
		return data, true, nil
	}

	spin := newSpinner(ctx, fmt.Sprintf("Rendering %s with %s", format, engine))
	spin.Start()
	var data []byte
	var err error
	if scaledPNG(format, scale) {
		data, err = render.RenderScaledPNG(ctx, dotText, engine, scale)
	} else {
		data, err = render.Render(ctx, dotText, format, engine)
	}
	spin.Stop()
	if err != nil {
		return nil, false, err
	}

	if err := c.Set(ctx, key, data, cfg.CacheTTL.Duration); err != nil {
		logger.Warn("cache write failed", "error", err)
	}
	return data, false, nil
}

// scaledPNG reports whether the scaled rasterization path applies: it is a
// PNG-only affair, and scale 1.0 means the native renderer.
func scaledPNG(format render.Format, scale float64) bool {
	return format == render.FormatPNG && scale > 0 && scale != 1.0
}

// artifactKeyFor builds the cache key for a render. The scale factor only
// participates when it changes the artifact.
func artifactKeyFor(dotText string, format render.Format, engine render.Engine, scale float64) string {
	formatKey := string(format)
	if scaledPNG(format, scale) {
		formatKey = fmt.Sprintf("%s@%.2f", format, scale)
	}
	return cache.ArtifactKey(dotText, formatKey, string(engine))
}

// renderExternal writes the DOT text to a temp file and runs the system
// graphviz binary on it. With --verbose the failure carries the captured
// process output.
func renderExternal(ctx context.Context, dotText, outputPath string, format render.Format, engine render.Engine) error {
	tmp, err := os.CreateTemp("", "dotforge-*.dot")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(dotText); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := render.RenderFile(ctx, tmp.Name(), outputPath, format, engine, verbose); err != nil {
		return err
	}
	printSuccess("Generated %s", outputPath)
	printFile(outputPath)
	return nil
}

// outputFor derives the output path from the input path and format.
func outputFor(input, format string) string {
	if input == "-" {
		return "graph." + format
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
