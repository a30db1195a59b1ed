package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/waterfall/pkg/dataset"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/fonts"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// renderOpts holds the command-line flags for the render command.
// Only flags set explicitly override the config file.
type renderOpts struct {
	output    string  // output file path (or base path for multiple outputs)
	formats   string  // comma-separated output formats
	label     string  // y-axis label override
	x, y      string  // record field overrides
	width     float64 // viewport width in pixels
	height    float64 // viewport height in pixels
	style     string  // visual style: "flat" or "outline"
	padding   float64 // band padding in [0, 1)
	noNice    bool    // keep the raw data extent on the value axis
	tickCount int     // approximate number of value ticks
	scale     float64 // PNG scale factor
	font      string  // TrueType font for PNG text
	noCache   bool    // disable the cache entirely
	refresh   bool    // recompute even when cached
}

// renderCommand creates the render command for generating charts.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a dataset to SVG, PNG, PDF or JSON",
		Long: `Render a waterfall chart from a JSON or TOML dataset.

The dataset names the category and value fields of its records:

  {"label": "Earnings", "x": "month", "y": "earnings",
   "data": [{"month": "Jan", "earnings": 23}, {"month": "Feb", "earnings": -14}]}

Use "-" to read JSON from stdin. Flags override the config file.`,
		Example: `  waterfall render examples/earnings.json
  waterfall render data.toml -f svg,png -o charts/q3
  waterfall render data.json --style outline --width 1024 --height 640`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeOpts, err := c.pipelineOptions(cmd, &opts)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(cmd.Context(), "Rendering "+args[0])
			spinner.Start()
			paths, res, err := c.runRender(cmd.Context(), args[0], opts, pipeOpts)
			if err != nil {
				spinner.Stop()
				return err
			}
			spinner.Stop()

			out := c.status()
			out.success("Rendered %s", args[0])
			if res.Layout.Empty() {
				out.warning("Chart is empty: the frame leaves no room inside the margins")
			}
			out.stats(res.Stats.PointCount, len(res.Steps), res.CacheInfo.RenderHit)
			for _, p := range paths {
				out.file(p)
			}
			return nil
		},
	}

	opts.register(cmd.Flags())

	_ = cmd.RegisterFlagCompletionFunc("style", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return styles.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// register binds the render flags to ro.
func (ro *renderOpts) register(flags *pflag.FlagSet) {
	flags.StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	flags.StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	flags.StringVar(&ro.label, "label", "", "value axis label (default: dataset label)")
	flags.StringVar(&ro.x, "x", "", "category field name (default: dataset x)")
	flags.StringVar(&ro.y, "y", "", "value field name (default: dataset y)")
	flags.Float64Var(&ro.width, "width", pipeline.DefaultWidth, "frame width")
	flags.Float64Var(&ro.height, "height", pipeline.DefaultHeight, "frame height")
	flags.StringVar(&ro.style, "style", pipeline.DefaultStyle, "visual style: "+strings.Join(styles.Names(), ", "))
	flags.Float64Var(&ro.padding, "padding", 0, "band padding in [0, 1) (default 0.2)")
	flags.BoolVar(&ro.noNice, "no-nice", false, "do not round the value axis to nice numbers")
	flags.IntVar(&ro.tickCount, "ticks", 0, "approximate number of value ticks")
	flags.Float64Var(&ro.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	flags.StringVar(&ro.font, "font", "", "TrueType font file for PNG text")
	flags.BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&ro.refresh, "refresh", false, "recompute even if cached")
}

// pipelineOptions starts from the config file and applies the flags the
// user set explicitly.
func (c *CLI) pipelineOptions(cmd *cobra.Command, ro *renderOpts) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts, err := cfg.PipelineOptions()
	if err != nil {
		return pipeline.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Formats = parseFormats(ro.formats)
	}
	if flags.Changed("width") {
		opts.Width = ro.width
	}
	if flags.Changed("height") {
		opts.Height = ro.height
	}
	if flags.Changed("style") {
		opts.Style = ro.style
	}
	if flags.Changed("padding") {
		p := ro.padding
		opts.Padding = &p
	}
	if flags.Changed("no-nice") {
		opts.SkipNice = ro.noNice
	}
	if flags.Changed("ticks") {
		opts.TickCount = ro.tickCount
	}
	if flags.Changed("scale") {
		opts.Scale = ro.scale
	}
	if ro.font != "" {
		f, err := fonts.Load(ro.font)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Font = f
	}
	opts.Label, opts.X, opts.Y = ro.label, ro.x, ro.y
	opts.Refresh = ro.refresh
	opts.Logger = c.Logger
	return opts, nil
}

// runRender loads input, runs the pipeline and writes one file per format.
// It returns the written paths.
func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts, opts pipeline.Options) ([]string, *pipeline.Result, error) {
	logger := loggerFromContext(ctx)

	ds, err := loadDataset(input)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded dataset", "input", input, "points", len(ds.Data))

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		return nil, nil, err
	}

	paths := outputPaths(ro.output, input, opts.Formats)
	for _, format := range opts.Formats {
		if sameFile(paths[format], input) {
			return nil, nil, errors.New(errors.ErrCodeInvalidPath, "output %s would overwrite the input", paths[format])
		}
	}
	for _, format := range opts.Formats {
		if err := writeOutput(paths[format], res.Artifacts[format]); err != nil {
			return nil, nil, err
		}
	}
	prog.done("rendered", "formats", strings.Join(opts.Formats, ","))

	written := make([]string, len(opts.Formats))
	for i, format := range opts.Formats {
		written[i] = paths[format]
	}
	return written, res, nil
}

// loadDataset reads a dataset file, or JSON from stdin for "-".
func loadDataset(input string) (*dataset.Dataset, error) {
	if input == "-" {
		return dataset.ReadJSON(os.Stdin)
	}
	return dataset.Import(input)
}

// outputPaths maps each format to its output file.
// A single format writes to output verbatim; several formats share
// basePath(output, input) with per-format extensions.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// sameFile reports whether two paths name the same location.
func sameFile(a, b string) bool {
	if b == "-" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
