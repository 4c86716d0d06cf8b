package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/pipeline"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 200 * time.Millisecond

type plotOpts struct {
	output    string
	formats   string
	title     string
	plotlyURL string
	strict    bool
	noCache   bool
	refresh   bool
	watch     bool
}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	var opts plotOpts

	cmd := &cobra.Command{
		Use:   "plot <spec>",
		Short: "Build a chart spec into a figure",
		Long: `Build a chart spec (TOML, YAML or JSON) into a plotly figure.

The spec names a chart constructor, a data file or inline columns, and the
chart's options. Every attribute of the resulting figure is checked against
the schema catalogue before anything is written.`,
		Example: `  plotcraft plot population.toml
  plotcraft plot population.yaml -f json,html -o out/population
  plotcraft plot population.toml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return c.watchPlot(cmd.Context(), args[0], opts)
			}
			return c.runPlot(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: spec name with format extension)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: json, html (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "HTML page title")
	cmd.Flags().StringVar(&opts.plotlyURL, "plotly-url", "", "plotly.js script URL for HTML output")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject attributes missing from the catalogue")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even when cached")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild when the spec or its data changes")

	return cmd
}

func (c *CLI) runPlot(ctx context.Context, specPath string, opts plotOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	_, err = c.plotOnce(ctx, runner, specPath, opts)
	return err
}

// plotOnce runs the pipeline once and writes every artifact.
func (c *CLI) plotOnce(ctx context.Context, runner *pipeline.Runner, specPath string, opts plotOpts) (*pipeline.Result, error) {
	prog := newProgress(c.Logger)

	res, err := runner.Execute(ctx, pipeline.Options{
		SpecPath:  specPath,
		Strict:    opts.strict,
		Refresh:   opts.refresh,
		Formats:   parseFormats(opts.formats),
		Title:     opts.title,
		PlotlyURL: opts.plotlyURL,
		Logger:    c.Logger,
	})
	if err != nil {
		reportPlotError(err)
		return nil, err
	}

	formats := make([]string, 0, len(res.Artifacts))
	for f := range res.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	var written []string
	for _, f := range formats {
		path := outputPath(opts.output, specPath, f, len(formats))
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	prog.done(fmt.Sprintf("Built %s figure", res.Spec.Chart))
	printSuccess("Plotted %s", StyleHighlight.Render(res.Spec.Chart))
	printStats(res.Stats.Rows, res.Stats.Traces, res.CacheInfo.FigureHit)
	for _, p := range written {
		printFile(p)
	}
	return res, nil
}

// reportPlotError lists each violation on its own line.
func reportPlotError(err error) {
	var vs errors.Violations
	if errors.Is(err, errors.ErrCodeConstraintViolation) && asViolations(err, &vs) {
		printError("%d attribute(s) rejected", len(vs))
		for _, v := range vs {
			printDetail("%s", v.Error())
		}
	}
}

// watchPlot rebuilds the spec each time it or its data file is written,
// until ctx is cancelled. Build errors are reported and watching goes on.
func (c *CLI) watchPlot(ctx context.Context, specPath string, opts plotOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories rather than files: editors often replace the file
	// on save, which drops a file watch.
	watched := map[string]bool{}
	targets := map[string]bool{}
	addTarget := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if watched[dir] {
			return nil
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = true
		return nil
	}
	if err := addTarget(specPath); err != nil {
		return err
	}

	rebuild := func() {
		res, err := c.plotOnce(ctx, runner, specPath, opts)
		if err != nil {
			c.Logger.Error("build failed", "error", err)
			return
		}
		if p := res.Spec.DataPath(); p != "" {
			if err := addTarget(p); err != nil {
				c.Logger.Warn("cannot watch data", "path", p, "error", err)
			}
		}
	}

	rebuild()
	printNewline()
	printInfo("Watching %s for changes (ctrl+c to stop)", specPath)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			c.Logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		case <-debounce:
			debounce = nil
			rebuild()
		}
	}
}
