// Package cli implements the plotcraft command-line interface.
//
// # Commands
//
//   - plot: Build a chart spec into JSON or HTML, optionally watching for edits
//   - validate: Check one value against the attribute catalogue
//   - schema: List, browse or graph the attribute catalogue
//   - charts: List the chart constructors
//   - serve: Run the HTTP API
//   - cache: Manage the local figure cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotcraft/pkg/buildinfo"
	"github.com/matzehuels/plotcraft/pkg/cache"
	"github.com/matzehuels/plotcraft/pkg/express"
	"github.com/matzehuels/plotcraft/pkg/pipeline"
	"github.com/matzehuels/plotcraft/pkg/render"
)

// appName is the application name used for directories and display.
const appName = "plotcraft"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI whose logger also receives deprecation notices.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	express.SetNoticeHandler(func(d express.Deprecation) {
		c.Logger.Warn(d.String())
	})
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "plotcraft builds validated plotly figures from tabular data",
		Long:         `plotcraft turns a chart spec and a CSV or JSON table into a plotly figure, checking every attribute against a typed catalogue before writing JSON or a standalone HTML page.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.plotCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.chartsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/plotcraft/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats splits a comma-separated format list. Empty means the
// spec's own formats.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// outputPath names the file written for one format. A single format goes
// to output verbatim; several share its base name.
func outputPath(output, specPath, format string, formats int) string {
	if output == "" {
		base := strings.TrimSuffix(specPath, filepath.Ext(specPath))
		return base + render.Ext(format)
	}
	if formats == 1 {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + render.Ext(format)
}
