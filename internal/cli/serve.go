package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotcraft/pkg/observability/metrics"
	"github.com/matzehuels/plotcraft/pkg/pipeline"
	"github.com/matzehuels/plotcraft/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		noMetrics  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for the catalogue and the figure pipeline.

Configuration comes from an optional YAML file, overridden by PLOTCRAFT_*
environment variables, overridden by flags. Without a config file, figures
are cached under the local cache directory.`,
		Example: `  plotcraft serve --addr :9000
  PLOTCRAFT_CACHE_BACKEND=redis PLOTCRAFT_REDIS_URL=redis://localhost:6379/0 plotcraft serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfigWithEnvOverrides(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if cfg.Cache.Backend == server.BackendNone && configPath == "" && os.Getenv("PLOTCRAFT_CACHE_BACKEND") == "" {
				if dir, err := cacheDir(); err == nil {
					cfg.Cache.Backend = server.BackendFile
					cfg.Cache.Dir = filepath.Join(dir, "server")
				}
			}
			if cfg.Cache.Backend == server.BackendNone {
				c.Logger.Warn("cache backend is none; created figures cannot be fetched again")
			}

			store, keyer, err := cfg.Cache.Open(cmd.Context())
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, keyer, c.Logger)
			defer runner.Close()

			var collector *metrics.Collector
			if !noMetrics {
				collector = metrics.New(nil)
				collector.Install()
			}

			return server.New(*cfg, runner, collector, c.Logger).Start(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}
