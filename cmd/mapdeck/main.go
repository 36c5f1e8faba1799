// mapdeck is a terminal harness for a map editing plugin's lifecycle:
// panels of map surfaces that can be added, removed and reset, each with a
// plugin attachment that only exists while its surface is ready.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"mapdeck/internal/config"
	"mapdeck/internal/logging"
	"mapdeck/internal/mapstyle"
	"mapdeck/internal/surface"
	"mapdeck/internal/tiles"
	"mapdeck/internal/trace"
	"mapdeck/internal/ui"
)

const eventLogCapacity = 200

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var (
		configPath string
		noTiles    bool
	)

	root := &cobra.Command{
		Use:   "mapdeck",
		Short: "Exercise a map editing plugin across a grid of map panels",
		Long: `mapdeck shows a grid of map panels. Each panel attaches the editing
plugin once its map has loaded, and detaches it when the plugin is turned
off or the panel is removed.

Keys: SPC a add, SPC X remove all, SPC R reset, SPC l event log,
e plugin, s remove sources, d remove, p draw point, tab focus, q quit.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noTiles {
				v.Set("tiles.enabled", false)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mapdeck/config.toml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "log file (default $XDG_STATE_HOME/mapdeck/mapdeck.log)")
	flags.BoolVar(&noTiles, "no-tiles", false, "do not fetch raster tiles")
	flags.String("style", "", "map style file (YAML or JSON)")
	bindFlag(v, "log.level", root, "log-level")
	bindFlag(v, "log.file", root, "log-file")
	bindFlag(v, "map.style_file", root, "style")

	root.AddCommand(newStyleCmd(v, &configPath))
	return root
}

// bindFlag binds a flag to a viper key; only an explicitly set flag
// overrides the file and environment.
func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

func newStyleCmd(v *viper.Viper, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "style",
		Short: "Print the effective map style as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *configPath)
			if err != nil {
				return err
			}
			style, err := mapstyle.Load(cfg.Map.StyleFile)
			if err != nil {
				return err
			}
			out, err := mapstyle.Marshal(style)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	style, err := mapstyle.Load(cfg.Map.StyleFile)
	if err != nil {
		return err
	}

	tp, err := trace.NewProvider(ctx, trace.ProviderConfig{
		Endpoint:    cfg.Otel.Endpoint,
		ServiceName: cfg.Otel.ServiceName,
		Insecure:    cfg.Otel.Insecure,
	})
	if err != nil {
		return fmt.Errorf("tracer provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	events := trace.NewEventLog(eventLogCapacity)
	rec := trace.NewRecorder(tp, events, logger)

	var (
		fetcher   surface.TileFetcher
		tileCache *tiles.Fetcher
	)
	if cfg.Tiles.Enabled {
		tileCache = tiles.NewFetcher(nil, cfg.Tiles.Timeout, cfg.Tiles.UserAgent)
		fetcher = tileCache
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := ui.DefaultOptions()
	opts.Context = ctx
	opts.Style = style
	opts.Latitude = cfg.Map.Latitude
	opts.Zoom = cfg.Map.Zoom
	opts.LongitudeSpread = cfg.Map.LongitudeSpread
	opts.PluginEnabled = cfg.Panel.PluginEnabled
	opts.RemoveSources = cfg.Panel.RemoveSources
	opts.Fetcher = fetcher
	opts.Recorder = rec

	logger.Info("starting mapdeck",
		zap.Bool("tiles", cfg.Tiles.Enabled),
		zap.String("style_file", cfg.Map.StyleFile),
		zap.String("otel_endpoint", cfg.Otel.Endpoint))

	p := tea.NewProgram(ui.NewAppModel(opts).AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	exitFields := []zap.Field{}
	if tileCache != nil {
		exitFields = append(exitFields, zap.Int("cached_tiles", tileCache.Cached()))
	}
	logger.Info("mapdeck exited", exitFields...)
	return nil
}
