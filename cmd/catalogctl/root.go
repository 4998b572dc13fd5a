package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bluesky/catalog-server-from-scratch/internal/config"
	"github.com/bluesky/catalog-server-from-scratch/internal/logger"
	"github.com/bluesky/catalog-server-from-scratch/internal/metrics"
	"github.com/bluesky/catalog-server-from-scratch/internal/tree"
	"github.com/bluesky/catalog-server-from-scratch/pkg/catalog"
	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

// app is the state shared by every command of one invocation
type app struct {
	cfg      config.Config
	log      *logger.Logger
	gatherer *prometheus.Registry
	metrics  *metrics.Metrics
	registry *catalog.Registry
	root     *catalog.Catalog
	out      io.Writer
	errOut   io.Writer
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Browse a read-only catalog of arrays and nested collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(v, cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.flushMetrics()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	config.SetupFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		a.entriesCommand(),
		a.searchCommand(),
		a.metadataCommand(),
		a.blockCommand(),
		a.shapesCommand(),
	)
	return cmd
}

func (a *app) init(v *viper.Viper, cmd *cobra.Command) error {
	cfg, err := config.Load(v, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger.InitGlobalLogger(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: a.errOut,
	})
	a.log = logger.GetGlobalLogger().WithFields(map[string]interface{}{"command": cmd.Name()})
	if fn := v.ConfigFileUsed(); fn != "" {
		a.log.Info("Using config file").Str("file", fn).Send()
	}

	a.gatherer = prometheus.NewRegistry()
	a.metrics = metrics.NewMetrics(a.gatherer)

	a.registry = catalog.NewRegistry()
	a.registry.Register(query.TextType, catalog.FullTextSearch)
	a.registry.Observe(a.metrics)
	a.registry.Observe(logger.SearchObserver{Logger: a.log})

	source := "embedded"
	var stats tree.Stats
	if cfg.TreeFile != "" {
		source = cfg.TreeFile
		a.root, stats, err = tree.LoadFile(cfg.TreeFile, catalog.WithRegistry(a.registry))
	} else {
		a.root, stats, err = tree.Default(catalog.WithRegistry(a.registry))
	}
	if err != nil {
		a.log.LogFailure("load_tree", err)
		return err
	}
	a.log.LogTreeLoaded(source, stats.Collections, stats.Arrays)
	return nil
}

func (a *app) flushMetrics() error {
	if a.cfg.MetricsFile == "" || a.gatherer == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	a.log.Debug("Metrics written").Str("file", a.cfg.MetricsFile).Send()
	return nil
}

// fail logs err against operation and returns it for cobra
func (a *app) fail(operation string, err error) error {
	a.log.CatalogLogger(operation).LogFailure(operation, err)
	return err
}

// errorLine renders err with the gRPC status it maps to
func errorLine(err error) string {
	st := catalog.Status(err)
	return fmt.Sprintf("Error (%s): %s", st.Code(), st.Message())
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
