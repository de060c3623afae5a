package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/siherrmann/medgraph"
	"github.com/siherrmann/medgraph/core/generation"
	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by all commands
type options struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "medgraph",
		Short:         "Graph-grounded answers for medical device support questions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "engine configuration YAML file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(
		newQueryCmd(opts),
		newSeedCmd(opts),
		newFeedbackCmd(opts),
		newReportCmd(opts),
	)

	return rootCmd
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(helper.NewPrettyHandler(cmd.ErrOrStderr(), helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	}))
}

func (o *options) engineConfig() (model.EngineConfig, error) {
	if o.configPath == "" {
		return model.DefaultEngineConfig(), nil
	}
	return model.LoadEngineConfig(o.configPath)
}

func (o *options) generator(cmd *cobra.Command, logger *slog.Logger) (generation.Generator, error) {
	config, err := generation.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return generation.NewGenerator(cmd.Context(), config, logger)
}

// openMedgraph connects to the database configured in the environment
func (o *options) openMedgraph(cmd *cobra.Command) (*medgraph.Medgraph, error) {
	logger := o.logger(cmd)

	engineConfig, err := o.engineConfig()
	if err != nil {
		return nil, err
	}

	generator, err := o.generator(cmd, logger)
	if err != nil {
		return nil, err
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, err
	}

	return medgraph.NewMedgraphWithLogger(dbConfig, engineConfig, generator, logger)
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func closeQuietly(m *medgraph.Medgraph) {
	if err := m.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "closing database: %v\n", err)
	}
}
