package main

import (
	"strings"

	"github.com/siherrmann/medgraph/core/generation"
	"github.com/siherrmann/medgraph/core/graph"
	"github.com/siherrmann/medgraph/core/grounding"
	"github.com/siherrmann/medgraph/core/retrieval"
	"github.com/siherrmann/medgraph/model"
	"github.com/spf13/cobra"
)

func newQueryCmd(opts *options) *cobra.Command {
	var useDB bool

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Answer a question from the knowledge graph",
		Long: `Answer a question from the knowledge graph.
Without --db the built-in medical device graph is queried in memory and nothing is recorded.
With --db the graph and the audit log in PostgreSQL are used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			if useDB {
				m, err := opts.openMedgraph(cmd)
				if err != nil {
					return err
				}
				defer closeQuietly(m)

				result, err := m.Query(cmd.Context(), question)
				if result != nil {
					if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil {
						return printErr
					}
				}
				return err
			}

			result, err := queryInMemory(cmd, opts, question)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&useDB, "db", false, "use the PostgreSQL graph configured via MEDGRAPH_DB_* variables")

	return cmd
}

func queryInMemory(cmd *cobra.Command, opts *options, question string) (*model.QueryResult, error) {
	logger := opts.logger(cmd)

	config, err := opts.engineConfig()
	if err != nil {
		return nil, err
	}

	generator, err := opts.generator(cmd, logger)
	if err != nil {
		return nil, err
	}

	engine, err := retrieval.NewEngine(
		graph.NewSeededMemoryStore(),
		generation.NewComposer(generator, config.Generation, logger),
		grounding.NewDetector(config.Detector),
		config,
		logger,
	)
	if err != nil {
		return nil, err
	}

	return engine.ProcessQuery(cmd.Context(), question)
}
