package main

import (
	"log"

	"github.com/effectus/effectus-query/alias"
	"github.com/effectus/effectus-query/pathutil"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags
type rootOptions struct {
	Verbose bool
	Merge   string

	factory  alias.Factory
	strategy pathutil.MergeStrategy
}

func (o *rootOptions) loadFacts(paths []string) (*factsDocument, error) {
	facts, err := loadFacts(paths, o.strategy)
	if err != nil {
		return nil, err
	}
	o.logf("Loaded %d root facts from %v (merge %s)", len(facts.values), paths, o.strategy)
	return facts, nil
}

func (o *rootOptions) logf(format string, args ...interface{}) {
	if o.Verbose {
		log.Printf(format, args...)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{factory: alias.NewFactory()}

	cmd := &cobra.Command{
		Use:           "pathq",
		Short:         "Typed path queries over JSON facts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := pathutil.ParseMergeStrategy(opts.Merge)
			if err != nil {
				return err
			}
			opts.strategy = strategy
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed output")
	cmd.PersistentFlags().StringVar(&opts.Merge, "merge", string(pathutil.MergeFirst), "How several facts files are merged (first|last|error)")

	cmd.AddCommand(newPathsCommand(opts))
	cmd.AddCommand(newGetCommand(opts))
	cmd.AddCommand(newEvalCommand(opts))

	return cmd
}
