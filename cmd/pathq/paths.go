package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/effectus/effectus-query/alias"
	"github.com/effectus/effectus-query/path"
	"github.com/effectus/effectus-query/pathutil"
	"github.com/spf13/cobra"
)

func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths <facts.json>...",
		Short: "List the typed path of every fact",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			facts, err := opts.loadFacts(args)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range slices.Sorted(maps.Keys(facts.values)) {
				if err := writePaths(w, opts.factory, pathutil.ForVariable(name), facts.values[name]); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}

// lengthed is implemented by the array paths
type lengthed interface {
	Len() int
}

func writePath(w io.Writer, p path.Path) {
	if a, ok := p.(lengthed); ok {
		fmt.Fprintf(w, "%s\t%s\tlen=%d\n", p, p.Type(), a.Len())
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", p, p.Type())
}

// writePaths writes the path for v and, for objects and mixed arrays, the
// paths below it
func writePaths(w io.Writer, f alias.Factory, md pathutil.Metadata, v interface{}) error {
	switch v := v.(type) {
	case nil:
		fmt.Fprintf(w, "%s\tnull\n", md)
		return nil
	case map[string]interface{}:
		p, err := f.CreateEntity(md, v)
		if err != nil {
			return err
		}
		writePath(w, p)
		for _, key := range slices.Sorted(maps.Keys(v)) {
			if err := writePaths(w, f, pathutil.ForProperty(md, key), v[key]); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		p, err := f.CreateList(md, v)
		if err != nil {
			return err
		}
		writePath(w, p)
		for i, e := range v {
			if err := writePaths(w, f, pathutil.ForListAccess(md, i), e); err != nil {
				return err
			}
		}
		return nil
	default:
		p, err := f.Create(md, v)
		if err != nil {
			return err
		}
		writePath(w, p)
		return nil
	}
}

var errPathNotFound = errors.New("path not found")

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> <facts.json>...",
		Short: "Show the typed path and value at a path",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := pathutil.Parse(args[0])
			if err != nil {
				return err
			}
			facts, err := opts.loadFacts(args[1:])
			if err != nil {
				return err
			}

			result := pathutil.Lookup(facts.raw, md)
			if !result.Exists() {
				return fmt.Errorf("%s: %w", md, errPathNotFound)
			}
			opts.logf("Resolved %s as gjson path %s", md, md.GJSONPath())

			p, err := opts.factory.Create(md, normalize(result.Value()))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n", p, p.Type(), result.Raw)
			return w.Flush()
		},
	}
}
