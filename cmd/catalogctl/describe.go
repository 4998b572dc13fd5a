package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bluesky/catalog-server-from-scratch/pkg/catalog"
	"github.com/bluesky/catalog-server-from-scratch/pkg/datasource"
	"github.com/bluesky/catalog-server-from-scratch/pkg/page"
	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

func (a *app) metadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata [path]",
		Short: "Describe the entry at path as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := page.Metadata(a.root, pathArg(args), page.AllFields())
			if err != nil {
				return a.fail("metadata", err)
			}
			if done, err := a.writeStructured(r, r.ToProto); done {
				return err
			}
			return writeJSON(a.out, r)
		},
	}
}

func (a *app) blockCommand() *cobra.Command {
	var block string
	cmd := &cobra.Command{
		Use:   "block <path>",
		Short: "Print one chunk of the array at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := catalog.Walk(a.root, args[0])
			if err != nil {
				return a.fail("block", err)
			}
			arr, ok := v.(*datasource.Array)
			if !ok {
				return a.fail("block", fmt.Errorf("%q is a %T, not an array", args[0], v))
			}
			index, err := parseBlockIndex(block)
			if err != nil {
				return a.fail("block", err)
			}
			if index == nil {
				index = make([]int, len(arr.Shape()))
			}
			b, err := arr.Block(index...)
			if err != nil {
				return a.fail("block", err)
			}
			if done, err := a.writeStructured(map[string]any{"shape": b.Shape(), "data": b.Read()}, nil); done {
				return err
			}
			renderBlock(a.out, b)
			return nil
		},
	}
	cmd.Flags().StringVar(&block, "block", "", "comma separated block index, e.g. 0,1 (default is the first block)")
	return cmd
}

func (a *app) shapesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the query shapes the catalog can search with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			searchable := a.registry.Shapes()
			decodable := query.Types()
			if done, err := a.writeStructured(map[string][]string{"search": searchable, "decode": decodable}, nil); done {
				return err
			}
			renderShapes(a.out, searchable, decodable)
			return nil
		},
	}
}

func parseBlockIndex(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	index := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid block index %q: %w", s, err)
		}
		index[i] = n
	}
	return index, nil
}
