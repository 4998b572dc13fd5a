package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/bluesky/catalog-server-from-scratch/pkg/page"
	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

type pageFlags struct {
	offset int
	fields []string
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.offset, "offset", 0, "index of the first entry on the page")
	cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "attributes to include: metadata, structure, count")
}

func (f *pageFlags) parseFields() ([]page.Field, error) {
	fields := make([]page.Field, 0, len(f.fields))
	for _, s := range f.fields {
		field, err := page.ParseField(s)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (a *app) entriesCommand() *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "entries [path]",
		Short: "List one page of the entries under path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.servePage("entries", pathArg(args), &pf, nil)
		},
	}
	pf.register(cmd)
	return cmd
}

func (a *app) searchCommand() *cobra.Command {
	var (
		pf        pageFlags
		text      string
		queryJSON string
		queryFile string
	)
	cmd := &cobra.Command{
		Use:   "search [path]",
		Short: "Search the entries under path and list one page of matches",
		Long: `Search the entries under path and list one page of matches.

Queries are given either as plain words with --text, or as labeled JSON
envelopes with --query, for example:

  catalogctl search --query '{"query_type": "text", "query": {"text": "dog"}}'

An array of envelopes applies each query to the previous result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var queries []query.Query
			switch {
			case text != "" && (queryJSON != "" || queryFile != ""):
				return a.fail("search", errors.New("--text cannot be combined with --query or --query-file"))
			case text != "":
				queries = []query.Query{query.NewText(text)}
			default:
				data := []byte(queryJSON)
				if queryFile != "" {
					var err error
					if data, err = os.ReadFile(queryFile); err != nil {
						return a.fail("search", err)
					}
				}
				if len(data) == 0 {
					return a.fail("search", errors.New("one of --text, --query or --query-file is required"))
				}
				parsed, err := query.ParseJSON(data)
				if err != nil {
					return a.fail("search", err)
				}
				queries = parsed
			}
			return a.servePage("search", pathArg(args), &pf, queries)
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&text, "text", "", "full-text words, any of which must appear in an entry's metadata")
	cmd.Flags().StringVar(&queryJSON, "query", "", "labeled query JSON, a single envelope or an array")
	cmd.Flags().StringVar(&queryFile, "query-file", "", "read labeled query JSON from a file")
	return cmd
}

func (a *app) servePage(operation, path string, pf *pageFlags, queries []query.Query) error {
	fields, err := pf.parseFields()
	if err != nil {
		return a.fail(operation, err)
	}

	p, err := page.Entries(a.root, page.Request{
		Path:    path,
		Offset:  pf.offset,
		Limit:   a.cfg.PageLimit,
		Fields:  fields,
		Queries: queries,
	})
	if err != nil {
		return a.fail(operation, err)
	}

	kind := "keys"
	if len(fields) > 0 {
		kind = "items"
	}
	a.metrics.RecordPage(kind, len(p.Data))
	a.log.LogPage(path, pf.offset, a.cfg.PageLimit, len(p.Data), p.Total)

	if done, err := a.writeStructured(p, p.ToProto); done {
		return err
	}
	renderPage(a.out, p, fields)
	return nil
}
