package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/db/postgres"
	"github.com/kailas-cloud/sieve/internal/transport/dto"
)

var (
	explainCollection string
	explainFile       string
	explainPrefix     string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Compile a search request and print the predicate, rank and SQL",
	Long: `Reads a search request in the HTTP API's JSON format and prints what it
compiles to, without touching any data.

  sievectl explain --collection library --file req.json
  echo '{"keys":["Year"],"values":["2000"],"operator":"GT"}' | sievectl explain`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		body, err := readInput(cmd.InOrStdin(), explainFile)
		if err != nil {
			return err
		}
		var sr dto.SearchRequest
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sr); err != nil {
			return fmt.Errorf("parse request: %w", err)
		}
		req, err := sr.ToRequest(0, maxLimit)
		if err != nil {
			return err
		}

		ws, err := newWorkspace()
		if err != nil {
			return err
		}
		q, err := ws.search.Explain(cmd.Context(), explainCollection, &req)
		if err != nil {
			return err
		}
		sql, args, err := postgres.New(nil, explainPrefix).FindSQL(q)
		if err != nil {
			return fmt.Errorf("render sql: %w", err)
		}
		return writeExplain(cmd.OutOrStdout(), newExplanation(q, sql, args))
	},
}

func init() {
	explainCmd.Flags().StringVarP(&explainCollection, "collection", "c", "books", "collection to compile against")
	explainCmd.Flags().StringVarP(&explainFile, "file", "f", "-", "request file, - for stdin")
	explainCmd.Flags().StringVar(&explainPrefix, "table-prefix", "sieve_", "postgres table prefix for the rendered SQL")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return data, nil
}

// explanation is the printable form of a compiled query.
type explanation struct {
	Collection string   `json:"collection"`
	Predicate  string   `json:"predicate"`
	Params     []any    `json:"params"`
	Rank       string   `json:"rank,omitempty"`
	RankParams []any    `json:"rankParams,omitempty"`
	Order      []string `json:"order,omitempty"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
	SQL        string   `json:"sql"`
	SQLArgs    []any    `json:"sqlArgs"`
}

func newExplanation(q *db.Query, sql string, args []any) explanation {
	e := explanation{
		Collection: q.Collection,
		Predicate:  q.Predicate.Expr.String(),
		Params:     q.Predicate.Params,
		Offset:     q.Offset,
		Limit:      q.Limit,
		SQL:        sql,
		SQLArgs:    args,
	}
	if q.Rank != nil {
		e.Rank = q.Rank.Expr.String()
		e.RankParams = q.Rank.Params
	}
	for _, o := range q.Order {
		dir := "DESC"
		if o.Ascending {
			dir = "ASC"
		}
		e.Order = append(e.Order, o.Field.String()+" "+dir)
	}
	return e
}

func writeExplain(w io.Writer, e explanation) error {
	if jsonOutput {
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	fmt.Fprintf(w, "collection: %s\n", e.Collection)
	fmt.Fprintf(w, "predicate:  %s\n", e.Predicate)
	fmt.Fprintf(w, "params:     %s\n", formatParams(e.Params))
	if e.Rank != "" {
		fmt.Fprintf(w, "rank:       %s\n", e.Rank)
		fmt.Fprintf(w, "rankParams: %s\n", formatParams(e.RankParams))
	}
	if len(e.Order) > 0 {
		fmt.Fprintf(w, "order:      %s\n", strings.Join(e.Order, ", "))
	}
	fmt.Fprintf(w, "page:       offset %d limit %d\n", e.Offset, e.Limit)
	fmt.Fprintf(w, "sql:        %s\n", e.SQL)
	_, err := fmt.Fprintf(w, "sqlArgs:    %s\n", formatParams(e.SQLArgs))
	return err
}

func formatParams(params []any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("$%d=%v", i+1, p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
