package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/sieve/internal/catalog"
	"github.com/kailas-cloud/sieve/internal/catalog/books"
	"github.com/kailas-cloud/sieve/internal/db/memory"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
	"github.com/kailas-cloud/sieve/internal/domain/search/compile"
	"github.com/kailas-cloud/sieve/internal/domain/search/request"
	"github.com/kailas-cloud/sieve/internal/mapping"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
	"github.com/kailas-cloud/sieve/internal/version"
)

var (
	jsonOutput    bool
	maxLimit      int
	fullTextDepth int
	mappingFile   string
)

var rootCmd = &cobra.Command{
	Use:           "sievectl",
	Short:         "Inspect how sieve compiles search criteria",
	Version:       version.Get().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().IntVar(&maxLimit, "max-limit", request.MaxLimit, "page size cap")
	rootCmd.PersistentFlags().IntVar(&fullTextDepth, "fulltext-depth", schema.DefaultFullTextDepth,
		"full-text discovery depth")
	rootCmd.PersistentFlags().StringVar(&mappingFile, "mapping", "", "YAML file with extra field mappings")

	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(pathsCmd)
}

// workspace is the compiler side of a sieve server without any records behind it.
type workspace struct {
	reg     *schema.Registry
	catalog *catalog.Catalog
	search  *searchuc.Service
}

func newWorkspace() (*workspace, error) {
	reg := schema.NewRegistry(schema.WithFullTextDepth(fullTextDepth))
	table := mapping.New(mapping.WithIdentity(reg))
	for _, e := range books.Mapping() {
		table.Add(e.Surface, e.Storage, e.Fields)
	}
	if mappingFile != "" {
		if err := table.LoadFile(mappingFile); err != nil {
			return nil, err
		}
	}

	engine := memory.NewEngine(memory.NewStaticSource())
	cat := catalog.New()
	for _, col := range []catalog.Collection{
		{Name: books.Collection, Surface: books.BookType, Engine: engine},
		{
			Name:    books.ViewCollection,
			Surface: books.ListingType,
			Storage: books.BookType,
			Source:  books.Collection,
			Engine:  engine,
		},
	} {
		if err := cat.Register(col); err != nil {
			return nil, err
		}
	}
	return &workspace{
		reg:     reg,
		catalog: cat,
		search:  searchuc.New(cat, compile.New(reg), schema.NewTranslator(reg, table), nil),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
