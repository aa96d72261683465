package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathsCollection string

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the default full-text paths of a collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := newWorkspace()
		if err != nil {
			return err
		}
		col, err := ws.catalog.Get(cmd.Context(), pathsCollection)
		if err != nil {
			return err
		}
		for _, p := range ws.reg.FullTextPaths(col.Storage) {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	pathsCmd.Flags().StringVarP(&pathsCollection, "collection", "c", "books", "collection to inspect")
}
