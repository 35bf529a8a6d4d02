package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jorvis/gbk2gff3/internal/build"
	"github.com/jorvis/gbk2gff3/internal/genbank"
	"github.com/jorvis/gbk2gff3/internal/store"
)

func newIndexCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Load a GenBank flat file into a DuckDB feature database",
		Long: `Load a GenBank flat file into a DuckDB feature database.

The same gene graphs written by convert are stored in a queryable
features table (molecule, id, parent_id, type, start, end_, strand,
phase, product).`,
		Example: `  gbk2gff3 index -i input.gbk -o features.duckdb
  duckdb features.duckdb "SELECT * FROM features WHERE type = 'gene'"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(inputPath, outputPath)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to an input GBK file ('-' for stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output DuckDB file path")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runIndex(inputPath, outputPath string) error {
	if ext := filepath.Ext(outputPath); ext != ".duckdb" && ext != ".db" {
		outputPath += ".duckdb"
	}

	// Start from an empty database on every run.
	if _, err := os.Stat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}

	parser, err := genbank.NewParser(inputPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	fs, err := store.Open(outputPath)
	if err != nil {
		return err
	}
	defer fs.Close()

	if err := fs.CreateSchema(); err != nil {
		return err
	}

	logger := newLogger()
	defer logger.Sync()

	builder := build.New(fs)
	builder.SetLogger(logger)
	if err := builder.Run(parser); err != nil {
		return err
	}

	count, err := fs.FeatureCount()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Indexed %d features from %d molecules into %s\n",
		count, builder.Registry().Len(), outputPath)
	return nil
}
