package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jorvis/gbk2gff3/internal/build"
	"github.com/jorvis/gbk2gff3/internal/genbank"
	"github.com/jorvis/gbk2gff3/internal/gff"
)

func newConvertCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		source     string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a GenBank flat file to GFF3",
		Long: `Convert a GenBank flat file to GFF3.

Parent/child relationships are reconstructed from the shared /locus_tag
convention: each gene's mRNA and CDS features must follow it in the file.
Multi-entry files are supported. Unrecognized feature types are skipped
with a warning.`,
		Example: `  gbk2gff3 convert -i input.gbk -o output.gff3
  gbk2gff3 convert -i input.gbk.gz -o output.gff3
  cat input.gbk | gbk2gff3 convert -i - -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				source = viper.GetString("source")
			}
			logger := newLogger()
			defer logger.Sync()
			return runConvert(inputPath, outputPath, source, logger)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to an input GBK file ('-' for stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to an output GFF file to be created ('-' for stdout)")
	cmd.Flags().StringVar(&source, "source", "", "GFF3 source column (default from config, GenBank)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(inputPath, outputPath, source string, logger *zap.Logger) error {
	parser, err := genbank.NewParser(inputPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	var out io.Writer
	if outputPath == "-" {
		out = os.Stdout
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writer := gff.NewWriter(out)
	writer.SetSource(source)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	builder := build.New(writer)
	builder.SetLogger(logger)
	if err := builder.Run(parser); err != nil {
		return err
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	logger.Info("conversion complete",
		zap.Int("molecules", builder.Registry().Len()),
		zap.String("output", outputPath))
	return nil
}
