package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gbk2gff3",
		Short:   "Convert GenBank flat files to GFF3",
		Long:    "gbk2gff3 converts GenBank flat files to GFF3, linking gene, mRNA and CDS features through their shared /locus_tag qualifiers.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.gbk2gff3.yaml if present. A missing config file is
// not an error; all keys have defaults.
func initConfig() {
	viper.SetDefault("source", "GenBank")
	viper.SetDefault("log.level", "warn")

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigName(".gbk2gff3")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	_ = viper.ReadInConfig()
}

// newLogger builds the stderr console logger used for skipped-feature
// warnings and progress messages.
func newLogger() *zap.Logger {
	level := zapcore.WarnLevel
	if l, err := zapcore.ParseLevel(viper.GetString("log.level")); err == nil {
		level = l
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
