// SPDX-License-Identifier: MIT

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tianran/glimvec/internal/glog"
)

var (
	verbose bool
	logger  glog.Logger
)

// rootCmd is the base command; train and synth are registered against it
// from their own init functions.
var rootCmd = &cobra.Command{
	Use:   "glimvec-train",
	Short: "Train or synthesize knowledge-graph embeddings",
	Long: `glimvec-train fits knowledge-graph embeddings over a corpus of
(head, relation, tail) triples using noise-contrastive SGD.

It reads an entity vocabulary, a relation vocabulary and a triple file,
trains an embedding model in parallel across workers, and persists the
result. The synth subcommand generates deterministic synthetic triple
sets for exercising the trainer without a real corpus.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := glog.LevelInfo
		if verbose {
			level = glog.LevelDebug
		}
		logger = glog.New(level, os.Stderr)
		return nil
	},
}

// Execute runs the root command, exiting the process with status 1 on
// error, mirroring trainKB's non-zero exit on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// GetLogger returns the logger configured by the root command's
// PersistentPreRunE, falling back to a null logger when called before
// Execute (e.g. from a test invoking RunE directly).
func GetLogger() glog.Logger {
	if logger == nil {
		return glog.NullLogger{}
	}
	return logger
}

// BinName returns the base name of the current executable. No subcommand
// sets Example text, and nothing in this package calls it.
func BinName() string {
	return filepath.Base(os.Args[0])
}
