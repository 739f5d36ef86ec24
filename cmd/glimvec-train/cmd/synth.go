// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tianran/glimvec/kbfixture"
	"github.com/tianran/glimvec/kgraph"
	"github.com/tianran/glimvec/vocab"
)

var (
	synthWidth   uint32
	synthRels    uint32
	synthOutDir  string
	synthSeed    uint64
	synthClique  uint32
	synthChain   uint32
	synthSparseP float64
)

// synthCmd writes a deterministic synthetic (entity, relation, triple)
// vocabulary to disk in the same TSV shape train expects, composing
// kbfixture constructors per the flags given.
var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate a deterministic synthetic knowledge-base fixture",
	Args:  cobra.NoArgs,
	RunE:  runSynth,
}

func init() {
	rootCmd.AddCommand(synthCmd)

	synthCmd.Flags().Uint32Var(&synthWidth, "entities", 16, "number of synthetic entities")
	synthCmd.Flags().Uint32Var(&synthRels, "relations", 1, "number of synthetic relations")
	synthCmd.Flags().StringVar(&synthOutDir, "outDir", "", "directory to write vocab_entity.tsv, vocab_relation.tsv and train.tsv (required)")
	synthCmd.Flags().Uint64Var(&synthSeed, "seed", 1, "RNG seed for RandomSparse edge selection")
	synthCmd.Flags().Uint32Var(&synthChain, "chain", 0, "chain the first N entities in sequence (0 disables)")
	synthCmd.Flags().Uint32Var(&synthClique, "clique", 0, "fully connect the first N entities (0 disables)")
	synthCmd.Flags().Float64Var(&synthSparseP, "sparse", 0, "per-pair edge probability over the whole entity universe (0 disables)")
	synthCmd.MarkFlagRequired("outDir")
}

func runSynth(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	var cons []kbfixture.Constructor
	if synthChain > 0 {
		cons = append(cons, kbfixture.Chain(synthChain))
	}
	if synthClique > 0 {
		cons = append(cons, kbfixture.Clique(synthClique))
	}
	if synthSparseP > 0 {
		cons = append(cons, kbfixture.RandomSparse(synthSparseP))
	}
	if len(cons) == 0 {
		return fmt.Errorf("synth: no constructor selected (pass --chain, --clique, and/or --sparse)")
	}

	ents, rels, triples, err := kbfixture.Build(synthWidth, synthRels, []kbfixture.Option{kbfixture.WithSeed(synthSeed)}, cons...)
	if err != nil {
		return fmt.Errorf("synth: building fixture: %w", err)
	}

	if err := os.MkdirAll(synthOutDir, 0o755); err != nil {
		return fmt.Errorf("synth: creating output directory: %w", err)
	}
	if err := writeEntities(filepath.Join(synthOutDir, "vocab_entity.tsv"), ents); err != nil {
		return err
	}
	if err := writeRelations(filepath.Join(synthOutDir, "vocab_relation.tsv"), rels); err != nil {
		return err
	}
	if err := writeTriples(filepath.Join(synthOutDir, "train.tsv"), triples, ents, rels); err != nil {
		return err
	}

	log.Info("wrote %d entities, %d relations, %d triples to %s", len(ents.Names), len(rels.Names), len(triples), synthOutDir)
	return nil
}

func writeEntities(path string, ents *vocab.Entities) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i, name := range ents.Names {
		fmt.Fprintf(w, "%s\t%g\n", name, ents.Counts[i])
	}
	return w.Flush()
}

func writeRelations(path string, rels *vocab.Relations) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, name := range rels.Names {
		fmt.Fprintf(w, "%s\n", name)
	}
	return w.Flush()
}

func writeTriples(path string, triples []kgraph.Triple, ents *vocab.Entities, rels *vocab.Relations) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, t := range triples {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ents.Names[t.Head], rels.Names[t.Relation], ents.Names[t.Tail])
	}
	return w.Flush()
}
